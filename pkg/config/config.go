// Package config holds the solver configuration, read from an optional YAML
// file and the environment.
package config

// Config is the root application configuration.
type Config struct {
	Solver     SolverConfig     `yaml:"solver"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Cache      CacheConfig      `yaml:"cache"`
	Log        LogConfig        `yaml:"log"`
}

// SolverConfig tunes guess selection and games.
type SolverConfig struct {
	WordLength         int    `yaml:"word_length"         env:"SOLVER_WORD_LENGTH"         env-default:"5"`
	CandidateThreshold int    `yaml:"candidate_threshold" env:"SOLVER_CANDIDATE_THRESHOLD" env-default:"50"`
	Metric             string `yaml:"metric"              env:"SOLVER_METRIC"              env-default:"mean"`
	Workers            int    `yaml:"workers"             env:"SOLVER_WORKERS"             env-default:"0"`
	MaxRounds          int    `yaml:"max_rounds"          env:"SOLVER_MAX_ROUNDS"          env-default:"6"`
	Opener             string `yaml:"opener"              env:"SOLVER_OPENER"`
}

// DictionaryConfig locates the word lists.
type DictionaryConfig struct {
	AnswersPath string `yaml:"answers_path" env:"DICTIONARY_ANSWERS_PATH" env-default:"words/answers.txt"`
	GuessesPath string `yaml:"guesses_path" env:"DICTIONARY_GUESSES_PATH"`
	DownloadURL string `yaml:"download_url" env:"DICTIONARY_DOWNLOAD_URL"`
}

// CacheConfig controls the precomputed grade table cache. An empty path
// disables it.
type CacheConfig struct {
	Path      string `yaml:"path"       env:"CACHE_PATH"`
	BatchSize int    `yaml:"batch_size" env:"CACHE_BATCH_SIZE" env-default:"256"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
