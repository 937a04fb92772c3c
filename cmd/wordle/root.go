package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/japaniel/wordlesolver/pkg/app"
	"github.com/japaniel/wordlesolver/pkg/config"
	"github.com/japaniel/wordlesolver/pkg/db"
	"github.com/japaniel/wordlesolver/pkg/dictionary"
	"github.com/japaniel/wordlesolver/pkg/session"
	"github.com/japaniel/wordlesolver/pkg/wordle"
	"github.com/spf13/cobra"
)

// cli carries flag values and the loaded configuration shared by every
// subcommand.
type cli struct {
	configPath string
	answers    string
	guesses    string
	cache      string
	workers    int
	metric     string
	threshold  int
	quiet      bool

	cfg    *config.Config
	logger *slog.Logger
	// logOut is where logs go; nil means stderr.
	logOut io.Writer
}

func newRootCmd() *cobra.Command { return newRootCmdFor(&cli{}) }

func newRootCmdFor(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "wordle",
		Short:         "Solve, play and evaluate word-guessing games",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&c.configPath, "config", "", "path to YAML config (default $CONFIG_PATH or ./wordle.yaml)")
	f.StringVar(&c.answers, "answers", "", "answer word list (.txt, one per line, or .json)")
	f.StringVar(&c.guesses, "guesses", "", "additional allowed guesses, one per line")
	f.StringVar(&c.cache, "cache", "", "sqlite file for precomputed grade tables")
	f.IntVar(&c.workers, "workers", 0, "scoring goroutines (0 = one per CPU)")
	f.StringVar(&c.metric, "metric", "", "guess metric: mean, minimax or entropy")
	f.IntVar(&c.threshold, "threshold", 0, "guess only remaining words below this many candidates")
	f.BoolVarP(&c.quiet, "quiet", "q", false, "hide progress bars")

	root.AddCommand(
		newGradeCmd(c),
		newGroupsCmd(c),
		newBestCmd(c),
		newSolveCmd(c),
		newAssistCmd(c),
		newPlayCmd(c),
		newEvaluateCmd(c),
		newPrecomputeCmd(c),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadFile(c.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("answers") {
		cfg.Dictionary.AnswersPath = c.answers
	}
	if flags.Changed("guesses") {
		cfg.Dictionary.GuessesPath = c.guesses
	}
	if flags.Changed("cache") {
		cfg.Cache.Path = c.cache
	}
	if flags.Changed("workers") {
		cfg.Solver.Workers = c.workers
	}
	if flags.Changed("metric") {
		cfg.Solver.Metric = c.metric
	}
	if flags.Changed("threshold") {
		cfg.Solver.CandidateThreshold = c.threshold
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.cfg = cfg
	if c.logOut != nil {
		c.logger = app.NewLoggerTo(c.logOut, cfg.Log)
	} else {
		c.logger = app.NewLogger(cfg.Log)
	}
	return nil
}

// lists loads the configured word lists, downloading the answers first when
// they are missing and a download URL is configured.
func (c *cli) lists(ctx context.Context) (dictionary.Lists, error) {
	d := c.cfg.Dictionary
	if d.DownloadURL != "" {
		if err := dictionary.EnsureDictionary(ctx, d.AnswersPath, d.DownloadURL, c.cfg.Solver.WordLength); err != nil {
			return dictionary.Lists{}, err
		}
	}
	l, err := dictionary.Load(d.AnswersPath, d.GuessesPath, c.cfg.Solver.WordLength)
	if err != nil {
		return dictionary.Lists{}, err
	}
	c.logger.Debug("word lists loaded",
		slog.Int("answers", l.Answers.Len()),
		slog.Int("guesses", l.Guesses.Len()),
	)
	return l, nil
}

func (c *cli) selector(observer wordle.Observer) *wordle.Selector {
	return &wordle.Selector{
		Workers:  c.cfg.Solver.Workers,
		Metric:   c.cfg.Solver.MetricValue(),
		Observer: observer,
		Logger:   c.logger,
	}
}

func (c *cli) sessionOptions(observer wordle.Observer) (session.Options, error) {
	opts := session.Options{
		Selector:  c.selector(observer),
		Policy:    c.cfg.Solver.Policy(),
		MaxRounds: c.cfg.Solver.MaxRounds,
		Logger:    c.logger,
	}
	if c.cfg.Solver.Opener != "" {
		w, err := wordle.NewWord(c.cfg.Solver.Opener)
		if err != nil {
			return session.Options{}, err
		}
		opts.Opener = w
	}
	return opts, nil
}

// openCache opens the grade table cache, or returns nil when none is
// configured.
func (c *cli) openCache() (*sql.DB, error) {
	if c.cfg.Cache.Path == "" {
		return nil, nil
	}
	conn, err := db.Open(c.cfg.Cache.Path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", c.cfg.Cache.Path, err)
	}
	return conn, nil
}

func (c *cli) word(s string) (wordle.Word, error) {
	w, err := wordle.NewWord(s)
	if err != nil {
		return wordle.Word{}, err
	}
	if w.Len() != c.cfg.Solver.WordLength {
		return wordle.Word{}, fmt.Errorf("%q has %d letters, want %d: %w", s, w.Len(), c.cfg.Solver.WordLength, wordle.ErrLengthMismatch)
	}
	return w, nil
}
