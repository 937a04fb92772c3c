package config

import (
	"fmt"
	"strings"

	"github.com/japaniel/wordlesolver/pkg/wordle"
)

// Validate checks value ranges. Load calls it automatically; callers that
// override fields afterwards should call it again.
func (c *Config) Validate() error {
	if err := c.Solver.validate(); err != nil {
		return fmt.Errorf("solver: %w", err)
	}
	if strings.TrimSpace(c.Dictionary.AnswersPath) == "" && c.Dictionary.DownloadURL == "" {
		return fmt.Errorf("dictionary: answers_path or download_url is required")
	}
	if c.Cache.BatchSize <= 0 {
		return fmt.Errorf("cache: batch_size must be > 0 (got %d)", c.Cache.BatchSize)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log: format must be text or json (got %q)", c.Log.Format)
	}
	return nil
}

func (s SolverConfig) validate() error {
	if s.WordLength < 1 || s.WordLength > wordle.MaxWordLength {
		return fmt.Errorf("word_length must be in 1..%d (got %d)", wordle.MaxWordLength, s.WordLength)
	}
	if s.CandidateThreshold < 0 {
		return fmt.Errorf("candidate_threshold must be >= 0 (got %d)", s.CandidateThreshold)
	}
	if _, err := wordle.ParseMetric(s.Metric); err != nil {
		return fmt.Errorf("metric: %w", err)
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must be >= 0 (got %d)", s.Workers)
	}
	if s.MaxRounds < 1 {
		return fmt.Errorf("max_rounds must be >= 1 (got %d)", s.MaxRounds)
	}
	if s.Opener != "" {
		w, err := wordle.NewWord(s.Opener)
		if err != nil {
			return fmt.Errorf("opener: %w", err)
		}
		if w.Len() != s.WordLength {
			return fmt.Errorf("opener %q has %d letters, want %d", s.Opener, w.Len(), s.WordLength)
		}
	}
	return nil
}

// MetricValue returns the parsed selection metric.
func (s SolverConfig) MetricValue() wordle.Metric {
	m, _ := wordle.ParseMetric(s.Metric)
	return m
}

// Policy returns the guess-pool policy.
func (s SolverConfig) Policy() wordle.Policy {
	return wordle.Policy{CandidateThreshold: s.CandidateThreshold}
}
