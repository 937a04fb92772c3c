// Package dictionary loads the word lists the solver plays with: plain line
// files, JSON word lists, and words scraped from HTML pages.
package dictionary

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/japaniel/wordlesolver/pkg/wordle"
)

// Lists are the two word lists of a game. Answers are the words that can be
// hidden; Guesses are the words a player may type and always include every
// answer.
type Lists struct {
	Answers *wordle.Corpus
	Guesses *wordle.Corpus
}

// ReadWords reads one word per line. Blank lines and lines starting with '#'
// are skipped. When length is positive every word must have that length;
// otherwise the first word decides it.
func ReadWords(r io.Reader, length int) (*wordle.Corpus, error) {
	var words []wordle.Word
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		w, err := wordle.NewWord(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if length <= 0 {
			length = w.Len()
		}
		if w.Len() != length {
			return nil, fmt.Errorf("line %d: %q has %d letters, want %d: %w", line, text, w.Len(), length, wordle.ErrLengthMismatch)
		}
		words = append(words, w)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return wordle.FromWords(words)
}

// LoadWords reads a line file from disk.
func LoadWords(path string, length int) (*wordle.Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := ReadWords(f, length)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return c, nil
}

type wordListFile struct {
	AnswerWords   []string `json:"answer_words"`
	PossibleWords []string `json:"possible_words"`
}

// ReadJSON reads {"answer_words": [...], "possible_words": [...]}. A bare
// JSON array is accepted as an answer list. Guesses are the possible words
// followed by any answers not already among them.
func ReadJSON(r io.Reader, length int) (Lists, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Lists{}, err
	}
	var file wordListFile
	if err := json.Unmarshal(raw, &file); err != nil || len(file.AnswerWords) == 0 {
		var answers []string
		if aerr := json.Unmarshal(raw, &answers); aerr != nil {
			if err == nil {
				err = fmt.Errorf("no answer_words")
			}
			return Lists{}, fmt.Errorf("parse word list as object or array: %w", err)
		}
		file = wordListFile{AnswerWords: answers}
	}

	answers, err := corpusOf(file.AnswerWords, length)
	if err != nil {
		return Lists{}, fmt.Errorf("answer_words: %w", err)
	}
	guesses := answers
	if len(file.PossibleWords) > 0 {
		possible, err := corpusOf(file.PossibleWords, answers.Length())
		if err != nil {
			return Lists{}, fmt.Errorf("possible_words: %w", err)
		}
		guesses = Merge(possible, answers)
	}
	return Lists{Answers: answers, Guesses: guesses}, nil
}

// LoadJSON reads a JSON word list from disk.
func LoadJSON(path string, length int) (Lists, error) {
	f, err := os.Open(path)
	if err != nil {
		return Lists{}, err
	}
	defer f.Close()
	l, err := ReadJSON(f, length)
	if err != nil {
		return Lists{}, fmt.Errorf("load %s: %w", path, err)
	}
	return l, nil
}

// Load reads the answer list and, optionally, a separate guess list. A .json
// answers file carries both lists and guessesPath is then ignored. Without a
// guess list the answers double as guesses.
func Load(answersPath, guessesPath string, length int) (Lists, error) {
	if strings.HasSuffix(strings.ToLower(answersPath), ".json") {
		return LoadJSON(answersPath, length)
	}
	answers, err := LoadWords(answersPath, length)
	if err != nil {
		return Lists{}, err
	}
	if guessesPath == "" {
		return Lists{Answers: answers, Guesses: answers}, nil
	}
	guesses, err := LoadWords(guessesPath, answers.Length())
	if err != nil {
		return Lists{}, err
	}
	return Lists{Answers: answers, Guesses: Merge(guesses, answers)}, nil
}

func corpusOf(words []string, length int) (*wordle.Corpus, error) {
	return ReadWords(strings.NewReader(strings.Join(words, "\n")), length)
}

// Merge returns the words of a followed by the words of b missing from a.
// Duplicates within a are kept. Both corpora must share a length.
func Merge(a, b *wordle.Corpus) *wordle.Corpus {
	seen := make(map[wordle.Word]struct{}, a.Len())
	for _, w := range a.Words() {
		seen[w] = struct{}{}
	}
	out := a.Filter(func(wordle.Word) bool { return true })
	for _, w := range b.Words() {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		_ = out.Append(w)
	}
	return out
}
