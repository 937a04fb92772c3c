package dictionary

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"unicode"

	"github.com/go-shiori/go-readability"
	"github.com/japaniel/wordlesolver/pkg/wordle"
)

// FromHTML extracts the readable text of an HTML page and returns every
// distinct token of the given length, in page order. Tokens with characters
// outside the word alphabet are ignored. pageURL may be nil.
func FromHTML(r io.Reader, pageURL *url.URL, length int) (*wordle.Corpus, error) {
	if length < 1 || length > wordle.MaxWordLength {
		return nil, fmt.Errorf("from html: length %d: %w", length, wordle.ErrLengthMismatch)
	}
	if pageURL == nil {
		pageURL = &url.URL{Scheme: "http", Host: "localhost"}
	}
	article, err := readability.FromReader(r, pageURL)
	if err != nil {
		return nil, fmt.Errorf("from html: %w", err)
	}
	return tokenize(article.TextContent, length)
}

func tokenize(text string, length int) (*wordle.Corpus, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[wordle.Word]struct{})
	var words []wordle.Word
	for _, f := range fields {
		if len(f) != length {
			continue
		}
		w, err := wordle.NewWord(f)
		if err != nil {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	c, err := wordle.FromWords(words)
	if err != nil {
		return nil, fmt.Errorf("from html: no %d-letter words: %w", length, err)
	}
	return c, nil
}
