package wordle

import (
	"fmt"
	"strings"
)

// Corpus is an ordered pool of words of one length. Insertion order is kept
// and duplicates are allowed. A Corpus is only grown with Append; once handed
// to the selector it is read concurrently and must not be appended to.
type Corpus struct {
	length int
	words  []Word
}

// NewCorpus builds a corpus from raw strings. All words must share a length.
func NewCorpus(words []string) (*Corpus, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("new corpus: %w", ErrEmptyPool)
	}
	c := &Corpus{words: make([]Word, 0, len(words))}
	for i, s := range words {
		w, err := NewWord(s)
		if err != nil {
			return nil, fmt.Errorf("new corpus: word %d: %w", i, err)
		}
		if err := c.Append(w); err != nil {
			return nil, fmt.Errorf("new corpus: word %d: %w", i, err)
		}
	}
	return c, nil
}

// FromWords builds a corpus from already validated words.
func FromWords(words []Word) (*Corpus, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("from words: %w", ErrEmptyPool)
	}
	c := &Corpus{words: make([]Word, 0, len(words))}
	for _, w := range words {
		if err := c.Append(w); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func newEmptyCorpus(length, capacity int) *Corpus {
	return &Corpus{length: length, words: make([]Word, 0, capacity)}
}

// Append adds w at the end. The first appended word fixes the corpus length.
func (c *Corpus) Append(w Word) error {
	if w.IsZero() {
		return inputErr("append", "", ErrInvalidWord)
	}
	if c.length == 0 {
		c.length = w.Len()
	} else if w.Len() != c.length {
		return inputErr("append", w.text, ErrLengthMismatch)
	}
	c.words = append(c.words, w)
	return nil
}

// Len is the number of words, counting duplicates.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.words)
}

// Length is the shared word length, 0 for an empty corpus.
func (c *Corpus) Length() int {
	if c == nil {
		return 0
	}
	return c.length
}

// At returns the i-th word.
func (c *Corpus) At(i int) Word { return c.words[i] }

// Words returns a copy of the words in order.
func (c *Corpus) Words() []Word {
	out := make([]Word, len(c.words))
	copy(out, c.words)
	return out
}

// Strings returns the words as text in order.
func (c *Corpus) Strings() []string {
	out := make([]string, len(c.words))
	for i, w := range c.words {
		out[i] = w.text
	}
	return out
}

// Index returns the position of the first occurrence of w.
func (c *Corpus) Index(w Word) (int, bool) {
	if c == nil {
		return -1, false
	}
	for i, x := range c.words {
		if x.code == w.code {
			return i, true
		}
	}
	return -1, false
}

// Contains reports whether w is in the corpus.
func (c *Corpus) Contains(w Word) bool {
	_, ok := c.Index(w)
	return ok
}

// Filter returns a new corpus with the words for which keep returns true, in
// order. The result may be empty.
func (c *Corpus) Filter(keep func(Word) bool) *Corpus {
	out := newEmptyCorpus(c.length, 0)
	for _, w := range c.words {
		if keep(w) {
			out.words = append(out.words, w)
		}
	}
	return out
}

// Consistent returns the words that would have produced g had they been the
// answer to guess. It is the sub-pool a real feedback round narrows to.
func (c *Corpus) Consistent(guess Word, g Grade) (*Corpus, error) {
	if guess.Len() != c.length {
		return nil, inputErr("consistent", guess.text, ErrLengthMismatch)
	}
	return c.Filter(func(w Word) bool { return grade(w.text, guess.text) == g }), nil
}

func (c *Corpus) String() string {
	return strings.Join(c.Strings(), " ")
}
