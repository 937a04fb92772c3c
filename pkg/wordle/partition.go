package wordle

import (
	"fmt"
	"math"
	"strings"
)

// Group is the sub-pool of words that all produced Grade against one guess.
type Group struct {
	Grade Grade
	Words *Corpus
}

// Size is the number of words in the group.
func (g Group) Size() int { return g.Words.Len() }

// Grouping partitions a pool by the grade each word produces against a guess.
// Groups are ordered by the first appearance of their grade in the pool.
type Grouping struct {
	guess  Word
	total  int
	groups []Group
	index  map[Grade]int
}

// GroupByGrade grades every word of pool as an answer to guess and buckets
// the words by grade. No bucket is empty and each bucket keeps pool order.
func GroupByGrade(pool *Corpus, guess Word) (*Grouping, error) {
	if pool.Len() == 0 {
		return nil, fmt.Errorf("group by grade: %w", ErrEmptyPool)
	}
	if guess.Len() != pool.Length() {
		return nil, inputErr("group by grade", guess.text, ErrLengthMismatch)
	}
	gr := &Grouping{
		guess: guess,
		total: pool.Len(),
		index: make(map[Grade]int),
	}
	for _, w := range pool.words {
		g := grade(w.text, guess.text)
		i, ok := gr.index[g]
		if !ok {
			i = len(gr.groups)
			gr.index[g] = i
			gr.groups = append(gr.groups, Group{Grade: g, Words: newEmptyCorpus(pool.length, 1)})
		}
		gr.groups[i].Words.words = append(gr.groups[i].Words.words, w)
	}
	return gr, nil
}

// Guess is the word the pool was graded against.
func (gr *Grouping) Guess() Word { return gr.guess }

// Total is the number of words across all groups.
func (gr *Grouping) Total() int { return gr.total }

// Groups returns the groups in first-seen order.
func (gr *Grouping) Groups() []Group {
	out := make([]Group, len(gr.groups))
	copy(out, gr.groups)
	return out
}

// Group returns the group for g, if any word produced it.
func (gr *Grouping) Group(g Grade) (Group, bool) {
	i, ok := gr.index[g]
	if !ok {
		return Group{}, false
	}
	return gr.groups[i], true
}

// BucketCount is the number of distinct grades observed.
func (gr *Grouping) BucketCount() int { return len(gr.groups) }

// Largest returns the biggest group; the first one wins ties. An empty
// Grouping returns the zero Group.
func (gr *Grouping) Largest() Group {
	if len(gr.groups) == 0 {
		return Group{}
	}
	best := gr.groups[0]
	for _, g := range gr.groups[1:] {
		if g.Size() > best.Size() {
			best = g
		}
	}
	return best
}

// LargestBucketSize is the size of the biggest group.
func (gr *Grouping) LargestBucketSize() int { return gr.Largest().Size() }

// AverageBucketSize is the arithmetic mean of the group sizes.
func (gr *Grouping) AverageBucketSize() float64 {
	if len(gr.groups) == 0 {
		return 0
	}
	return float64(gr.total) / float64(len(gr.groups))
}

// Entropy is the expected information of the guess in bits, treating every
// word in the pool as equally likely.
func (gr *Grouping) Entropy() float64 {
	var h float64
	for _, g := range gr.groups {
		h += entropyTerm(g.Size(), gr.total)
	}
	return h
}

// Stats summarizes the grouping without the sub-pools.
func (gr *Grouping) Stats() Stats {
	return Stats{
		Total:   gr.total,
		Buckets: len(gr.groups),
		Largest: gr.LargestBucketSize(),
		Entropy: gr.Entropy(),
	}
}

// String lists the summary and every group, showing at most 14 words each.
func (gr *Grouping) String() string {
	length := gr.guess.Len()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Groups for %s\n", gr.guess)
	fmt.Fprintf(&sb, "Total number of groups: %d\n", gr.BucketCount())
	fmt.Fprintf(&sb, "Average group length: %.2f\n", gr.AverageBucketSize())
	fmt.Fprintf(&sb, "Longest group: %d\n", gr.LargestBucketSize())
	for _, g := range gr.groups {
		words := g.Words.Strings()
		if len(words) > 14 {
			words = words[:14]
		}
		fmt.Fprintf(&sb, "%s %d: %s\n", g.Grade.Clue(length), g.Size(), strings.Join(words, " "))
	}
	return sb.String()
}

func entropyTerm(size, total int) float64 {
	p := float64(size) / float64(total)
	return -p * math.Log2(p)
}

// Stats are the partition statistics the selector scores.
type Stats struct {
	Total   int
	Buckets int
	Largest int
	Entropy float64
}

// AverageBucketSize is Total divided by Buckets.
func (s Stats) AverageBucketSize() float64 {
	if s.Buckets == 0 {
		return 0
	}
	return float64(s.Total) / float64(s.Buckets)
}

// Tally computes partition statistics without building sub-pools. It keeps
// one counter per possible grade and is reused across guesses; a Tally must
// not be shared between goroutines.
type Tally struct {
	length  int
	counts  []int32
	touched []Grade
}

// NewTally returns a Tally for words of the given length. It panics if length
// is outside 1..MaxWordLength.
func NewTally(length int) *Tally {
	return &Tally{
		length: length,
		counts: make([]int32, GradeCount(length)),
	}
}

// Summarize returns the statistics GroupByGrade(pool, guess) would report.
func (t *Tally) Summarize(pool *Corpus, guess Word) (Stats, error) {
	if pool.Len() == 0 {
		return Stats{}, fmt.Errorf("summarize: %w", ErrEmptyPool)
	}
	if guess.Len() != pool.Length() || pool.Length() != t.length {
		return Stats{}, inputErr("summarize", guess.text, ErrLengthMismatch)
	}
	return t.summarize(pool, guess), nil
}

func (t *Tally) summarize(pool *Corpus, guess Word) Stats {
	t.touched = t.touched[:0]
	for _, w := range pool.words {
		g := grade(w.text, guess.text)
		if t.counts[g] == 0 {
			t.touched = append(t.touched, g)
		}
		t.counts[g]++
	}
	s := Stats{Total: len(pool.words), Buckets: len(t.touched)}
	for _, g := range t.touched {
		n := int(t.counts[g])
		if n > s.Largest {
			s.Largest = n
		}
		s.Entropy += entropyTerm(n, s.Total)
		t.counts[g] = 0
	}
	return s
}
