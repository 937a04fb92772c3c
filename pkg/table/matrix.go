// Package table holds precomputed grade matrices: every guess graded against
// every answer once, so later rounds can partition by index lookups instead of
// grading again. Matrices can be persisted to sqlite and restored.
package table

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"
	"github.com/japaniel/wordlesolver/pkg/wordle"
)

// Matrix is a |guesses| x |answers| grade table. Cell (gi, ai) is the grade
// guess gi receives when answer ai is the hidden word. A Matrix is immutable
// and safe for concurrent reads.
type Matrix struct {
	guesses *wordle.Corpus
	answers *wordle.Corpus
	// cells is row-major; grades of length <= 10 fit in 16 bits.
	cells []uint16
}

func newMatrix(guesses, answers *wordle.Corpus) *Matrix {
	return &Matrix{
		guesses: guesses,
		answers: answers,
		cells:   make([]uint16, guesses.Len()*answers.Len()),
	}
}

// Guesses returns the row words.
func (m *Matrix) Guesses() *wordle.Corpus { return m.guesses }

// Answers returns the column words.
func (m *Matrix) Answers() *wordle.Corpus { return m.answers }

// Length is the word length of both lists.
func (m *Matrix) Length() int { return m.answers.Length() }

// Grade returns the grade of guess gi against answer ai.
func (m *Matrix) Grade(gi, ai int) wordle.Grade {
	return wordle.Grade(m.cells[gi*m.answers.Len()+ai])
}

func (m *Matrix) row(gi int) []uint16 {
	n := m.answers.Len()
	return m.cells[gi*n : (gi+1)*n]
}

func (m *Matrix) setRow(gi int, grades []wordle.Grade) {
	r := m.row(gi)
	for i, g := range grades {
		r[i] = uint16(g)
	}
}

// RowIndex returns the row of the first guess equal to w.
func (m *Matrix) RowIndex(w wordle.Word) (int, bool) { return m.guesses.Index(w) }

// ColumnIndex returns the column of the first answer equal to w.
func (m *Matrix) ColumnIndex(w wordle.Word) (int, bool) { return m.answers.Index(w) }

// All returns a set holding every answer column.
func (m *Matrix) All() *bitset.BitSet {
	n := uint(m.answers.Len())
	return bitset.New(n).FlipRange(0, n)
}

// Partition splits the answers in within (nil means all answers) by the grade
// guess gi would receive.
func (m *Matrix) Partition(gi int, within *bitset.BitSet) map[wordle.Grade]*bitset.BitSet {
	if within == nil {
		within = m.All()
	}
	r := m.row(gi)
	out := make(map[wordle.Grade]*bitset.BitSet)
	for ai, ok := within.NextSet(0); ok; ai, ok = within.NextSet(ai + 1) {
		g := wordle.Grade(r[ai])
		set, seen := out[g]
		if !seen {
			set = bitset.New(uint(len(r)))
			out[g] = set
		}
		set.Set(ai)
	}
	return out
}

// Consistent returns the answers in within (nil means all) for which guess gi
// would have produced g.
func (m *Matrix) Consistent(gi int, g wordle.Grade, within *bitset.BitSet) *bitset.BitSet {
	if within == nil {
		within = m.All()
	}
	r := m.row(gi)
	out := bitset.New(uint(len(r)))
	for ai, ok := within.NextSet(0); ok; ai, ok = within.NextSet(ai + 1) {
		if wordle.Grade(r[ai]) == g {
			out.Set(ai)
		}
	}
	return out
}

// Select returns the answers in set as a corpus, in column order.
func (m *Matrix) Select(set *bitset.BitSet) *wordle.Corpus {
	i := -1
	return m.answers.Filter(func(wordle.Word) bool {
		i++
		return set.Test(uint(i))
	})
}

// Summarize computes partition statistics of guess gi over within without
// materializing the groups.
func (m *Matrix) Summarize(gi int, within *bitset.BitSet) wordle.Stats {
	if within == nil {
		within = m.All()
	}
	r := m.row(gi)
	counts := make(map[uint16]int)
	total := 0
	for ai, ok := within.NextSet(0); ok; ai, ok = within.NextSet(ai + 1) {
		counts[r[ai]]++
		total++
	}
	st := wordle.Stats{Total: total, Buckets: len(counts)}
	for _, c := range counts {
		if c > st.Largest {
			st.Largest = c
		}
		p := float64(c) / float64(total)
		st.Entropy -= p * math.Log2(p)
	}
	return st
}

// BestGuess returns the row with the lowest metric score over within. rows
// limits the search to those guess indices, in order; nil means every row.
// Ties go to the earliest row searched.
func (m *Matrix) BestGuess(metric wordle.Metric, within *bitset.BitSet, rows []int) (int, wordle.Stats, error) {
	if within == nil {
		within = m.All()
	}
	if within.None() {
		return -1, wordle.Stats{}, fmt.Errorf("matrix best guess: %w", wordle.ErrEmptyPool)
	}
	if rows == nil {
		rows = make([]int, m.guesses.Len())
		for i := range rows {
			rows[i] = i
		}
	}
	best, bestScore := -1, math.Inf(1)
	var bestStats wordle.Stats
	for _, gi := range rows {
		st := m.Summarize(gi, within)
		if sc := metric.Score(st); sc < bestScore {
			best, bestScore, bestStats = gi, sc, st
		}
	}
	if best < 0 {
		return -1, wordle.Stats{}, fmt.Errorf("matrix best guess: no rows: %w", wordle.ErrEmptyPool)
	}
	return best, bestStats, nil
}

// Fingerprint identifies a (guesses, answers) pair. Tables built from the same
// lists in the same order share a fingerprint.
func Fingerprint(guesses, answers *wordle.Corpus) string {
	h := sha256.New()
	fmt.Fprintf(h, "len=%d\n", answers.Length())
	for _, w := range guesses.Strings() {
		h.Write([]byte(w))
		h.Write([]byte{'\n'})
	}
	h.Write([]byte{0})
	for _, w := range answers.Strings() {
		h.Write([]byte(w))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func encodeRow(r []uint16) []byte {
	out := make([]byte, 2*len(r))
	for i, g := range r {
		binary.LittleEndian.PutUint16(out[2*i:], g)
	}
	return out
}

func decodeRow(b []byte, dst []uint16) error {
	if len(b) != 2*len(dst) {
		return fmt.Errorf("row holds %d bytes, need %d", len(b), 2*len(dst))
	}
	for i := range dst {
		dst[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	return nil
}
