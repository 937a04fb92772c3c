// Package wordle grades guesses in word-guessing puzzles, partitions a pool
// of candidate answers by the grade they produce, and searches for the guess
// that splits the pool best.
//
// A grade is a base-3 number with one digit per letter: 0 absent, 1 present
// elsewhere, 2 exact. The leftmost letter is the most significant digit, so
// ParseTernary("21000", 5) is the grade whose first letter is exact and
// second letter is present elsewhere.
package wordle
