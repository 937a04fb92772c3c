package db

import "time"

// Word lists stored with a table.
const (
	ListGuess  = "guess"
	ListAnswer = "answer"
)

// GradeTable describes a cached grade matrix. Fingerprint identifies the
// exact guess and answer lists it was computed from.
type GradeTable struct {
	ID          int64
	Fingerprint string
	WordLength  int
	GuessCount  int
	AnswerCount int
	Complete    bool
	CreatedAt   time.Time
}
