package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no table matches a fingerprint.
var ErrNotFound = errors.New("grade table not found")

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// CreateTable registers a new, incomplete table. Any previous table with the
// same fingerprint is removed together with its words and rows.
func CreateTable(db DBExecutor, fingerprint string, wordLength, guessCount, answerCount int) (int64, error) {
	if strings.TrimSpace(fingerprint) == "" {
		return 0, fmt.Errorf("fingerprint must be non-empty")
	}
	if wordLength <= 0 {
		return 0, fmt.Errorf("wordLength must be positive, got %d", wordLength)
	}
	if err := DeleteTable(db, fingerprint); err != nil {
		return 0, err
	}
	res, err := db.Exec(
		`INSERT INTO grade_tables (fingerprint, word_length, guess_count, answer_count) VALUES (?, ?, ?, ?)`,
		fingerprint, wordLength, guessCount, answerCount,
	)
	if err != nil {
		return 0, fmt.Errorf("insert grade table: %w", err)
	}
	return res.LastInsertId()
}

// FindTable returns the table with the given fingerprint.
func FindTable(db DBExecutor, fingerprint string) (GradeTable, error) {
	var t GradeTable
	var complete int
	err := db.QueryRow(
		`SELECT id, fingerprint, word_length, guess_count, answer_count, complete, created_at
		 FROM grade_tables WHERE fingerprint = ?`, fingerprint,
	).Scan(&t.ID, &t.Fingerprint, &t.WordLength, &t.GuessCount, &t.AnswerCount, &complete, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return GradeTable{}, ErrNotFound
	}
	if err != nil {
		return GradeTable{}, fmt.Errorf("find grade table: %w", err)
	}
	t.Complete = complete != 0
	return t, nil
}

// DeleteTable removes a table and everything stored with it. Missing tables
// are not an error.
func DeleteTable(db DBExecutor, fingerprint string) error {
	var id int64
	err := db.QueryRow(`SELECT id FROM grade_tables WHERE fingerprint = ?`, fingerprint).Scan(&id)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	// Explicit deletes keep this working on connections without foreign keys.
	for _, q := range []string{
		`DELETE FROM grade_rows WHERE table_id = ?`,
		`DELETE FROM table_words WHERE table_id = ?`,
		`DELETE FROM grade_tables WHERE id = ?`,
	} {
		if _, err := db.Exec(q, id); err != nil {
			return fmt.Errorf("delete grade table %d: %w", id, err)
		}
	}
	return nil
}

// MarkComplete flags a table as fully written.
func MarkComplete(db DBExecutor, tableID int64) error {
	res, err := db.Exec(`UPDATE grade_tables SET complete = 1 WHERE id = ?`, tableID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("mark complete: table %d: %w", tableID, ErrNotFound)
	}
	return nil
}

// InsertWords stores an ordered word list for a table.
func InsertWords(db DBExecutor, tableID int64, list string, words []string) error {
	if list != ListGuess && list != ListAnswer {
		return fmt.Errorf("unknown word list %q", list)
	}
	for i, w := range words {
		if _, err := db.Exec(
			`INSERT INTO table_words (table_id, list, position, word) VALUES (?, ?, ?, ?)`,
			tableID, list, i, w,
		); err != nil {
			return fmt.Errorf("insert %s word %d: %w", list, i, err)
		}
	}
	return nil
}

// GetWords returns a stored word list in order.
func GetWords(db DBExecutor, tableID int64, list string) ([]string, error) {
	rows, err := db.Query(`SELECT word FROM table_words WHERE table_id = ? AND list = ? ORDER BY position`, tableID, list)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const upsertRowSQL = `INSERT INTO grade_rows (table_id, guess_pos, grades) VALUES (?, ?, ?)
	ON CONFLICT(table_id, guess_pos) DO UPDATE SET grades = excluded.grades`

// PutRow stores the encoded grades of one guess against every answer.
func PutRow(db DBExecutor, tableID int64, guessPos int, grades []byte) error {
	if guessPos < 0 {
		return fmt.Errorf("guessPos must be non-negative, got %d", guessPos)
	}
	_, err := db.Exec(upsertRowSQL, tableID, guessPos, grades)
	return err
}

// PrepareRowUpsert prepares the PutRow statement on tx for writing many rows.
// Arguments are table id, guess position and grades.
func PrepareRowUpsert(tx *sql.Tx) (*sql.Stmt, error) {
	stmt, err := tx.Prepare(upsertRowSQL)
	if err != nil {
		return nil, fmt.Errorf("prepare row upsert: %w", err)
	}
	return stmt, nil
}

// ScanRows calls fn for every stored row in guess order.
func ScanRows(db DBExecutor, tableID int64, fn func(guessPos int, grades []byte) error) error {
	rows, err := db.Query(`SELECT guess_pos, grades FROM grade_rows WHERE table_id = ? ORDER BY guess_pos`, tableID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var pos int
		var grades []byte
		if err := rows.Scan(&pos, &grades); err != nil {
			return err
		}
		if err := fn(pos, grades); err != nil {
			return err
		}
	}
	return rows.Err()
}

// CountRows returns how many rows a table has stored.
func CountRows(db DBExecutor, tableID int64) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM grade_rows WHERE table_id = ?`, tableID).Scan(&n)
	return n, err
}
