package table

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/japaniel/wordlesolver/pkg/db"
	"github.com/japaniel/wordlesolver/pkg/wordle"
)

var (
	// ErrNotCached means no table was stored for the requested lists.
	ErrNotCached = errors.New("grade table not cached")
	// ErrStaleTable means a stored table exists but cannot be trusted: it was
	// never completed or does not match the requested lists.
	ErrStaleTable = errors.New("grade table is stale")
)

// DefaultBatchSize is the number of rows committed per transaction.
const DefaultBatchSize = 256

// Save stores m, replacing any table with the same fingerprint. Rows are
// written in batches of batchSize, one transaction per batch; the table is
// only marked complete once every row is committed.
func Save(ctx context.Context, conn *sql.DB, m *Matrix, batchSize int) error {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	fp := Fingerprint(m.guesses, m.answers)

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save table: begin: %w", err)
	}
	id, err := db.CreateTable(tx, fp, m.Length(), m.guesses.Len(), m.answers.Len())
	if err == nil {
		err = db.InsertWords(tx, id, db.ListGuess, m.guesses.Strings())
	}
	if err == nil {
		err = db.InsertWords(tx, id, db.ListAnswer, m.answers.Strings())
	}
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("save table: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save table: commit words: %w", err)
	}

	rw := NewRowWriter(ctx, conn, id, batchSize)
	var putErr error
	for gi := 0; gi < m.guesses.Len(); gi++ {
		if err := ctx.Err(); err != nil {
			putErr = err
			break
		}
		if err := rw.Put(gi, encodeRow(m.row(gi))); err != nil {
			putErr = err
			break
		}
	}
	if err := rw.Close(); err != nil {
		return fmt.Errorf("save table: rows: %w", err)
	}
	if putErr != nil {
		return fmt.Errorf("save table: %w", putErr)
	}
	if n := rw.Written(); n != m.guesses.Len() {
		return fmt.Errorf("save table: wrote %d of %d rows: %w", n, m.guesses.Len(), ErrStaleTable)
	}
	if err := db.MarkComplete(conn, id); err != nil {
		return fmt.Errorf("save table: %w", err)
	}
	return nil
}

// Load restores the table stored for guesses and answers. It returns
// ErrNotCached when none was saved and ErrStaleTable when the stored table is
// incomplete or disagrees with the lists.
func Load(ctx context.Context, conn *sql.DB, guesses, answers *wordle.Corpus) (*Matrix, error) {
	fp := Fingerprint(guesses, answers)
	meta, err := db.FindTable(conn, fp)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrNotCached
	}
	if err != nil {
		return nil, fmt.Errorf("load table: %w", err)
	}
	if !meta.Complete {
		return nil, fmt.Errorf("load table %d: incomplete: %w", meta.ID, ErrStaleTable)
	}
	if meta.WordLength != answers.Length() || meta.GuessCount != guesses.Len() || meta.AnswerCount != answers.Len() {
		return nil, fmt.Errorf("load table %d: shape %dx%d: %w", meta.ID, meta.GuessCount, meta.AnswerCount, ErrStaleTable)
	}
	for _, list := range []struct {
		name string
		c    *wordle.Corpus
	}{{db.ListGuess, guesses}, {db.ListAnswer, answers}} {
		stored, err := db.GetWords(conn, meta.ID, list.name)
		if err != nil {
			return nil, fmt.Errorf("load table %d: %w", meta.ID, err)
		}
		if !slices.Equal(stored, list.c.Strings()) {
			return nil, fmt.Errorf("load table %d: %s words differ: %w", meta.ID, list.name, ErrStaleTable)
		}
	}

	m := newMatrix(guesses, answers)
	seen := 0
	err = db.ScanRows(conn, meta.ID, func(pos int, grades []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if pos < 0 || pos >= guesses.Len() {
			return fmt.Errorf("row %d out of range: %w", pos, ErrStaleTable)
		}
		if err := decodeRow(grades, m.row(pos)); err != nil {
			return fmt.Errorf("row %d: %v: %w", pos, err, ErrStaleTable)
		}
		seen++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load table %d: %w", meta.ID, err)
	}
	if seen != guesses.Len() {
		return nil, fmt.Errorf("load table %d: %d of %d rows: %w", meta.ID, seen, guesses.Len(), ErrStaleTable)
	}
	return m, nil
}

// LoadOrBuild returns the cached table for the lists, building and saving it
// when it is missing or stale. The boolean reports whether the cache was hit.
func LoadOrBuild(ctx context.Context, conn *sql.DB, guesses, answers *wordle.Corpus, opts BuildOptions, batchSize int) (*Matrix, bool, error) {
	m, err := Load(ctx, conn, guesses, answers)
	if err == nil {
		return m, true, nil
	}
	if !errors.Is(err, ErrNotCached) && !errors.Is(err, ErrStaleTable) {
		return nil, false, err
	}
	if opts.Logger != nil {
		opts.Logger.Info("rebuilding grade table", slog.String("reason", err.Error()))
	}
	m, err = Build(ctx, guesses, answers, opts)
	if err != nil {
		return nil, false, err
	}
	if err := Save(ctx, conn, m, batchSize); err != nil {
		return nil, false, err
	}
	return m, false, nil
}
