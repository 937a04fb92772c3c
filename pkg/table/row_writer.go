package table

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/japaniel/wordlesolver/pkg/db"
)

// ErrRowWriterClosed is returned by Put and Close once the writer is closed.
var ErrRowWriterClosed = errors.New("row writer closed")

type encodedRow struct {
	pos    int
	grades []byte
}

// RowWriter streams encoded grade rows of one stored table into sqlite. Rows
// are grouped into batches of a fixed size and each batch is written in one
// transaction through a prepared upsert, on a single background goroutine.
// Put blocks while a batch is waiting for the committer.
type RowWriter struct {
	conn    *sql.DB
	tableID int64
	size    int

	mu      sync.Mutex
	pending []encodedRow
	closed  bool

	batches chan []encodedRow
	done    chan struct{}

	errMu   sync.Mutex
	err     error
	written int
}

// NewRowWriter starts a writer for tableID. Commits run under ctx; once ctx is
// canceled pending batches are dropped and the error is reported by Close.
func NewRowWriter(ctx context.Context, conn *sql.DB, tableID int64, batchSize int) *RowWriter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	w := &RowWriter{
		conn:    conn,
		tableID: tableID,
		size:    batchSize,
		pending: make([]encodedRow, 0, batchSize),
		batches: make(chan []encodedRow, 1),
		done:    make(chan struct{}),
	}
	go w.commitLoop(ctx)
	return w
}

// Put queues the row for guessPos. It returns the first commit error early so
// callers can stop producing rows.
func (w *RowWriter) Put(guessPos int, grades []byte) error {
	if guessPos < 0 {
		return fmt.Errorf("put row: negative guess position %d", guessPos)
	}
	if err := w.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrRowWriterClosed
	}
	w.pending = append(w.pending, encodedRow{pos: guessPos, grades: grades})
	if len(w.pending) >= w.size {
		w.flushLocked()
	}
	return nil
}

// flushLocked hands the pending rows to the committer; w.mu must be held.
func (w *RowWriter) flushLocked() {
	if len(w.pending) == 0 {
		return
	}
	w.batches <- w.pending
	w.pending = make([]encodedRow, 0, w.size)
}

func (w *RowWriter) commitLoop(ctx context.Context) {
	defer close(w.done)
	for batch := range w.batches {
		if w.Err() != nil {
			continue
		}
		if err := w.commit(ctx, batch); err != nil {
			w.setErr(err)
			continue
		}
		w.errMu.Lock()
		w.written += len(batch)
		w.errMu.Unlock()
	}
}

func (w *RowWriter) commit(ctx context.Context, batch []encodedRow) error {
	tx, err := w.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin row batch: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	stmt, err := db.PrepareRowUpsert(tx)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range batch {
		if _, err := stmt.ExecContext(ctx, w.tableID, r.pos, r.grades); err != nil {
			return fmt.Errorf("write row %d: %w", r.pos, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch of %d rows: %w", len(batch), err)
	}
	return nil
}

func (w *RowWriter) setErr(err error) {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	if w.err == nil {
		w.err = err
	}
}

// Err is the first commit error so far.
func (w *RowWriter) Err() error {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	return w.err
}

// Written is the number of rows committed so far.
func (w *RowWriter) Written() int {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	return w.written
}

// Close commits the remaining rows, waits for the committer and returns the
// first commit error.
func (w *RowWriter) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrRowWriterClosed
	}
	w.closed = true
	w.flushLocked()
	close(w.batches)
	w.mu.Unlock()

	<-w.done
	return w.Err()
}
