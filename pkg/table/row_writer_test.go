package table

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/japaniel/wordlesolver/pkg/db"
	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	conn.SetMaxOpenConns(1)
	if err := db.InitDB(conn); err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func createTestTable(t *testing.T, conn *sql.DB, guesses int) int64 {
	t.Helper()
	id, err := db.CreateTable(conn, "fp", 5, guesses, 1)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	return id
}

func closeWithin(t *testing.T, rw *RowWriter) error {
	t.Helper()
	doneCh := make(chan error, 1)
	go func() { doneCh <- rw.Close() }()
	select {
	case err := <-doneCh:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for row writer to close")
		return nil
	}
}

func TestRowWriterCommitsRows(t *testing.T) {
	conn := setupTestDB(t)
	id := createTestTable(t, conn, 5)

	rw := NewRowWriter(context.Background(), conn, id, 2)
	for pos := 0; pos < 5; pos++ {
		if err := rw.Put(pos, []byte{byte(pos), 0}); err != nil {
			t.Fatalf("put %d: %v", pos, err)
		}
	}
	if err := closeWithin(t, rw); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if got := rw.Written(); got != 5 {
		t.Fatalf("expected 5 written rows, got %d", got)
	}

	got := map[int]byte{}
	if err := db.ScanRows(conn, id, func(pos int, grades []byte) error {
		got[pos] = grades[0]
		return nil
	}); err != nil {
		t.Fatalf("scan: %v", err)
	}
	for pos := 0; pos < 5; pos++ {
		if got[pos] != byte(pos) {
			t.Fatalf("row %d: expected %d, got %v", pos, pos, got)
		}
	}
}

func TestRowWriterReplacesRows(t *testing.T) {
	conn := setupTestDB(t)
	id := createTestTable(t, conn, 1)

	rw := NewRowWriter(context.Background(), conn, id, 4)
	_ = rw.Put(0, []byte{1, 0})
	_ = rw.Put(0, []byte{7, 0})
	if err := closeWithin(t, rw); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	n, err := db.CountRows(conn, id)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row after upsert, got %d", n)
	}
	if err := db.ScanRows(conn, id, func(pos int, grades []byte) error {
		if grades[0] != 7 {
			t.Fatalf("expected the later row to win, got %v", grades)
		}
		return nil
	}); err != nil {
		t.Fatalf("scan: %v", err)
	}
}

func TestRowWriterRollsBackFailedBatch(t *testing.T) {
	conn := setupTestDB(t)
	id := createTestTable(t, conn, 4)
	if _, err := conn.Exec(`CREATE TRIGGER reject_row BEFORE INSERT ON grade_rows
		WHEN NEW.guess_pos = 1 BEGIN SELECT RAISE(ABORT, 'rejected'); END`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	rw := NewRowWriter(context.Background(), conn, id, 2)
	_ = rw.Put(0, []byte{1, 0})
	_ = rw.Put(1, []byte{2, 0})
	if err := closeWithin(t, rw); err == nil {
		t.Fatal("expected Close to report the batch error")
	}
	if rw.Written() != 0 {
		t.Fatalf("expected no rows counted as written, got %d", rw.Written())
	}
	n, err := db.CountRows(conn, id)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 rows (rollback), got %d", n)
	}
}

func TestRowWriterStopsAfterError(t *testing.T) {
	conn := setupTestDB(t)
	id := createTestTable(t, conn, 10)
	if _, err := conn.Exec(`CREATE TRIGGER reject_row BEFORE INSERT ON grade_rows
		WHEN NEW.guess_pos = 0 BEGIN SELECT RAISE(ABORT, 'rejected'); END`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	rw := NewRowWriter(context.Background(), conn, id, 1)
	var putErr error
	deadline := time.Now().Add(2 * time.Second)
	for pos := 0; putErr == nil && time.Now().Before(deadline); pos = (pos + 1) % 10 {
		putErr = rw.Put(pos, []byte{1, 0})
	}
	if putErr == nil {
		t.Fatal("expected Put to surface the commit error")
	}
	if err := closeWithin(t, rw); err == nil {
		t.Fatal("expected Close to report the commit error")
	}
}

func TestRowWriterCanceled(t *testing.T) {
	conn := setupTestDB(t)
	id := createTestTable(t, conn, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rw := NewRowWriter(ctx, conn, id, 1)
	_ = rw.Put(0, []byte{1, 0})
	if err := closeWithin(t, rw); err == nil {
		t.Fatal("expected an error from a canceled writer")
	}
	n, err := db.CountRows(conn, id)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 rows, got %d", n)
	}
}

func TestRowWriterClosed(t *testing.T) {
	conn := setupTestDB(t)
	id := createTestTable(t, conn, 1)
	rw := NewRowWriter(context.Background(), conn, id, 2)
	if err := rw.Put(-1, []byte{0, 0}); err == nil {
		t.Fatal("expected error for a negative position")
	}
	if err := closeWithin(t, rw); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := rw.Put(0, []byte{0, 0}); err != ErrRowWriterClosed {
		t.Fatalf("expected ErrRowWriterClosed, got %v", err)
	}
	if err := rw.Close(); err != ErrRowWriterClosed {
		t.Fatalf("expected ErrRowWriterClosed on second close, got %v", err)
	}
}
