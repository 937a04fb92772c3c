package db

import (
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Ensure single connection to avoid separate in-memory DBs per connection.
	db.SetMaxOpenConns(1)
	if err := InitDB(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestInitDBCreatesSchema(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	for _, table := range []string{"grade_tables", "table_words", "grade_rows"} {
		var name string
		if err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}
	// Migrations are idempotent.
	if err := InitDB(db); err != nil {
		t.Fatalf("second InitDB: %v", err)
	}
}

func TestCreateAndFindTable(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	id, err := CreateTable(db, "fp-1", 5, 3, 2)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	got, err := FindTable(db, "fp-1")
	if err != nil {
		t.Fatalf("find table: %v", err)
	}
	if got.ID != id || got.WordLength != 5 || got.GuessCount != 3 || got.AnswerCount != 2 || got.Complete {
		t.Fatalf("unexpected table %+v", got)
	}
	if err := MarkComplete(db, id); err != nil {
		t.Fatalf("mark complete: %v", err)
	}
	got, err = FindTable(db, "fp-1")
	if err != nil {
		t.Fatalf("find table: %v", err)
	}
	if !got.Complete {
		t.Fatalf("expected complete table")
	}

	if _, err := FindTable(db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := MarkComplete(db, id+100); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown table, got %v", err)
	}
}

func TestCreateTableValidates(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	if _, err := CreateTable(db, " ", 5, 1, 1); err == nil {
		t.Fatalf("expected error for empty fingerprint")
	}
	if _, err := CreateTable(db, "fp", 0, 1, 1); err == nil {
		t.Fatalf("expected error for zero word length")
	}
}

func TestWordsAndRows(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	id, err := CreateTable(db, "fp-2", 5, 2, 3)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	if err := InsertWords(db, id, ListGuess, []string{"arose", "tints"}); err != nil {
		t.Fatalf("insert guesses: %v", err)
	}
	if err := InsertWords(db, id, ListAnswer, []string{"crane", "slate", "tiles"}); err != nil {
		t.Fatalf("insert answers: %v", err)
	}
	if err := InsertWords(db, id, "other", []string{"x"}); err == nil {
		t.Fatalf("expected error for unknown list")
	}
	words, err := GetWords(db, id, ListAnswer)
	if err != nil {
		t.Fatalf("get words: %v", err)
	}
	if len(words) != 3 || words[0] != "crane" || words[2] != "tiles" {
		t.Fatalf("unexpected answers %v", words)
	}

	if err := PutRow(db, id, 1, []byte{1, 2, 3}); err != nil {
		t.Fatalf("put row 1: %v", err)
	}
	if err := PutRow(db, id, 0, []byte{9}); err != nil {
		t.Fatalf("put row 0: %v", err)
	}
	// Upsert replaces the row.
	if err := PutRow(db, id, 0, []byte{4, 5, 6}); err != nil {
		t.Fatalf("put row 0 again: %v", err)
	}
	if err := PutRow(db, id, -1, nil); err == nil {
		t.Fatalf("expected error for negative position")
	}
	n, err := CountRows(db, id)
	if err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows, got %d", n)
	}

	var order []int
	err = ScanRows(db, id, func(pos int, grades []byte) error {
		order = append(order, pos)
		if pos == 0 && (len(grades) != 3 || grades[0] != 4) {
			t.Fatalf("unexpected row 0: %v", grades)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("scan rows: %v", err)
	}
	if len(order) != 2 || order[0] != 0 || order[1] != 1 {
		t.Fatalf("unexpected row order %v", order)
	}
}

func TestCreateTableReplacesPrevious(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	id1, err := CreateTable(db, "fp-3", 5, 1, 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := InsertWords(db, id1, ListGuess, []string{"arose"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := PutRow(db, id1, 0, []byte{0, 0}); err != nil {
		t.Fatalf("put row: %v", err)
	}
	id2, err := CreateTable(db, "fp-3", 5, 1, 1)
	if err != nil {
		t.Fatalf("recreate: %v", err)
	}
	if id1 == id2 {
		t.Fatalf("expected a fresh id")
	}
	var cnt int
	if err := db.QueryRow(`SELECT COUNT(*) FROM table_words`).Scan(&cnt); err != nil {
		t.Fatalf("count words: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("expected old words removed, found %d", cnt)
	}
	if n, _ := CountRows(db, id1); n != 0 {
		t.Fatalf("expected old rows removed, found %d", n)
	}
}

func TestOpenMemory(t *testing.T) {
	conn, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()
	if _, err := CreateTable(conn, "fp", 5, 0, 0); err != nil {
		t.Fatalf("create on opened db: %v", err)
	}
}

func TestPrepareRowUpsert(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	id, err := CreateTable(db, "fp", 5, 2, 1)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	stmt, err := PrepareRowUpsert(tx)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	for _, r := range []struct {
		pos    int
		grades []byte
	}{{0, []byte{1, 0}}, {1, []byte{2, 0}}, {0, []byte{3, 0}}} {
		if _, err := stmt.Exec(id, r.pos, r.grades); err != nil {
			t.Fatalf("exec row %d: %v", r.pos, err)
		}
	}
	stmt.Close()
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	got := map[int][]byte{}
	if err := ScanRows(db, id, func(pos int, grades []byte) error {
		got[pos] = append([]byte(nil), grades...)
		return nil
	}); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(got) != 2 || got[0][0] != 3 || got[1][0] != 2 {
		t.Fatalf("unexpected rows %v", got)
	}
}
