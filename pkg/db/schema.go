package db

// migrationsSQL creates the grade-table cache schema. Statements are
// idempotent and separated by semicolons.
const migrationsSQL = `
CREATE TABLE IF NOT EXISTS grade_tables (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	fingerprint  TEXT    NOT NULL UNIQUE,
	word_length  INTEGER NOT NULL,
	guess_count  INTEGER NOT NULL,
	answer_count INTEGER NOT NULL,
	complete     INTEGER NOT NULL DEFAULT 0,
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS table_words (
	table_id INTEGER NOT NULL REFERENCES grade_tables(id) ON DELETE CASCADE,
	list     TEXT    NOT NULL CHECK (list IN ('guess', 'answer')),
	position INTEGER NOT NULL,
	word     TEXT    NOT NULL,
	PRIMARY KEY (table_id, list, position)
);

CREATE TABLE IF NOT EXISTS grade_rows (
	table_id  INTEGER NOT NULL REFERENCES grade_tables(id) ON DELETE CASCADE,
	guess_pos INTEGER NOT NULL,
	grades    BLOB    NOT NULL,
	PRIMARY KEY (table_id, guess_pos)
);
`
