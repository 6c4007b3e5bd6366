package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store - единственный источник истины игры: SQLite-база с таблицами
// player, chunks, npc, conversation_history и lore_chunks.
// Все операции синхронные; сессия однопользовательская, поэтому
// полнодокументная перезапись чанков (last-writer-wins) приемлема.
type Store struct {
	db *sql.DB
}

// Open открывает (или создает) базу и разворачивает схему.
// Для тестов годится путь ":memory:".
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Один коннект: исключает "database is locked" на драйвере без cgo.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func initPragmas(db *sql.DB) error {
	// WAL быстрее для нашего режима "прочитал документ - записал целиком".
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS player (
	player_id      INTEGER PRIMARY KEY,
	health         INTEGER DEFAULT 100,
	inventory      TEXT    DEFAULT 'Nothing',
	money          INTEGER DEFAULT 50,
	hunger         INTEGER DEFAULT 100,
	thirst         INTEGER DEFAULT 100,
	energy         INTEGER DEFAULT 100,
	alignment      INTEGER DEFAULT 50,
	attack         INTEGER DEFAULT 5,
	defense        INTEGER DEFAULT 5,
	agility        INTEGER DEFAULT 5,
	q              INTEGER DEFAULT 0,
	r              INTEGER DEFAULT 0,
	location_name  TEXT    DEFAULT 'village',
	place_name     TEXT,
	time_year      INTEGER DEFAULT 1,
	time_month     INTEGER DEFAULT 1,
	time_day       INTEGER DEFAULT 1,
	time_hour      INTEGER DEFAULT 8,
	npc_team       TEXT    DEFAULT '[]',
	current_npc_id INTEGER
);

CREATE TABLE IF NOT EXISTS chunks (
	chunk_id  INTEGER PRIMARY KEY AUTOINCREMENT,
	q         INTEGER NOT NULL,
	r         INTEGER NOT NULL,
	data_json TEXT    NOT NULL,
	UNIQUE (q, r)
);

CREATE TABLE IF NOT EXISTS npc (
	npc_id           INTEGER PRIMARY KEY AUTOINCREMENT,
	name             TEXT NOT NULL,
	personality      TEXT,
	memory           TEXT DEFAULT '[]',
	home_q           INTEGER,
	home_r           INTEGER,
	current_q        INTEGER,
	current_r        INTEGER,
	location_name    TEXT,
	site_name        TEXT,
	status           TEXT DEFAULT 'active',
	npc_type         TEXT DEFAULT 'wanderer',
	last_interaction TEXT
);

CREATE TABLE IF NOT EXISTS conversation_history (
	conversation_id INTEGER PRIMARY KEY AUTOINCREMENT,
	npc_id          INTEGER,
	player_id       INTEGER,
	timestamp       TEXT DEFAULT CURRENT_TIMESTAMP,
	dialogue        TEXT
);

CREATE TABLE IF NOT EXISTS lore_chunks (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	collection TEXT NOT NULL,
	doc_id     TEXT NOT NULL UNIQUE,
	title      TEXT,
	content    TEXT NOT NULL,
	embedding  BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_npc_position ON npc (current_q, current_r, location_name);
CREATE INDEX IF NOT EXISTS idx_lore_collection ON lore_chunks (collection);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Reset очищает игровые таблицы (мир, игрок, NPC, разговоры).
// Лор не трогаем: он переживает перезапуски мира.
func (s *Store) Reset() error {
	stmts := []string{
		"DELETE FROM chunks;",
		"DELETE FROM player;",
		"DELETE FROM npc;",
		"DELETE FROM conversation_history;",
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	}
	return nil
}
