package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ArticleCache persists fetched articles keyed by message-id so repeat
// fetches can be served without touching the server.
type ArticleCache struct {
	db *sql.DB
}

func Open(dbPath string) (*ArticleCache, error) {

	dbDir := filepath.Dir(dbPath)

	// Ensure the database directory exists
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// Ping makes sure the file is actually accessible and the DSN is valid
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	cache := &ArticleCache{db: db}

	if err := cache.initSchema(); err != nil {
		return nil, fmt.Errorf("could not initialize schema: %w", err)
	}

	return cache, nil
}

func (c *ArticleCache) initSchema() error {
	schema := `CREATE TABLE IF NOT EXISTS articles (
		id          TEXT NOT NULL,
		message_id  TEXT PRIMARY KEY,
		newsgroup   TEXT NOT NULL,
		subject     TEXT NOT NULL DEFAULT '',
		body        BLOB NOT NULL,
		bytes       INTEGER NOT NULL,
		fetched_at  TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_articles_newsgroup ON articles(newsgroup);`

	_, err := c.db.Exec(schema)
	return err
}

func (c *ArticleCache) Close() error {
	return c.db.Close()
}
