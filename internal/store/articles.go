package store

import (
	"database/sql"
	"errors"
	"time"
)

// ArticleRecord is one cached article. ID is the fetch's ksuid; the
// cache itself is keyed by message-id, so refetching an article
// replaces its previous record.
type ArticleRecord struct {
	ID        string
	MessageID string
	Newsgroup string
	Subject   string
	Body      []byte
	Bytes     int64
	FetchedAt time.Time
}

func (c *ArticleCache) SaveArticle(rec *ArticleRecord) error {

	query := `INSERT OR REPLACE INTO articles (id, message_id, newsgroup, subject, body, bytes, fetched_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := c.db.Exec(query,
		rec.ID,
		rec.MessageID,
		rec.Newsgroup,
		rec.Subject,
		rec.Body,
		rec.Bytes,
		rec.FetchedAt,
	)
	return err
}

// GetArticle returns the cached record for a message-id, or nil when
// the cache has never seen it.
func (c *ArticleCache) GetArticle(messageID string) (*ArticleRecord, error) {
	row := c.db.QueryRow(
		`SELECT id, message_id, newsgroup, subject, body, bytes, fetched_at
         FROM articles WHERE message_id = ?`, messageID)

	rec := &ArticleRecord{}
	err := row.Scan(&rec.ID, &rec.MessageID, &rec.Newsgroup, &rec.Subject, &rec.Body, &rec.Bytes, &rec.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// CountArticles reports how many articles are cached for a newsgroup.
// An empty newsgroup counts the whole cache.
func (c *ArticleCache) CountArticles(newsgroup string) (int64, error) {
	var row *sql.Row
	if newsgroup == "" {
		row = c.db.QueryRow(`SELECT COUNT(*) FROM articles`)
	} else {
		row = c.db.QueryRow(`SELECT COUNT(*) FROM articles WHERE newsgroup = ?`, newsgroup)
	}

	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
