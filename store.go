package lexsite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/lexsite/contact"
	"github.com/eringen/lexsite/listing"
)

// Store wraps a SQLite database holding the blog posts and contact messages.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed during a content reload; busy_timeout makes
	// writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    excerpt TEXT NOT NULL,
    url TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_posts_position ON posts(position);

CREATE TABLE IF NOT EXISTS messages (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    body TEXT NOT NULL,
    created_at DATETIME NOT NULL
);
`)
	return err
}

// ReplacePosts swaps the stored posts for posts in one transaction.
// The slice order becomes the listing order.
func (s *Store) ReplacePosts(posts []listing.Post) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM posts`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO posts (slug, position, title, date, excerpt, url, category) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, p := range posts {
		if _, err := stmt.Exec(p.Slug, i, p.Title, p.Date, p.Excerpt, p.URL, p.Category); err != nil {
			return fmt.Errorf("insert post %q: %w", p.Slug, err)
		}
	}
	return tx.Commit()
}

// ListPosts returns every post in listing order.
func (s *Store) ListPosts() ([]listing.Post, error) {
	rows, err := s.db.Query(`SELECT slug, title, date, excerpt, url, category FROM posts ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []listing.Post
	for rows.Next() {
		var p listing.Post
		if err := rows.Scan(&p.Slug, &p.Title, &p.Date, &p.Excerpt, &p.URL, &p.Category); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// CountPosts returns the number of stored posts.
func (s *Store) CountPosts() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}

// SaveMessage stores an accepted contact message.
func (s *Store) SaveMessage(m contact.Message) error {
	_, err := s.db.Exec(`INSERT INTO messages (id, name, email, body, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Email, m.Body, m.CreatedAt.UTC())
	return err
}

// ListMessages returns the latest limit messages, newest first.
func (s *Store) ListMessages(limit int) ([]contact.Message, error) {
	rows, err := s.db.Query(`SELECT id, name, email, body, created_at FROM messages ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []contact.Message
	for rows.Next() {
		var m contact.Message
		var created time.Time
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Body, &created); err != nil {
			return nil, err
		}
		m.CreatedAt = created
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
