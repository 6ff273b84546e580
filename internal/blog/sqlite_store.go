package blog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	// 确保数据库文件所在的目录存在
	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	// 开启 WAL 模式以提高并发性能和数据安全性
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// 设置繁忙超时，防止 locked 错误
	if _, err := db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) init() error {
	query := `
	CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		content TEXT NOT NULL,
		image_url TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at DESC);
	CREATE TABLE IF NOT EXISTS subscribers (
		email TEXT PRIMARY KEY,
		active BOOLEAN DEFAULT 1,
		created_at DATETIME
	);
	`
	_, err := s.db.Exec(query)
	return err
}

func (s *SQLiteStore) List() ([]Post, error) {
	return s.queryPosts("SELECT id, title, slug, content, image_url, created_at, updated_at FROM posts ORDER BY created_at DESC")
}

func (s *SQLiteStore) FindBySlug(slug string) (*Post, error) {
	return s.queryPost("SELECT id, title, slug, content, image_url, created_at, updated_at FROM posts WHERE slug = ?", slug)
}

func (s *SQLiteStore) FindByID(id string) (*Post, error) {
	return s.queryPost("SELECT id, title, slug, content, image_url, created_at, updated_at FROM posts WHERE id = ?", id)
}

func (s *SQLiteStore) Insert(data PostData) (*Post, error) {
	now := time.Now()
	post := Post{
		ID:        uuid.NewString(),
		Title:     data.Title,
		Slug:      data.Slug,
		Content:   data.Content,
		ImageURL:  data.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.Exec(`
		INSERT INTO posts (id, title, slug, content, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, post.ID, post.Title, post.Slug, post.Content, nullable(post.ImageURL), post.CreatedAt, post.UpdatedAt)
	if err != nil {
		return nil, mapSlugConflict(err)
	}
	return &post, nil
}

func (s *SQLiteStore) Update(currentSlug string, data PostData) (*Post, error) {
	current, err := s.FindBySlug(currentSlug)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}

	updated := Post{
		ID:        current.ID,
		Title:     data.Title,
		Slug:      data.Slug,
		Content:   data.Content,
		ImageURL:  data.ImageURL,
		CreatedAt: current.CreatedAt,
		UpdatedAt: time.Now(),
	}

	_, err = s.db.Exec(`
		UPDATE posts SET title = ?, slug = ?, content = ?, image_url = ?, updated_at = ?
		WHERE slug = ?
	`, updated.Title, updated.Slug, updated.Content, nullable(updated.ImageURL), updated.UpdatedAt, currentSlug)
	if err != nil {
		return nil, mapSlugConflict(err)
	}
	return &updated, nil
}

func (s *SQLiteStore) DeleteByID(id string) error {
	return s.deleteWhere("DELETE FROM posts WHERE id = ?", id)
}

func (s *SQLiteStore) DeleteBySlug(slug string) error {
	return s.deleteWhere("DELETE FROM posts WHERE slug = ?", slug)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Subscriber methods

func (s *SQLiteStore) AddSubscriber(email string) error {
	_, err := s.db.Exec(`
		INSERT INTO subscribers (email, active, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET active = 1
	`, email, true, time.Now())
	return err
}

func (s *SQLiteStore) RemoveSubscriber(email string) error {
	_, err := s.db.Exec("UPDATE subscribers SET active = 0 WHERE email = ?", email)
	return err
}

func (s *SQLiteStore) ListSubscribers() ([]Subscriber, error) {
	rows, err := s.db.Query("SELECT email, active, created_at FROM subscribers WHERE active = 1 ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Subscriber
	for rows.Next() {
		var sub Subscriber
		if err := rows.Scan(&sub.Email, &sub.Active, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// Helpers

func (s *SQLiteStore) queryPosts(query string, args ...any) ([]Post, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (s *SQLiteStore) queryPost(query string, args ...any) (*Post, error) {
	posts, err := s.queryPosts(query, args...)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return &posts[0], nil
}

func (s *SQLiteStore) deleteWhere(query string, arg any) error {
	res, err := s.db.Exec(query, arg)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPost(rows *sql.Rows) (Post, error) {
	var p Post
	var imageURL sql.NullString
	err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &imageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Post{}, err
	}
	p.ImageURL = imageURL.String
	return p, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// mapSlugConflict translates the driver's UNIQUE constraint failure on the
// slug column into ErrDuplicateSlug so a lost check-then-act race still
// surfaces as a conflict.
func mapSlugConflict(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") && strings.Contains(err.Error(), "slug") {
		return ErrDuplicateSlug
	}
	return err
}
