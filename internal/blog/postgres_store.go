package blog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on top of a pgx connection pool. Selected
// when DATABASE_URL is configured.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.init(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) init(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS posts (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			content TEXT NOT NULL,
			image_url TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at DESC);
		CREATE TABLE IF NOT EXISTS subscribers (
			email TEXT PRIMARY KEY,
			active BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMPTZ
		);
	`)
	return err
}

func (s *PostgresStore) List() ([]Post, error) {
	ctx := context.Background()
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, slug, content, COALESCE(image_url, ''), created_at, updated_at
		FROM posts ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *PostgresStore) FindBySlug(slug string) (*Post, error) {
	return s.findWhere("slug = $1", slug)
}

func (s *PostgresStore) FindByID(id string) (*Post, error) {
	return s.findWhere("id = $1", id)
}

func (s *PostgresStore) findWhere(cond string, arg any) (*Post, error) {
	ctx := context.Background()
	var p Post
	err := s.pool.QueryRow(ctx, `
		SELECT id, title, slug, content, COALESCE(image_url, ''), created_at, updated_at
		FROM posts WHERE `+cond,
		arg,
	).Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) Insert(data PostData) (*Post, error) {
	ctx := context.Background()
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

	_, err := s.pool.Exec(ctx, `
		INSERT INTO posts (id, title, slug, content, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
	`, post.ID, post.Title, post.Slug, post.Content, post.ImageURL, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		return nil, mapPgSlugConflict(err)
	}
	return &post, nil
}

func (s *PostgresStore) Update(currentSlug string, data PostData) (*Post, error) {
	ctx := context.Background()
	var updated Post
	err := s.pool.QueryRow(ctx, `
		UPDATE posts SET title = $1, slug = $2, content = $3, image_url = NULLIF($4, ''), updated_at = $5
		WHERE slug = $6
		RETURNING id, title, slug, content, COALESCE(image_url, ''), created_at, updated_at
	`, data.Title, data.Slug, data.Content, data.ImageURL, time.Now(), currentSlug,
	).Scan(&updated.ID, &updated.Title, &updated.Slug, &updated.Content, &updated.ImageURL, &updated.CreatedAt, &updated.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, mapPgSlugConflict(err)
	}
	return &updated, nil
}

func (s *PostgresStore) DeleteByID(id string) error {
	return s.deleteWhere("id = $1", id)
}

func (s *PostgresStore) DeleteBySlug(slug string) error {
	return s.deleteWhere("slug = $1", slug)
}

func (s *PostgresStore) deleteWhere(cond string, arg any) error {
	tag, err := s.pool.Exec(context.Background(), "DELETE FROM posts WHERE "+cond, arg)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Subscriber methods

func (s *PostgresStore) AddSubscriber(email string) error {
	_, err := s.pool.Exec(context.Background(), `
		INSERT INTO subscribers (email, active, created_at)
		VALUES ($1, TRUE, $2)
		ON CONFLICT (email) DO UPDATE SET active = TRUE
	`, email, time.Now())
	return err
}

func (s *PostgresStore) RemoveSubscriber(email string) error {
	_, err := s.pool.Exec(context.Background(), "UPDATE subscribers SET active = FALSE WHERE email = $1", email)
	return err
}

func (s *PostgresStore) ListSubscribers() ([]Subscriber, error) {
	rows, err := s.pool.Query(context.Background(), `
		SELECT email, active, created_at FROM subscribers
		WHERE active ORDER BY created_at DESC
	`)
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

// 23505 is Postgres' unique_violation; on the slug index it means a
// check-then-act race was lost, which stays a conflict for the caller.
func mapPgSlugConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateSlug
	}
	return err
}
