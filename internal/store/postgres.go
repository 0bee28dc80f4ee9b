package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // Postgres driver
)

// Postgres implements Store backed by PostgreSQL via sqlx.
//
// Expected schema:
//
//	CREATE TABLE blogs (
//	    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
//	    name TEXT NOT NULL,
//	    url TEXT NOT NULL,
//	    blog_owner TEXT NOT NULL UNIQUE,
//	    target_category TEXT NOT NULL DEFAULT '',
//	    description TEXT NOT NULL DEFAULT '',
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
//
//	CREATE TABLE blog_posts (
//	    id UUID PRIMARY KEY,
//	    blog_id UUID NOT NULL REFERENCES blogs(id) ON DELETE CASCADE,
//	    post_id TEXT NOT NULL,
//	    url TEXT NOT NULL,
//	    title TEXT NOT NULL,
//	    published_at TIMESTAMPTZ,
//	    content TEXT NOT NULL,
//	    image_urls JSONB NOT NULL DEFAULT '[]',
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    UNIQUE (blog_id, post_id)
//	);
type Postgres struct {
	DB *sqlx.DB
}

// PostgresConfig controls the connection pool.
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// NewPostgres connects to PostgreSQL and pings it to verify the
// connection is alive.
func NewPostgres(ctx context.Context, cfg PostgresConfig) (*Postgres, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	return &Postgres{DB: db}, nil
}

type blogRow struct {
	ID             uuid.UUID `db:"id"`
	Name           string    `db:"name"`
	URL            string    `db:"url"`
	Owner          string    `db:"blog_owner"`
	TargetCategory string    `db:"target_category"`
	Description    string    `db:"description"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r blogRow) toBlog() Blog {
	return Blog{
		ID:             r.ID,
		Name:           r.Name,
		URL:            r.URL,
		Owner:          r.Owner,
		TargetCategory: r.TargetCategory,
		Description:    r.Description,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// GetBlogByOwner fetches the blog registered for one owner handle.
func (p *Postgres) GetBlogByOwner(ctx context.Context, owner string) (Blog, error) {
	const query = `
		SELECT id, name, url, blog_owner, target_category, description, created_at, updated_at
		FROM blogs
		WHERE blog_owner = $1
	`
	var row blogRow
	if err := p.DB.GetContext(ctx, &row, query, owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Blog{}, fmt.Errorf("%w: blog owner %q", ErrNotFound, owner)
		}
		return Blog{}, fmt.Errorf("select blog: %w", err)
	}
	return row.toBlog(), nil
}

// ListBlogs returns every registered blog ordered by name.
func (p *Postgres) ListBlogs(ctx context.Context) ([]Blog, error) {
	const query = `
		SELECT id, name, url, blog_owner, target_category, description, created_at, updated_at
		FROM blogs
		ORDER BY name
	`
	var rows []blogRow
	if err := p.DB.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select blogs: %w", err)
	}
	blogs := make([]Blog, 0, len(rows))
	for _, r := range rows {
		blogs = append(blogs, r.toBlog())
	}
	return blogs, nil
}

// BlogPostExists reports whether the (blog, post id) pair was already
// ingested.
func (p *Postgres) BlogPostExists(ctx context.Context, blogID uuid.UUID, postID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM blog_posts WHERE blog_id = $1 AND post_id = $2)`
	var exists bool
	if err := p.DB.GetContext(ctx, &exists, query, blogID, postID); err != nil {
		return false, fmt.Errorf("check blog post: %w", err)
	}
	return exists, nil
}

// SaveBlogPost inserts one assembled post record. Image URLs are stored
// as a JSONB array.
func (p *Postgres) SaveBlogPost(ctx context.Context, post BlogPost) (uuid.UUID, error) {
	imageURLs := post.ImageURLs
	if imageURLs == nil {
		imageURLs = []string{}
	}
	imagesJSON, err := json.Marshal(imageURLs)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal image urls: %w", err)
	}

	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}

	const query = `
		INSERT INTO blog_posts (id, blog_id, post_id, url, title, published_at, content, image_urls)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id uuid.UUID
	err = p.DB.QueryRowxContext(ctx, query,
		post.ID,
		post.BlogID,
		post.PostID,
		post.URL,
		post.Title,
		post.PublishedAt,
		post.Content,
		imagesJSON,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert blog post: %w", err)
	}
	return id, nil
}

// Close shuts down the connection pool.
func (p *Postgres) Close() error {
	if err := p.DB.Close(); err != nil {
		return fmt.Errorf("close postgres: %w", err)
	}
	return nil
}
