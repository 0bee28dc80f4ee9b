// Package store defines the interfaces for persisting blogs and the
// posts ingested from them. The interface decouples the pipeline from a
// specific database, which keeps the crawl code testable without a
// running Postgres.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Blog is a persisted crawl target: the platform owner handle plus the
// category the ingestor should watch.
type Blog struct {
	ID             uuid.UUID `db:"id"`
	Name           string    `db:"name"`
	URL            string    `db:"url"`
	Owner          string    `db:"blog_owner"`
	TargetCategory string    `db:"target_category"`
	Description    string    `db:"description"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// BlogPost is one ingested post assembled from extracted content plus
// blog metadata.
type BlogPost struct {
	ID          uuid.UUID  `db:"id"`
	BlogID      uuid.UUID  `db:"blog_id"`
	PostID      string     `db:"post_id"`
	URL         string     `db:"url"`
	Title       string     `db:"title"`
	PublishedAt *time.Time `db:"published_at"`
	Content     string     `db:"content"`
	ImageURLs   []string   `db:"image_urls"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// Store is the persistence contract consumed by the ingest pipeline.
type Store interface {
	// GetBlogByOwner returns the blog registered for a platform owner
	// handle, or ErrNotFound.
	GetBlogByOwner(ctx context.Context, owner string) (Blog, error)

	// ListBlogs returns every registered blog.
	ListBlogs(ctx context.Context) ([]Blog, error)

	// BlogPostExists reports whether a post id was already ingested for
	// the blog.
	BlogPostExists(ctx context.Context, blogID uuid.UUID, postID string) (bool, error)

	// SaveBlogPost inserts a new blog post record and returns its id.
	SaveBlogPost(ctx context.Context, post BlogPost) (uuid.UUID, error)

	// Close terminates the underlying connection pool.
	Close() error
}

// NoOp is a Store that persists nothing. Useful for dry runs and local
// development without a database.
type NoOp struct{}

// GetBlogByOwner returns a synthetic blog for the owner handle.
func (NoOp) GetBlogByOwner(_ context.Context, owner string) (Blog, error) {
	return Blog{
		ID:             uuid.New(),
		Name:           owner,
		URL:            "https://blog.naver.com/" + owner,
		Owner:          owner,
		TargetCategory: "",
	}, nil
}

// ListBlogs returns no blogs.
func (NoOp) ListBlogs(_ context.Context) ([]Blog, error) { return nil, nil }

// BlogPostExists always reports false so every post is processed.
func (NoOp) BlogPostExists(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
	return false, nil
}

// SaveBlogPost discards the record.
func (NoOp) SaveBlogPost(_ context.Context, _ BlogPost) (uuid.UUID, error) {
	return uuid.New(), nil
}

// Close does nothing.
func (NoOp) Close() error { return nil }
