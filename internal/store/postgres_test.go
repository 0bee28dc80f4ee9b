// Package store_test contains unit tests for the Postgres store.
package store_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkweon/blogfeed-crawler/internal/store"
)

func newMockStore(t *testing.T) (*store.Postgres, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return &store.Postgres{DB: sqlx.NewDb(mockDB, "sqlmock")}, mock
}

func TestPostgres_GetBlogByOwner(t *testing.T) {
	p, mock := newMockStore(t)

	blogID := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "name", "url", "blog_owner", "target_category", "description", "created_at", "updated_at",
	}).AddRow(blogID, "조양마트", "https://blog.naver.com/joyangmart", "joyangmart", "전체글", "", now, now)

	mock.ExpectQuery("SELECT (.+) FROM blogs").
		WithArgs("joyangmart").
		WillReturnRows(rows)

	blog, err := p.GetBlogByOwner(context.Background(), "joyangmart")
	require.NoError(t, err)
	assert.Equal(t, blogID, blog.ID)
	assert.Equal(t, "조양마트", blog.Name)
	assert.Equal(t, "전체글", blog.TargetCategory)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetBlogByOwner_NotFound(t *testing.T) {
	p, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM blogs").
		WithArgs("unknown").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := p.GetBlogByOwner(context.Background(), "unknown")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPostgres_BlogPostExists(t *testing.T) {
	p, mock := newMockStore(t)

	blogID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT EXISTS (SELECT 1 FROM blog_posts WHERE blog_id = $1 AND post_id = $2)`,
	)).
		WithArgs(blogID, "223999").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := p.BlogPostExists(context.Background(), blogID, "223999")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPostgres_SaveBlogPost(t *testing.T) {
	p, mock := newMockStore(t)

	published := time.Date(2025, 7, 24, 16, 13, 0, 0, time.Local)
	post := store.BlogPost{
		ID:          uuid.New(),
		BlogID:      uuid.New(),
		PostID:      "223999",
		URL:         "https://blog.naver.com/joyangmart/223999",
		Title:       "여름 세일 안내",
		PublishedAt: &published,
		Content:     "이번 주 세일 품목",
		ImageURLs:   []string{"https://img.test/a.jpg?type=w966"},
	}

	mock.ExpectQuery("INSERT INTO blog_posts").
		WithArgs(
			post.ID,
			post.BlogID,
			post.PostID,
			post.URL,
			post.Title,
			post.PublishedAt,
			post.Content,
			sqlmock.AnyArg(),
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(post.ID))

	id, err := p.SaveBlogPost(context.Background(), post)
	require.NoError(t, err)
	assert.Equal(t, post.ID, id)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SaveBlogPost_InsertError(t *testing.T) {
	p, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO blog_posts").
		WillReturnError(assert.AnError)

	_, err := p.SaveBlogPost(context.Background(), store.BlogPost{PostID: "1"})
	require.Error(t, err)
}

func TestNoOp(t *testing.T) {
	var s store.Store = store.NoOp{}

	blog, err := s.GetBlogByOwner(context.Background(), "joyangmart")
	require.NoError(t, err)
	assert.Equal(t, "joyangmart", blog.Owner)

	exists, err := s.BlogPostExists(context.Background(), blog.ID, "1")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.SaveBlogPost(context.Background(), store.BlogPost{})
	require.NoError(t, err)
	require.NoError(t, s.Close())
}
