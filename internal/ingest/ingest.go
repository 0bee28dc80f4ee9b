// Package ingest orchestrates a crawl run: enumerate post ids for a
// blog's target category, extract each post concurrently, and persist
// the assembled records.
package ingest

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mkweon/blogfeed-crawler/internal/naver"
	"github.com/mkweon/blogfeed-crawler/internal/store"
)

// Crawler is the slice of naver.Service the ingestor consumes.
type Crawler interface {
	PostIDs(ctx context.Context, categoryName string, count int) ([]string, error)
	Extract(ctx context.Context, postID string) (*naver.PostContent, error)
}

// Config controls one Ingestor.
type Config struct {
	// Concurrency bounds parallel extractions. Defaults to 1.
	Concurrency int
	// RatePerSecond throttles upstream fetches across all workers.
	// Zero or negative disables throttling.
	RatePerSecond float64
}

// Result counts the outcome of one ingest run.
type Result struct {
	Found   int `json:"found"`
	Saved   int `json:"saved"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Ingestor drives crawl runs against a Store.
type Ingestor struct {
	store   store.Store
	limiter *rate.Limiter
	cfg     Config
	logger  *zap.Logger
}

// New constructs an Ingestor.
func New(st store.Store, cfg Config, logger *zap.Logger) *Ingestor {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	return &Ingestor{
		store:   st,
		limiter: rate.NewLimiter(limit, 1),
		cfg:     cfg,
		logger:  logger,
	}
}

// Run ingests up to count posts from the blog's category. An empty
// category falls back to the blog's target category, then to the
// synthetic all-posts category. Extraction failures are logged and
// counted, never fatal; post ids already present in the store are
// skipped.
func (i *Ingestor) Run(ctx context.Context, blog store.Blog, crawler Crawler, category string, count int) (Result, error) {
	if category == "" {
		category = blog.TargetCategory
	}
	if category == "" {
		category = naver.AllPostsCategory
	}

	ids, err := crawler.PostIDs(ctx, category, count)
	if err != nil {
		return Result{}, fmt.Errorf("enumerate posts: %w", err)
	}

	var (
		mu     sync.Mutex
		result = Result{Found: len(ids)}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.cfg.Concurrency)

	for _, id := range ids {
		postID := id
		g.Go(func() error {
			if err := i.limiter.Wait(gctx); err != nil {
				return err
			}

			outcome := i.ingestPost(gctx, blog, crawler, postID)
			mu.Lock()
			switch outcome {
			case outcomeSaved:
				result.Saved++
			case outcomeSkipped:
				result.Skipped++
			case outcomeFailed:
				result.Failed++
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}

	i.logger.Info("ingest run finished",
		zap.String("blog_owner", blog.Owner),
		zap.String("category", category),
		zap.Int("found", result.Found),
		zap.Int("saved", result.Saved),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

type outcome int

const (
	outcomeSaved outcome = iota
	outcomeSkipped
	outcomeFailed
)

func (i *Ingestor) ingestPost(ctx context.Context, blog store.Blog, crawler Crawler, postID string) outcome {
	exists, err := i.store.BlogPostExists(ctx, blog.ID, postID)
	if err != nil {
		i.logger.Error("existence check failed", zap.String("post_id", postID), zap.Error(err))
		return outcomeFailed
	}
	if exists {
		i.logger.Debug("post already ingested", zap.String("post_id", postID))
		return outcomeSkipped
	}

	content, err := crawler.Extract(ctx, postID)
	if err != nil || content == nil {
		i.logger.Warn("extraction failed, skipping post",
			zap.String("post_id", postID),
			zap.Error(err),
		)
		return outcomeFailed
	}

	post := store.BlogPost{
		ID:          uuid.New(),
		BlogID:      blog.ID,
		PostID:      postID,
		URL:         fmt.Sprintf("%s/%s", blog.URL, postID),
		Title:       content.Title,
		PublishedAt: content.PublishedAt,
		Content:     content.Body,
		ImageURLs:   content.ImageURLs,
	}
	if _, err := i.store.SaveBlogPost(ctx, post); err != nil {
		i.logger.Error("save failed", zap.String("post_id", postID), zap.Error(err))
		return outcomeFailed
	}
	return outcomeSaved
}
