package naver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// ServiceConfig holds the dependencies for one blog-bound Service.
type ServiceConfig struct {
	// BlogID is the platform handle of the source blog
	// (e.g. "joyangmart" from https://blog.naver.com/joyangmart).
	BlogID    string
	Fetcher   Fetcher
	Logger    *zap.Logger
	Endpoints Endpoints
}

// Service crawls a single blog. The category index is resolved once at
// construction and never mutated, so one Service may be shared by
// concurrent enumeration and extraction calls.
type Service struct {
	blogID     string
	fetcher    Fetcher
	logger     *zap.Logger
	endpoints  Endpoints
	categories CategoryIndex
}

// NewService resolves the blog's category taxonomy and returns a
// Service bound to it. Construction fails fast when the taxonomy cannot
// be fetched or decoded: nothing can be enumerated without categories.
func NewService(ctx context.Context, cfg ServiceConfig) (*Service, error) {
	if cfg.BlogID == "" {
		return nil, errors.New("blog id must not be empty")
	}
	if cfg.Fetcher == nil {
		return nil, errors.New("fetcher must not be nil")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Endpoints == (Endpoints{}) {
		cfg.Endpoints = DefaultEndpoints()
	}

	s := &Service{
		blogID:    cfg.BlogID,
		fetcher:   cfg.Fetcher,
		logger:    cfg.Logger.With(zap.String("blog_id", cfg.BlogID)),
		endpoints: cfg.Endpoints,
	}

	index, err := s.resolveCategories(ctx)
	if err != nil {
		return nil, err
	}
	s.categories = index

	s.logger.Info("category taxonomy resolved", zap.Int("categories", len(index)))
	return s, nil
}

// BlogID returns the platform handle this Service is bound to.
func (s *Service) BlogID() string {
	return s.blogID
}

// Categories returns a copy of the resolved category index.
func (s *Service) Categories() CategoryIndex {
	out := make(CategoryIndex, len(s.categories))
	for name, cat := range s.categories {
		out[name] = cat
	}
	return out
}

// CategoryNames lists every resolved category name, sorted, regardless
// of parent category.
func (s *Service) CategoryNames() []string {
	names := make([]string, 0, len(s.categories))
	for name := range s.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// categoryListPayload mirrors the JSON line of the CategoryList
// response. Shape mismatches surface as decode errors rather than
// latent key misses.
type categoryListPayload struct {
	Result struct {
		MylogCategoryList []categoryEntry `json:"mylogCategoryList"`
	} `json:"result"`
}

type categoryEntry struct {
	CategoryNo       int    `json:"categoryNo"`
	ParentCategoryNo *int   `json:"parentCategoryNo"`
	CategoryName     string `json:"categoryName"`
	DivisionLine     bool   `json:"divisionLine"`
}

func (s *Service) resolveCategories(ctx context.Context) (CategoryIndex, error) {
	listURL := fmt.Sprintf("%s?blogId=%s", s.endpoints.CategoryList, url.QueryEscape(s.blogID))
	body, err := s.fetcher.Fetch(ctx, listURL)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch category list: %v", ErrUpstreamUnreachable, err)
	}

	// The payload is JSON preceded by one line of unrelated text; only
	// the second line decodes.
	lines := strings.SplitN(string(body), "\n", 3)
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: category payload has no JSON line", ErrTaxonomyUnavailable)
	}
	var payload categoryListPayload
	if err := json.Unmarshal([]byte(lines[1]), &payload); err != nil {
		return nil, fmt.Errorf("%w: decode category payload: %v", ErrTaxonomyUnavailable, err)
	}

	index := make(CategoryIndex, len(payload.Result.MylogCategoryList)+1)
	for _, entry := range payload.Result.MylogCategoryList {
		if entry.DivisionLine {
			continue
		}
		name := normalizeCategoryName(entry.CategoryName)
		index[name] = Category{ID: entry.CategoryNo, ParentID: entry.ParentCategoryNo}
	}
	// Synthetic all-posts entry so callers can always request the full
	// post list.
	index[AllPostsCategory] = Category{ID: 0, ParentID: nil}

	return index, nil
}

// normalizeCategoryName strips no-break and ASCII spaces so visually
// identical upstream names resolve to one key.
func normalizeCategoryName(name string) string {
	return strings.NewReplacer(" ", "", " ", "").Replace(name)
}
