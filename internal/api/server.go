// Package api exposes the HTTP interface for the ingestion service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mkweon/blogfeed-crawler/internal/config"
	"github.com/mkweon/blogfeed-crawler/internal/ingest"
	"github.com/mkweon/blogfeed-crawler/internal/naver"
	"github.com/mkweon/blogfeed-crawler/internal/store"
)

// CrawlerFactory builds a blog-bound crawl service. Category resolution
// happens inside, so a factory call can fail with the taxonomy errors.
type CrawlerFactory func(ctx context.Context, blogID string) (*naver.Service, error)

// Server wires HTTP handlers to the ingestor and store.
type Server struct {
	router     chi.Router
	store      store.Store
	ingestor   *ingest.Ingestor
	newCrawler CrawlerFactory
	cfg        config.Config
	logger     *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(
	st store.Store,
	ingestor *ingest.Ingestor,
	newCrawler CrawlerFactory,
	cfg config.Config,
	logger *zap.Logger,
) *Server {
	s := &Server{
		store:      st,
		ingestor:   ingestor,
		newCrawler: newCrawler,
		cfg:        cfg,
		logger:     logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(metricsMiddleware)
	r.Use(timeoutMiddleware(60 * time.Second))

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/crawl", s.crawl)
		r.Get("/blogs/{owner}/categories", s.categories)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type crawlRequest struct {
	BlogOwner string `json:"blog_owner"`
	Category  string `json:"category"`
	Count     int    `json:"count"`
}

func (s *Server) crawl(w http.ResponseWriter, r *http.Request) {
	var req crawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BlogOwner == "" {
		writeError(w, http.StatusBadRequest, "blog_owner required")
		return
	}
	if req.Count <= 0 {
		req.Count = s.cfg.Crawler.DefaultCount
	}

	blog, err := s.store.GetBlogByOwner(r.Context(), req.BlogOwner)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "blog not registered")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	crawler, err := s.newCrawler(r.Context(), blog.Owner)
	if err != nil {
		s.logger.Error("crawler construction failed",
			zap.String("blog_owner", blog.Owner),
			zap.Error(err),
		)
		writeError(w, upstreamStatus(err), err.Error())
		return
	}

	result, err := s.ingestor.Run(r.Context(), blog, crawler, req.Category, req.Count)
	if err != nil {
		if errors.Is(err, naver.ErrCategoryNotFound) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type categoryView struct {
	Name             string `json:"name"`
	CategoryNo       int    `json:"category_no"`
	ParentCategoryNo *int   `json:"parent_category_no"`
}

func (s *Server) categories(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")

	if _, err := s.store.GetBlogByOwner(r.Context(), owner); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "blog not registered")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	crawler, err := s.newCrawler(r.Context(), owner)
	if err != nil {
		writeError(w, upstreamStatus(err), err.Error())
		return
	}

	index := crawler.Categories()
	views := make([]categoryView, 0, len(index))
	for name, cat := range index {
		views = append(views, categoryView{
			Name:             name,
			CategoryNo:       cat.ID,
			ParentCategoryNo: cat.ParentID,
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Name < views[j].Name })

	writeJSON(w, http.StatusOK, map[string]any{"categories": views})
}

// upstreamStatus maps pipeline construction errors onto HTTP statuses.
func upstreamStatus(err error) int {
	switch {
	case errors.Is(err, naver.ErrUpstreamUnreachable):
		return http.StatusBadGateway
	case errors.Is(err, naver.ErrTaxonomyUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
