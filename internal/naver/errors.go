package naver

import "errors"

// Sentinel errors returned by the pipeline. Callers classify failures
// with errors.Is rather than string matching.
var (
	// ErrUpstreamUnreachable wraps network failures, timeouts, and
	// non-2xx responses. Fatal during category resolution.
	ErrUpstreamUnreachable = errors.New("upstream unreachable")

	// ErrTaxonomyUnavailable means the category payload could not be
	// located or decoded. Fatal: a blog without a usable category list
	// cannot enumerate posts.
	ErrTaxonomyUnavailable = errors.New("category taxonomy unavailable")

	// ErrCategoryNotFound means the caller asked for a category name
	// absent from the resolved index. This is a caller bug, not an
	// upstream condition.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrExtractFailed means a post page could not be turned into a
	// PostContent (missing content container, unreachable page).
	// Recoverable per post: log, skip, continue the batch.
	ErrExtractFailed = errors.New("content extraction failed")
)
