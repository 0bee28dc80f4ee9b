package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// postListPayload mirrors the PostTitleListAsync response.
type postListPayload struct {
	PostList []postListEntry `json:"postList"`
}

type postListEntry struct {
	LogNo string `json:"logNo"`
}

// PostIDs enumerates post identifiers in the named category, sorted by
// natural string order. count is a page-size hint, not a hard cap: the
// platform may return fewer items, and the listing protocol issues a
// single page per call.
//
// Upstream or decode failures degrade to an empty result instead of an
// error; a partial crawl beats an aborted one. The only error returned
// is ErrCategoryNotFound, which is a caller bug.
func (s *Service) PostIDs(ctx context.Context, categoryName string, count int) ([]string, error) {
	category, ok := s.categories[normalizeCategoryName(categoryName)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCategoryNotFound, categoryName)
	}

	collected := make(map[string]struct{})
	page := 1

	entries, err := s.fetchPostList(ctx, category, page, count)
	if err != nil {
		s.logger.Warn("post listing fetch failed, returning empty set",
			zap.String("category", categoryName),
			zap.Error(err),
		)
		return []string{}, nil
	}

	// Termination contract inherited from the upstream pagination
	// protocol: a page whose first id was already collected means the
	// listing is exhausted. Only the first element is checked.
	if len(entries) > 0 {
		if _, dup := collected[entries[0].LogNo]; !dup {
			for _, entry := range entries {
				if entry.LogNo == "" {
					continue
				}
				collected[entry.LogNo] = struct{}{}
			}
		}
	}

	ids := make([]string, 0, len(collected))
	for id := range collected {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	s.logger.Debug("post ids enumerated",
		zap.String("category", categoryName),
		zap.Int("count", len(ids)),
	)
	return ids, nil
}

func (s *Service) fetchPostList(ctx context.Context, category Category, page, count int) ([]postListEntry, error) {
	params := url.Values{}
	params.Set("blogId", s.blogID)
	params.Set("currentPage", strconv.Itoa(page))
	params.Set("categoryNo", strconv.Itoa(category.ID))
	if category.ParentID != nil {
		params.Set("parentCategoryNo", strconv.Itoa(*category.ParentID))
	}
	params.Set("countPerPage", strconv.Itoa(count))
	params.Set("viewdate", "")

	body, err := s.fetcher.Fetch(ctx, fmt.Sprintf("%s?%s", s.endpoints.PostList, params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("fetch post list: %w", err)
	}

	// The feed double-encodes certain characters; bare backslashes must
	// be escaped before the body decodes as JSON.
	escaped := strings.ReplaceAll(string(body), `\`, `\\`)

	var payload postListPayload
	if err := json.Unmarshal([]byte(escaped), &payload); err != nil {
		return nil, fmt.Errorf("decode post list: %w", err)
	}
	return payload.PostList, nil
}
