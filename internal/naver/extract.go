package naver

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// imageSizeParam is the canonical size variant appended to image URLs
// (~966px wide). Replacing the whole query string also drops
// cache-busting and tracking parameters.
const imageSizeParam = "?type=w966"

// Extract fetches the rendered page for one post and parses it into a
// PostContent. A missing title or date yields a partial result; a
// missing content container yields ErrExtractFailed (the post was
// deleted, restricted, or rendered with unknown markup).
func (s *Service) Extract(ctx context.Context, postID string) (*PostContent, error) {
	params := url.Values{}
	params.Set("blogId", s.blogID)
	params.Set("logNo", postID)

	body, err := s.fetcher.Fetch(ctx, fmt.Sprintf("%s?%s", s.endpoints.PostView, params.Encode()))
	if err != nil {
		TotalExtractFailures.Inc()
		return nil, fmt.Errorf("%w: post %s: %v", ErrExtractFailed, postID, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		TotalExtractFailures.Inc()
		return nil, fmt.Errorf("%w: post %s: parse page: %v", ErrExtractFailed, postID, err)
	}

	content := &PostContent{ImageURLs: []string{}}

	titleBlock := doc.Find(fmt.Sprintf("#post-view%s > div > div.se-documentTitle", postID))
	if titleBlock.Length() > 0 {
		content.Title = strings.TrimSpace(titleBlock.Find(".se-title-text").Text())
		content.PublishedAt = parsePublishDate(titleBlock.Find(".se_publishDate").Text())
	}

	container := doc.Find(fmt.Sprintf("#post-view%s > div > div.se-main-container", postID))
	if container.Length() == 0 {
		TotalExtractFailures.Inc()
		s.logger.Warn("content container missing", zap.String("post_id", postID))
		return nil, fmt.Errorf("%w: post %s: content container missing", ErrExtractFailed, postID)
	}

	content.Body = normalizeBody(container)

	container.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, ok := img.Attr("src")
		if !ok || src == "" {
			return
		}
		content.ImageURLs = append(content.ImageURLs, normalizeImageURL(src))
	})

	TotalPostsExtracted.Inc()
	return content, nil
}

// normalizeBody flattens the container's visible text into one line:
// text nodes joined by newlines, no-break spaces converted to regular
// spaces, every whitespace run collapsed to a single space.
func normalizeBody(container *goquery.Selection) string {
	var texts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			texts = append(texts, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, node := range container.Nodes {
		walk(node)
	}

	raw := strings.Join(texts, "\n")
	raw = strings.ReplaceAll(raw, " ", " ")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(raw, " "))
}

// normalizeImageURL pins image URLs to the canonical size variant. URLs
// without a query string pass through unchanged.
func normalizeImageURL(src string) string {
	if i := strings.Index(src, "?"); i >= 0 {
		return src[:i] + imageSizeParam
	}
	return src
}
