// Package naver implements the crawl pipeline against the Naver blog
// front end: category taxonomy resolution, post id enumeration, and
// content extraction from rendered post pages.
package naver

import "time"

// AllPostsCategory is the synthetic category name that addresses every
// post in a blog regardless of its real taxonomy. It is always present
// in a resolved CategoryIndex.
const AllPostsCategory = "전체글"

// Category addresses one named grouping of posts on the platform.
// ParentID is nil for top-level categories and for the synthetic
// all-posts entry.
type Category struct {
	ID       int  `json:"category_no"`
	ParentID *int `json:"parent_category_no"`
}

// CategoryIndex maps normalized category display names to their ids.
// It is built once per Service and never mutated afterward, so it is
// safe to read from concurrent goroutines.
type CategoryIndex map[string]Category

// PostContent is the structured result of extracting one rendered post
// page. PublishedAt is nil when the date block is missing or does not
// parse; Title may be empty when the markup omits it. Neither case is
// an extraction failure.
type PostContent struct {
	Title       string     `json:"title"`
	PublishedAt *time.Time `json:"published_at"`
	Body        string     `json:"body"`
	ImageURLs   []string   `json:"image_urls"`
}

// Endpoints holds the upstream URLs consumed by a Service. The zero
// value is replaced by DefaultEndpoints; tests point these at a local
// fixture server.
type Endpoints struct {
	CategoryList string
	PostList     string
	PostView     string
}

// DefaultEndpoints returns the production Naver endpoints.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		CategoryList: "https://m.blog.naver.com/rego/CategoryList.naver",
		PostList:     "https://blog.naver.com/PostTitleListAsync.naver",
		PostView:     "https://blog.naver.com/PostView.naver",
	}
}
