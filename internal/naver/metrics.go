package naver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalFetches tracks upstream HTTP requests issued by the pipeline.
	TotalFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blogfeed_fetches_total",
		Help: "The total number of upstream HTTP requests sent.",
	})
	// TotalFetchErrors tracks upstream requests that failed.
	TotalFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blogfeed_fetch_errors_total",
		Help: "The total number of failed upstream HTTP requests.",
	})
	// TotalPostsExtracted tracks posts successfully turned into content records.
	TotalPostsExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blogfeed_posts_extracted_total",
		Help: "The total number of posts successfully extracted.",
	})
	// TotalExtractFailures tracks posts whose pages could not be parsed.
	TotalExtractFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blogfeed_extract_failures_total",
		Help: "The total number of posts that failed extraction.",
	})
)
