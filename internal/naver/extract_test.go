package naver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postPageBody = `<html><body>
<div id="post-view223999">
  <div>
    <div class="se-documentTitle">
      <div class="se-module-text"><span class="se-title-text">  여름 세일 안내  </span></div>
      <span class="se_publishDate">2025. 7. 24. 16:13</span>
    </div>
    <div class="se-main-container">
      <p>이번 주</p>
      <p>세일&nbsp;품목:</p>
      <p>	수박,	포도</p>
      <img src="https://postfiles.pstatic.net/a.jpg?type=w80&amp;foo=bar">
      <img class="se-image" src="https://postfiles.pstatic.net/b.png">
      <img alt="no source">
    </div>
  </div>
</div>
</body></html>`

func extractService(t *testing.T, page string) *Service {
	t.Helper()
	fetcher := &stubFetcher{responses: map[string][]byte{
		"https://upstream.test/CategoryList": []byte(categoryListBody),
		"https://upstream.test/PostView":     []byte(page),
	}}
	return newTestService(t, fetcher)
}

func TestExtract(t *testing.T) {
	t.Run("full post", func(t *testing.T) {
		svc := extractService(t, postPageBody)

		content, err := svc.Extract(context.Background(), "223999")
		require.NoError(t, err)
		require.NotNil(t, content)

		assert.Equal(t, "여름 세일 안내", content.Title)

		require.NotNil(t, content.PublishedAt)
		assert.Equal(t, 2025, content.PublishedAt.Year())
		assert.Equal(t, 16, content.PublishedAt.Hour())

		// Newlines, tabs, and no-break spaces all collapse to single
		// spaces with trimmed ends.
		assert.Equal(t, "이번 주 세일 품목: 수박, 포도", content.Body)
		assert.NotContains(t, content.Body, "\n")
		assert.NotContains(t, content.Body, " ")

		require.Len(t, content.ImageURLs, 2)
		assert.Equal(t, "https://postfiles.pstatic.net/a.jpg?type=w966", content.ImageURLs[0])
		assert.Equal(t, "https://postfiles.pstatic.net/b.png", content.ImageURLs[1])
	})

	t.Run("missing title block is a partial result", func(t *testing.T) {
		page := `<html><body><div id="post-view5"><div>
			<div class="se-main-container"><p>본문만 있음</p></div>
			</div></div></body></html>`
		svc := extractService(t, page)

		content, err := svc.Extract(context.Background(), "5")
		require.NoError(t, err)
		assert.Empty(t, content.Title)
		assert.Nil(t, content.PublishedAt)
		assert.Equal(t, "본문만 있음", content.Body)
	})

	t.Run("unparsable date is a partial result", func(t *testing.T) {
		page := `<html><body><div id="post-view5"><div>
			<div class="se-documentTitle">
				<span class="se-title-text">제목</span>
				<span class="se_publishDate">2시간 전</span>
			</div>
			<div class="se-main-container"><p>본문</p></div>
			</div></div></body></html>`
		svc := extractService(t, page)

		content, err := svc.Extract(context.Background(), "5")
		require.NoError(t, err)
		assert.Equal(t, "제목", content.Title)
		assert.Nil(t, content.PublishedAt)
	})

	t.Run("missing content container fails extraction", func(t *testing.T) {
		page := `<html><body><div id="post-view5"><div>
			<div class="se-documentTitle"><span class="se-title-text">제목</span></div>
			</div></div></body></html>`
		svc := extractService(t, page)

		content, err := svc.Extract(context.Background(), "5")
		require.ErrorIs(t, err, ErrExtractFailed)
		assert.Contains(t, err.Error(), "5")
		assert.Nil(t, content)
	})

	t.Run("empty container is distinct from failure", func(t *testing.T) {
		page := `<html><body><div id="post-view5"><div>
			<div class="se-main-container"></div>
			</div></div></body></html>`
		svc := extractService(t, page)

		content, err := svc.Extract(context.Background(), "5")
		require.NoError(t, err)
		assert.Empty(t, content.Body)
		assert.Empty(t, content.ImageURLs)
	})

	t.Run("container scoped to another post id does not match", func(t *testing.T) {
		svc := extractService(t, postPageBody)

		_, err := svc.Extract(context.Background(), "999")
		require.ErrorIs(t, err, ErrExtractFailed)
	})

	t.Run("fetch failure is extraction failure", func(t *testing.T) {
		fetcher := &stubFetcher{responses: map[string][]byte{
			"https://upstream.test/CategoryList": []byte(categoryListBody),
		}}
		svc := newTestService(t, fetcher)

		_, err := svc.Extract(context.Background(), "5")
		require.ErrorIs(t, err, ErrExtractFailed)
	})

	t.Run("duplicate images preserved in document order", func(t *testing.T) {
		page := `<html><body><div id="post-view5"><div>
			<div class="se-main-container">
				<img src="https://img.test/x.jpg?type=w80">
				<img src="https://img.test/x.jpg?type=w80">
			</div>
			</div></div></body></html>`
		svc := extractService(t, page)

		content, err := svc.Extract(context.Background(), "5")
		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://img.test/x.jpg?type=w966",
			"https://img.test/x.jpg?type=w966",
		}, content.ImageURLs)
	})
}

func TestNormalizeImageURL(t *testing.T) {
	assert.Equal(t,
		"https://img.example/x.jpg?type=w966",
		normalizeImageURL("https://img.example/x.jpg?type=w80&foo=bar"),
	)
	assert.Equal(t,
		"https://img.example/x.jpg",
		normalizeImageURL("https://img.example/x.jpg"),
	)
}
