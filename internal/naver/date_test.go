package naver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePublishDate(t *testing.T) {
	t.Run("full timestamp", func(t *testing.T) {
		ts := parsePublishDate("2025. 7. 24. 16:13")
		require.NotNil(t, ts)
		assert.Equal(t, 2025, ts.Year())
		assert.Equal(t, time.July, ts.Month())
		assert.Equal(t, 24, ts.Day())
		assert.Equal(t, 16, ts.Hour())
		assert.Equal(t, 13, ts.Minute())
		assert.Equal(t, 0, ts.Second())
	})

	t.Run("double digit components", func(t *testing.T) {
		ts := parsePublishDate("2024. 12. 31. 9:05")
		require.NotNil(t, ts)
		assert.Equal(t, time.December, ts.Month())
		assert.Equal(t, 31, ts.Day())
		assert.Equal(t, 9, ts.Hour())
		assert.Equal(t, 5, ts.Minute())
	})

	t.Run("surrounding whitespace", func(t *testing.T) {
		ts := parsePublishDate("  2025. 7. 24. 16:13  ")
		require.NotNil(t, ts)
		assert.Equal(t, 2025, ts.Year())
	})

	t.Run("malformed input yields nil", func(t *testing.T) {
		cases := map[string]string{
			"missing time":     "2025. 7. 24",
			"empty":            "",
			"garbage":          "not a date",
			"partial time":     "2025. 7. 24. 16",
			"non numeric year": "yyyy. 7. 24. 16:13",
			"non numeric hour": "2025. 7. 24. hh:13",
		}
		for name, input := range cases {
			t.Run(name, func(t *testing.T) {
				assert.Nil(t, parsePublishDate(input))
			})
		}
	})
}
