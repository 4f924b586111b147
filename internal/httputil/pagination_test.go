package httputil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/votesafe/internal/httputil"
)

func newQueryContext(url string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, url, nil)
	return c
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		url            string
		expectedOffset int
		expectedLimit  int
		errorMsg       string
	}{
		{name: "defaults", url: "/", expectedOffset: 0, expectedLimit: 50},
		{name: "custom values", url: "/?offset=10&limit=20", expectedOffset: 10, expectedLimit: 20},
		{name: "max limit", url: "/?limit=500", expectedLimit: 500},
		{
			name:     "negative offset",
			url:      "/?offset=-1",
			errorMsg: "invalid offset parameter: must be a non-negative integer",
		},
		{
			name:     "offset not an integer",
			url:      "/?offset=abc",
			errorMsg: "invalid offset parameter: must be a non-negative integer",
		},
		{
			name:     "limit zero",
			url:      "/?limit=0",
			errorMsg: "invalid limit parameter: must be between 1 and 500",
		},
		{
			name:     "limit exceeds max",
			url:      "/?limit=501",
			errorMsg: "invalid limit parameter: must be between 1 and 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit, err := httputil.ParsePagination(newQueryContext(tt.url))

			if tt.errorMsg != "" {
				assert.EqualError(t, err, tt.errorMsg)
				assert.Zero(t, offset)
				assert.Zero(t, limit)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedOffset, offset)
			assert.Equal(t, tt.expectedLimit, limit)
		})
	}
}

func TestParseTimeRange(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success_NoBounds", func(t *testing.T) {
		from, to, err := httputil.ParseTimeRange(newQueryContext("/"))
		require.NoError(t, err)
		assert.Nil(t, from)
		assert.Nil(t, to)
	})

	t.Run("Success_NormalizesToUTC", func(t *testing.T) {
		from, to, err := httputil.ParseTimeRange(
			newQueryContext("/?from=2026-02-01T03:00:00%2B03:00&to=2026-02-14T23:59:59Z"),
		)
		require.NoError(t, err)
		require.NotNil(t, from)
		require.NotNil(t, to)
		assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), *from)
		assert.Equal(t, time.UTC, to.Location())
	})

	t.Run("Success_EqualBounds", func(t *testing.T) {
		_, _, err := httputil.ParseTimeRange(
			newQueryContext("/?from=2026-02-01T00:00:00Z&to=2026-02-01T00:00:00Z"),
		)
		assert.NoError(t, err)
	})

	t.Run("Error_InvalidFrom", func(t *testing.T) {
		_, _, err := httputil.ParseTimeRange(newQueryContext("/?from=yesterday"))
		assert.ErrorContains(t, err, "invalid from format")
	})

	t.Run("Error_InvalidTo", func(t *testing.T) {
		_, _, err := httputil.ParseTimeRange(newQueryContext("/?to=2026-13-01"))
		assert.ErrorContains(t, err, "invalid to format")
	})

	t.Run("Error_InvertedRange", func(t *testing.T) {
		_, _, err := httputil.ParseTimeRange(
			newQueryContext("/?from=2026-02-14T00:00:00Z&to=2026-02-01T00:00:00Z"),
		)
		assert.EqualError(t, err, "from must be before or equal to to")
	})
}
