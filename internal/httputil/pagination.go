package httputil

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
)

// ParsePagination reads offset (default 0) and limit (default 50, at most 500)
// from the query string.
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return 0, 0, fmt.Errorf("invalid offset parameter: must be a non-negative integer")
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if err != nil || limit < 1 || limit > maxPageLimit {
		return 0, 0, fmt.Errorf("invalid limit parameter: must be between 1 and %d", maxPageLimit)
	}

	return offset, limit, nil
}

// ParseTimeRange reads the optional RFC 3339 "from" and "to" bounds, both
// inclusive and normalized to UTC. A missing bound is returned as nil.
func ParseTimeRange(c *gin.Context) (from, to *time.Time, err error) {
	from, err = parseTimeQuery(c, "from", "2026-02-01T00:00:00Z")
	if err != nil {
		return nil, nil, err
	}
	to, err = parseTimeQuery(c, "to", "2026-02-14T23:59:59Z")
	if err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, fmt.Errorf("from must be before or equal to to")
	}
	return from, to, nil
}

func parseTimeQuery(c *gin.Context, name, example string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s format: must be RFC3339 (e.g., %s)", name, example)
	}
	parsed = parsed.UTC()
	return &parsed, nil
}
