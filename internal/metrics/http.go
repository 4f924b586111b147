package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// httpMetrics holds HTTP-specific metric instruments.
type httpMetrics struct {
	requestCounter metric.Int64Counter
	durationHisto  metric.Float64Histogram
	declineCounter metric.Int64Counter
}

// HTTPMetricsMiddleware returns a Gin middleware that records request count and
// duration labelled by method, route pattern, area and status code. Responses
// that turn a caller away (401, 403, 429) are also counted per area so login
// probing and throttled voters show up on their own series.
func HTTPMetricsMiddleware(meterProvider metric.MeterProvider, namespace string) gin.HandlerFunc {
	meter := meterProvider.Meter(namespace)

	requestCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_http_requests_total", namespace),
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return passThrough
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_http_request_duration_seconds", namespace),
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return passThrough
	}

	declineCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_http_declined_total", namespace),
		metric.WithDescription("Requests rejected as unauthenticated, forbidden or rate limited"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return passThrough
	}

	m := &httpMetrics{
		requestCounter: requestCounter,
		durationHisto:  durationHisto,
		declineCounter: declineCounter,
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := sanitizePath(c.FullPath())
		area := routeArea(route)
		status := c.Writer.Status()

		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("route", route),
			attribute.String("area", area),
			attribute.String("status_code", strconv.Itoa(status)),
		)
		ctx := c.Request.Context()
		m.requestCounter.Add(ctx, 1, attrs)
		m.durationHisto.Record(ctx, time.Since(start).Seconds(), attrs)

		switch status {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
			m.declineCounter.Add(ctx, 1, metric.WithAttributes(
				attribute.String("area", area),
				attribute.String("status_code", strconv.Itoa(status)),
			))
		}
	}
}

func passThrough(c *gin.Context) {
	c.Next()
}

// sanitizePath returns the matched route pattern, or "unknown" for unmatched
// requests so arbitrary paths never become label values.
func sanitizePath(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}

// routeArea groups a route pattern into auth, elections, admin or system.
func routeArea(route string) string {
	switch {
	case strings.HasPrefix(route, "/v1/auth/"):
		return "auth"
	case strings.HasPrefix(route, "/v1/elections/"):
		return "elections"
	case strings.HasPrefix(route, "/v1/admin/"):
		return "admin"
	default:
		return "system"
	}
}
