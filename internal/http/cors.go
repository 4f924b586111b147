package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// createCORSMiddleware returns a CORS middleware for browser frontends hosted
// on another origin, or nil when CORS is disabled or no usable origin is set.
//
// Sessions travel in the Authorization header, never in cookies, so
// credentials are not allowed. A "*" entry is ignored: ballots must only be
// cast from known frontends.
func createCORSMiddleware(enabled bool, allowOriginsStr string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins := parseOrigins(allowOriginsStr)
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no valid origins configured - CORS will not be applied")
		return nil
	}

	logger.Info("CORS enabled", slog.Int("origin_count", len(origins)), slog.Any("origins", origins))

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"X-Request-Id", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           time.Hour,
	})
}

// parseOrigins splits a comma-separated origin list, dropping blanks and wildcards.
func parseOrigins(originsStr string) []string {
	var origins []string
	for part := range strings.SplitSeq(originsStr, ",") {
		origin := strings.TrimRight(strings.TrimSpace(part), "/")
		if origin == "" || origin == "*" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
