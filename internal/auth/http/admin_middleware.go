package http

import (
	"crypto/subtle"
	"log/slog"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/votesafe/internal/errors"
	"github.com/allisson/votesafe/internal/httputil"
)

// AdminTokenMiddleware guards operator endpoints (audit trail, tally) with a
// static Bearer token compared in constant time. An empty token rejects
// every request.
func AdminTokenMiddleware(token string, logger *slog.Logger) gin.HandlerFunc {
	expected := []byte(token)
	return func(c *gin.Context) {
		presented, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok || len(expected) == 0 || subtle.ConstantTimeCompare([]byte(presented), expected) != 1 {
			logger.Warn("admin authentication failed", slog.String("client_ip", c.ClientIP()))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}
		c.Next()
	}
}
