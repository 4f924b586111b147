package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/votesafe/internal/httputil"
)

// Sweeper removes expired OTP challenges and sessions, reporting the count
// removed per store.
type Sweeper interface {
	SweepOnce(ctx context.Context) (map[string]int, error)
}

// sweepHandler runs one cleanup pass inside the serving process, where the
// OTP and session stores live.
//
// POST /v1/admin/sweep
// Responses: 200 OK, 401 Unauthorized, 500 Internal Server Error
func sweepHandler(sweeper Sweeper, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		removed, err := sweeper.SweepOnce(c.Request.Context())
		if err != nil {
			httputil.HandleErrorGin(c, err, logger)
			return
		}

		logger.Info("manual cleanup sweep completed", slog.Any("removed", removed))
		c.JSON(http.StatusOK, gin.H{"removed": removed})
	}
}
