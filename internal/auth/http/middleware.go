package http

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	auditDomain "github.com/allisson/votesafe/internal/audit/domain"
	authDomain "github.com/allisson/votesafe/internal/auth/domain"
	authUseCase "github.com/allisson/votesafe/internal/auth/usecase"
	apperrors "github.com/allisson/votesafe/internal/errors"
	"github.com/allisson/votesafe/internal/httputil"
)

// ClientIPMiddleware stores c.ClientIP() in the request context so audit
// entries recorded further down carry the caller's address.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := auditDomain.WithClientIP(c.Request.Context(), c.ClientIP())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// SessionMiddleware authenticates requests by the session id carried as a
// Bearer token in the Authorization header (case-insensitive "bearer").
//
// The session must exist, be active and not be past its expiry, and its
// owner must still be enabled. A session of a disabled or deleted user ends
// every session of that user. On success the session is stored in the
// request context and is available through GetSession. Every failure is
// answered with 401 Unauthorized so callers cannot tell an unknown session
// from an expired one.
func SessionMiddleware(
	sessionUseCase authUseCase.SessionUseCase,
	userUseCase authUseCase.UserUseCase,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			logger.Debug("session authentication failed: missing or malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		valid, err := sessionUseCase.IsValid(c.Request.Context(), sessionID)
		if err != nil {
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}
		if !valid {
			logger.Debug("session authentication failed: invalid or expired session")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		session, err := sessionUseCase.Get(c.Request.Context(), sessionID)
		if err != nil {
			// Invalidated or swept between the two reads.
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		enabled, err := ownerEnabled(c, userUseCase, session)
		if err != nil {
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}
		if !enabled {
			ended, err := sessionUseCase.InvalidateAllForUser(c.Request.Context(), session.UserID)
			if err != nil {
				httputil.HandleErrorGin(c, err, logger)
				c.Abort()
				return
			}
			logger.Info("sessions of disabled user ended",
				slog.String("user_id", session.UserID.String()),
				slog.Int("count", ended),
			)
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		ctx := WithSession(c.Request.Context(), session)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("session authentication successful", slog.String("user_id", session.UserID.String()))

		c.Next()
	}
}

// ownerEnabled reports whether the session owner exists and is enabled.
// The enabled flag lives in the user store, which the disable-user command
// writes from another process.
func ownerEnabled(c *gin.Context, users authUseCase.UserUseCase, session *authDomain.Session) (bool, error) {
	user, err := users.GetByID(c.Request.Context(), session.UserID)
	if errors.Is(err, authDomain.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.Enabled, nil
}

func bearerToken(header string) (string, bool) {
	const bearerPrefix = "bearer "
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}
