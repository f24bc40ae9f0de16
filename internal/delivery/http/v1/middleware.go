package v1

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-tracker/internal/services"
)

const (
	userIDCtxKey    = "user_id"
	sessionIDCtxKey = "session_id"
)

const (
	tokenHeader = "x-auth-token"
	authHeader  = "Authorization"
)

// accessToken reads the token from x-auth-token or a bearer Authorization
// header.
func accessToken(c *gin.Context) string {
	token := strings.TrimSpace(c.GetHeader(tokenHeader))
	if token != "" {
		return token
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(c.GetHeader(authHeader), " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	token := accessToken(c)
	if token == "" {
		h.logger.Info().Msg("authentication token required")
		abort(c, newUnauthorizedError(msgMissingToken))
		return
	}

	claims, err := h.auth.ParseAccessToken(token)
	if err != nil {
		h.logger.Info().
			Err(err).
			Msg("failed to parse token")
		abort(c, newUnauthorizedError(msgInvalidToken))
		return
	}

	session, err := h.sessions.GetActiveSession(c, claims.Subject)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) || errors.Is(err, services.ErrSessionExpired) {
			h.logger.Info().
				Err(err).
				Str("session_id", claims.Subject).
				Msg("rejected session")
			abort(c, newUnauthorizedError(sentence(err.Error())))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to fetch session")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.Set(userIDCtxKey, session.UserID)
	c.Set(sessionIDCtxKey, session.ID)
	c.Next()
}

// HandleRequestLogger writes one access log entry per request.
func (h *handlerImpl) HandleRequestLogger(c *gin.Context) {
	start := time.Now()
	path := c.Request.URL.Path

	c.Next()

	status := c.Writer.Status()
	event := h.logger.Info()
	if status >= http.StatusInternalServerError {
		event = h.logger.Error()
	}

	userID, _ := getStringFromContext(c, userIDCtxKey)
	event.
		Str("method", c.Request.Method).
		Str("path", path).
		Str("route", c.FullPath()).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Str("client_ip", c.ClientIP()).
		Str("user_id", userID).
		Msg("handled request")
}

// HandleRecovery turns panics into a 500 with a JSON body.
func (h *handlerImpl) HandleRecovery(c *gin.Context) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}

		h.logger.Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("recovered from panic")
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}()
	c.Next()
}
