package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"customer-keeper/internal/auth"
	"customer-keeper/internal/metrics"
)

const userIDKey = "userID"

// requireAuth rejects requests without a valid bearer token and stores the
// verified user id on the context.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := h.authority.VerifyToken(auth.BearerToken(c.GetHeader("Authorization")))
		switch {
		case errors.Is(err, auth.ErrTokenMissing):
			h.observeAuth(metrics.OutcomeMissingToken)
			h.respondError(c, http.StatusForbidden, msgTokenMissing)
			return
		case err != nil:
			h.observeAuth(metrics.OutcomeInvalidToken)
			h.logger.WithError(err).Debug("rejected bearer token")
			h.respondError(c, http.StatusUnauthorized, msgInvalidToken)
			return
		}

		h.observeAuth(metrics.OutcomeOK)
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func (h *Handler) observeAuth(outcome string) {
	if h.metrics != nil {
		h.metrics.ObserveAuth(outcome)
	}
}

// currentUserID returns the id stored by requireAuth.
func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
		})
		if userID := currentUserID(c); userID != "" {
			entry = entry.WithField("user_id", userID)
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("http request")
			return
		}
		entry.Info("http request")
	}
}
