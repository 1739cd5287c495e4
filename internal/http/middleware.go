package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tutorhub/internal/domain"
	"tutorhub/internal/service"
)

const (
	sessionCookie = "session"
	claimsKey     = "claims"
	requestIDKey  = "request_id"
)

func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := uuid.NewString()
		if parsed, err := uuid.Parse(c.GetHeader("X-Request-ID")); err == nil {
			id = parsed.String()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)

		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start),
			"client_ip":  c.ClientIP(),
			"request_id": id,
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request")
			return
		}
		entry.Info("request")
	}
}

// requireAuth is the authorization boundary for protected routes.
func (h *Handler) requireAuth(c *gin.Context) {
	claims := h.currentSession(c)
	if claims == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, Payload{Message: "Authentication required"})
		return
	}
	// a signed token can outlive its account
	if _, err := h.auth.GetUser(c.Request.Context(), claims.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Payload{Message: "Authentication required"})
			return
		}
		h.fail(c, err)
		c.Abort()
		return
	}
	c.Set(claimsKey, claims)
	c.Next()
}

// currentSession returns the verified session claims or nil.
func (h *Handler) currentSession(c *gin.Context) *service.Claims {
	token, err := c.Cookie(sessionCookie)
	if err != nil || token == "" {
		return nil
	}
	claims, err := h.sessions.Verify(token)
	if err != nil {
		return nil
	}
	return claims
}

func mustClaims(c *gin.Context) *service.Claims {
	return c.MustGet(claimsKey).(*service.Claims)
}

func (h *Handler) setCookie(c *gin.Context, name, value string, maxAge time.Duration) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearCookie(c *gin.Context, name string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
