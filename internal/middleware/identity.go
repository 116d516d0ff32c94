// Package middleware provides HTTP middleware for the ledger service.
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ActorKey is the gin context key holding the resolved actor identity.
const ActorKey = "actor"

// authTimingFloor is the minimum response time for failed auth to prevent
// timing oracles distinguishing valid from invalid tokens.
const authTimingFloor = 50 * time.Millisecond

// ActorLookup resolves an API token to an actor identity (email). The
// ledger trusts the resolved value; it never authenticates on its own.
type ActorLookup interface {
	GetActorByToken(ctx context.Context, token string) (string, error)
}

// Identity returns middleware that resolves the acting identity from the
// Bearer token and stores it in the request context. Handlers thread the
// resolved actor into every ledger call explicitly; nothing downstream
// reads ambient auth state.
func Identity(lookup ActorLookup, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if c.Writer.Status() == http.StatusUnauthorized {
				enforceTimingFloor(start)
			}
		}()

		token := ExtractBearerToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid authorization header")
			return
		}

		actor, err := lookup.GetActorByToken(c.Request.Context(), token)
		if err != nil {
			log.WithFields(logrus.Fields{
				"client_ip":  c.ClientIP(),
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
				"request_id": c.GetString(RequestIDKey),
				"key_prefix": truncateToken(token),
			}).Warn("authentication failed: invalid token")

			respondError(c, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}

		c.Set(ActorKey, actor)
		c.Next()
	}
}

// ExtractBearerToken extracts the API token from the Authorization header.
func ExtractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// truncateToken returns at most the first 4 characters of token followed by "...".
func truncateToken(token string) string {
	if len(token) > 4 {
		return token[:4] + "..."
	}
	return token
}

// enforceTimingFloor sleeps if needed so the response takes at least authTimingFloor.
func enforceTimingFloor(start time.Time) {
	if elapsed := time.Since(start); elapsed < authTimingFloor {
		time.Sleep(authTimingFloor - elapsed)
	}
}
