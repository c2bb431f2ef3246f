package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"social-service/internal/session"

	"github.com/gin-gonic/gin"
)

const identityKey = "user_identity"

const resolveTimeout = 2 * time.Second

// SessionAuth resolves the session credential on every request and puts the
// user identity in the gin context. The same credential formats the chat
// handshake accepts are honored here: the session cookie first, then a
// bearer token.
func SessionAuth(resolver session.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := credentialFrom(c)
		if credential == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), resolveTimeout)
		identity, err := resolver.Resolve(ctx, credential)
		cancel()
		if err != nil {
			if errors.Is(err, session.ErrStoreUnavailable) {
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "try again later"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

func credentialFrom(c *gin.Context) string {
	if cookie, err := c.Cookie(session.CookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	return strings.Replace(header, "Bearer ", "", 1)
}

// CurrentIdentity returns the authenticated user identity set by SessionAuth.
func CurrentIdentity(c *gin.Context) string {
	return c.GetString(identityKey)
}

// CurrentUserID returns the authenticated user's database ID.
func CurrentUserID(c *gin.Context) (uint, bool) {
	id, err := ParseIdentity(CurrentIdentity(c))
	if err != nil {
		return 0, false
	}
	return id, true
}
