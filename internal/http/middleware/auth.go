package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/nbu-it/website-backend/internal/auth"
	"github.com/nbu-it/website-backend/internal/db"
	"github.com/nbu-it/website-backend/internal/model"
)

// TokenHeader carries the capability token on protected requests.
const TokenHeader = "X-Auth-Token"

// TokenMiddleware validates the capability token and sets "currentUser" in
// the gin context. A missing header reads "unauthorized"; every other
// failure (undecodable token, unknown username, digest mismatch) reads
// "invalid token", with no further distinction exposed to the caller.
func TokenMiddleware(secret string, store db.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(TokenHeader)
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		username, digest, err := auth.ParseToken(header, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user, err := store.GetUserByUsername(username)
		if err != nil || user.Password != digest {
			log.Warn().Str("username", username).Msg("token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("currentUser", user)
		c.Next()
	}
}

// GetCurrentUser retrieves *model.User from the gin context after
// TokenMiddleware has run.
func GetCurrentUser(c *gin.Context) (*model.User, bool) {
	u, exists := c.Get("currentUser")
	if !exists {
		return nil, false
	}
	user, ok := u.(*model.User)
	return user, ok
}
