package middlewares

import (
	"net/http"

	"bitbucket.org/samproxdata/erp_backend/config"
	"bitbucket.org/samproxdata/erp_backend/utils"
	"github.com/gin-gonic/gin"
)

// SessionMiddleware resolves the "token" header to a username. Sessions
// issued by the auth service live in Redis under "Token:<token>"; a JWT
// is accepted as a fallback so CLI/jobs can call the API without a
// Redis-backed session.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Request.Header.Get("token")
		if token == "" {
			c.Next()
			return
		}
		username, exists, err := config.GetRedisValue("Token:" + token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		if !exists {
			parsed, jwtErr := utils.JwtValidate(token)
			if jwtErr != nil || !parsed.Valid {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				c.Abort()
				return
			}
			if claims, ok := parsed.Claims.(*utils.JwtCustomClaim); ok {
				username = claims.Username
			}
		}

		ctx := utils.SetTokenInContext(c.Request.Context(), token)
		ctx = utils.SetUsernameInContext(ctx, username)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireSession rejects requests whose session did not resolve to a
// username. Reads are open on the plant network; mutations are not.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUsernameFromContext(c.Request.Context()); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}
