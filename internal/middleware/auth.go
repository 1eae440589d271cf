package middleware

import (
	"context"
	"strings"

	"moneybook/internal/models"
	"moneybook/internal/util"

	"github.com/gin-gonic/gin"
)

// CookieName is the cookie carrying the session token.
const CookieName = "jwt"

// UserLoader resolves a token subject to an account.
type UserLoader interface {
	Get(ctx context.Context, id uint) (*models.User, error)
}

// SessionVerifier checks the session bound to a token is still live.
type SessionVerifier interface {
	Verify(ctx context.Context, id string, userID uint) error
}

// TokenFromRequest looks for the token in the Authorization header, then
// the jwt cookie, then ?token= (for downloads that cannot set headers).
func TokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		return cookie
	}
	return c.Query("token")
}

// AuthMiddleware verifies the token, its session and its subject, then
// stores the account under util.CurrentUserKey.
func AuthMiddleware(jwtSecret string, users UserLoader, sessions SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := TokenFromRequest(c)
		if tokenStr == "" {
			util.Fail(c, util.Unauthenticated("Unauthorized: No token provided"))
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.UserID == 0 {
			util.Fail(c, util.Unauthenticated("Unauthorized: Invalid token"))
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		if err := sessions.Verify(ctx, claims.ID, claims.UserID); err != nil {
			util.Fail(c, err)
			c.Abort()
			return
		}

		user, err := users.Get(ctx, claims.UserID)
		if err != nil {
			util.Fail(c, err)
			c.Abort()
			return
		}

		c.Set(util.CurrentUserKey, user)
		c.Set(util.SessionIDKey, claims.ID)
		c.Next()
	}
}
