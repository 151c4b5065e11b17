package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ifan/go-mall-api/internal/domains/users/ports"
	apierrors "github.com/ifan/go-mall-api/internal/shared/errors"
)

const userIDKey = "auth.userID"

// AuthMiddleware resolves the Authorization bearer token to an account and
// aborts with 401 when the session is missing or expired.
func AuthMiddleware(service ports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			apierrors.Respond(c, apierrors.ErrUnauthorized.WithDetail("missing bearer token"))
			c.Abort()
			return
		}
		user, err := service.Authenticate(c.Request.Context(), token)
		if err != nil {
			apierrors.Respond(c, apierrors.ErrUnauthorized.WithDetail("invalid or expired session"))
			c.Abort()
			return
		}
		SetCurrentUserID(c, user.ID)
		c.Next()
	}
}

// SetCurrentUserID marks the request as authenticated for the given account.
func SetCurrentUserID(c *gin.Context, userID int64) {
	c.Set(userIDKey, userID)
}

// CurrentUserID returns the authenticated account id set by AuthMiddleware.
func CurrentUserID(c *gin.Context) (int64, bool) {
	value, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	userID, ok := value.(int64)
	return userID, ok
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	const prefix = "bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
