package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"wego/internal/core/session"
	"wego/internal/domain"
	"wego/internal/transport/http/ez"
)

const keyOperator = "operator"

// AuthSession resolves the bearer token into the operator account. Identity
// always re-derives from the token and the current user row; a tombstoned
// account is rejected even while its session record is still alive.
func AuthSession(sessions *session.Manager, users domain.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			ez.WriteError(c, domain.E(domain.KindUnauthenticated, "missing token"))
			return
		}
		uid, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			ez.WriteError(c, err)
			return
		}
		u, err := users.FindLiveByID(c.Request.Context(), uid)
		if err != nil {
			if domain.KindOf(err) == domain.KindNotFound {
				err = domain.E(domain.KindUnauthenticated, "invalid or expired session")
			}
			ez.WriteError(c, err)
			return
		}
		c.Set(keyOperator, u)
		c.Next()
	}
}

// BearerToken reads the session token from the Authorization header, falling
// back to the session cookie.
func BearerToken(c *gin.Context) string {
	if ah := c.GetHeader("Authorization"); strings.HasPrefix(ah, "Bearer ") {
		return strings.TrimPrefix(ah, "Bearer ")
	}
	if tok, err := c.Cookie("session"); err == nil {
		return tok
	}
	return ""
}

// Operator returns the account AuthSession stashed on the context.
func Operator(c *gin.Context) *domain.User {
	if v, ok := c.Get(keyOperator); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}
