package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"amphomeus/internal/pkg/jwt"
	"amphomeus/internal/pkg/response"
)

// JWTAuth requires a provider-issued bearer token and stores the subject
// under "user_id". Websocket handshakes may pass the token as ?token=
// because browsers cannot set headers on them.
func JWTAuth(tokens *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, code, msg := bearerToken(c)
		if code != "" {
			response.Abort(c, http.StatusUnauthorized, code, msg)
			return
		}

		claims, err := tokens.ValidateToken(tokenStr)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set("user_id", claims.UserID())
		c.Set("email", claims.Email)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (token, code, msg string) {
	h := c.GetHeader("Authorization")
	if h == "" {
		if c.IsWebsocket() {
			if q := strings.TrimSpace(c.Query("token")); q != "" {
				return q, "", ""
			}
		}
		return "", "AUTH_HEADER_MISSING", "Authorization header is required"
	}

	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'"
	}
	return strings.TrimSpace(parts[1]), "", ""
}
