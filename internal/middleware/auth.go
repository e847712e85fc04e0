package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
)

const (
	ContextActor    = "actor"
	ContextUserRole = "userRole"
)

// AuthMiddleware turns an HS256 bearer token into a booking.Actor. The token
// carries the actor id in sub and the role in role.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
			return
		}

		sub, err := claims.GetSubject()
		if err != nil || sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}
		role, _ := claims["role"].(string)

		c.Set(ContextActor, booking.Actor{
			ID:        sub,
			Privilege: booking.PrivilegeForRole(role),
		})
		c.Set(ContextUserRole, role)

		c.Next()
	}
}

// RequireElevated rejects ordinary actors.
func RequireElevated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ActorFrom(c).Elevated() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// ActorFrom returns the authenticated actor, or the zero ordinary actor.
func ActorFrom(c *gin.Context) booking.Actor {
	if v, ok := c.Get(ContextActor); ok {
		if a, ok := v.(booking.Actor); ok {
			return a
		}
	}
	return booking.Actor{}
}
