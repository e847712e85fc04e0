package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func router() (*gin.Engine, *booking.Actor) {
	gin.SetMode(gin.TestMode)
	var seen booking.Actor
	r := gin.New()
	r.GET("/me", AuthMiddleware(secret), func(c *gin.Context) {
		seen = ActorFrom(c)
		c.Status(http.StatusOK)
	})
	r.GET("/admin", AuthMiddleware(secret), RequireElevated(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func do(r http.Handler, path, token string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAuthMiddlewareBuildsActor(t *testing.T) {
	r, seen := router()
	token := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
		"sub":  "customer-1",
		"role": "customer",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	if code := do(r, "/me", token); code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	if seen.ID != "customer-1" || seen.Elevated() {
		t.Fatalf("actor = %+v", *seen)
	}
	if code := do(r, "/admin", token); code != http.StatusForbidden {
		t.Fatalf("ordinary actor on admin route: %d", code)
	}

	owner := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "owner-1", "role": "owner"})
	if code := do(r, "/admin", owner); code != http.StatusOK {
		t.Fatalf("owner on admin route: %d", code)
	}
}

func TestAuthMiddlewareRejects(t *testing.T) {
	r, _ := router()

	cases := map[string]string{
		"missing":       "",
		"wrong secret":  sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "x"}),
		"expired":       sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "x", "exp": time.Now().Add(-time.Hour).Unix()}),
		"no subject":    sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"role": "admin"}),
		"other hs algo": sign(t, jwt.SigningMethodHS512, []byte(secret), jwt.MapClaims{"sub": "x"}),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if code := do(r, "/me", token); code != http.StatusUnauthorized {
				t.Fatalf("code = %d", code)
			}
		})
	}
}
