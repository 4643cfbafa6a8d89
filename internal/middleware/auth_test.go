package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type authFunc func(ctx context.Context, token string) (uint64, error)

func (f authFunc) Authenticate(ctx context.Context, token string) (uint64, error) {
	return f(ctx, token)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := authFunc(func(_ context.Context, token string) (uint64, error) {
		if token == "ok" {
			return 42, nil
		}
		return 0, errors.New("denied")
	})

	r := gin.New()
	r.GET("/me", AuthMiddleware(auth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"operator_id": c.GetUint64(ContextOperatorIDKey)})
	})

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic ok", http.StatusUnauthorized},
		{"no token", "Bearer", http.StatusUnauthorized},
		{"rejected token", "Bearer nope", http.StatusUnauthorized},
		{"accepted", "Bearer ok", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.code, w.Code)
			if tc.code == http.StatusOK {
				assert.JSONEq(t, `{"operator_id":42}`, w.Body.String())
			}
		})
	}
}
