package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func authRouter(opts ...AuthOption) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth("dev", opts...))
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": UserIDFromContext(c), "guest": IsGuest(c)})
	}
	r.GET("/api/v1/builder", handler)
	r.GET("/api/v1/templates", handler)
	r.OPTIONS("/api/v1/builder", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		headers    map[string]string
		wantStatus int
		wantBody   string
	}{
		{"options without identity", http.MethodOptions, "/api/v1/builder", nil, http.StatusNoContent, ""},
		{"guest header", http.MethodGet, "/api/v1/builder", map[string]string{"X-Guest-Id": " g1 "}, http.StatusOK, `{"guest":true,"user":"guest:g1"}`},
		{"missing identity", http.MethodGet, "/api/v1/builder", nil, http.StatusUnauthorized, ""},
		{"malformed bearer", http.MethodGet, "/api/v1/builder", map[string]string{"Authorization": "Token abc"}, http.StatusUnauthorized, ""},
		{"public path without identity", http.MethodGet, "/api/v1/templates", nil, http.StatusOK, `{"guest":false,"user":""}`},
		{"public path ignores bad token", http.MethodGet, "/api/v1/templates", map[string]string{"Authorization": "Bearer nope"}, http.StatusOK, `{"guest":false,"user":""}`},
	}
	r := authRouter(WithPublicPaths("/api/v1/templates"))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}
}
