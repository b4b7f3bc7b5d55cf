package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/shared/telemetry"
)

func TestRequestIDPropagation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFromContext(c)+"|"+telemetry.RequestID(c.Request.Context()))
	})

	tests := []struct {
		name    string
		inbound string
		keep    bool
	}{
		{"reuses well formed id", "abc-123_x.y", true},
		{"replaces missing id", "", false},
		{"replaces unsafe id", "bad id\n", false},
		{"replaces oversized id", strings.Repeat("a", 65), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.inbound != "" {
				req.Header.Set("X-Request-Id", tt.inbound)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			id := w.Header().Get("X-Request-Id")
			assert.Equal(t, id+"|"+id, w.Body.String())
			if tt.keep {
				assert.Equal(t, tt.inbound, id)
				return
			}
			_, err := uuid.Parse(id)
			require.NoError(t, err)
		})
	}
}
