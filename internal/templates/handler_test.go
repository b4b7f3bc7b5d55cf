package templates

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/resume/model"
)

func serve(method, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler().RegisterRoutes(r.Group("/api/v1"))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(method, path, nil))
	return resp
}

func TestListTemplates(t *testing.T) {
	resp := serve(http.MethodGet, "/api/v1/templates")
	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Items   []model.Template `json:"items"`
		Default model.TemplateID `json:"default"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Len(t, body.Items, 3)
	assert.Equal(t, model.TemplateModern, body.Default)
}

func TestGetTemplate(t *testing.T) {
	resp := serve(http.MethodGet, "/api/v1/templates/creative")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "purple")

	resp = serve(http.MethodGet, "/api/v1/templates/neon")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
