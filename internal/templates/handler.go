// Package templates serves the layout catalog.
package templates

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/respond"
	"resume-builder/resume/defaults"
	"resume-builder/resume/model"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/templates", h.list)
	rg.GET("/templates/:id", h.get)
}

func (h *Handler) list(c *gin.Context) {
	respond.OK(c, gin.H{"items": defaults.Templates(), "default": defaults.DefaultTemplate().ID})
}

func (h *Handler) get(c *gin.Context) {
	tmpl, ok := defaults.TemplateByID(model.TemplateID(c.Param("id")))
	if !ok {
		respond.Error(c, http.StatusNotFound, "not_found", "Template not found", nil)
		return
	}
	respond.OK(c, gin.H{"template": tmpl})
}
