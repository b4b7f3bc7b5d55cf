package generations

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/llm"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/generate", h.generate)
	rg.GET("/generations", h.list)
}

type generateRequest struct {
	Prompt    string `json:"prompt" binding:"required"`
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens" binding:"omitempty,min=1,max=2048"`
}

func (h *Handler) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "prompt is required", err.Error())
		return
	}
	resp, err := h.Svc.Generate(c.Request.Context(), middleware.UserIDFromContext(c), llm.Request{
		Prompt:    req.Prompt,
		Model:     req.Model,
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "prompt is required", nil)
			return
		}
		respond.Error(c, http.StatusBadGateway, "generation_failed", "text generation failed", nil)
		return
	}
	metrics.IncGeneration(resp.Source)
	respond.OK(c, gin.H{"generated_text": resp.GeneratedText, "source": resp.Source})
}

func (h *Handler) list(c *gin.Context) {
	if h.Svc.Repo == nil {
		respond.OK(c, gin.H{"items": []Generation{}})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	items, err := h.Svc.Repo.ListByUser(c.Request.Context(), middleware.UserIDFromContext(c), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list generations", nil)
		return
	}
	respond.OK(c, gin.H{"items": items})
}
