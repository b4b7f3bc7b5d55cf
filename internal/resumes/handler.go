package resumes

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/resume/model"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.save)
	rg.GET("/resumes/:id", h.get)
	rg.GET("/resumes", h.list)
}

type saveRequest struct {
	model.ResumeData
	TemplateID model.TemplateID `json:"templateId"`
}

func (h *Handler) save(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid resume payload", err.Error())
		return
	}
	rec, err := h.Svc.Save(c.Request.Context(), middleware.UserIDFromContext(c), req.ResumeData, req.TemplateID)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "save_failed", "failed to save resume", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"saved": rec})
}

func (h *Handler) get(c *gin.Context) {
	rec, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Resume not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load resume", nil)
		return
	}
	respond.OK(c, gin.H{"resume": rec})
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	order := Order{
		Field: OrderField(strings.TrimSpace(c.DefaultQuery("order", string(OrderCreatedAt)))),
		Desc:  c.DefaultQuery("desc", "true") != "false",
	}
	records, err := h.Svc.List(
		c.Request.Context(),
		middleware.UserIDFromContext(c),
		model.TemplateID(strings.TrimSpace(c.Query("templateId"))),
		order,
		limit,
		offset,
	)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list resumes", nil)
		return
	}
	limit, offset = clampPage(limit, offset)
	respond.OK(c, gin.H{"items": records, "limit": limit, "offset": offset})
}
