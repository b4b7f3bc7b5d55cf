package builder

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/resume/export"
	"resume-builder/resume/model"
)

const maxImportBytes = 1 << 20

type Handler struct {
	Sessions *Registry
}

func NewHandler(sessions *Registry) *Handler {
	return &Handler{Sessions: sessions}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	b := rg.Group("/builder")
	b.GET("", h.get)
	b.PUT("", h.replace)
	b.PUT("/personal-info", h.personalInfo)
	b.PUT("/template", h.template)
	b.GET("/preview", h.preview)
	b.GET("/ats", h.ats)
	b.GET("/json", h.exportJSON)
	b.POST("/import", h.importJSON)
	b.POST("/summary", h.summary)
	b.POST("/export/:format", h.export)
	b.POST("/:section", h.addEntry)
	b.PUT("/:section/:index", h.updateEntry)
	b.DELETE("/:section/:index", h.removeEntry)
	b.POST("/:section/:index/achievements", h.addAchievement)
	b.DELETE("/:section/:index/achievements/:ach", h.removeAchievement)
}

func (h *Handler) session(c *gin.Context) *Session {
	return h.Sessions.Get(c.Request.Context(), middleware.UserIDFromContext(c))
}

func state(s *Session) gin.H {
	data, tmpl := s.state()
	return gin.H{"resume": data, "template": tmpl}
}

func (h *Handler) get(c *gin.Context) {
	respond.OK(c, state(h.session(c)))
}

func (h *Handler) replace(c *gin.Context) {
	var data model.ResumeData
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid resume payload", err.Error())
		return
	}
	s := h.session(c)
	s.Replace(c.Request.Context(), data)
	respond.OK(c, state(s))
}

func (h *Handler) personalInfo(c *gin.Context) {
	var info model.PersonalInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid personal info", err.Error())
		return
	}
	data := h.session(c).SetPersonalInfo(c.Request.Context(), info)
	respond.OK(c, gin.H{"resume": data})
}

type templateRequest struct {
	ID model.TemplateID `json:"id" binding:"required"`
}

func (h *Handler) template(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "template id is required", err.Error())
		return
	}
	tmpl, err := h.session(c).SelectTemplate(c.Request.Context(), req.ID)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "unknown_template", "unknown template", gin.H{"id": req.ID})
		return
	}
	respond.OK(c, gin.H{"template": tmpl})
}

func (h *Handler) preview(c *gin.Context) {
	page, err := h.session(c).Preview()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "render_failed", "failed to render preview", nil)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// ats serves the last debounced score, scoring synchronously when none has been published.
func (h *Handler) ats(c *gin.Context) {
	s := h.session(c)
	res, ok := s.ATS()
	if !ok {
		res = s.ScoreNow()
	}
	respond.OK(c, gin.H{"ats": res, "pending": !ok})
}

func (h *Handler) exportJSON(c *gin.Context) {
	raw, err := h.session(c).ExportJSON()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to encode resume", nil)
		return
	}
	respond.Attachment(c, "resume.json", "application/json", raw)
}

func (h *Handler) importJSON(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read body", nil)
		return
	}
	data, err := h.session(c).ImportJSON(c.Request.Context(), raw)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_json", "resume JSON is invalid", err.Error())
		return
	}
	respond.OK(c, gin.H{"resume": data})
}

func (h *Handler) summary(c *gin.Context) {
	summary, data, err := h.session(c).GenerateSummary(c.Request.Context())
	switch {
	case err == nil:
		respond.OK(c, gin.H{"summary": summary, "resume": data})
	case errors.Is(err, ErrBusy):
		respond.Error(c, http.StatusConflict, "busy", "a summary is already being generated", nil)
	case errors.Is(err, ErrNoGenerator):
		respond.Error(c, http.StatusServiceUnavailable, "generation_unavailable", "text generation is not configured", nil)
	default:
		respond.Error(c, http.StatusBadGateway, "generation_failed", "failed to generate summary", nil)
	}
}

type inlineExport struct {
	Filename   string `json:"filename"`
	MimeType   string `json:"mimeType"`
	Data       []byte `json:"data"`
	StorageKey string `json:"storageKey,omitempty"`
	ResumeID   string `json:"resumeId,omitempty"`
	SaveError  string `json:"saveError,omitempty"`
}

func (h *Handler) export(c *gin.Context) {
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "unsupported_format", "unsupported export format", gin.H{"formats": export.Formats})
		return
	}
	middleware.SetLogField(c, "export_format", string(format))
	out, err := h.session(c).Export(c.Request.Context(), format)
	if err != nil {
		if errors.Is(err, ErrBusy) {
			respond.Error(c, http.StatusConflict, "busy", "an export is already in progress", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "export_failed", "Failed to export resume. Please try again.", nil)
		return
	}

	middleware.SetLogField(c, "resume_id", out.ResumeID)
	middleware.SetLogField(c, "save_warning", out.SaveErr != nil)

	if c.Query("inline") == "json" {
		body := inlineExport{
			Filename:   out.Artifact.Filename,
			MimeType:   out.Artifact.MimeType,
			Data:       out.Artifact.Data,
			StorageKey: out.StorageKey,
			ResumeID:   out.ResumeID,
		}
		if out.SaveErr != nil {
			body.SaveError = out.SaveErr.Error()
		}
		respond.OK(c, body)
		return
	}

	if out.SaveErr != nil {
		c.Header("X-Save-Warning", "export succeeded but the resume could not be saved")
	}
	if out.ResumeID != "" {
		c.Header("X-Resume-Id", out.ResumeID)
	}
	if out.StorageKey != "" {
		c.Header("X-Storage-Key", out.StorageKey)
	}
	respond.Attachment(c, out.Artifact.Filename, out.Artifact.MimeType, out.Artifact.Data)
}

func sectionParam(c *gin.Context) (Section, bool) {
	section, err := ParseSection(c.Param("section"))
	if err != nil {
		respond.Error(c, http.StatusNotFound, "unknown_section", "unknown section", gin.H{"section": c.Param("section")})
		return "", false
	}
	return section, true
}

func indexParam(c *gin.Context, name string) (int, bool) {
	index, err := strconv.Atoi(c.Param(name))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", name+" must be an integer", nil)
		return 0, false
	}
	return index, true
}

// editError maps section edit failures onto responses.
func editError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrIndexOutOfRange):
		respond.Error(c, http.StatusNotFound, "not_found", "entry not found", nil)
	case errors.Is(err, ErrInvalidEntry):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrUnknownSection):
		respond.Error(c, http.StatusNotFound, "unknown_section", "unknown section", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update resume", nil)
	}
}

func (h *Handler) addEntry(c *gin.Context) {
	section, ok := sectionParam(c)
	if !ok {
		return
	}
	data, index, err := h.session(c).AddEntry(c.Request.Context(), section)
	if err != nil {
		editError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"resume": data, "index": index})
}

func (h *Handler) updateEntry(c *gin.Context) {
	section, ok := sectionParam(c)
	if !ok {
		return
	}
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read body", nil)
		return
	}
	data, err := h.session(c).UpdateEntry(c.Request.Context(), section, index, raw)
	if err != nil {
		editError(c, err)
		return
	}
	respond.OK(c, gin.H{"resume": data})
}

func (h *Handler) removeEntry(c *gin.Context) {
	section, ok := sectionParam(c)
	if !ok {
		return
	}
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}
	data, err := h.session(c).RemoveEntry(c.Request.Context(), section, index)
	if err != nil {
		editError(c, err)
		return
	}
	respond.OK(c, gin.H{"resume": data})
}

type achievementRequest struct {
	Text string `json:"text"`
}

func (h *Handler) addAchievement(c *gin.Context) {
	section, ok := sectionParam(c)
	if !ok {
		return
	}
	if section != SectionExperience {
		respond.Error(c, http.StatusNotFound, "unknown_section", "achievements belong to experience entries", nil)
		return
	}
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}
	var req achievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid achievement", err.Error())
		return
	}
	data, err := h.session(c).AddAchievement(c.Request.Context(), index, req.Text)
	if err != nil {
		editError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"resume": data})
}

func (h *Handler) removeAchievement(c *gin.Context) {
	section, ok := sectionParam(c)
	if !ok {
		return
	}
	if section != SectionExperience {
		respond.Error(c, http.StatusNotFound, "unknown_section", "achievements belong to experience entries", nil)
		return
	}
	index, ok := indexParam(c, "index")
	if !ok {
		return
	}
	ach, ok := indexParam(c, "ach")
	if !ok {
		return
	}
	data, err := h.session(c).RemoveAchievement(c.Request.Context(), index, ach)
	if err != nil {
		editError(c, err)
		return
	}
	respond.OK(c, gin.H{"resume": data})
}
