// Package screening exposes the ATS heuristic over pasted text and uploaded files.
package screening

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/extract"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/resume/ats"
)

const maxUploadSize = 10 << 20 // 10MB

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ats/score", h.score)
	rg.POST("/ats/score-file", h.scoreFile)
}

type scoreRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *Handler) score(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "text is required", err.Error())
		return
	}
	metrics.IncATSScore()
	respond.OK(c, gin.H{"ats": ats.Score(req.Text)})
}

func (h *Handler) scoreFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	text, err := extract.Text(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupported) {
			respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_file", "upload a PDF, DOCX or plain text resume", nil)
			return
		}
		respond.Error(c, http.StatusUnprocessableEntity, "extraction_failed", "could not read text from the file", err.Error())
		return
	}
	if strings.TrimSpace(text) == "" {
		respond.Error(c, http.StatusUnprocessableEntity, "extraction_failed", "no text found in the file", nil)
		return
	}
	metrics.IncATSScore()
	respond.OK(c, gin.H{"ats": ats.Score(text), "fileName": fileHeader.Filename})
}
