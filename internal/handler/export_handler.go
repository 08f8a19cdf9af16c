package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/mirefly/paperdiary/internal/export"
	"github.com/mirefly/paperdiary/internal/pkg/errcode"
	"github.com/mirefly/paperdiary/internal/pkg/response"
	"github.com/mirefly/paperdiary/internal/service"
)

type ExportHandler struct {
	svc *service.ExportService
}

func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

type exportRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Quality   string `json:"quality"`
}

func (h *ExportHandler) Export(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	quality, err := export.ParseQuality(req.Quality)
	if err != nil {
		response.Error(c, errcode.ErrInvalid, "unknown quality, expect low/medium/high")
		return
	}
	result, err := h.svc.ExportRange(c.Request.Context(), req.StartDate, req.EndDate, quality)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *ExportHandler) Download(c *gin.Context) {
	artifact, reader, err := h.svc.OpenArtifact(c.Request.Context(), c.Param("key"))
	if err != nil {
		handleError(c, err)
		return
	}
	defer reader.Close()
	c.Header("Content-Disposition", "attachment; filename=\""+artifact.FileName+"\"")
	c.DataFromReader(200, artifact.SizeBytes, "application/pdf", reader, nil)
}
