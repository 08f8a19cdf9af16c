package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/mirefly/paperdiary/internal/pkg/errcode"
	appErr "github.com/mirefly/paperdiary/internal/pkg/errors"
	"github.com/mirefly/paperdiary/internal/pkg/response"
	"github.com/mirefly/paperdiary/internal/service"
	"github.com/mirefly/paperdiary/internal/store"
)

type EntryHandler struct {
	entries *store.EntryStore
	exports *service.EntryExportService
}

func NewEntryHandler(entries *store.EntryStore, exports *service.EntryExportService) *EntryHandler {
	return &EntryHandler{entries: entries, exports: exports}
}

func (h *EntryHandler) List(c *gin.Context) {
	response.Success(c, h.entries.Snapshot())
}

func (h *EntryHandler) Get(c *gin.Context) {
	entry, ok := h.entries.Get(c.Param("id"))
	if !ok {
		handleError(c, appErr.ErrNotFound)
		return
	}
	response.Success(c, entry)
}

type createEntryRequest struct {
	Date string `json:"date"`
}

func (h *EntryHandler) Create(c *gin.Context) {
	var req createEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.Date == "" {
		response.Error(c, errcode.ErrInvalid, "date required")
		return
	}
	entry, err := h.entries.Create(c.Request.Context(), req.Date)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, entry)
}

type updateEntryRequest struct {
	Content string `json:"content"`
	Ideas   string `json:"ideas"`
	// ImageURL left out of the payload keeps the stored image; an
	// explicit empty string clears it.
	ImageURL *string `json:"image_url"`
}

func (h *EntryHandler) Update(c *gin.Context) {
	var req updateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	entry, err := h.entries.Update(c.Request.Context(), c.Param("id"), req.Content, req.Ideas, req.ImageURL)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, entry)
}

func (h *EntryHandler) Delete(c *gin.Context) {
	if err := h.entries.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

func (h *EntryHandler) Export(c *gin.Context) {
	content, filename, contentType, err := h.exports.Export(c.Param("id"), c.Query("format"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Data(200, contentType, content)
}
