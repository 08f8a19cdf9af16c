package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/mirefly/paperdiary/internal/pkg/errcode"
	appErr "github.com/mirefly/paperdiary/internal/pkg/errors"
	"github.com/mirefly/paperdiary/internal/pkg/response"
)

// handleError converts a service error into the API envelope. Every
// failure is resolved here at the operation boundary; transport errors
// keep their backend detail so the user can diagnose them.
func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID, _ := c.Get("request_id")
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.Any("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, appErr.ErrUnauthorized):
		response.Error(c, errcode.ErrUnauthorized, "unauthorized")
	case errors.Is(err, appErr.ErrForbidden):
		response.Error(c, errcode.ErrForbidden, "forbidden")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, "not found")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, "invalid request")
	case errors.Is(err, appErr.ErrDuplicateDate):
		response.Error(c, errcode.ErrDuplicateDate, err.Error())
	case errors.Is(err, appErr.ErrInvalidRange):
		response.Error(c, errcode.ErrInvalidRange, err.Error())
	case errors.Is(err, appErr.ErrEmptyRange):
		response.Error(c, errcode.ErrEmptyRange, err.Error())
	case errors.Is(err, appErr.ErrExportBusy):
		response.Error(c, errcode.ErrExportBusy, err.Error())
	case errors.Is(err, appErr.ErrTimeout):
		response.Error(c, errcode.ErrTimeout, err.Error())
	case errors.Is(err, appErr.ErrRenderCapture):
		response.Error(c, errcode.ErrRenderFailed, err.Error())
	default:
		response.Error(c, errcode.ErrStoreFailed, err.Error())
	}
}
