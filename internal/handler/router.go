package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mirefly/paperdiary/internal/middleware"
)

type RouterDeps struct {
	Session         *SessionHandler
	Entries         *EntryHandler
	Export          *ExportHandler
	JWTSecret       []byte
	ExportRateLimit time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/session", deps.Session.Open)

	authGroup := api.Group("")
	authGroup.Use(middleware.RoleAuth(deps.JWTSecret))
	authGroup.GET("/entries", deps.Entries.List)
	authGroup.GET("/entries/:id", deps.Entries.Get)
	authGroup.GET("/entries/:id/export", deps.Entries.Export)
	authGroup.GET("/export/files/:key", deps.Export.Download)

	authorGroup := authGroup.Group("")
	authorGroup.Use(middleware.RequireAuthor())
	authorGroup.POST("/entries", deps.Entries.Create)
	authorGroup.PUT("/entries/:id", deps.Entries.Update)
	authorGroup.DELETE("/entries/:id", deps.Entries.Delete)

	exportGroup := authGroup.Group("")
	if deps.ExportRateLimit > 0 {
		exportGroup.Use(middleware.RateLimit(deps.ExportRateLimit))
	}
	exportGroup.POST("/export", deps.Export.Export)
}
