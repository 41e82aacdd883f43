// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
)

// SearchRouteHandler defines the interface for searchable collections.
type SearchRouteHandler interface {
	Search(c *gin.Context)
	Explain(c *gin.Context)
	Filter(c *gin.Context)
}

// ImportRouteHandler is an optional interface for collections that accept
// bulk imports.
type ImportRouteHandler interface {
	Import(c *gin.Context)
}

// RegisterSearchRoutes registers the search routes of a collection.
// If the handler also implements ImportRouteHandler, POST /import is added.
//
// Usage:
//
//	handler := handlers.NewEntryHandler(baseHandler, cfg)
//	RegisterSearchRoutes(v1.Group("/entries"), handler)
func RegisterSearchRoutes(group *gin.RouterGroup, handler SearchRouteHandler) {
	group.GET("", handler.Search)
	group.GET("/explain", handler.Explain)
	group.POST("/filter", handler.Filter)

	if importer, ok := handler.(ImportRouteHandler); ok {
		group.POST("/import", importer.Import)
	}
}
