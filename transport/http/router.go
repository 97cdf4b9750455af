package http

import (
	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/corvidae/docchat"

	mcpE "github.com/corvidae/docchat/mcp"
)

func AddRouters(r *gin.Engine, endpoints docchat.EndpointSet) {
	// RESTful API routes
	api := r.Group("/api")
	{
		api.POST("/ask", AskHandler(endpoints.Ask))
		api.GET("/search", RetrieveHandler(endpoints.Retrieve))
		api.POST("/reset", ResetHandler(endpoints.Reset))
	}
}

func AddStreamableRouters(r *gin.Engine, endpoints map[mcp.MCPMethod]mcpE.MCPEndpoint) {
	mcp := r.Group("/mcp")
	{
		mcp.POST("/", MCPStreamableHandler(endpoints))
	}
}
