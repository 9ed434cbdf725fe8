package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standards-dev/tenets/internal/cache"
)

// Server wraps the MCP server with its cache dependency.
type Server struct {
	server *mcp.Server
	cache  *cache.MetadataCache
}

// Config holds server dependencies.
type Config struct {
	Cache *cache.MetadataCache
}

// NewServer creates a configured MCP server with the discovery tools
// registered against the metadata cache.
func NewServer(cfg *Config) *Server {
	impl := &mcp.Implementation{
		Name:    "tenets-standards-server",
		Version: "v0.1.0",
	}

	server := mcp.NewServer(impl, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_categories",
		Description: "List all categories of the standards corpus (core plus technology categories).",
	}, makeListCategoriesHandler(cfg.Cache))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_docs",
		Description: "List the tenet and binding documents in one category.",
	}, makeListDocsHandler(cfg.Cache))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_doc",
		Description: "Retrieve a single standards document by identifier, with metadata, section outline and content preview.",
	}, makeGetDocHandler(cfg.Cache))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_docs",
		Description: "Search standards documents by title and content. Typo-tolerant; suggests corrections when nothing matches.",
	}, makeSearchHandler(cfg.Cache))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "cache_stats",
		Description: "Report metadata cache performance: hit ratio, memory usage, scan counts and compression effectiveness.",
	}, makeCacheStatsHandler(cfg.Cache))

	return &Server{
		server: server,
		cache:  cfg.Cache,
	}
}

// Run starts the server with stdio transport (blocks until client disconnects).
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server instance.
// Used by transport handlers that need to wrap the server.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}
