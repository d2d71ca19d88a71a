package mcp

import (
	"net/http"

	"github.com/mark3labs/mcp-go/server"

	"github.com/chenat9/mcp-server/internal/credential"
)

// NewServer builds the MCP server with every tool registered.
func NewServer(version string, h *Handlers) *server.MCPServer {
	s := server.NewMCPServer(
		Name,
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.AddTool(ListBucketsTool, h.ListBuckets)
	s.AddTool(ListObjectsTool, h.ListObjects)
	s.AddTool(GetObjectTool, h.GetObject)
	s.AddTool(ImageInfoTool, h.ImageInfo)
	s.AddTool(ImageProcessTool, h.ImageProcess)
	s.AddTool(ImageFormatTool, h.ImageFormat)
	s.AddTool(ImageResizeTool, h.ImageResize)
	s.AddTool(ImageWatermarkTool, h.ImageWatermark)
	s.AddTool(ImageBlindWatermarkTool, h.ImageBlindWatermark)
	s.AddTool(VideoInfoTool, h.VideoInfo)
	s.AddTool(VideoSnapshotTool, h.VideoSnapshot)

	return s
}

// ServeStdio blocks serving the stdio transport. Credentials for web
// deploy mode are taken from the process environment, since stdio has
// no request headers.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s, server.WithStdioContextFunc(credential.FromEnvironment))
}

// HTTPHandler returns the streamable-HTTP transport. The request's
// Authorization header is carried into the tool context.
func HTTPHandler(s *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(s,
		server.WithHTTPContextFunc(credential.FromRequest),
	)
}

// SSEHandler returns the SSE transport.
func SSEHandler(s *server.MCPServer) http.Handler {
	return server.NewSSEServer(s,
		server.WithSSEContextFunc(credential.FromRequest),
	)
}
