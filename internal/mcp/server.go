// Package mcp exposes the window manager facade as Model Context Protocol
// tools over stdio.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/1broseidon/winwatch/internal/journal"
	"github.com/1broseidon/winwatch/internal/winmgr"
)

const (
	ServerName    = "winwatch"
	ServerVersion = "0.1.0"

	defaultActivationLimit = 20
	maxActivationLimit     = 500
)

// Server is the MCP server for window queries.
type Server struct {
	mcpServer *mcpsdk.Server
	mgr       *winmgr.Manager
	journal   *journal.Journal
	logger    *zap.Logger
}

// NewServer creates a server over mgr. j may be nil, in which case
// recent_activations reports that the journal is disabled.
func NewServer(mgr *winmgr.Manager, j *journal.Journal, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		mgr:     mgr,
		journal: j,
		logger:  logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server starting", zap.String("service", s.mgr.ServiceName()))
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_active_window",
		Description: "Return the currently focused window. supported is false when the platform cannot report it.",
	}, s.handleGetActiveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List top-level windows with their bounds, titles and owning process. Hidden windows are omitted unless include_hidden is true.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "window_at_point",
		Description: "Return the topmost window containing the point (x, y). Pass exclude to look behind a known window.",
	}, s.handleWindowAtPoint)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List monitors with their bounds, work areas and primary flag.",
	}, s.handleListMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_primary_monitor",
		Description: "Return the primary monitor. found is false when the platform has no primary flag or no monitor is flagged.",
	}, s.handleGetPrimaryMonitor)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "capture_window",
		Description: "Capture a window's contents. data holds the platform's encoded image payload (base64 PNG on X11).",
	}, s.handleCaptureWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_capabilities",
		Description: "List the native window operations available on this platform and session.",
	}, s.handleListCapabilities)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "recent_activations",
		Description: "Return recently activated windows from the activation journal, newest first. Requires journal.enabled.",
	}, s.handleRecentActivations)
}
