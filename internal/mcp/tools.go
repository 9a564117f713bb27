package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/1broseidon/winwatch/internal/model"
	"github.com/1broseidon/winwatch/internal/platform"
)

var errJournalDisabled = errors.New("activation journal is disabled; set journal.enabled: true and run `winwatch watch --record` or `winwatch mcp serve`")

func (s *Server) handleGetActiveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ActiveWindowOutput, error) {
	w, err := s.mgr.ActiveWindow()
	if err != nil {
		return nil, ActiveWindowOutput{}, fmt.Errorf("failed to get active window: %w", err)
	}
	if w == nil {
		return nil, ActiveWindowOutput{}, nil
	}
	out := ActiveWindowOutput{Supported: true}
	if w.IsWindow() {
		info := windowInfo(*w)
		out.Window = &info
	}
	return nil, out, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	windows, err := s.mgr.Windows()
	if err != nil {
		return nil, ListWindowsOutput{}, fmt.Errorf("failed to list windows: %w", err)
	}
	out := ListWindowsOutput{Windows: []WindowInfo{}}
	for _, w := range filterWindows(windows, args.IncludeHidden, args.Name) {
		out.Windows = append(out.Windows, windowInfo(w))
	}
	return nil, out, nil
}

func filterWindows(windows []model.Window, includeHidden bool, name string) []model.Window {
	name = strings.ToLower(strings.TrimSpace(name))
	var out []model.Window
	for _, w := range windows {
		if !includeHidden && !w.IsVisible() {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(w.Name()), name) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func (s *Server) handleWindowAtPoint(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowAtPointInput) (*mcpsdk.CallToolResult, WindowAtPointOutput, error) {
	w, err := s.mgr.WindowAtPoint(args.X, args.Y, platform.WindowID(args.Exclude))
	if err != nil {
		return nil, WindowAtPointOutput{}, fmt.Errorf("failed to hit-test (%d,%d): %w", args.X, args.Y, err)
	}
	if w == nil || !w.IsWindow() {
		return nil, WindowAtPointOutput{}, nil
	}
	info := windowInfo(*w)
	return nil, WindowAtPointOutput{Found: true, Window: &info}, nil
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	monitors, err := s.mgr.Monitors()
	if err != nil {
		return nil, ListMonitorsOutput{}, fmt.Errorf("failed to list monitors: %w", err)
	}
	out := ListMonitorsOutput{Monitors: make([]MonitorInfo, 0, len(monitors))}
	for _, m := range monitors {
		out.Monitors = append(out.Monitors, monitorInfo(m))
	}
	return nil, out, nil
}

func (s *Server) handleGetPrimaryMonitor(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, PrimaryMonitorOutput, error) {
	d, err := s.mgr.PrimaryMonitor()
	if err != nil {
		return nil, PrimaryMonitorOutput{}, fmt.Errorf("failed to get primary monitor: %w", err)
	}
	if _, empty := d.(model.EmptyMonitor); empty {
		return nil, PrimaryMonitorOutput{}, nil
	}
	info := monitorInfo(d)
	return nil, PrimaryMonitorOutput{Found: true, Monitor: &info}, nil
}

func (s *Server) handleCaptureWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args CaptureWindowInput) (*mcpsdk.CallToolResult, CaptureWindowOutput, error) {
	if args.WindowID == 0 {
		return nil, CaptureWindowOutput{}, fmt.Errorf("window_id is required")
	}
	if !s.mgr.Capabilities().Has(platform.CapCaptureWindow) {
		return nil, CaptureWindowOutput{}, nil
	}
	payload, err := s.mgr.CaptureWindow(platform.WindowID(args.WindowID))
	if err != nil {
		return nil, CaptureWindowOutput{}, fmt.Errorf("failed to capture window %d: %w", args.WindowID, err)
	}
	s.logger.Debug("window captured",
		zap.Uint32("window_id", args.WindowID),
		zap.Int("size", len(payload)),
	)
	return nil, CaptureWindowOutput{
		Supported: true,
		Data:      string(payload),
		Size:      len(payload),
	}, nil
}

func (s *Server) handleListCapabilities(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, CapabilitiesOutput, error) {
	caps := s.mgr.Capabilities().List()
	out := CapabilitiesOutput{
		Service:      s.mgr.ServiceName(),
		Platform:     s.mgr.Platform(),
		Capabilities: make([]string, 0, len(caps)),
	}
	for _, c := range caps {
		out.Capabilities = append(out.Capabilities, string(c))
	}
	return nil, out, nil
}

func (s *Server) handleRecentActivations(ctx context.Context, _ *mcpsdk.CallToolRequest, args RecentActivationsInput) (*mcpsdk.CallToolResult, RecentActivationsOutput, error) {
	if s.journal == nil {
		return nil, RecentActivationsOutput{}, errJournalDisabled
	}
	limit := args.Limit
	if limit <= 0 {
		limit = defaultActivationLimit
	}
	if limit > maxActivationLimit {
		limit = maxActivationLimit
	}

	session := ""
	if args.Session {
		session = s.journal.Session()
	}
	entries, err := s.journal.SessionEntries(ctx, session, limit)
	if err != nil {
		return nil, RecentActivationsOutput{}, fmt.Errorf("failed to read activation journal: %w", err)
	}
	out := RecentActivationsOutput{Activations: make([]Activation, 0, len(entries))}
	for _, e := range entries {
		out.Activations = append(out.Activations, activationInfo(e))
	}
	return nil, out, nil
}
