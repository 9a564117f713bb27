package mcp

import (
	"time"

	"github.com/1broseidon/winwatch/internal/journal"
	"github.com/1broseidon/winwatch/internal/model"
	"github.com/1broseidon/winwatch/internal/platform"
)

// Rect mirrors platform.Rect for tool schemas.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// WindowInfo describes one window.
type WindowInfo struct {
	ID      uint32 `json:"id"`
	Title   string `json:"title"`
	Name    string `json:"name" jsonschema:"Owning process or application name"`
	PID     int    `json:"pid,omitempty"`
	Visible bool   `json:"visible"`
	Bounds  Rect   `json:"bounds"`
}

// MonitorInfo describes one monitor.
type MonitorInfo struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Primary  bool   `json:"primary"`
	Bounds   Rect   `json:"bounds"`
	WorkArea Rect   `json:"work_area" jsonschema:"Bounds minus docks and panels"`
}

// EmptyInput is the input for tools that take no arguments.
type EmptyInput struct{}

// ActiveWindowOutput is the output for the get_active_window tool.
type ActiveWindowOutput struct {
	Supported bool        `json:"supported"`
	Window    *WindowInfo `json:"window,omitempty"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	IncludeHidden bool   `json:"include_hidden,omitempty" jsonschema:"Include unmapped windows (default: false)"`
	Name          string `json:"name,omitempty" jsonschema:"Only return windows whose owner name contains this text (case-insensitive)"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
}

// WindowAtPointInput is the input for the window_at_point tool.
type WindowAtPointInput struct {
	X       int    `json:"x" jsonschema:"Root-relative X coordinate"`
	Y       int    `json:"y" jsonschema:"Root-relative Y coordinate"`
	Exclude uint32 `json:"exclude,omitempty" jsonschema:"Window id to skip, e.g. an overlay above the point"`
}

// WindowAtPointOutput is the output for the window_at_point tool.
type WindowAtPointOutput struct {
	Found  bool        `json:"found"`
	Window *WindowInfo `json:"window,omitempty"`
}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// PrimaryMonitorOutput is the output for the get_primary_monitor tool.
type PrimaryMonitorOutput struct {
	Found   bool         `json:"found"`
	Monitor *MonitorInfo `json:"monitor,omitempty"`
}

// CaptureWindowInput is the input for the capture_window tool.
type CaptureWindowInput struct {
	WindowID uint32 `json:"window_id" jsonschema:"Window id as returned by list_windows"`
}

// CaptureWindowOutput is the output for the capture_window tool.
type CaptureWindowOutput struct {
	Supported bool   `json:"supported"`
	Data      string `json:"data,omitempty" jsonschema:"Opaque encoded image payload from the platform"`
	Size      int    `json:"size"`
}

// CapabilitiesOutput is the output for the list_capabilities tool.
type CapabilitiesOutput struct {
	Service      string   `json:"service"`
	Platform     string   `json:"platform"`
	Capabilities []string `json:"capabilities"`
}

// RecentActivationsInput is the input for the recent_activations tool.
type RecentActivationsInput struct {
	Limit   int  `json:"limit,omitempty" jsonschema:"Maximum entries to return (default: 20, max: 500)"`
	Session bool `json:"session,omitempty" jsonschema:"Only return activations recorded by this server process"`
}

// Activation is one journaled window activation.
type Activation struct {
	WindowID    uint32 `json:"window_id"`
	Title       string `json:"title"`
	Name        string `json:"name"`
	Session     string `json:"session"`
	ActivatedAt string `json:"activated_at" jsonschema:"RFC 3339 timestamp"`
}

// RecentActivationsOutput is the output for the recent_activations tool.
type RecentActivationsOutput struct {
	Activations []Activation `json:"activations"`
}

func rectInfo(r platform.Rect) Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func windowInfo(w model.Window) WindowInfo {
	return WindowInfo{
		ID:      uint32(w.ID()),
		Title:   w.Title(),
		Name:    w.Name(),
		PID:     w.PID(),
		Visible: w.IsVisible(),
		Bounds:  rectInfo(w.Bounds()),
	}
}

func monitorInfo(d model.Display) MonitorInfo {
	return MonitorInfo{
		ID:       d.ID(),
		Name:     d.Name(),
		Primary:  d.IsPrimary(),
		Bounds:   rectInfo(d.Bounds()),
		WorkArea: rectInfo(d.WorkArea()),
	}
}

func activationInfo(e journal.Entry) Activation {
	return Activation{
		WindowID:    uint32(e.WindowID),
		Title:       e.Title,
		Name:        e.Owner,
		Session:     e.Session,
		ActivatedAt: e.ActivatedAt.Format(time.RFC3339Nano),
	}
}
