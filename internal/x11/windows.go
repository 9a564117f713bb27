package x11

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
)

// WindowInfo is a snapshot of one top-level client window.
type WindowInfo struct {
	ID     xproto.Window
	X      int
	Y      int
	Width  int
	Height int
	Title  string
	Class  string
	PID    int
	Mapped bool
}

// GetActiveWindow returns the window named by _NET_ACTIVE_WINDOW.
func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// ClientList returns the managed client windows in mapping order.
func (c *Connection) ClientList() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}
	return clients, nil
}

// StackingList returns the managed client windows bottom to top.
func (c *Connection) StackingList() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListStackingGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get stacking client list: %w", err)
	}
	return clients, nil
}

// DescribeWindow reads geometry, title, owner and map state for windowID.
// Only a geometry failure is an error; missing properties are left empty.
func (c *Connection) DescribeWindow(windowID xproto.Window) (WindowInfo, error) {
	x, y, w, h, err := c.windowRect(windowID)
	if err != nil {
		return WindowInfo{}, err
	}

	info := WindowInfo{
		ID:     windowID,
		X:      x,
		Y:      y,
		Width:  w,
		Height: h,
		Title:  c.windowTitle(windowID),
		Class:  c.windowClass(windowID),
	}
	if pid, err := ewmh.WmPidGet(c.XUtil, windowID); err == nil {
		info.PID = int(pid)
	}
	if attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply(); err == nil {
		info.Mapped = attrs.MapState == xproto.MapStateViewable
	}
	return info, nil
}

// WindowAtPoint returns the topmost mapped client containing (x, y), skipping
// exclude. ok is false when no window is under the point.
func (c *Connection) WindowAtPoint(x, y int, exclude xproto.Window) (info WindowInfo, ok bool, err error) {
	stack, err := c.StackingList()
	if err != nil {
		return WindowInfo{}, false, err
	}
	for i := len(stack) - 1; i >= 0; i-- {
		windowID := stack[i]
		if exclude != 0 && windowID == exclude {
			continue
		}
		candidate, err := c.DescribeWindow(windowID)
		if err != nil || !candidate.Mapped {
			continue
		}
		if candidate.contains(x, y) {
			return candidate, true, nil
		}
	}
	return WindowInfo{}, false, nil
}

func (w WindowInfo) contains(x, y int) bool {
	return x >= w.X && x < w.X+w.Width && y >= w.Y && y < w.Y+w.Height
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}
	return isNormalType(types)
}

func isNormalType(types []string) bool {
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}
	// If no specific type is set, assume it's normal
	return len(types) == 0
}

// UnmapWindow hides a window without going through the window manager.
func (c *Connection) UnmapWindow(windowID xproto.Window) error {
	return xproto.UnmapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// MapWindow shows a previously unmapped window.
func (c *Connection) MapWindow(windowID xproto.Window) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// Repaint clears the whole window and generates Expose events so the client
// redraws immediately.
func (c *Connection) Repaint(windowID xproto.Window) error {
	return xproto.ClearAreaChecked(c.XUtil.Conn(), true, windowID, 0, 0, 0, 0).Check()
}

// SetUndecorated removes window manager decorations and keeps the window off
// the taskbar, the X11 counterpart of a popup-style window.
func (c *Connection) SetUndecorated(windowID xproto.Window) error {
	hints := &motif.Hints{
		Flags:      motif.HintDecorations,
		Decoration: motif.DecorationNone,
	}
	if err := motif.WmHintsSet(c.XUtil, windowID, hints); err != nil {
		return fmt.Errorf("failed to set motif hints: %w", err)
	}
	const stateAdd = 1
	if err := ewmh.WmStateReq(c.XUtil, windowID, stateAdd, "_NET_WM_STATE_SKIP_TASKBAR"); err != nil {
		return fmt.Errorf("failed to request skip-taskbar state: %w", err)
	}
	return nil
}

func (c *Connection) windowRect(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get geometry for window %d: %w", windowID, err)
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to translate coordinates for window %d: %w", windowID, err)
	}

	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), nil
}

func (c *Connection) windowTitle(windowID xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil && title != "" {
		return title
	}
	if title, err := icccm.WmNameGet(c.XUtil, windowID); err == nil {
		return title
	}
	return ""
}

func (c *Connection) windowClass(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

// ProcessName resolves the short command name of pid from procfs.
func ProcessName(pid int) string {
	if pid <= 0 {
		return ""
	}
	data, err := os.ReadFile("/proc/" + strconv.Itoa(pid) + "/comm")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
