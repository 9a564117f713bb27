package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// DesktopWindow returns the window that draws the desktop background. Window
// managers that advertise a _NET_WM_WINDOW_TYPE_DESKTOP client win; otherwise
// the root window stands in for it.
func (c *Connection) DesktopWindow() uint32 {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return uint32(c.Root)
	}
	return uint32(pickDesktop(clients, c.Root, func(w xproto.Window) ([]string, error) {
		return ewmh.WmWindowTypeGet(c.XUtil, w)
	}))
}

func pickDesktop(clients []xproto.Window, root xproto.Window, windowTypes func(xproto.Window) ([]string, error)) xproto.Window {
	for _, windowID := range clients {
		types, err := windowTypes(windowID)
		if err == nil && hasAtom(types, "_NET_WM_WINDOW_TYPE_DESKTOP") {
			return windowID
		}
	}
	return root
}
