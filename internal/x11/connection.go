package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	hasRandR  bool
	closeOnce sync.Once
}

// NewConnection connects to the X server named by display. An empty display
// uses $DISPLAY.
func NewConnection(display string) (*Connection, error) {
	var (
		xu  *xgbutil.XUtil
		err error
	)
	if display == "" {
		xu, err = xgbutil.NewConn()
	} else {
		xu, err = xgbutil.NewConnDisplay(display)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	c := &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}
	// Monitor geometry needs RandR; everything else works without it.
	c.hasRandR = randr.Init(xu.Conn()) == nil
	return c, nil
}

// HasRandR reports whether the RandR extension was initialized.
func (c *Connection) HasRandR() bool {
	return c.hasRandR
}

// Close cleanly disconnects from the X11 server. Repeated calls are no-ops.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.XUtil.Conn().Close()
	})
}
