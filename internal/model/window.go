// Package model holds the platform-independent window and monitor values.
package model

import (
	"encoding/json"

	"github.com/1broseidon/winwatch/internal/platform"
)

// Window is an immutable snapshot of one native window record. Accessors
// never go back to the native service.
type Window struct {
	rec platform.WindowRecord
}

// WindowFrom wraps a native record.
func WindowFrom(rec platform.WindowRecord) Window {
	return Window{rec: rec}
}

func (w Window) ID() platform.WindowID { return w.rec.ID }

// IsWindow reports whether the record names a real window. Native queries
// return ID 0 when nothing matched.
func (w Window) IsWindow() bool { return w.rec.ID != platform.InvalidWindowID }

func (w Window) Bounds() platform.Rect { return w.rec.Bounds }
func (w Window) Title() string         { return w.rec.Title }

// Name is the owning process or application name.
func (w Window) Name() string    { return w.rec.Owner }
func (w Window) PID() int        { return w.rec.PID }
func (w Window) IsVisible() bool { return w.rec.Visible }

// Record returns a copy of the wrapped native record.
func (w Window) Record() platform.WindowRecord { return w.rec }

type windowJSON struct {
	ID      platform.WindowID `json:"id"`
	Title   string            `json:"title"`
	Name    string            `json:"name"`
	PID     int               `json:"pid,omitempty"`
	Visible bool              `json:"visible"`
	Bounds  platform.Rect     `json:"bounds"`
}

func (w Window) MarshalJSON() ([]byte, error) {
	return json.Marshal(windowJSON{
		ID:      w.rec.ID,
		Title:   w.rec.Title,
		Name:    w.rec.Owner,
		PID:     w.rec.PID,
		Visible: w.rec.Visible,
		Bounds:  w.rec.Bounds,
	})
}
