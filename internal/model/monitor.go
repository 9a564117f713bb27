package model

import (
	"encoding/json"

	"github.com/1broseidon/winwatch/internal/platform"
)

// Display is the read surface shared by Monitor and EmptyMonitor.
type Display interface {
	ID() int
	Name() string
	Bounds() platform.Rect
	WorkArea() platform.Rect
	IsPrimary() bool
}

var (
	_ Display = Monitor{}
	_ Display = EmptyMonitor{}
)

// Monitor is an immutable snapshot of one native monitor record.
type Monitor struct {
	rec platform.MonitorRecord
}

// MonitorFrom wraps a native record.
func MonitorFrom(rec platform.MonitorRecord) Monitor {
	return Monitor{rec: rec}
}

func (m Monitor) ID() int                 { return m.rec.ID }
func (m Monitor) Name() string            { return m.rec.Name }
func (m Monitor) Bounds() platform.Rect   { return m.rec.Bounds }
func (m Monitor) WorkArea() platform.Rect { return m.rec.WorkArea }
func (m Monitor) IsPrimary() bool         { return m.rec.Primary }

func (m Monitor) MarshalJSON() ([]byte, error) {
	return json.Marshal(displayJSON(m))
}

// EmptyMonitor stands in for the primary monitor on services that cannot
// report one. All values are zero and IsPrimary is always false.
type EmptyMonitor struct{}

func (EmptyMonitor) ID() int                 { return 0 }
func (EmptyMonitor) Name() string            { return "" }
func (EmptyMonitor) Bounds() platform.Rect   { return platform.Rect{} }
func (EmptyMonitor) WorkArea() platform.Rect { return platform.Rect{} }
func (EmptyMonitor) IsPrimary() bool         { return false }

func (e EmptyMonitor) MarshalJSON() ([]byte, error) {
	return json.Marshal(displayJSON(e))
}

type displayDoc struct {
	ID       int           `json:"id"`
	Name     string        `json:"name"`
	Primary  bool          `json:"primary"`
	Empty    bool          `json:"empty,omitempty"`
	Bounds   platform.Rect `json:"bounds"`
	WorkArea platform.Rect `json:"work_area"`
}

func displayJSON(d Display) displayDoc {
	_, empty := d.(EmptyMonitor)
	return displayDoc{
		ID:       d.ID(),
		Name:     d.Name(),
		Primary:  d.IsPrimary(),
		Empty:    empty,
		Bounds:   d.Bounds(),
		WorkArea: d.WorkArea(),
	}
}
