// Package winmgr is the window manager facade. Every native call goes
// through the capability gate, so a missing service or operation yields a
// neutral value rather than an error.
package winmgr

import (
	"strings"

	"go.uber.org/zap"

	"github.com/1broseidon/winwatch/internal/gate"
	"github.com/1broseidon/winwatch/internal/model"
	"github.com/1broseidon/winwatch/internal/platform"
	"github.com/1broseidon/winwatch/internal/tracker"
)

// Manager holds the gate, the subscription state and the active window
// tracker. Create one per process with New and release it with Cleanup.
type Manager struct {
	gate    *gate.Gate
	tracker *tracker.Tracker
	log     *zap.Logger
	goos    string
}

// New creates a manager over svc. svc may be nil, in which case every
// operation degrades to its neutral value.
func New(svc platform.Service, opts ...Option) *Manager {
	o := applyOptions(opts)
	g := gate.New(svc, o.logger.Named("gate"))

	return &Manager{
		gate: g,
		tracker: tracker.New(g, tracker.Config{
			Interval:  o.pollInterval,
			Scheduler: o.scheduler,
			Logger:    o.logger.Named("tracker"),
		}),
		log:  o.logger,
		goos: o.platformOS,
	}
}

// Platform returns the operating system the manager runs on.
func (m *Manager) Platform() string { return m.goos }

// ServiceName returns the native service name, or "" when none is loaded.
func (m *Manager) ServiceName() string { return m.gate.ServiceName() }

// Capabilities derives the capability set of the native service.
func (m *Manager) Capabilities() platform.CapabilitySet {
	return m.gate.Capabilities()
}

// RequestAccessibility asks for the permission needed to query windows. It
// returns true when granted or when the check is not supported.
func (m *Manager) RequestAccessibility() bool {
	return m.gate.RequestAccessibility().Value
}

// ActiveWindow returns the focused window, or nil when unsupported.
func (m *Manager) ActiveWindow() (*model.Window, error) {
	res, err := m.gate.ActiveWindow()
	if err != nil {
		return nil, err
	}
	return wrapWindow(res)
}

// WindowAtPoint hit-tests the point (x, y). A non-zero exclude id is
// skipped, which finds the window behind a known overlay.
func (m *Manager) WindowAtPoint(x, y int, exclude ...platform.WindowID) (*model.Window, error) {
	var skip platform.WindowID
	if len(exclude) > 0 {
		skip = exclude[0]
	}
	res, err := m.gate.WindowAtPoint(x, y, skip)
	if err != nil {
		return nil, err
	}
	return wrapWindow(res)
}

func wrapWindow(res gate.Result[platform.WindowRecord]) (*model.Window, error) {
	rec, ok := res.Get()
	if !ok {
		return nil, nil
	}
	w := model.WindowFrom(rec)
	return &w, nil
}

// Windows enumerates windows, dropping native sentinel records.
func (m *Manager) Windows() ([]model.Window, error) {
	res, err := m.gate.Windows()
	if err != nil {
		return nil, err
	}
	out := make([]model.Window, 0, len(res.Value))
	for _, rec := range res.Value {
		w := model.WindowFrom(rec)
		if !w.IsWindow() {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

// Monitors enumerates monitors.
func (m *Manager) Monitors() ([]model.Monitor, error) {
	res, err := m.gate.Monitors()
	if err != nil {
		return nil, err
	}
	out := make([]model.Monitor, 0, len(res.Value))
	for _, rec := range res.Value {
		out = append(out, model.MonitorFrom(rec))
	}
	return out, nil
}

// PrimaryMonitor returns the monitor flagged primary. Services without a
// primary flag are never enumerated and yield model.EmptyMonitor, as does
// an enumeration in which no monitor is flagged.
func (m *Manager) PrimaryMonitor() (model.Display, error) {
	if !m.gate.PrimaryMonitorSupported() {
		return model.EmptyMonitor{}, nil
	}
	monitors, err := m.Monitors()
	if err != nil {
		return model.EmptyMonitor{}, err
	}
	for _, mon := range monitors {
		if mon.IsPrimary() {
			return mon, nil
		}
	}
	return model.EmptyMonitor{}, nil
}

// CreateProcess starts path with an optional argument string and returns
// its pid, or 0 when unsupported.
func (m *Manager) CreateProcess(path string, cmd ...string) (int, error) {
	res, err := m.gate.CreateProcess(path, strings.Join(cmd, " "))
	if err != nil {
		return 0, err
	}
	return res.Value, nil
}

// CaptureWindow returns the opaque encoded image of a window, or nil when
// unsupported.
func (m *Manager) CaptureWindow(id platform.WindowID) ([]byte, error) {
	res, err := m.gate.CaptureWindow(id)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// HideInstantly unmaps the window named by the encoded handle. The bool
// reports whether the operation was dispatched.
func (m *Manager) HideInstantly(handle []byte) (bool, error) {
	return m.gate.HideInstantly(DecodeHandle(handle))
}

// ShowInstantly maps the window named by the encoded handle.
func (m *Manager) ShowInstantly(handle []byte) (bool, error) {
	return m.gate.ShowInstantly(DecodeHandle(handle))
}

// ForceWindowPaint requests a repaint of the window named by the handle.
func (m *Manager) ForceWindowPaint(handle []byte) (bool, error) {
	return m.gate.ForceWindowPaint(DecodeHandle(handle))
}

// SetWindowAsPopup strips decorations from the window named by the handle.
func (m *Manager) SetWindowAsPopup(handle []byte) (bool, error) {
	return m.gate.SetWindowAsPopup(DecodeHandle(handle))
}

func (m *Manager) SetWindowAsPopupWithRoundedCorners(handle []byte) (bool, error) {
	return m.gate.SetWindowAsPopupWithRoundedCorners(DecodeHandle(handle))
}

// DesktopWindowID returns the native desktop window id. The bool is false
// when the service cannot report one.
func (m *Manager) DesktopWindowID() (platform.WindowID, bool, error) {
	res, err := m.gate.DesktopWindowID()
	if err != nil {
		return platform.InvalidWindowID, false, err
	}
	id, ok := res.Get()
	return id, ok, nil
}

// Cleanup stops polling and releases native resources. It is safe to call
// any number of times.
func (m *Manager) Cleanup() error {
	m.tracker.Close()
	_, err := m.gate.Cleanup()
	return err
}
