//go:build linux

package platform

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/BurntSushi/xgb/xproto"
	"go.uber.org/zap"

	"github.com/1broseidon/winwatch/internal/x11"
)

var errServiceClosed = errors.New("x11 service is closed")

// X11Service implements the window service on top of an X11 connection.
type X11Service struct {
	conn   *x11.Connection
	log    *zap.Logger
	closed atomic.Bool
}

var (
	_ ActiveWindowSource     = (*X11Service)(nil)
	_ PointQuerier           = (*X11Service)(nil)
	_ WindowEnumerator       = (*X11Service)(nil)
	_ MonitorEnumerator      = (*X11Service)(nil)
	_ PrimaryMonitorReporter = (*X11Service)(nil)
	_ WindowCapturer         = (*X11Service)(nil)
	_ ProcessCreator         = (*X11Service)(nil)
	_ Cleaner                = (*X11Service)(nil)
	_ InstantHider           = (*X11Service)(nil)
	_ InstantShower          = (*X11Service)(nil)
	_ PaintForcer            = (*X11Service)(nil)
	_ PopupStyler            = (*X11Service)(nil)
	_ DesktopWindowSource    = (*X11Service)(nil)
	_ CapabilityReporter     = (*X11Service)(nil)
)

// NewService opens the native window service for this session.
func NewService(opts Options) (Service, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Display == "" && os.Getenv("DISPLAY") == "" {
		return nil, &UnsupportedPlatformError{OS: "linux", Reason: "no X11 display (DISPLAY is unset)"}
	}

	conn, err := x11.NewConnection(opts.Display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	log.Debug("X11 window service connected",
		zap.String("display", opts.Display),
		zap.Bool("randr", conn.HasRandR()),
	)
	return &X11Service{conn: conn, log: log}, nil
}

func (s *X11Service) Name() string { return "x11" }

// Supports withdraws monitor operations when RandR is missing.
func (s *X11Service) Supports(c Capability) bool {
	switch c {
	case CapMonitors, CapPrimaryMonitor:
		return s.conn.HasRandR()
	}
	return true
}

func (s *X11Service) ReportsPrimaryMonitor() bool { return true }

func (s *X11Service) ActiveWindow() (WindowRecord, error) {
	if s.closed.Load() {
		return WindowRecord{}, errServiceClosed
	}
	windowID, err := s.conn.GetActiveWindow()
	if err != nil {
		return WindowRecord{}, err
	}
	if windowID == 0 {
		return WindowRecord{}, nil
	}
	info, err := s.conn.DescribeWindow(windowID)
	if err != nil {
		return WindowRecord{}, err
	}
	return windowRecordFromInfo(info), nil
}

func (s *X11Service) WindowAtPoint(x, y int, exclude WindowID) (WindowRecord, error) {
	if s.closed.Load() {
		return WindowRecord{}, errServiceClosed
	}
	info, ok, err := s.conn.WindowAtPoint(x, y, xproto.Window(exclude))
	if err != nil || !ok {
		return WindowRecord{}, err
	}
	return windowRecordFromInfo(info), nil
}

// Windows lists normal client windows. A client that disappears while being
// described is reported as a sentinel record with ID 0.
func (s *X11Service) Windows() ([]WindowRecord, error) {
	if s.closed.Load() {
		return nil, errServiceClosed
	}
	clients, err := s.conn.ClientList()
	if err != nil {
		return nil, err
	}

	records := make([]WindowRecord, 0, len(clients))
	for _, windowID := range clients {
		if !s.conn.IsNormalWindow(windowID) {
			continue
		}
		info, err := s.conn.DescribeWindow(windowID)
		if err != nil {
			s.log.Debug("window vanished during enumeration",
				zap.Uint32("window_id", uint32(windowID)),
				zap.Error(err),
			)
			records = append(records, WindowRecord{})
			continue
		}
		records = append(records, windowRecordFromInfo(info))
	}
	return records, nil
}

func (s *X11Service) Monitors() ([]MonitorRecord, error) {
	if s.closed.Load() {
		return nil, errServiceClosed
	}
	monitors, err := s.conn.GetMonitors()
	if err != nil {
		return nil, err
	}
	records := make([]MonitorRecord, 0, len(monitors))
	for _, m := range monitors {
		records = append(records, monitorRecordFromX11(m))
	}
	return records, nil
}

func (s *X11Service) CaptureWindow(id WindowID) ([]byte, error) {
	if s.closed.Load() {
		return nil, errServiceClosed
	}
	return s.conn.CaptureWindow(xproto.Window(id))
}

func (s *X11Service) CreateProcess(path, cmd string) (int, error) {
	pid, err := startProcess(path, cmd)
	if err != nil {
		return 0, err
	}
	s.log.Debug("process started", zap.String("path", path), zap.Int("pid", pid))
	return pid, nil
}

func (s *X11Service) HideInstantly(id WindowID) error {
	if s.closed.Load() {
		return errServiceClosed
	}
	return s.conn.UnmapWindow(xproto.Window(id))
}

func (s *X11Service) ShowInstantly(id WindowID) error {
	if s.closed.Load() {
		return errServiceClosed
	}
	return s.conn.MapWindow(xproto.Window(id))
}

func (s *X11Service) ForceWindowPaint(id WindowID) error {
	if s.closed.Load() {
		return errServiceClosed
	}
	return s.conn.Repaint(xproto.Window(id))
}

func (s *X11Service) SetWindowAsPopup(id WindowID) error {
	if s.closed.Load() {
		return errServiceClosed
	}
	return s.conn.SetUndecorated(xproto.Window(id))
}

func (s *X11Service) DesktopWindowID() (WindowID, error) {
	if s.closed.Load() {
		return InvalidWindowID, errServiceClosed
	}
	return WindowID(s.conn.DesktopWindow()), nil
}

// Cleanup closes the X connection. Later calls are no-ops.
func (s *X11Service) Cleanup() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.conn.Close()
	s.log.Debug("X11 window service closed")
	return nil
}
