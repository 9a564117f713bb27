// Package platformtest provides an in-memory platform.Service for tests.
package platformtest

import (
	"sync"

	"github.com/1broseidon/winwatch/internal/platform"
)

// HandleCall records one chrome operation forwarded to the fake.
type HandleCall struct {
	Op platform.Capability
	ID platform.WindowID
}

// Service implements every optional platform interface. Capabilities listed
// in Disabled are withdrawn through platform.CapabilityReporter.
type Service struct {
	mu sync.Mutex

	active      platform.WindowRecord
	errs        map[platform.Capability]error
	windows     []platform.WindowRecord
	monitors    []platform.MonitorRecord
	primaryFlag bool
	capture     []byte
	nextPID     int
	granted     bool
	atPoint     func(x, y int, exclude platform.WindowID) platform.WindowRecord
	disabled    map[platform.Capability]bool

	calls   map[platform.Capability]int
	handles []HandleCall
	spawned [][2]string
}

// New returns a fake that supports everything and reports a primary flag.
func New() *Service {
	return &Service{
		primaryFlag: true,
		granted:     true,
		nextPID:     1000,
		disabled:    make(map[platform.Capability]bool),
		errs:        make(map[platform.Capability]error),
		calls:       make(map[platform.Capability]int),
	}
}

func (s *Service) Name() string { return "fake" }

// Disable withdraws capabilities from the fake.
func (s *Service) Disable(caps ...platform.Capability) *Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range caps {
		s.disabled[c] = true
	}
	return s
}

func (s *Service) SetActive(rec platform.WindowRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = rec
	delete(s.errs, platform.CapActiveWindow)
}

func (s *Service) SetActiveID(id platform.WindowID) {
	s.SetActive(platform.WindowRecord{ID: id})
}

// Fail makes the native operation c return err. A nil err clears it.
// SetActive clears a failure of getActiveWindow.
func (s *Service) Fail(c platform.Capability, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.errs, c)
		return
	}
	s.errs[c] = err
}

func (s *Service) SetWindows(recs ...platform.WindowRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows = recs
}

func (s *Service) SetMonitors(recs ...platform.MonitorRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monitors = recs
}

func (s *Service) SetPrimaryFlag(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.primaryFlag = ok
}

func (s *Service) SetCapture(payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.capture = payload
}

func (s *Service) SetAccessibility(granted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.granted = granted
}

func (s *Service) SetAtPoint(fn func(x, y int, exclude platform.WindowID) platform.WindowRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.atPoint = fn
}

// Calls returns how many times the native operation c was invoked.
func (s *Service) Calls(c platform.Capability) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[c]
}

// TotalCalls returns the number of native invocations across all operations.
func (s *Service) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.calls {
		n += v
	}
	return n
}

// Handles returns the chrome operations received so far.
func (s *Service) Handles() []HandleCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]HandleCall(nil), s.handles...)
}

// Spawned returns the (path, cmd) pairs passed to CreateProcess.
func (s *Service) Spawned() [][2]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][2]string(nil), s.spawned...)
}

func (s *Service) Supports(c platform.Capability) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.disabled[c]
}

func (s *Service) ReportsPrimaryMonitor() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.primaryFlag
}

// count records an invocation of c and returns its injected failure.
func (s *Service) count(c platform.Capability) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[c]++
	return s.errs[c]
}

func (s *Service) ActiveWindow() (platform.WindowRecord, error) {
	if err := s.count(platform.CapActiveWindow); err != nil {
		return platform.WindowRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, nil
}

func (s *Service) WindowAtPoint(x, y int, exclude platform.WindowID) (platform.WindowRecord, error) {
	if err := s.count(platform.CapWindowAtPoint); err != nil {
		return platform.WindowRecord{}, err
	}
	s.mu.Lock()
	fn := s.atPoint
	windows := append([]platform.WindowRecord(nil), s.windows...)
	s.mu.Unlock()
	if fn != nil {
		return fn(x, y, exclude), nil
	}
	for i := len(windows) - 1; i >= 0; i-- {
		w := windows[i]
		if w.ID == exclude && exclude != platform.InvalidWindowID {
			continue
		}
		if w.Bounds.Contains(x, y) {
			return w, nil
		}
	}
	return platform.WindowRecord{}, nil
}

func (s *Service) Windows() ([]platform.WindowRecord, error) {
	if err := s.count(platform.CapWindows); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]platform.WindowRecord(nil), s.windows...), nil
}

func (s *Service) Monitors() ([]platform.MonitorRecord, error) {
	if err := s.count(platform.CapMonitors); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]platform.MonitorRecord(nil), s.monitors...), nil
}

func (s *Service) CaptureWindow(id platform.WindowID) ([]byte, error) {
	if err := s.count(platform.CapCaptureWindow); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capture, nil
}

func (s *Service) CreateProcess(path, cmd string) (int, error) {
	if err := s.count(platform.CapCreateProcess); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spawned = append(s.spawned, [2]string{path, cmd})
	s.nextPID++
	return s.nextPID, nil
}

func (s *Service) Cleanup() error {
	return s.count(platform.CapCleanup)
}

func (s *Service) RequestAccessibility() bool {
	_ = s.count(platform.CapRequestAccessibility)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.granted
}

func (s *Service) handle(op platform.Capability, id platform.WindowID) error {
	if err := s.count(op); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handles = append(s.handles, HandleCall{Op: op, ID: id})
	return nil
}

func (s *Service) HideInstantly(id platform.WindowID) error {
	return s.handle(platform.CapHideInstantly, id)
}

func (s *Service) ShowInstantly(id platform.WindowID) error {
	return s.handle(platform.CapShowInstantly, id)
}

func (s *Service) ForceWindowPaint(id platform.WindowID) error {
	return s.handle(platform.CapForceWindowPaint, id)
}

func (s *Service) SetWindowAsPopup(id platform.WindowID) error {
	return s.handle(platform.CapSetPopup, id)
}

func (s *Service) SetWindowAsPopupWithRoundedCorners(id platform.WindowID) error {
	return s.handle(platform.CapSetRoundedPopup, id)
}

func (s *Service) DesktopWindowID() (platform.WindowID, error) {
	if err := s.count(platform.CapDesktopWindowID); err != nil {
		return platform.InvalidWindowID, err
	}
	return 1, nil
}
