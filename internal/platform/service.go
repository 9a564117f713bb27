package platform

import (
	"sort"

	"go.uber.org/zap"
)

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// InvalidWindowID is what a native query reports when there is no window.
const InvalidWindowID WindowID = 0

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// WindowRecord is the raw description of one window as returned by a Service.
type WindowRecord struct {
	ID      WindowID
	Bounds  Rect
	Title   string
	Owner   string
	PID     int
	Visible bool
}

// MonitorRecord is the raw description of one display as returned by a Service.
type MonitorRecord struct {
	ID       int
	Name     string
	Bounds   Rect
	WorkArea Rect
	Primary  bool
}

// Service is the native window service. Every operation is optional: a
// Service declares an operation by implementing the matching interface below.
type Service interface {
	Name() string
}

type ActiveWindowSource interface {
	ActiveWindow() (WindowRecord, error)
}

// PointQuerier hit-tests the window stack. An exclude of InvalidWindowID
// excludes nothing.
type PointQuerier interface {
	WindowAtPoint(x, y int, exclude WindowID) (WindowRecord, error)
}

type WindowEnumerator interface {
	Windows() ([]WindowRecord, error)
}

type MonitorEnumerator interface {
	Monitors() ([]MonitorRecord, error)
}

// PrimaryMonitorReporter is implemented by services whose monitor records
// carry a meaningful primary flag.
type PrimaryMonitorReporter interface {
	ReportsPrimaryMonitor() bool
}

// WindowCapturer returns an encoded image of a window. The payload is opaque
// to callers.
type WindowCapturer interface {
	CaptureWindow(id WindowID) ([]byte, error)
}

type ProcessCreator interface {
	CreateProcess(path, cmd string) (int, error)
}

type Cleaner interface {
	Cleanup() error
}

type AccessibilityRequester interface {
	RequestAccessibility() bool
}

type InstantHider interface {
	HideInstantly(id WindowID) error
}

type InstantShower interface {
	ShowInstantly(id WindowID) error
}

type PaintForcer interface {
	ForceWindowPaint(id WindowID) error
}

type PopupStyler interface {
	SetWindowAsPopup(id WindowID) error
}

type RoundedPopupStyler interface {
	SetWindowAsPopupWithRoundedCorners(id WindowID) error
}

type DesktopWindowSource interface {
	DesktopWindowID() (WindowID, error)
}

// CapabilityReporter lets a service withdraw operations it implements but
// cannot serve in the current session (for example a missing X extension).
type CapabilityReporter interface {
	Supports(c Capability) bool
}

// Capability names one optional Service operation.
type Capability string

const (
	CapActiveWindow         Capability = "getActiveWindow"
	CapWindowAtPoint        Capability = "getWindowAtPoint"
	CapWindows              Capability = "getWindows"
	CapMonitors             Capability = "getMonitors"
	CapPrimaryMonitor       Capability = "primaryMonitor"
	CapCaptureWindow        Capability = "captureWindow"
	CapCreateProcess        Capability = "createProcess"
	CapCleanup              Capability = "cleanup"
	CapRequestAccessibility Capability = "requestAccessibility"
	CapHideInstantly        Capability = "hideInstantly"
	CapShowInstantly        Capability = "showInstantly"
	CapForceWindowPaint     Capability = "forceWindowPaint"
	CapSetPopup             Capability = "setWindowAsPopup"
	CapSetRoundedPopup      Capability = "setWindowAsPopupWithRoundedCorners"
	CapDesktopWindowID      Capability = "getDesktopWindowID"
)

// AllCapabilities lists every capability in declaration order.
var AllCapabilities = []Capability{
	CapActiveWindow,
	CapWindowAtPoint,
	CapWindows,
	CapMonitors,
	CapPrimaryMonitor,
	CapCaptureWindow,
	CapCreateProcess,
	CapCleanup,
	CapRequestAccessibility,
	CapHideInstantly,
	CapShowInstantly,
	CapForceWindowPaint,
	CapSetPopup,
	CapSetRoundedPopup,
	CapDesktopWindowID,
}

// Implements reports whether svc has the Go method set for c, ignoring any
// CapabilityReporter.
func Implements(svc Service, c Capability) bool {
	if svc == nil {
		return false
	}
	switch c {
	case CapActiveWindow:
		_, ok := svc.(ActiveWindowSource)
		return ok
	case CapWindowAtPoint:
		_, ok := svc.(PointQuerier)
		return ok
	case CapWindows:
		_, ok := svc.(WindowEnumerator)
		return ok
	case CapMonitors:
		_, ok := svc.(MonitorEnumerator)
		return ok
	case CapPrimaryMonitor:
		_, enum := svc.(MonitorEnumerator)
		r, ok := svc.(PrimaryMonitorReporter)
		return enum && ok && r.ReportsPrimaryMonitor()
	case CapCaptureWindow:
		_, ok := svc.(WindowCapturer)
		return ok
	case CapCreateProcess:
		_, ok := svc.(ProcessCreator)
		return ok
	case CapCleanup:
		_, ok := svc.(Cleaner)
		return ok
	case CapRequestAccessibility:
		_, ok := svc.(AccessibilityRequester)
		return ok
	case CapHideInstantly:
		_, ok := svc.(InstantHider)
		return ok
	case CapShowInstantly:
		_, ok := svc.(InstantShower)
		return ok
	case CapForceWindowPaint:
		_, ok := svc.(PaintForcer)
		return ok
	case CapSetPopup:
		_, ok := svc.(PopupStyler)
		return ok
	case CapSetRoundedPopup:
		_, ok := svc.(RoundedPopupStyler)
		return ok
	case CapDesktopWindowID:
		_, ok := svc.(DesktopWindowSource)
		return ok
	}
	return false
}

// Supports reports whether c is usable on svc right now.
func Supports(svc Service, c Capability) bool {
	if !Implements(svc, c) {
		return false
	}
	if r, ok := svc.(CapabilityReporter); ok {
		return r.Supports(c)
	}
	return true
}

// CapabilitySet is the set of capabilities a service exposes.
type CapabilitySet map[Capability]bool

// Capabilities derives the capability set of svc. It is not cached.
func Capabilities(svc Service) CapabilitySet {
	set := make(CapabilitySet, len(AllCapabilities))
	for _, c := range AllCapabilities {
		if Supports(svc, c) {
			set[c] = true
		}
	}
	return set
}

func (s CapabilitySet) Has(c Capability) bool {
	return s[c]
}

// List returns the supported capabilities sorted by name.
func (s CapabilitySet) List() []Capability {
	out := make([]Capability, 0, len(s))
	for c, ok := range s {
		if ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Options configures NewService.
type Options struct {
	// Display overrides $DISPLAY for the X11 service.
	Display string
	Logger  *zap.Logger
}
