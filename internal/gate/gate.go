// Package gate wraps every call into the native window service. A call whose
// service or operation is missing returns a neutral value instead of failing.
package gate

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/1broseidon/winwatch/internal/platform"
)

// Result carries a native result or the neutral value of an unsupported call.
type Result[T any] struct {
	Value     T
	Supported bool
}

// Unsupported wraps the neutral value returned when an operation is missing.
func Unsupported[T any](neutral T) Result[T] {
	return Result[T]{Value: neutral}
}

// Supported wraps a value produced by the native service.
func Supported[T any](v T) Result[T] {
	return Result[T]{Value: v, Supported: true}
}

// Get returns the value and whether the native service produced it.
func (r Result[T]) Get() (T, bool) {
	return r.Value, r.Supported
}

// Gate dispatches to an optional platform.Service. A nil service makes
// every call a no-op.
type Gate struct {
	svc platform.Service
	log *zap.Logger
}

// New creates a gate over svc, which may be nil.
func New(svc platform.Service, log *zap.Logger) *Gate {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gate{svc: svc, log: log}
}

// Available reports whether a native service is present at all.
func (g *Gate) Available() bool {
	return g.svc != nil
}

// ServiceName returns the native service name, or "" without one.
func (g *Gate) ServiceName() string {
	if g.svc == nil {
		return ""
	}
	return g.svc.Name()
}

// Supports reports whether op can be dispatched right now.
func (g *Gate) Supports(op platform.Capability) bool {
	return platform.Supports(g.svc, op)
}

// Capabilities derives the full capability set. It is recomputed per call.
func (g *Gate) Capabilities() platform.CapabilitySet {
	return platform.Capabilities(g.svc)
}

// invoke checks presence of the service and of op, then forwards to call.
// S is the optional interface that declares op.
func invoke[S any, T any](g *Gate, op platform.Capability, neutral T, call func(S) (T, error)) (Result[T], error) {
	if !g.Supports(op) {
		g.log.Debug("native operation unsupported",
			zap.String("op", string(op)),
			zap.Bool("service_present", g.svc != nil),
		)
		return Unsupported(neutral), nil
	}
	impl, ok := g.svc.(S)
	if !ok {
		return Unsupported(neutral), nil
	}
	v, err := call(impl)
	if err != nil {
		return Supported(v), fmt.Errorf("%s: %w", op, err)
	}
	return Supported(v), nil
}

// dispatch is invoke for operations without a result value.
func dispatch[S any](g *Gate, op platform.Capability, call func(S) error) (bool, error) {
	res, err := invoke(g, op, struct{}{}, func(s S) (struct{}, error) {
		return struct{}{}, call(s)
	})
	return res.Supported, err
}

func (g *Gate) ActiveWindow() (Result[platform.WindowRecord], error) {
	return invoke(g, platform.CapActiveWindow, platform.WindowRecord{},
		func(s platform.ActiveWindowSource) (platform.WindowRecord, error) {
			return s.ActiveWindow()
		})
}

func (g *Gate) WindowAtPoint(x, y int, exclude platform.WindowID) (Result[platform.WindowRecord], error) {
	return invoke(g, platform.CapWindowAtPoint, platform.WindowRecord{},
		func(s platform.PointQuerier) (platform.WindowRecord, error) {
			return s.WindowAtPoint(x, y, exclude)
		})
}

// Windows returns an empty, non-nil slice when unsupported.
func (g *Gate) Windows() (Result[[]platform.WindowRecord], error) {
	return invoke(g, platform.CapWindows, []platform.WindowRecord{},
		func(s platform.WindowEnumerator) ([]platform.WindowRecord, error) {
			return s.Windows()
		})
}

// Monitors returns an empty, non-nil slice when unsupported.
func (g *Gate) Monitors() (Result[[]platform.MonitorRecord], error) {
	return invoke(g, platform.CapMonitors, []platform.MonitorRecord{},
		func(s platform.MonitorEnumerator) ([]platform.MonitorRecord, error) {
			return s.Monitors()
		})
}

// PrimaryMonitorSupported reports whether monitor records carry a meaningful
// primary flag on this service.
func (g *Gate) PrimaryMonitorSupported() bool {
	return g.Supports(platform.CapPrimaryMonitor)
}

func (g *Gate) CaptureWindow(id platform.WindowID) (Result[[]byte], error) {
	return invoke(g, platform.CapCaptureWindow, []byte(nil),
		func(s platform.WindowCapturer) ([]byte, error) {
			return s.CaptureWindow(id)
		})
}

func (g *Gate) CreateProcess(path, cmd string) (Result[int], error) {
	return invoke(g, platform.CapCreateProcess, 0,
		func(s platform.ProcessCreator) (int, error) {
			return s.CreateProcess(path, cmd)
		})
}

// RequestAccessibility returns true when the check itself is unavailable:
// permission is then treated as effectively granted.
func (g *Gate) RequestAccessibility() Result[bool] {
	res, _ := invoke(g, platform.CapRequestAccessibility, true,
		func(s platform.AccessibilityRequester) (bool, error) {
			return s.RequestAccessibility(), nil
		})
	return res
}

func (g *Gate) Cleanup() (bool, error) {
	return dispatch(g, platform.CapCleanup, func(s platform.Cleaner) error {
		return s.Cleanup()
	})
}

func (g *Gate) HideInstantly(id platform.WindowID) (bool, error) {
	return dispatch(g, platform.CapHideInstantly, func(s platform.InstantHider) error {
		return s.HideInstantly(id)
	})
}

func (g *Gate) ShowInstantly(id platform.WindowID) (bool, error) {
	return dispatch(g, platform.CapShowInstantly, func(s platform.InstantShower) error {
		return s.ShowInstantly(id)
	})
}

func (g *Gate) ForceWindowPaint(id platform.WindowID) (bool, error) {
	return dispatch(g, platform.CapForceWindowPaint, func(s platform.PaintForcer) error {
		return s.ForceWindowPaint(id)
	})
}

func (g *Gate) SetWindowAsPopup(id platform.WindowID) (bool, error) {
	return dispatch(g, platform.CapSetPopup, func(s platform.PopupStyler) error {
		return s.SetWindowAsPopup(id)
	})
}

func (g *Gate) SetWindowAsPopupWithRoundedCorners(id platform.WindowID) (bool, error) {
	return dispatch(g, platform.CapSetRoundedPopup, func(s platform.RoundedPopupStyler) error {
		return s.SetWindowAsPopupWithRoundedCorners(id)
	})
}

func (g *Gate) DesktopWindowID() (Result[platform.WindowID], error) {
	return invoke(g, platform.CapDesktopWindowID, platform.InvalidWindowID,
		func(s platform.DesktopWindowSource) (platform.WindowID, error) {
			return s.DesktopWindowID()
		})
}
