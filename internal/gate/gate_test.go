package gate

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/1broseidon/winwatch/internal/platform"
	"github.com/1broseidon/winwatch/internal/platform/platformtest"
)

func TestGate_NilServiceReturnsNeutralValues(t *testing.T) {
	g := New(nil, nil)

	if g.Available() {
		t.Fatal("Available() = true for nil service")
	}
	if g.ServiceName() != "" {
		t.Fatalf("ServiceName() = %q, want empty", g.ServiceName())
	}

	active, err := g.ActiveWindow()
	if err != nil || active.Supported || active.Value != (platform.WindowRecord{}) {
		t.Fatalf("ActiveWindow() = %+v, %v", active, err)
	}

	at, err := g.WindowAtPoint(1, 2, 3)
	if err != nil || at.Supported {
		t.Fatalf("WindowAtPoint() = %+v, %v", at, err)
	}

	windows, err := g.Windows()
	if err != nil || windows.Supported || windows.Value == nil || len(windows.Value) != 0 {
		t.Fatalf("Windows() = %#v, %v; want empty non-nil slice", windows, err)
	}

	monitors, err := g.Monitors()
	if err != nil || monitors.Supported || monitors.Value == nil || len(monitors.Value) != 0 {
		t.Fatalf("Monitors() = %#v, %v; want empty non-nil slice", monitors, err)
	}

	capture, err := g.CaptureWindow(7)
	if err != nil || capture.Supported || capture.Value != nil {
		t.Fatalf("CaptureWindow() = %+v, %v", capture, err)
	}

	pid, err := g.CreateProcess("/bin/true", "")
	if err != nil || pid.Supported || pid.Value != 0 {
		t.Fatalf("CreateProcess() = %+v, %v", pid, err)
	}

	if granted, ok := g.RequestAccessibility().Get(); !granted || ok {
		t.Fatalf("RequestAccessibility() = (%v, %v), want (true, false)", granted, ok)
	}

	if g.PrimaryMonitorSupported() {
		t.Fatal("PrimaryMonitorSupported() = true for nil service")
	}

	chrome := []func(platform.WindowID) (bool, error){
		g.HideInstantly,
		g.ShowInstantly,
		g.ForceWindowPaint,
		g.SetWindowAsPopup,
		g.SetWindowAsPopupWithRoundedCorners,
	}
	for i, op := range chrome {
		if ran, err := op(123); ran || err != nil {
			t.Fatalf("chrome op %d = (%v, %v), want (false, nil)", i, ran, err)
		}
	}

	if ran, err := g.Cleanup(); ran || err != nil {
		t.Fatalf("Cleanup() = (%v, %v), want (false, nil)", ran, err)
	}

	desktop, err := g.DesktopWindowID()
	if err != nil || desktop.Supported || desktop.Value != platform.InvalidWindowID {
		t.Fatalf("DesktopWindowID() = %+v, %v", desktop, err)
	}

	if len(g.Capabilities()) != 0 {
		t.Fatalf("Capabilities() = %v, want empty", g.Capabilities().List())
	}
}

func TestGate_MissingOperationSkipsNativeCall(t *testing.T) {
	fake := platformtest.New().Disable(platform.CapWindows, platform.CapHideInstantly)
	g := New(fake, nil)

	res, err := g.Windows()
	if err != nil || res.Supported {
		t.Fatalf("Windows() = %+v, %v", res, err)
	}
	if ran, _ := g.HideInstantly(5); ran {
		t.Fatal("HideInstantly ran although disabled")
	}
	if fake.Calls(platform.CapWindows) != 0 || fake.Calls(platform.CapHideInstantly) != 0 {
		t.Fatalf("native calls happened: windows=%d hide=%d",
			fake.Calls(platform.CapWindows), fake.Calls(platform.CapHideInstantly))
	}
}

func TestGate_ForwardsVerbatim(t *testing.T) {
	fake := platformtest.New()
	rec := platform.WindowRecord{ID: 42, Title: "Editor", Owner: "app", Visible: true,
		Bounds: platform.Rect{Width: 800, Height: 600}}
	fake.SetActive(rec)
	fake.SetCapture([]byte("aGVsbG8="))
	g := New(fake, nil)

	active, err := g.ActiveWindow()
	if err != nil {
		t.Fatalf("ActiveWindow: %v", err)
	}
	if !active.Supported || active.Value != rec {
		t.Fatalf("ActiveWindow() = %+v, want %+v", active, rec)
	}

	capture, err := g.CaptureWindow(42)
	if err != nil || string(capture.Value) != "aGVsbG8=" {
		t.Fatalf("CaptureWindow() = %q, %v", capture.Value, err)
	}

	pid, err := g.CreateProcess("/usr/bin/app", "--flag")
	if err != nil || !pid.Supported || pid.Value == 0 {
		t.Fatalf("CreateProcess() = %+v, %v", pid, err)
	}
	if got := fake.Spawned(); len(got) != 1 || got[0] != [2]string{"/usr/bin/app", "--flag"} {
		t.Fatalf("Spawned() = %v", got)
	}

	if ran, err := g.SetWindowAsPopupWithRoundedCorners(9); !ran || err != nil {
		t.Fatalf("SetWindowAsPopupWithRoundedCorners() = (%v, %v)", ran, err)
	}
	handles := fake.Handles()
	if len(handles) != 1 || handles[0].Op != platform.CapSetRoundedPopup || handles[0].ID != 9 {
		t.Fatalf("Handles() = %+v", handles)
	}
}

func TestGate_AccessibilityDeniedIsFalse(t *testing.T) {
	fake := platformtest.New()
	fake.SetAccessibility(false)
	g := New(fake, nil)

	granted, ok := g.RequestAccessibility().Get()
	if granted || !ok {
		t.Fatalf("RequestAccessibility() = (%v, %v), want (false, true)", granted, ok)
	}
}

func TestGate_NativeErrorIsWrappedWithOperation(t *testing.T) {
	boom := errors.New("boom")
	fake := platformtest.New()
	fake.Fail(platform.CapMonitors, boom)
	g := New(fake, nil)

	res, err := g.Monitors()
	if !errors.Is(err, boom) {
		t.Fatalf("Monitors() err = %v, want wrapping boom", err)
	}
	if err.Error() != "getMonitors: boom" {
		t.Fatalf("Monitors() err = %q", err.Error())
	}
	if !res.Supported {
		t.Fatal("a failing supported call must still report Supported")
	}
}

func TestGate_LogsUnsupportedAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	g := New(nil, zap.New(core))

	if _, err := g.ActiveWindow(); err != nil {
		t.Fatalf("ActiveWindow: %v", err)
	}

	entries := logs.FilterMessage("native operation unsupported").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 unsupported log entry, got %d", len(entries))
	}
	if op := entries[0].ContextMap()["op"]; op != string(platform.CapActiveWindow) {
		t.Fatalf("logged op = %v", op)
	}
}

func TestResultGet(t *testing.T) {
	v, ok := Supported(3).Get()
	if v != 3 || !ok {
		t.Fatalf("Supported(3).Get() = (%v, %v)", v, ok)
	}
	v, ok = Unsupported(0).Get()
	if v != 0 || ok {
		t.Fatalf("Unsupported(0).Get() = (%v, %v)", v, ok)
	}
}
