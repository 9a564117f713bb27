package model

import (
	"encoding/json"
	"testing"

	"github.com/1broseidon/winwatch/internal/platform"
)

func TestWindow_IsWindowOnlyFalseForSentinel(t *testing.T) {
	tests := []struct {
		id   platform.WindowID
		want bool
	}{
		{0, false},
		{1, true},
		{42, true},
		{0xFFFFFFFF, true},
	}
	for _, tt := range tests {
		if got := WindowFrom(platform.WindowRecord{ID: tt.id}).IsWindow(); got != tt.want {
			t.Errorf("WindowFrom(id=%d).IsWindow() = %v, want %v", tt.id, got, tt.want)
		}
	}
	if (Window{}).IsWindow() {
		t.Error("zero Window must not be a window")
	}
}

func TestWindow_AccessorsProjectRecord(t *testing.T) {
	rec := platform.WindowRecord{
		ID:      42,
		Bounds:  platform.Rect{X: 0, Y: 0, Width: 800, Height: 600},
		Title:   "Editor",
		Owner:   "app",
		PID:     77,
		Visible: true,
	}
	w := WindowFrom(rec)

	if w.Title() != "Editor" {
		t.Errorf("Title() = %q, want Editor", w.Title())
	}
	if w.Bounds() != (platform.Rect{X: 0, Y: 0, Width: 800, Height: 600}) {
		t.Errorf("Bounds() = %+v", w.Bounds())
	}
	if w.Name() != "app" || w.PID() != 77 || !w.IsVisible() || w.ID() != 42 {
		t.Errorf("unexpected accessors: name=%q pid=%d visible=%v id=%d", w.Name(), w.PID(), w.IsVisible(), w.ID())
	}
}

func TestWindow_SnapshotIsIndependentOfSource(t *testing.T) {
	rec := platform.WindowRecord{ID: 5, Title: "before"}
	w := WindowFrom(rec)
	rec.Title = "after"

	if w.Title() != "before" {
		t.Fatalf("Title() = %q, window must not observe later changes", w.Title())
	}
	got := w.Record()
	got.Title = "mutated"
	if w.Title() != "before" {
		t.Fatalf("Record() must return a copy")
	}
}

func TestWindow_MarshalJSON(t *testing.T) {
	w := WindowFrom(platform.WindowRecord{ID: 9, Title: "t", Owner: "o", Bounds: platform.Rect{Width: 10, Height: 20}})
	data, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":9,"title":"t","name":"o","visible":false,"bounds":{"x":0,"y":0,"width":10,"height":20}}`
	if string(data) != want {
		t.Fatalf("json = %s\nwant %s", data, want)
	}
}

func TestMonitor_PrimaryIsStored(t *testing.T) {
	m := MonitorFrom(platform.MonitorRecord{ID: 2, Name: "DP-1", Primary: true,
		Bounds: platform.Rect{X: 1920, Width: 2560, Height: 1440}})

	if !m.IsPrimary() || m.ID() != 2 || m.Name() != "DP-1" {
		t.Fatalf("unexpected monitor %+v", m)
	}
	if m.Bounds().X != 1920 {
		t.Fatalf("Bounds() = %+v", m.Bounds())
	}
}

func TestEmptyMonitor_IsNeutral(t *testing.T) {
	var d Display = EmptyMonitor{}
	if d.IsPrimary() {
		t.Fatal("EmptyMonitor must never be primary")
	}
	if d.Bounds() != (platform.Rect{}) || d.WorkArea() != (platform.Rect{}) || d.ID() != 0 || d.Name() != "" {
		t.Fatal("EmptyMonitor must carry zero values")
	}
	if _, ok := d.(Monitor); ok {
		t.Fatal("EmptyMonitor must not be a Monitor")
	}

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc["empty"] != true || doc["primary"] != false {
		t.Fatalf("json = %s", data)
	}
}
