package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/1broseidon/winwatch/internal/model"
	"github.com/1broseidon/winwatch/internal/platform"
)

func (c *cli) wantJSON(forced bool) bool {
	return forced || !c.isTTY()
}

func (c *cli) writeJSON(v any) int {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(c.stderr, "failed to encode JSON:", err)
		return 1
	}
	return 0
}

func (c *cli) fail(err error) int {
	fmt.Fprintln(c.stderr, err)
	return 1
}

func (c *cli) unsupported(op platform.Capability) int {
	fmt.Fprintf(c.stderr, "%s is not supported on this platform\n", op)
	return 1
}

// geometry formats r the way X11 tools do: WxH+X+Y.
func geometry(r platform.Rect) string {
	return fmt.Sprintf("%dx%d%+d%+d", r.Width, r.Height, r.X, r.Y)
}

func formatID(id platform.WindowID) string {
	return fmt.Sprintf("0x%08x", uint32(id))
}

// parseWindowID accepts decimal or 0x-prefixed hex ids.
func parseWindowID(s string) (platform.WindowID, error) {
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return platform.WindowID(n), nil
}

func (c *cli) printWindow(w model.Window) {
	fmt.Fprintf(c.stdout, "id:       %s\n", formatID(w.ID()))
	fmt.Fprintf(c.stdout, "title:    %s\n", w.Title())
	fmt.Fprintf(c.stdout, "name:     %s\n", w.Name())
	if w.PID() > 0 {
		fmt.Fprintf(c.stdout, "pid:      %d\n", w.PID())
	}
	fmt.Fprintf(c.stdout, "geometry: %s\n", geometry(w.Bounds()))
	fmt.Fprintf(c.stdout, "visible:  %v\n", w.IsVisible())
}

func (c *cli) printWindowRow(w model.Window) {
	pid := "-"
	if w.PID() > 0 {
		pid = strconv.Itoa(w.PID())
	}
	fmt.Fprintf(c.stdout, "%-10s  %-7s  %-20s  %-16s  %s\n", formatID(w.ID()), pid, geometry(w.Bounds()), w.Name(), w.Title())
}

func (c *cli) printDisplay(d model.Display) {
	fmt.Fprintf(c.stdout, "id:        %d\n", d.ID())
	fmt.Fprintf(c.stdout, "name:      %s\n", d.Name())
	fmt.Fprintf(c.stdout, "primary:   %v\n", d.IsPrimary())
	fmt.Fprintf(c.stdout, "geometry:  %s\n", geometry(d.Bounds()))
	fmt.Fprintf(c.stdout, "work_area: %s\n", geometry(d.WorkArea()))
}
