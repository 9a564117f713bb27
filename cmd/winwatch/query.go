package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/1broseidon/winwatch/internal/config"
	"github.com/1broseidon/winwatch/internal/model"
	"github.com/1broseidon/winwatch/internal/platform"
	"github.com/1broseidon/winwatch/internal/runtimepath"
)

func (c *cli) runActive(args []string) int {
	var common commonFlags
	fs := c.newFlagSet("active", "active [--json]", "Show the focused window.", &common)
	if code := parse(fs, args); code >= 0 {
		return code
	}

	s, err := c.open(common)
	if err != nil {
		return c.fail(err)
	}
	defer s.Close()

	w, err := s.mgr.ActiveWindow()
	if err != nil {
		return c.fail(err)
	}
	if w == nil {
		return c.unsupported(platform.CapActiveWindow)
	}
	if c.wantJSON(common.json) {
		return c.writeJSON(w)
	}
	c.printWindow(*w)
	return 0
}

func (c *cli) runWindows(args []string) int {
	var common commonFlags
	fs := c.newFlagSet("windows", "windows [--all] [--json]", "List windows, topmost first.", &common)
	all := fs.Bool("all", false, "Include hidden windows")
	if code := parse(fs, args); code >= 0 {
		return code
	}

	s, err := c.open(common)
	if err != nil {
		return c.fail(err)
	}
	defer s.Close()

	if !s.mgr.Capabilities().Has(platform.CapWindows) {
		return c.unsupported(platform.CapWindows)
	}
	windows, err := s.mgr.Windows()
	if err != nil {
		return c.fail(err)
	}

	out := make([]model.Window, 0, len(windows))
	for _, w := range windows {
		if *all || w.IsVisible() {
			out = append(out, w)
		}
	}

	if c.wantJSON(common.json) {
		return c.writeJSON(out)
	}
	if len(out) == 0 {
		fmt.Fprintln(c.stdout, dimStyle.Render("no windows"))
		return 0
	}
	fmt.Fprintln(c.stdout, headerStyle.Render(fmt.Sprintf("%-10s  %-7s  %-20s  %-16s  %s", "ID", "PID", "GEOMETRY", "NAME", "TITLE")))
	for _, w := range out {
		c.printWindowRow(w)
	}
	return 0
}

func (c *cli) runMonitors(args []string) int {
	var common commonFlags
	fs := c.newFlagSet("monitors", "monitors [--json]", "List monitors.", &common)
	if code := parse(fs, args); code >= 0 {
		return code
	}

	s, err := c.open(common)
	if err != nil {
		return c.fail(err)
	}
	defer s.Close()

	if !s.mgr.Capabilities().Has(platform.CapMonitors) {
		return c.unsupported(platform.CapMonitors)
	}
	monitors, err := s.mgr.Monitors()
	if err != nil {
		return c.fail(err)
	}

	if c.wantJSON(common.json) {
		return c.writeJSON(monitors)
	}
	fmt.Fprintln(c.stdout, headerStyle.Render(fmt.Sprintf("%-3s  %-12s  %-7s  %-20s  %s", "ID", "NAME", "PRIMARY", "GEOMETRY", "WORK AREA")))
	for _, m := range monitors {
		primary := ""
		if m.IsPrimary() {
			primary = "*"
		}
		fmt.Fprintf(c.stdout, "%-3d  %-12s  %-7s  %-20s  %s\n", m.ID(), m.Name(), primary, geometry(m.Bounds()), geometry(m.WorkArea()))
	}
	return 0
}

func (c *cli) runPrimary(args []string) int {
	var common commonFlags
	fs := c.newFlagSet("primary", "primary [--json]", "Show the primary monitor.", &common)
	if code := parse(fs, args); code >= 0 {
		return code
	}

	s, err := c.open(common)
	if err != nil {
		return c.fail(err)
	}
	defer s.Close()

	d, err := s.mgr.PrimaryMonitor()
	if err != nil {
		return c.fail(err)
	}
	if c.wantJSON(common.json) {
		return c.writeJSON(d)
	}
	if _, empty := d.(model.EmptyMonitor); empty {
		fmt.Fprintln(c.stdout, dimStyle.Render("primary monitor: none reported"))
		return 0
	}
	c.printDisplay(d)
	return 0
}

func (c *cli) runAt(args []string) int {
	var common commonFlags
	fs := c.newFlagSet("at", "at [--exclude ID] X Y", "Show the topmost visible window containing a screen point.", &common)
	exclude := fs.String("exclude", "", "Window id to skip")
	if code := parse(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(c.stderr, "at requires X and Y")
		return 2
	}
	x, errX := strconv.Atoi(fs.Arg(0))
	y, errY := strconv.Atoi(fs.Arg(1))
	if errX != nil || errY != nil {
		fmt.Fprintf(c.stderr, "invalid point %q %q\n", fs.Arg(0), fs.Arg(1))
		return 2
	}
	var skip []platform.WindowID
	if *exclude != "" {
		id, err := parseWindowID(*exclude)
		if err != nil {
			fmt.Fprintln(c.stderr, err)
			return 2
		}
		skip = append(skip, id)
	}

	s, err := c.open(common)
	if err != nil {
		return c.fail(err)
	}
	defer s.Close()

	w, err := s.mgr.WindowAtPoint(x, y, skip...)
	if err != nil {
		return c.fail(err)
	}
	if w == nil {
		return c.unsupported(platform.CapWindowAtPoint)
	}
	if c.wantJSON(common.json) {
		return c.writeJSON(w)
	}
	if !w.IsWindow() {
		fmt.Fprintln(c.stdout, dimStyle.Render(fmt.Sprintf("no window at %d,%d", x, y)))
		return 0
	}
	c.printWindow(*w)
	return 0
}

func (c *cli) runCapabilities(args []string) int {
	var common commonFlags
	fs := c.newFlagSet("capabilities", "capabilities [--json]", "List which native operations the platform service provides.", &common)
	if code := parse(fs, args); code >= 0 {
		return code
	}

	s, err := c.open(common)
	if err != nil {
		return c.fail(err)
	}
	defer s.Close()

	caps := s.mgr.Capabilities()
	if c.wantJSON(common.json) {
		return c.writeJSON(struct {
			Service      string                `json:"service"`
			Platform     string                `json:"platform"`
			Capabilities []platform.Capability `json:"capabilities"`
		}{
			Service:      s.mgr.ServiceName(),
			Platform:     s.mgr.Platform(),
			Capabilities: caps.List(),
		})
	}

	service := s.mgr.ServiceName()
	if service == "" {
		service = "none"
	}
	fmt.Fprintf(c.stdout, "service:  %s\n", service)
	fmt.Fprintf(c.stdout, "platform: %s\n", s.mgr.Platform())
	fmt.Fprintln(c.stdout, "")
	for _, capability := range platform.AllCapabilities {
		mark := noStyle.Render("no")
		if caps.Has(capability) {
			mark = yesStyle.Render("yes")
		}
		fmt.Fprintf(c.stdout, "  %-36s %s\n", capability, mark)
	}
	return 0
}

func (c *cli) runCapture(args []string) int {
	var common commonFlags
	fs := c.newFlagSet("capture", "capture [-o FILE] ID", "Capture a window image.", &common)
	output := fs.String("o", "", "Write the image to FILE")
	if code := parse(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(c.stderr, "capture requires a window id")
		return 2
	}
	id, err := parseWindowID(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return 2
	}

	s, err := c.open(common)
	if err != nil {
		return c.fail(err)
	}
	defer s.Close()

	if !s.mgr.Capabilities().Has(platform.CapCaptureWindow) {
		return c.unsupported(platform.CapCaptureWindow)
	}
	payload, err := s.mgr.CaptureWindow(id)
	if err != nil {
		return c.fail(err)
	}

	data := payload
	ext := "b64"
	if s.cfg.Capture.Format == config.CapturePNG {
		decoded, err := base64.StdEncoding.DecodeString(string(payload))
		if err != nil {
			return c.fail(fmt.Errorf("capture payload is not base64: %w", err))
		}
		data = decoded
		ext = "png"
	}

	// Base64 is text, so it can go straight to a pipe.
	path := *output
	if path == "" && ext == "b64" && !c.isTTY() {
		if _, err := c.stdout.Write(data); err != nil {
			return c.fail(err)
		}
		return 0
	}
	if path == "" {
		path, err = runtimepath.CapturePath(uint32(id), ext)
		if err != nil {
			return c.fail(err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return c.fail(err)
	}
	if c.wantJSON(common.json) {
		return c.writeJSON(map[string]any{"path": path, "size": len(data)})
	}
	fmt.Fprintf(c.stdout, "captured %s to %s (%d bytes)\n", formatID(id), path, len(data))
	return 0
}

func (c *cli) runSpawn(args []string) int {
	var common commonFlags
	fs := c.newFlagSet("spawn", "spawn PATH [ARGS...]", "Start a process through the platform service.", &common)
	if code := parse(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(c.stderr, "spawn requires an executable path")
		return 2
	}

	s, err := c.open(common)
	if err != nil {
		return c.fail(err)
	}
	defer s.Close()

	if !s.mgr.Capabilities().Has(platform.CapCreateProcess) {
		return c.unsupported(platform.CapCreateProcess)
	}
	args = make([]string, 0, fs.NArg()-1)
	for _, a := range fs.Args()[1:] {
		args = append(args, shellQuote(a))
	}
	pid, err := s.mgr.CreateProcess(fs.Arg(0), args...)
	if err != nil {
		return c.fail(err)
	}
	if c.wantJSON(common.json) {
		return c.writeJSON(map[string]int{"pid": pid})
	}
	fmt.Fprintf(c.stdout, "started pid %d\n", pid)
	return 0
}

// shellQuote protects a so the platform service's argument splitting gives
// it back unchanged.
func shellQuote(a string) string {
	if a != "" && !strings.ContainsAny(a, " \t\n'\"\\#") {
		return a
	}
	return "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
}
