package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/winwatch/internal/config"
	"github.com/1broseidon/winwatch/internal/journal"
	"github.com/1broseidon/winwatch/internal/model"
	"github.com/1broseidon/winwatch/internal/platform"
	"github.com/1broseidon/winwatch/internal/runtimepath"
	"github.com/1broseidon/winwatch/internal/winmgr"
)

const watchBuffer = 64

func journalPath(cfg *config.Config) (string, error) {
	if cfg.Journal.Path != "" {
		return cfg.Journal.Path, nil
	}
	return runtimepath.JournalPath()
}

func (c *cli) runWatch(args []string) int {
	var common commonFlags
	fs := c.newFlagSet("watch", "watch [--record] [--count N]", "Print each window activation until interrupted.", &common)
	record := fs.Bool("record", false, "Also write activations to the journal")
	count := fs.Int("count", 0, "Exit after N activations (0 = run until interrupted)")
	if code := parse(fs, args); code >= 0 {
		return code
	}
	if *count < 0 {
		fmt.Fprintln(c.stderr, "--count must be >= 0")
		return 2
	}

	s, err := c.open(common)
	if err != nil {
		return c.fail(err)
	}
	defer s.Close()

	if !s.mgr.Capabilities().Has(platform.CapActiveWindow) {
		return c.unsupported(platform.CapActiveWindow)
	}

	ctx, cancel := context.WithCancel(c.ctx)
	defer cancel()

	// The journal subscribes first so an activation is stored before it
	// is printed.
	if *record || s.cfg.Journal.Enabled {
		path, err := journalPath(s.cfg)
		if err != nil {
			return c.fail(err)
		}
		j, err := journal.Open(path, s.log.Named("journal"))
		if err != nil {
			return c.fail(err)
		}
		defer j.Close()
		sub := s.mgr.OnWindowActivated(j.Listener(ctx))
		defer sub.Cancel()
		s.log.Info("recording activations", zap.String("path", path), zap.String("session", j.Session()))
	}

	events := make(chan model.Window, watchBuffer)
	sub, err := s.mgr.Subscribe(winmgr.EventWindowActivated, func(w model.Window) {
		select {
		case events <- w:
		default:
			s.log.Warn("activation dropped, output is not keeping up", zap.Uint32("window_id", uint32(w.ID())))
		}
	})
	if err != nil {
		return c.fail(err)
	}
	defer sub.Cancel()

	asJSON := c.wantJSON(common.json)
	enc := json.NewEncoder(c.stdout)
	seen := 0
	for {
		select {
		case <-ctx.Done():
			return 0
		case w := <-events:
			now := time.Now()
			if asJSON {
				if err := enc.Encode(struct {
					At     time.Time    `json:"at"`
					Window model.Window `json:"window"`
				}{At: now, Window: w}); err != nil {
					return c.fail(err)
				}
			} else {
				fmt.Fprintf(c.stdout, "%s  %s  %-16s  %s\n", dimStyle.Render(now.Format("15:04:05.000")), formatID(w.ID()), w.Name(), w.Title())
			}
			seen++
			if *count > 0 && seen >= *count {
				return 0
			}
		}
	}
}

func (c *cli) runHistory(args []string) int {
	var common commonFlags
	fs := c.newFlagSet("history", "history [--limit N] [--session ID]", "Show journaled window activations, newest first.", &common)
	limit := fs.Int("limit", 20, "Maximum entries to show (0 = all)")
	session := fs.String("session", "", "Only show entries from this session")
	if code := parse(fs, args); code >= 0 {
		return code
	}

	res, err := loadConfig(common.configPath)
	if err != nil {
		return c.fail(err)
	}
	log, err := c.newLogger(res.Config)
	if err != nil {
		return c.fail(err)
	}
	defer func() { _ = log.Sync() }()

	path, err := journalPath(res.Config)
	if err != nil {
		return c.fail(err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(c.stderr, "no activation journal at %s (run 'winwatch watch --record' first)\n", path)
		return 1
	}

	j, err := journal.Open(path, log.Named("journal"))
	if err != nil {
		return c.fail(err)
	}
	defer j.Close()

	entries, err := j.SessionEntries(c.ctx, *session, *limit)
	if err != nil {
		return c.fail(err)
	}

	if c.wantJSON(common.json) {
		if entries == nil {
			entries = []journal.Entry{}
		}
		return c.writeJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.stdout, dimStyle.Render("no activations recorded"))
		return 0
	}
	for _, e := range entries {
		fmt.Fprintf(c.stdout, "%s  %s  %-16s  %s\n",
			dimStyle.Render(e.ActivatedAt.Local().Format("2006-01-02 15:04:05")), formatID(e.WindowID), e.Owner, e.Title)
	}
	return 0
}
