package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/1broseidon/winwatch/internal/config"
	"github.com/1broseidon/winwatch/internal/logging"
	"github.com/1broseidon/winwatch/internal/platform"
	"github.com/1broseidon/winwatch/internal/winmgr"
	"github.com/1broseidon/winwatch/internal/xenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := newCLI(ctx)
	code := c.run(os.Args[1:])
	stop()
	os.Exit(code)
}

// cli carries the process streams and the hooks tests replace.
type cli struct {
	ctx    context.Context
	stdout io.Writer
	stderr io.Writer
	isTTY  func() bool

	openService func(cfg *config.Config, log *zap.Logger) (platform.Service, error)
	newLogger   func(cfg *config.Config) (*zap.Logger, error)
	mgrOptions  []winmgr.Option
}

func newCLI(ctx context.Context) *cli {
	return &cli{
		ctx:    ctx,
		stdout: os.Stdout,
		stderr: os.Stderr,
		isTTY: func() bool {
			return term.IsTerminal(int(os.Stdout.Fd()))
		},
		openService: openPlatformService,
		newLogger: func(cfg *config.Config) (*zap.Logger, error) {
			return logging.New(cfg.Log.Level, cfg.Log.Format)
		},
	}
}

func (c *cli) run(args []string) int {
	if len(args) == 0 {
		c.printMainUsage(c.stdout)
		return 0
	}

	switch args[0] {
	case "active":
		return c.runActive(args[1:])
	case "windows":
		return c.runWindows(args[1:])
	case "monitors":
		return c.runMonitors(args[1:])
	case "primary":
		return c.runPrimary(args[1:])
	case "at":
		return c.runAt(args[1:])
	case "capture":
		return c.runCapture(args[1:])
	case "spawn":
		return c.runSpawn(args[1:])
	case "hide", "show", "paint", "popup", "popup-rounded":
		return c.runChrome(args[0], args[1:])
	case "capabilities":
		return c.runCapabilities(args[1:])
	case "watch":
		return c.runWatch(args[1:])
	case "history":
		return c.runHistory(args[1:])
	case "mcp":
		return c.runMCP(args[1:])
	case "config":
		return c.runConfig(args[1:])
	case "help", "-h", "--help":
		c.printMainUsage(c.stdout)
		return 0
	default:
		fmt.Fprintf(c.stderr, "Unknown command: %s\n\n", args[0])
		c.printMainUsage(c.stderr)
		return 2
	}
}

func (c *cli) printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: winwatch <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  active              Show the focused window")
	fmt.Fprintln(w, "  windows             List windows")
	fmt.Fprintln(w, "  at                  Show the window at a screen point")
	fmt.Fprintln(w, "  monitors            List monitors")
	fmt.Fprintln(w, "  primary             Show the primary monitor")
	fmt.Fprintln(w, "  capabilities        List native operations available here")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  capture             Capture a window image")
	fmt.Fprintln(w, "  spawn               Start a process")
	fmt.Fprintln(w, "  hide | show         Unmap or map a window")
	fmt.Fprintln(w, "  paint               Force a window repaint")
	fmt.Fprintln(w, "  popup               Strip window decorations")
	fmt.Fprintln(w, "  popup-rounded       Popup with rounded corners")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  watch               Stream window activations")
	fmt.Fprintln(w, "  history             Show journaled activations")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Output is text on a terminal and JSON otherwise; pass --json to force JSON.")
	fmt.Fprintln(w, "Run 'winwatch <command> --help' for command-specific options.")
}

// commonFlags are accepted by every command that talks to the display.
type commonFlags struct {
	configPath string
	json       bool
}

func (c *cli) newFlagSet(name, usage, summary string, common *commonFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.Usage = func() {
		fmt.Fprintln(c.stderr, "Usage: winwatch "+usage)
		fmt.Fprintln(c.stderr, "")
		fmt.Fprintln(c.stderr, summary)
		fmt.Fprintln(c.stderr, "")
		fmt.Fprintln(c.stderr, "Flags:")
		fs.PrintDefaults()
	}
	if common != nil {
		fs.StringVar(&common.configPath, "config", "", "Config file path (default: ~/.config/winwatch/config.yaml)")
		fs.BoolVar(&common.json, "json", false, "Force JSON output")
	}
	return fs
}

// parse returns -1 when the command should continue, otherwise its exit code.
func parse(fs *flag.FlagSet, args []string) int {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	return -1
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}
	return config.LoadFromPath(path)
}

// session is the per-command runtime: config, logger and facade.
type session struct {
	cfg *config.Config
	log *zap.Logger
	mgr *winmgr.Manager
}

func (c *cli) open(common commonFlags) (*session, error) {
	res, err := loadConfig(common.configPath)
	if err != nil {
		return nil, err
	}
	cfg := res.Config

	log, err := c.newLogger(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := c.openService(cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	opts := []winmgr.Option{
		winmgr.WithLogger(log),
		winmgr.WithPollInterval(cfg.PollInterval),
	}
	opts = append(opts, c.mgrOptions...)

	return &session{
		cfg: cfg,
		log: log,
		mgr: winmgr.New(svc, opts...),
	}, nil
}

func (s *session) Close() {
	if err := s.mgr.Cleanup(); err != nil {
		s.log.Warn("cleanup failed", zap.Error(err))
	}
	_ = s.log.Sync()
}

// openPlatformService connects to the native window service. Platforms
// without one yield a nil service and every operation degrades.
func openPlatformService(cfg *config.Config, log *zap.Logger) (platform.Service, error) {
	display := cfg.Display
	if env, err := xenv.Resolve(os.Environ(), cfg.Display, cfg.XAuthority); err == nil {
		if err := env.Apply(); err != nil {
			log.Debug("failed to export X11 environment", zap.Error(err))
		}
		display = env.Display
	} else {
		log.Debug("X11 environment not resolved", zap.Error(err))
	}

	svc, err := platform.NewService(platform.Options{Display: display, Logger: log.Named("platform")})
	var unsupported *platform.UnsupportedPlatformError
	if errors.As(err, &unsupported) {
		log.Warn("native window service unavailable, running without it", zap.Error(err))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return svc, nil
}
