package winmgr

import (
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/winwatch/internal/tracker"
)

// Option configures a Manager.
type Option func(*managerOptions)

type managerOptions struct {
	logger       *zap.Logger
	pollInterval time.Duration
	scheduler    tracker.Scheduler
	platformOS   string
}

// WithLogger sets the logger used by the manager and its tracker.
func WithLogger(l *zap.Logger) Option {
	return func(o *managerOptions) {
		o.logger = l
	}
}

// WithPollInterval sets the active window poll cadence.
func WithPollInterval(d time.Duration) Option {
	return func(o *managerOptions) {
		o.pollInterval = d
	}
}

// WithScheduler replaces the ticker that drives active window polling.
func WithScheduler(s tracker.Scheduler) Option {
	return func(o *managerOptions) {
		o.scheduler = s
	}
}

// WithPlatformOS overrides the operating system name reported by Platform.
func WithPlatformOS(goos string) Option {
	return func(o *managerOptions) {
		o.platformOS = goos
	}
}

func applyOptions(opts []Option) *managerOptions {
	o := &managerOptions{
		pollInterval: tracker.DefaultInterval,
		platformOS:   runtime.GOOS,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}
