package tracker

import (
	"sync"
	"time"
)

// Scheduler runs fn periodically until the returned stop func is called.
// Stop must not block and must not wait for a running fn to finish.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (stop func())
}

// TickerScheduler runs fn from a single goroutine driven by time.Ticker, so
// calls to fn never overlap.
type TickerScheduler struct{}

func (TickerScheduler) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	return func() {
		once.Do(func() { close(done) })
	}
}
