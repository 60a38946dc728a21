package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tartampluch/go-patro/internal/config"
)

// Publisher receives freshly rendered feeds keyed by route.
type Publisher interface {
	Update(route string, data []byte)
}

// Refresher regenerates the feeds on a fixed interval and hands them to a
// Publisher. The birthday feed is skipped when Sync is nil.
type Refresher struct {
	Generator *Generator
	Publisher Publisher
	Sync      *SyncConfig
	Span      int
	Interval  time.Duration

	mu       sync.RWMutex
	contacts []BirthdayEntry
}

// Contacts returns the contacts of the last successful birthday sync.
func (r *Refresher) Contacts() []BirthdayEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]BirthdayEntry(nil), r.contacts...)
}

// Run refreshes once, then on every tick until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	interval := r.Interval
	if interval <= 0 {
		interval = config.DefaultRefreshMin * time.Minute
	}

	r.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, interval)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}

// Refresh renders every feed once. A failing feed is logged and keeps
// its previously published version.
func (r *Refresher) Refresh(ctx context.Context) {
	slog.Debug(config.MsgRefresh, config.LogKeyComponent, config.CompWorker)

	if ics, _, err := r.Generator.HolidayFeed(r.Span); err != nil {
		slog.Error(config.MsgFeedFailed,
			config.LogKeyComponent, config.CompWorker,
			config.LogKeyError, err)
	} else {
		r.Publisher.Update(config.RouteHolidaysFeed, ics)
	}

	if r.Sync == nil {
		return
	}

	ics, contacts, _, err := r.Generator.RunSync(ctx, *r.Sync)
	if err != nil {
		slog.Error(config.MsgSyncFailed,
			config.LogKeyComponent, config.CompWorker,
			config.LogKeyError, err)
		return
	}

	r.mu.Lock()
	r.contacts = contacts
	r.mu.Unlock()

	r.Publisher.Update(config.RouteBirthdaysFeed, ics)
}
