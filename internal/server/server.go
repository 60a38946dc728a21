// Package server publishes the iCalendar feeds and a small JSON API over
// HTTP on the loopback interface.
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-patro/internal/calendar"
	"github.com/tartampluch/go-patro/internal/config"
)

// feedRoutes are the feeds a CalendarServer can publish.
var feedRoutes = []string{config.RouteHolidaysFeed, config.RouteBirthdaysFeed}

// cacheItem is one rendered feed with its HTTP validators.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // http.TimeFormat
}

// CalendarServer serves the feeds from lock-free caches and answers the
// JSON API from the converter. Feeds return 503 until first published.
type CalendarServer struct {
	Port string

	// Contacts, when set before Start, enables /api/birthdays.
	Contacts ContactLister

	feeds     map[string]*atomic.Pointer[cacheItem]
	converter *calendar.Converter
}

// NewCalendarServer creates a server. A nil converter disables the JSON API.
func NewCalendarServer(port string, conv *calendar.Converter) *CalendarServer {
	s := &CalendarServer{
		Port:      port,
		feeds:     make(map[string]*atomic.Pointer[cacheItem], len(feedRoutes)),
		converter: conv,
	}
	for _, route := range feedRoutes {
		s.feeds[route] = new(atomic.Pointer[cacheItem])
	}
	return s
}

// Handler returns the routing table.
func (s *CalendarServer) Handler() http.Handler {
	mux := http.NewServeMux()
	for _, route := range feedRoutes {
		mux.HandleFunc(route, s.handleFeed(route))
	}
	if s.converter != nil {
		mux.HandleFunc(config.RouteAPIToday, s.handleToday)
		mux.HandleFunc(config.RouteAPIConvert, s.handleConvert)
		mux.HandleFunc(config.RouteAPIMonth, s.handleMonth)
		mux.HandleFunc(config.RouteAPIHolidays, s.handleHolidays)
	}
	if s.Contacts != nil {
		mux.HandleFunc(config.RouteAPIBirthdays, s.handleBirthdays)
	}
	return mux
}

// Start listens on the loopback interface and blocks until ctx is cancelled.
func (s *CalendarServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces the feed served at route. Unknown routes are
// ignored.
func (s *CalendarServer) Update(route string, data []byte) {
	cache, ok := s.feeds[route]
	if !ok {
		slog.Warn(config.ErrNotFound,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyRoute, route,
		)
		return
	}

	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	cache.Store(&cacheItem{
		data:         data,
		etag:         etag,
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	})

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyRoute, route,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

// allowRead rejects anything but GET and HEAD.
func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set(config.HeaderAllow, config.AllowedMethods)
	http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
	return false
}

// handleFeed serves one cached feed with ETag and Last-Modified validation.
func (s *CalendarServer) handleFeed(route string) http.HandlerFunc {
	cache := s.feeds[route]
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowRead(w, r) {
			return
		}

		item := cache.Load()
		if item == nil {
			w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
			http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
			return
		}

		w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
		w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
		w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
		w.Header().Set(config.HeaderETag, item.etag)
		w.Header().Set(config.HeaderLastModified, item.lastModified)

		if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
			clientTime, err1 := time.Parse(http.TimeFormat, since)
			serverTime, err2 := time.Parse(http.TimeFormat, item.lastModified)
			if err1 == nil && err2 == nil && !serverTime.After(clientTime) {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}

		if r.Method == http.MethodGet {
			if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
				slog.Error(config.ErrWriteResp,
					config.LogKeyComponent, config.CompServer,
					config.LogKeyRoute, route,
					config.LogKeyError, err,
				)
			}
		}
	}
}
