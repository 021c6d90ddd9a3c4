package eventsubscribers

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mono83/slf"

	"ely.by/appearance/internal/dispatcher"
)

type StatsReporter struct {
	slf.StatsReporter
	Prefix string

	timersMap sync.Map
}

func (s *StatsReporter) ConfigureWithDispatcher(d dispatcher.Subscriber) {
	// Per request events
	d.Subscribe(dispatcher.BeforeRequest, s.handleBeforeRequest)
	d.Subscribe(dispatcher.AfterRequest, s.handleAfterRequest)

	// Authentication events
	d.Subscribe(dispatcher.AuthenticationSuccess, s.incCounterHandler("authentication.challenge"))
	d.Subscribe(dispatcher.AuthenticationSuccess, s.incCounterHandler("authentication.success"))
	d.Subscribe(dispatcher.AuthenticationError, s.incCounterHandler("authentication.challenge"))
	d.Subscribe(dispatcher.AuthenticationError, s.incCounterHandler("authentication.failed"))

	// Appearances events
	d.Subscribe(dispatcher.AppearancePersisted, s.incCounterHandler("appearances.persisted"))
	d.Subscribe(dispatcher.AppearanceRemoved, s.incCounterHandler("appearances.removed"))
	d.Subscribe(dispatcher.AppearanceRejected, s.incCounterHandler("appearances.rejected"))
}

func (s *StatsReporter) handleBeforeRequest(req *http.Request) {
	s.startTimeRecording(timerKey(req))

	var key string
	m := req.Method
	p := req.URL.Path
	if m == http.MethodGet && strings.HasPrefix(p, "/appearances/") && strings.HasSuffix(p, ".png") {
		key = "appearances.png_request"
	} else if m == http.MethodGet && strings.HasPrefix(p, "/appearances/") && strings.HasSuffix(p, ".webp") {
		key = "appearances.webp_request"
	} else if m == http.MethodGet && strings.HasPrefix(p, "/appearances/") {
		key = "appearances.request"
	} else if m == http.MethodPost && p == "/api/appearances" {
		key = "api.appearances.post.request"
	} else if m == http.MethodDelete && strings.HasPrefix(p, "/api/appearances/") {
		key = "api.appearances.delete.request"
	} else {
		return
	}

	s.incCounter(key)
}

func (s *StatsReporter) handleAfterRequest(req *http.Request, code int) {
	s.finalizeTimeRecording(timerKey(req), "request_time")

	var key string
	m := req.Method
	p := req.URL.Path
	if m == http.MethodPost && p == "/api/appearances" && code == http.StatusCreated {
		key = "api.appearances.post.success"
	} else if m == http.MethodPost && p == "/api/appearances" && code == http.StatusBadRequest {
		key = "api.appearances.post.validation_failed"
	} else if m == http.MethodDelete && strings.HasPrefix(p, "/api/appearances/") && code == http.StatusNoContent {
		key = "api.appearances.delete.success"
	} else if m == http.MethodDelete && strings.HasPrefix(p, "/api/appearances/") && code == http.StatusNotFound {
		key = "api.appearances.delete.not_found"
	} else {
		return
	}

	s.incCounter(key)
}

func (s *StatsReporter) incCounterHandler(name string) func(...interface{}) {
	return func(...interface{}) {
		s.incCounter(name)
	}
}

func (s *StatsReporter) startTimeRecording(timeKey string) {
	s.timersMap.Store(timeKey, time.Now())
}

func (s *StatsReporter) finalizeTimeRecording(timeKey string, statName string) {
	startedAtUncasted, ok := s.timersMap.LoadAndDelete(timeKey)
	if !ok {
		return
	}

	startedAt, ok := startedAtUncasted.(time.Time)
	if !ok {
		panic("unable to cast map value to the time.Time")
	}

	s.recordTimer(statName, time.Since(startedAt))
}

func (s *StatsReporter) incCounter(name string) {
	s.StatsReporter.IncCounter(s.key(name), 1)
}

func (s *StatsReporter) recordTimer(name string, duration time.Duration) {
	s.StatsReporter.RecordTimer(s.key(name), duration)
}

func (s *StatsReporter) key(name string) string {
	if s.Prefix == "" {
		return name
	}

	return strings.Join([]string{s.Prefix, name}, ".")
}

// The middleware passes the same *http.Request to both request events
func timerKey(req *http.Request) string {
	return fmt.Sprintf("request_time_%p", req)
}
