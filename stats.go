package httpcore

import (
	"sync/atomic"
	"time"
)

// Stats is the engine's statistics aggregate (spec §5's optional
// statistics channel, resolved per DESIGN.md's Open Question decision as
// lock-free atomic counters rather than a literal MPSC channel). Every
// field is safe to read concurrently with the writers that increment it.
// Grounded on the teacher's server.Stats.
type Stats struct {
	TotalConnections  atomic.Uint64
	ActiveConnections atomic.Int64
	TotalRequests     atomic.Uint64
	ConnectionErrors  atomic.Uint64
	RequestErrors     atomic.Uint64
	StartTime         time.Time
}

// NewStats returns a Stats with StartTime set to now.
func NewStats() *Stats {
	return &Stats{StartTime: nowFunc()}
}

// nowFunc is time.Now, indirected so tests can control it without a real
// clock dependency.
var nowFunc = time.Now

// Duration reports how long the server has been running.
func (s *Stats) Duration() time.Duration {
	return nowFunc().Sub(s.StartTime)
}

// RequestsPerSecond reports the lifetime average request rate.
func (s *Stats) RequestsPerSecond() float64 {
	d := s.Duration().Seconds()
	if d == 0 {
		return 0
	}
	return float64(s.TotalRequests.Load()) / d
}

func (s *Stats) connectionOpened() {
	s.TotalConnections.Add(1)
	s.ActiveConnections.Add(1)
}

func (s *Stats) connectionClosed() {
	s.ActiveConnections.Add(-1)
}

func (s *Stats) requestHandled() {
	s.TotalRequests.Add(1)
}

func (s *Stats) connectionFailed() {
	s.ConnectionErrors.Add(1)
}

func (s *Stats) requestFailed() {
	s.RequestErrors.Add(1)
}
