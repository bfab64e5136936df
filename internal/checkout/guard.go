package checkout

import (
	"log/slog"
	"sync"
)

// SubmissionGuard allows at most one in-flight submission per session key.
type SubmissionGuard struct {
	inFlight map[string]struct{}
	mu       sync.Mutex
}

func NewSubmissionGuard() *SubmissionGuard {
	return &SubmissionGuard{
		inFlight: make(map[string]struct{}),
	}
}

// TryAcquire marks key as submitting. It returns false when a submission
// for key is already running. The returned release must be called once.
func (g *SubmissionGuard) TryAcquire(key string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inFlight[key]; busy {
		slog.Debug("Checkout submission already in flight", "session_key", key)
		return nil, false
	}
	g.inFlight[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inFlight, key)
			g.mu.Unlock()
		})
	}, true
}

// GetStats returns statistics about the guard
func (g *SubmissionGuard) GetStats() map[string]interface{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	return map[string]interface{}{
		"in_flight_submissions": len(g.inFlight),
	}
}
