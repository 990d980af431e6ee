package session

import "context"

// inflight tracks the latest request of one kind. Starting a request cancels
// the previous one; a result whose generation is no longer current is stale.
// Callers hold Manager.mu.
type inflight struct {
	gen    uint64
	cancel context.CancelFunc
}

func (f *inflight) begin(cancel context.CancelFunc) uint64 {
	if f.cancel != nil {
		f.cancel()
	}
	f.gen++
	f.cancel = cancel
	return f.gen
}

func (f *inflight) current(gen uint64) bool {
	return f.gen == gen
}

func (f *inflight) finish(gen uint64) {
	if f.gen == gen {
		f.cancel = nil
	}
}

// stop cancels the running request and invalidates its result.
func (f *inflight) stop() {
	if f.cancel != nil {
		f.cancel()
	}
	f.gen++
	f.cancel = nil
}
