package chronicle

import "sync"

// attempt is the per-invocation state token threaded through one analysis
// run. It guarantees at most one narrative generation and at most one commit
// per run, even if the run is re-entered concurrently. It is never shared
// across invocations and never persisted.
type attempt struct {
	mu        sync.Mutex
	generated bool
	committed bool
}

// claims the generation step; false means the step already ran
func (a *attempt) beginGenerate() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.generated {
		return false
	}

	a.generated = true

	return true
}

// claims the commit step; false means the step already ran
func (a *attempt) beginCommit() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.committed {
		return false
	}

	a.committed = true

	return true
}

func (a *attempt) hasCommitted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.committed
}
