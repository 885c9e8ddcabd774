package counter

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNegativeIncrement is returned by Increment when called with a
// negative amount. It signals a programming error at the caller, not
// a retryable condition.
var ErrNegativeIncrement = errors.New("grow-only counter cannot decrement")

// Replica is a single G-Counter replica: an immutable replica ID plus
// the locally known counter state. Each replica exclusively owns its
// state map; anything handed out crosses the boundary as a copy.
//
// All methods are safe for concurrent use within a process. Across
// replicas there is no shared state at all.
type Replica struct {
	mu    sync.RWMutex
	id    string
	state State
}

// New creates a replica with the given ID and an optional seed state
// (e.g. a snapshot saved before a restart). The seed is merged in
// rather than assigned, so the convergence invariant holds from the
// first observable state. A nil seed starts the replica empty.
func New(replicaID string, seed State) *Replica {
	return &Replica{
		id:    replicaID,
		state: Merge(NewState(), seed),
	}
}

// ID returns the replica's identifier.
func (r *Replica) ID() string {
	return r.id
}

// Increment adds amount to this replica's own entry and returns the
// operation to broadcast to other replicas: a one-entry state carrying
// this replica's new cumulative total. Sending the absolute total
// rather than a delta is what makes re-delivery harmless.
//
// A negative amount fails with ErrNegativeIncrement and leaves the
// state unmodified.
func (r *Replica) Increment(amount int64) (State, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: amount %d", ErrNegativeIncrement, amount)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	total := r.state.Get(r.id) + amount
	if total > 0 {
		r.state[r.id] = total
	}

	return State{r.id: total}, nil
}

// ApplyUpdate merges an update received from another replica into the
// local state. The update may be a single operation or a full foreign
// state snapshot; both are just counter-state maps and are treated
// uniformly. Applying the same update any number of times, in any
// order relative to other updates, yields the same converged state.
func (r *Replica) ApplyUpdate(update State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = Merge(r.state, update)
}

// Value returns the counter's aggregate value: the sum of the counts
// of all known replicas. It never decreases over the replica's
// lifetime.
func (r *Replica) Value() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.state.Total()
}

// Snapshot returns a deep copy of the local state, suitable for a
// full-state anti-entropy exchange with another replica.
func (r *Replica) Snapshot() State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.state.Copy()
}
