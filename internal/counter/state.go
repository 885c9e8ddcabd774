package counter

import (
	"fmt"
	"sort"
	"strings"
)

// State represents a G-Counter state as a map from replica ID to that
// replica's cumulative increment count. Absent keys read as 0 and are
// never materialized by lookups; only strictly positive counts are
// stored. Thread-safe access should be handled by the caller.
type State map[string]int64

// NewState creates a new empty counter state.
func NewState() State {
	return make(State)
}

// Get returns the count for the given replica ID, or 0 if not present.
func (s State) Get(replicaID string) int64 {
	return s[replicaID]
}

// Copy creates a deep copy of the state.
func (s State) Copy() State {
	copy := NewState()
	for k, v := range s {
		copy[k] = v
	}
	return copy
}

// Total returns the counter value represented by the state: the sum
// of all per-replica counts.
func (s State) Total() int64 {
	var total int64
	for _, count := range s {
		total += count
	}
	return total
}

// Merge joins two counter states by taking the maximum count for each
// replica ID across the union of both key sets, treating absent keys
// as 0. It returns a fresh state and never mutates either input.
//
// Entries that would not be strictly positive are skipped, so a
// negative count injected by a buggy or malicious peer can neither
// enter the state nor win against any stored count.
//
// Merge is idempotent, commutative, and associative; the result
// dominates both inputs under the order computed by Compare.
func Merge(a, b State) State {
	merged := NewState()

	for replicaID, count := range a {
		if count > 0 {
			merged[replicaID] = count
		}
	}
	for replicaID, count := range b {
		if count > merged[replicaID] && count > 0 {
			merged[replicaID] = count
		}
	}

	return merged
}

// CompareResult represents the result of comparing two counter states
// under the lattice partial order.
type CompareResult int

const (
	// Before indicates this state is dominated by the other.
	Before CompareResult = iota
	// After indicates this state dominates the other.
	After
	// Concurrent indicates neither state dominates the other.
	Concurrent
	// Equal indicates the states are equal.
	Equal
)

// Compare compares two states under the order "s <= other iff every
// replica's count in s is <= the corresponding count in other, with
// absent treated as 0".
// Returns:
//   - Equal: if all counts are equal
//   - Before: if other dominates s (all counts <=, at least one <)
//   - After: if s dominates other (all counts >=, at least one >)
//   - Concurrent: if neither dominates
func (s State) Compare(other State) CompareResult {
	if s.Equal(other) {
		return Equal
	}

	allIDs := make(map[string]bool)
	for replicaID := range s {
		allIDs[replicaID] = true
	}
	for replicaID := range other {
		allIDs[replicaID] = true
	}

	var thisLess, thisGreater bool
	for replicaID := range allIDs {
		thisVal := s[replicaID]
		otherVal := other[replicaID]
		if thisVal < otherVal {
			thisLess = true
		} else if thisVal > otherVal {
			thisGreater = true
		}
	}

	if thisLess && !thisGreater {
		return Before
	}
	if thisGreater && !thisLess {
		return After
	}
	return Concurrent
}

// Dominates returns true if this state dominates the other, i.e. the
// other state carries no information this one lacks.
func (s State) Dominates(other State) bool {
	comp := s.Compare(other)
	return comp == After || comp == Equal
}

// Equal checks if two states are equal.
func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for replicaID, count := range s {
		if other[replicaID] != count {
			return false
		}
	}
	return true
}

// String returns a string representation of the state.
func (s State) String() string {
	if len(s) == 0 {
		return "{}"
	}

	// Sort for deterministic output
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%d", k, s[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
