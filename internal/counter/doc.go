// Package counter implements a grow-only counter (G-Counter) CRDT:
// a replicated counter that can be incremented independently on
// uncoordinated replicas and converges to the same total once states
// have been exchanged, regardless of delivery order, duplication, or
// omission. The state is a per-replica count vector and the merge is
// a per-key maximum, which makes it idempotent, commutative, and
// associative.
package counter
