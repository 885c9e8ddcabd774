// Package sim drives a group of in-process counter replicas through
// anti-entropy exchange over a deliberately unreliable in-memory
// medium. Payloads may be dropped, duplicated, and reordered per
// recipient, which are exactly the delivery faults the counter's
// merge has to tolerate. No sockets are involved; the package exists
// to exercise convergence, not to be a transport.
package sim
