package sim

import (
	"math/rand"
)

// Network simulates an unreliable broadcast medium between replicas.
// Each replica has an inbox of encoded payloads; a broadcast payload
// may be dropped or duplicated independently per recipient, and inbox
// delivery order is shuffled. Not safe for concurrent use; the
// cluster drives it from a single goroutine.
type Network struct {
	rng      *rand.Rand
	dropRate float64
	dupRate  float64
	inboxes  map[string][][]byte
}

// NewNetwork creates a network connecting the given replicas.
func NewNetwork(replicaIDs []string, dropRate, dupRate float64, rng *rand.Rand) *Network {
	inboxes := make(map[string][][]byte, len(replicaIDs))
	for _, id := range replicaIDs {
		inboxes[id] = nil
	}
	return &Network{
		rng:      rng,
		dropRate: dropRate,
		dupRate:  dupRate,
		inboxes:  inboxes,
	}
}

// Broadcast queues payload for every replica except the sender. Per
// recipient, the payload is lost with probability dropRate and
// delivered twice with probability dupRate.
func (n *Network) Broadcast(senderID string, payload []byte) {
	for id := range n.inboxes {
		if id == senderID {
			continue
		}
		if n.rng.Float64() < n.dropRate {
			continue
		}
		n.deliver(id, payload)
		if n.rng.Float64() < n.dupRate {
			n.deliver(id, payload)
		}
	}
}

// BroadcastReliable queues payload for every replica except the
// sender with no loss or duplication, for lossless flush rounds.
func (n *Network) BroadcastReliable(senderID string, payload []byte) {
	for id := range n.inboxes {
		if id == senderID {
			continue
		}
		n.deliver(id, payload)
	}
}

// Drain empties the recipient's inbox and returns its payloads in a
// shuffled order.
func (n *Network) Drain(recipientID string) [][]byte {
	msgs := n.inboxes[recipientID]
	n.inboxes[recipientID] = nil

	n.rng.Shuffle(len(msgs), func(i, j int) {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	})
	return msgs
}

// Pending returns the total number of queued payloads.
func (n *Network) Pending() int {
	total := 0
	for _, inbox := range n.inboxes {
		total += len(inbox)
	}
	return total
}

func (n *Network) deliver(recipientID string, payload []byte) {
	n.inboxes[recipientID] = append(n.inboxes[recipientID], payload)
}
