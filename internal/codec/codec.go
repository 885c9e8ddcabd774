package codec

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"gcounter/internal/counter"
)

// Encode serializes a counter state for transmission. The empty (or
// nil) state encodes to an empty map.
func Encode(s counter.State) ([]byte, error) {
	if s == nil {
		s = counter.NewState()
	}

	data, err := msgpack.Marshal(map[string]int64(s))
	if err != nil {
		return nil, fmt.Errorf("failed to encode counter state: %w", err)
	}
	return data, nil
}

// Decode deserializes a counter state received from a peer. A payload
// carrying a negative count is rejected as malformed rather than
// silently merged; zero entries are dropped so only canonical states
// cross the boundary.
func Decode(data []byte) (counter.State, error) {
	var raw map[string]int64
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode counter state: %w", err)
	}

	state := counter.NewState()
	for replicaID, count := range raw {
		if count < 0 {
			return nil, fmt.Errorf("malformed update: negative count %d for replica %q", count, replicaID)
		}
		if count > 0 {
			state[replicaID] = count
		}
	}

	return state, nil
}
