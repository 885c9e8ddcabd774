package sim

import (
	"fmt"
	"math/rand"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"gcounter/internal/codec"
	"gcounter/internal/config"
	"gcounter/internal/counter"
)

// Cluster holds one counter replica per configured ID, wired together
// through an unreliable in-memory network. Every payload crossing
// between replicas goes through the codec, so exchanges carry encoded
// bytes rather than shared maps.
type Cluster struct {
	logger   log.Logger
	replicas map[string]*counter.Replica
	order    []string
	net      *Network
	rounds   int
}

// NewCluster builds a cluster from the given configuration. Every
// replica is bootstrapped with the configured seed state.
func NewCluster(cfg *config.Config, logger log.Logger) (*Cluster, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cluster config: %w", err)
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	rng := rand.New(rand.NewSource(cfg.RandSeed))

	replicas := make(map[string]*counter.Replica, len(cfg.ReplicaIDs))
	order := make([]string, 0, len(cfg.ReplicaIDs))
	for _, id := range cfg.ReplicaIDs {
		replicas[id] = counter.New(id, cfg.Seed)
		order = append(order, id)
	}

	level.Info(logger).Log(
		"msg", "cluster initialized",
		"replicas", len(order),
		"drop_rate", cfg.DropRate,
		"dup_rate", cfg.DupRate,
	)

	return &Cluster{
		logger:   logger,
		replicas: replicas,
		order:    order,
		net:      NewNetwork(cfg.ReplicaIDs, cfg.DropRate, cfg.DupRate, rng),
	}, nil
}

// Replica returns the replica with the given ID, or nil if unknown.
func (c *Cluster) Replica(id string) *counter.Replica {
	return c.replicas[id]
}

// ReplicaIDs returns the replica IDs in their configured order.
func (c *Cluster) ReplicaIDs() []string {
	return append([]string(nil), c.order...)
}

// Increment applies a local increment at the given replica and
// broadcasts the resulting operation through the lossy network.
func (c *Cluster) Increment(replicaID string, amount int64) error {
	r := c.replicas[replicaID]
	if r == nil {
		return fmt.Errorf("unknown replica: %s", replicaID)
	}

	op, err := r.Increment(amount)
	if err != nil {
		return err
	}

	payload, err := codec.Encode(op)
	if err != nil {
		return err
	}
	c.net.Broadcast(replicaID, payload)
	return nil
}

// Step runs one lossy anti-entropy round: every replica broadcasts
// its encoded snapshot, then drains and merges whatever reached its
// inbox.
func (c *Cluster) Step() error {
	return c.round(false)
}

// FlushRound runs one lossless round. A single flush is enough to
// converge a quiescent cluster, since every replica then merges every
// other replica's full state.
func (c *Cluster) FlushRound() error {
	return c.round(true)
}

func (c *Cluster) round(reliable bool) error {
	c.rounds++

	for _, id := range c.order {
		payload, err := codec.Encode(c.replicas[id].Snapshot())
		if err != nil {
			return fmt.Errorf("round %d: %w", c.rounds, err)
		}
		if reliable {
			c.net.BroadcastReliable(id, payload)
		} else {
			c.net.Broadcast(id, payload)
		}
	}

	delivered := 0
	for _, id := range c.order {
		for _, payload := range c.net.Drain(id) {
			update, err := codec.Decode(payload)
			if err != nil {
				return fmt.Errorf("round %d: %w", c.rounds, err)
			}
			c.replicas[id].ApplyUpdate(update)
			delivered++
		}
	}

	level.Debug(c.logger).Log(
		"msg", "exchange round complete",
		"round", c.rounds,
		"reliable", reliable,
		"delivered", delivered,
	)
	return nil
}

// Converged reports whether all replicas hold identical states.
func (c *Cluster) Converged() bool {
	first := c.replicas[c.order[0]].Snapshot()
	for _, id := range c.order[1:] {
		if !c.replicas[id].Snapshot().Equal(first) {
			return false
		}
	}
	return true
}

// Values returns the current counter value per replica.
func (c *Cluster) Values() map[string]int64 {
	values := make(map[string]int64, len(c.order))
	for id, r := range c.replicas {
		values[id] = r.Value()
	}
	return values
}

// Rounds returns the number of exchange rounds run so far.
func (c *Cluster) Rounds() int {
	return c.rounds
}

// Run drives lossy rounds up to maxRounds until the cluster converges,
// then falls back to a lossless flush. It returns the total number of
// rounds run.
func (c *Cluster) Run(maxRounds int) (int, error) {
	start := c.rounds

	for i := 0; i < maxRounds; i++ {
		if c.Converged() && c.net.Pending() == 0 {
			return c.rounds - start, nil
		}
		if err := c.Step(); err != nil {
			return c.rounds - start, err
		}
	}

	if !c.Converged() || c.net.Pending() > 0 {
		if err := c.FlushRound(); err != nil {
			return c.rounds - start, err
		}
	}
	if !c.Converged() {
		return c.rounds - start, fmt.Errorf("cluster failed to converge after %d rounds", c.rounds-start)
	}

	level.Info(c.logger).Log(
		"msg", "cluster converged",
		"rounds", c.rounds-start,
		"value", c.replicas[c.order[0]].Value(),
	)
	return c.rounds - start, nil
}
