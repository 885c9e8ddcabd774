package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"gcounter/internal/counter"
)

// Config holds the settings for a simulated replica group run.
type Config struct {
	// ReplicaIDs lists the replicas taking part in the run.
	ReplicaIDs []string
	// Increments is the number of random local increments performed
	// per replica before convergence is checked.
	Increments int
	// MaxRounds bounds the number of lossy exchange rounds before the
	// run falls back to lossless flushing.
	MaxRounds int
	// DropRate is the probability that a broadcast payload is lost on
	// the way to a given recipient.
	DropRate float64
	// DupRate is the probability that a payload is delivered twice to
	// a given recipient.
	DupRate float64
	// Seed is an optional bootstrap state merged into every replica at
	// construction, e.g. a snapshot from before a restart.
	Seed counter.State
	// RandSeed makes the run reproducible.
	RandSeed int64
}

// ParseReplicas parses a comma-separated list of replica IDs, e.g.
// "A,B,C". An empty input yields count generated UUID identifiers.
func ParseReplicas(idsStr string, count int) ([]string, error) {
	if strings.TrimSpace(idsStr) == "" {
		if count <= 0 {
			return nil, fmt.Errorf("replica count must be positive, got %d", count)
		}
		ids := make([]string, 0, count)
		for i := 0; i < count; i++ {
			ids = append(ids, uuid.NewString())
		}
		return ids, nil
	}

	parts := strings.Split(idsStr, ",")
	ids := make([]string, 0, len(parts))
	seen := make(map[string]bool)

	for _, part := range parts {
		id := strings.TrimSpace(part)
		if id == "" {
			return nil, fmt.Errorf("replica ID cannot be empty in list: %s", idsStr)
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate replica ID: %s", id)
		}
		seen[id] = true
		ids = append(ids, id)
	}

	return ids, nil
}

// ParseSeed parses a comma-separated bootstrap state in the format:
// "id1=count1,id2=count2"
func ParseSeed(seedStr string) (counter.State, error) {
	seed := counter.NewState()
	if strings.TrimSpace(seedStr) == "" {
		return seed, nil
	}

	parts := strings.Split(seedStr, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid seed entry: %s (expected id=count)", part)
		}

		id := strings.TrimSpace(kv[0])
		if id == "" {
			return nil, fmt.Errorf("seed replica ID cannot be empty: %s", part)
		}

		count, err := strconv.ParseInt(strings.TrimSpace(kv[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid seed count for %s: %w", id, err)
		}
		if count < 0 {
			return nil, fmt.Errorf("seed count for %s must be non-negative, got %d", id, count)
		}

		if count > 0 {
			seed[id] = count
		}
	}

	return seed, nil
}

// Validate checks the configuration for a runnable simulation.
func (c *Config) Validate() error {
	if len(c.ReplicaIDs) == 0 {
		return fmt.Errorf("at least one replica is required")
	}
	if c.Increments < 0 {
		return fmt.Errorf("increments must be non-negative, got %d", c.Increments)
	}
	if c.MaxRounds <= 0 {
		return fmt.Errorf("max rounds must be positive, got %d", c.MaxRounds)
	}
	if c.DropRate < 0 || c.DropRate > 1 {
		return fmt.Errorf("drop rate must be in [0, 1], got %g", c.DropRate)
	}
	if c.DupRate < 0 || c.DupRate > 1 {
		return fmt.Errorf("dup rate must be in [0, 1], got %g", c.DupRate)
	}
	return nil
}
