package main

import (
	"flag"
	"math/rand"
	"os"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"gcounter/internal/config"
	"gcounter/internal/sim"
)

// initLogger initializes a JSON logger filtered to the log level
// supplied via cli flag.
func initLogger(loglevel string) log.Logger {
	logger := log.NewJSONLogger(log.NewSyncWriter(os.Stdout))
	logger = log.With(logger,
		"ts", log.DefaultTimestampUTC,
		"caller", log.DefaultCaller,
	)

	switch strings.ToLower(loglevel) {
	case "debug":
		logger = level.NewFilter(logger, level.AllowDebug())
	case "warn":
		logger = level.NewFilter(logger, level.AllowWarn())
	case "error":
		logger = level.NewFilter(logger, level.AllowError())
	default:
		logger = level.NewFilter(logger, level.AllowInfo())
	}

	return logger
}

func main() {
	replicasFlag := flag.String("replicas", "", "Comma-separated replica IDs (e.g. 'A,B,C'); empty generates UUIDs.")
	countFlag := flag.Int("count", 3, "Number of replicas when --replicas is empty.")
	incrementsFlag := flag.Int("increments", 10, "Local increments per replica.")
	roundsFlag := flag.Int("rounds", 100, "Maximum number of lossy exchange rounds.")
	dropFlag := flag.Float64("drop", 0.2, "Probability that a payload is lost per recipient.")
	dupFlag := flag.Float64("dup", 0.1, "Probability that a payload is delivered twice per recipient.")
	seedFlag := flag.String("seed", "", "Bootstrap state as 'id=count,...' merged into every replica.")
	randSeedFlag := flag.Int64("rand-seed", 1, "Random seed for reproducible runs.")
	loglevelFlag := flag.String("loglevel", "info", "Log level: debug, info, warn, or error.")
	flag.Parse()

	logger := initLogger(*loglevelFlag)

	replicaIDs, err := config.ParseReplicas(*replicasFlag, *countFlag)
	if err != nil {
		level.Error(logger).Log("msg", "failed to parse replica list", "err", err)
		os.Exit(1)
	}

	seed, err := config.ParseSeed(*seedFlag)
	if err != nil {
		level.Error(logger).Log("msg", "failed to parse seed state", "err", err)
		os.Exit(1)
	}

	cfg := &config.Config{
		ReplicaIDs: replicaIDs,
		Increments: *incrementsFlag,
		MaxRounds:  *roundsFlag,
		DropRate:   *dropFlag,
		DupRate:    *dupFlag,
		Seed:       seed,
		RandSeed:   *randSeedFlag,
	}

	cluster, err := sim.NewCluster(cfg, logger)
	if err != nil {
		level.Error(logger).Log("msg", "failed to build cluster", "err", err)
		os.Exit(1)
	}

	// Interleave local increments with lossy exchange rounds, the way
	// concurrent writers race real gossip.
	rng := rand.New(rand.NewSource(cfg.RandSeed))
	var expected int64
	for i := 0; i < cfg.Increments; i++ {
		for _, id := range cluster.ReplicaIDs() {
			amount := rng.Int63n(3) + 1
			if err := cluster.Increment(id, amount); err != nil {
				level.Error(logger).Log("msg", "increment failed", "replica", id, "err", err)
				os.Exit(1)
			}
			expected += amount
		}
		if err := cluster.Step(); err != nil {
			level.Error(logger).Log("msg", "exchange round failed", "err", err)
			os.Exit(1)
		}
	}
	expected += seed.Total()

	rounds, err := cluster.Run(cfg.MaxRounds)
	if err != nil {
		level.Error(logger).Log("msg", "cluster did not converge", "err", err)
		os.Exit(1)
	}

	for _, id := range cluster.ReplicaIDs() {
		r := cluster.Replica(id)
		level.Info(logger).Log(
			"msg", "replica state",
			"replica", id,
			"state", r.Snapshot().String(),
			"value", r.Value(),
		)
	}
	level.Info(logger).Log(
		"msg", "run complete",
		"rounds", rounds,
		"expected_value", expected,
	)
}
