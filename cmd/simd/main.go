// Package main provides the simulation runner binary. It seats one player
// at a table, drives the session from a built-in strategy, a Lua script,
// or a YAML command file, and reports a run summary on stdout.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/craps/internal/config"
	"github.com/cory-johannsen/craps/internal/game/command"
	"github.com/cory-johannsen/craps/internal/game/craps"
	"github.com/cory-johannsen/craps/internal/game/dice"
	"github.com/cory-johannsen/craps/internal/game/session"
	"github.com/cory-johannsen/craps/internal/game/strategy"
	"github.com/cory-johannsen/craps/internal/observability"
	"github.com/cory-johannsen/craps/internal/scripting"
	"github.com/cory-johannsen/craps/internal/server"
	"github.com/cory-johannsen/craps/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty = built-in defaults")
	seed := flag.Int64("seed", 0, "dice RNG seed (overrides config)")
	strategyName := flag.String("strategy", "", "built-in strategy name (overrides config)")
	scriptPath := flag.String("script", "", "path to a Lua strategy script (overrides config)")
	commandFile := flag.String("commands", "", "path to a YAML command file (overrides config)")
	maxRolls := flag.Int("rolls", 0, "stop after this many rolls (overrides config)")
	maxShooters := flag.Int("shooters", 0, "stop after this many shooters (overrides config)")
	record := flag.Bool("record", false, "persist events and snapshots to PostgreSQL")
	flag.Parse()

	ctx := context.Background()

	var cfg config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadFromViper(config.Defaults())
	}
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Sim.Seed = *seed
		case "strategy":
			cfg.Sim.Strategy = *strategyName
		case "script":
			cfg.Sim.ScriptPath = *scriptPath
		case "commands":
			cfg.Sim.CommandFile = *commandFile
		case "rolls":
			cfg.Sim.MaxRolls = *maxRolls
		case "shooters":
			cfg.Sim.MaxShooters = *maxShooters
		case "record":
			cfg.Sim.Record = *record
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	d := dice.NewSeeded(cfg.Sim.Seed)
	table := craps.NewTable(d, cfg.Table, logger)
	player := craps.NewPlayer("simd", cfg.Sim.Bankroll, cfg.Sim.Unit)
	table.AddPlayer(player)

	logger.Info("starting simulation",
		zap.Int64("seed", cfg.Sim.Seed),
		zap.Float64("bankroll", cfg.Sim.Bankroll),
		zap.Int("max_rolls", cfg.Sim.MaxRolls),
		zap.Int("max_shooters", cfg.Sim.MaxShooters),
	)

	// Attach the player's strategy: a Lua script wins over a built-in name.
	switch {
	case cfg.Sim.ScriptPath != "":
		strat, err := scripting.NewLuaStrategy(cfg.Sim.ScriptPath, cfg.Sim.ScriptInstLimit, logger)
		if err != nil {
			logger.Fatal("loading strategy script",
				zap.String("path", cfg.Sim.ScriptPath), zap.Error(err))
		}
		defer strat.Close()
		player.Strategy = strat
		logger.Info("strategy script loaded", zap.String("path", cfg.Sim.ScriptPath))
	case cfg.Sim.Strategy != "":
		strat, err := strategy.Lookup(cfg.Sim.Strategy, cfg.Sim.Unit)
		if err != nil {
			logger.Fatal("resolving strategy", zap.Error(err))
		}
		player.Strategy = strat
		logger.Info("built-in strategy selected", zap.String("name", cfg.Sim.Strategy))
	case cfg.Sim.CommandFile == "":
		logger.Fatal("nothing to run: configure a strategy, script, or command file")
	}

	sessionID := uuid.NewString()
	opts := []session.Option{
		session.WithID(sessionID),
		session.WithLogger(logger),
	}

	// The recorder is optional; without it the run only reports a summary.
	var runStore *postgres.RunStore
	var runID int64
	if cfg.Sim.Record {
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)

		runStore = postgres.NewRunStore(pool.DB())
		run, err := runStore.Create(ctx, sessionID, cfg.Sim.Seed, cfg.Sim.Strategy, cfg.Sim.Bankroll)
		if err != nil {
			logger.Fatal("creating run record", zap.Error(err))
		}
		runID = run.ID
		rec := postgres.NewRecorder(ctx, runID,
			postgres.NewEventStore(pool.DB()),
			postgres.NewSnapshotStore(pool.DB()),
		)
		opts = append(opts, session.WithRecorder(rec))
	}

	sess := session.New(table, player, opts...)

	runner := &simRunner{
		sess:   sess,
		cfg:    cfg.Sim,
		logger: logger,
	}
	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("simulation", runner)

	runErr := lifecycle.Run(ctx)

	summary := sess.Summary()
	if runStore != nil {
		if err := runStore.Finish(ctx, runID, summary); err != nil {
			logger.Error("finishing run record", zap.Error(err))
		}
	}
	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		logger.Fatal("encoding summary", zap.Error(err))
	}
	fmt.Println(string(out))

	logger.Info("simulation complete",
		zap.Int("rolls", summary.Rolls),
		zap.Int("hands", summary.Hands),
		zap.Float64("net", summary.Net),
		zap.Duration("elapsed", time.Since(start)),
	)
	if runErr != nil {
		os.Exit(1)
	}
}

// simRunner drives one session to completion. It satisfies server.Service
// so the lifecycle can interrupt a long run on SIGINT.
type simRunner struct {
	sess    *session.Session
	cfg     config.SimConfig
	logger  *zap.Logger
	stopped atomic.Bool
}

func (r *simRunner) Start() error {
	if r.cfg.CommandFile != "" {
		return r.replayCommands()
	}
	return r.rollLoop()
}

func (r *simRunner) Stop() { r.stopped.Store(true) }

// rollLoop rolls until a stop condition fires: the roll or shooter cap,
// the player going broke, or an external stop. With runout set, rolling
// continues past the cap until the layout is clear.
func (r *simRunner) rollLoop() error {
	table := r.sess.Table()
	player := r.sess.Player()
	roll := &command.Envelope{Verb: "roll"}
	for !r.stopped.Load() {
		capped := (r.cfg.MaxRolls > 0 && table.Dice.NRolls >= r.cfg.MaxRolls) ||
			(r.cfg.MaxShooters > 0 && table.NShooters > r.cfg.MaxShooters) ||
			player.Bankroll < player.Unit
		if capped {
			if !r.cfg.Runout || len(player.Bets) == 0 {
				return nil
			}
		}
		if _, err := r.sess.Apply(roll); err != nil {
			return fmt.Errorf("roll %d: %w", table.Dice.NRolls+1, err)
		}
	}
	return nil
}

// replayCommands applies every envelope from the YAML command file in
// order. Classified faults are reported and skipped so a bad bet does not
// abort a backtest; anything else stops the run.
func (r *simRunner) replayCommands() error {
	envs, err := loadCommandFile(r.cfg.CommandFile)
	if err != nil {
		return err
	}
	r.logger.Info("replaying command file",
		zap.String("path", r.cfg.CommandFile),
		zap.Int("commands", len(envs)),
	)
	for i := range envs {
		if r.stopped.Load() {
			return nil
		}
		if _, err := r.sess.Apply(&envs[i]); err != nil {
			var fault *craps.Fault
			if !errors.As(err, &fault) {
				return fmt.Errorf("command %d (%s): %w", i+1, envs[i].Verb, err)
			}
			env := r.sess.Errorf(err)
			r.logger.Warn("command rejected",
				zap.Int("index", i+1),
				zap.String("verb", envs[i].Verb),
				zap.String("code", env.Code),
				zap.String("hint", env.Hint),
			)
		}
	}
	return nil
}

// loadCommandFile parses a YAML list of command envelopes.
func loadCommandFile(path string) ([]command.Envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading command file: %w", err)
	}
	var envs []command.Envelope
	if err := yaml.Unmarshal(data, &envs); err != nil {
		return nil, fmt.Errorf("parsing command file %s: %w", path, err)
	}
	return envs, nil
}
