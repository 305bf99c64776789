package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zeusync/arena/internal/arena"
	"github.com/zeusync/arena/internal/config"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/debug"
	"github.com/zeusync/arena/internal/injector"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "engine config (TOML); built-in defaults when empty")
	scenarioPath := flag.String("scenario", "", "scenario file (YAML)")
	watch := flag.Bool("watch", false, "reload the config file when it changes")
	flag.Parse()

	if *scenarioPath == "" {
		return errors.New("-scenario is required")
	}

	cfg := config.Defaults()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	svc, err := injector.InitializeServices(cfg)
	if err != nil {
		return fmt.Errorf("init services: %w", err)
	}
	defer func() { _ = svc.Log.Sync() }()

	sc, err := config.LoadScenarioFile(*scenarioPath)
	if err != nil {
		return err
	}
	world, err := arena.New(cfg, sc, arena.Deps{Log: svc.Log, Bus: svc.Bus, Metrics: svc.Metrics})
	if err != nil {
		return fmt.Errorf("build world: %w", err)
	}
	defer func() { _ = world.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var inspector *debug.Server
	if cfg.Debug.Enabled {
		inspector = debug.New(debug.Config{
			Addr:         cfg.Debug.Listen,
			WriteTimeout: cfg.Debug.WriteTimeout,
			Gatherer:     svc.Prometheus,
			Log:          svc.Log,
		})
		if err := inspector.Start(); err != nil {
			return fmt.Errorf("start debug server: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := inspector.Stop(shutdownCtx); err != nil {
				svc.Log.Warn("debug server shutdown", log.Error(err))
			}
		}()
	}

	// reloads hand validated configs to the simulation goroutine; only the
	// newest pending one is kept
	reloads := make(chan *config.Config, 1)
	if *watch && *configPath != "" {
		go func() {
			err := config.Watch(ctx, *configPath, svc.Log, func(c *config.Config) {
				select {
				case <-reloads:
				default:
				}
				reloads <- c
			})
			if err != nil {
				svc.Log.Warn("config watch stopped", log.Error(err))
			}
		}()
	}

	svc.Log.Info("simulation starting",
		log.String("scenario", sc.Name),
		log.Int("tick_rate", cfg.Simulation.TickRate),
		log.Uint64("max_ticks", cfg.Simulation.MaxTicks),
	)

	err = world.Run(ctx, func(tick uint64) {
		select {
		case c := <-reloads:
			applyReload(svc.Log, world, c)
		default:
		}
		if inspector != nil {
			inspector.Broadcast(debug.Frame{
				Tick:        tick,
				Time:        world.Clock().Now().Seconds(),
				Controllers: world.Snapshot(),
			})
		}
	})
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	svc.Log.Info("simulation finished",
		log.Uint64("ticks", world.Runner().Ticks()),
		log.Duration("sim_time", world.Clock().Now()),
	)
	return err
}

func applyReload(logger *log.Logger, world *arena.World, c *config.Config) {
	if level, err := log.ParseLevel(c.Logging.Level); err == nil {
		logger.SetLevel(level)
	}
	world.ApplyAIConfig(c.AI)
	logger.Info("applied config reload", log.Stringer("level", logger.GetLevel()))
}
