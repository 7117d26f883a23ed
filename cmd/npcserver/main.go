package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/Auriosi/AuriNPC/internal/ai"
	"github.com/Auriosi/AuriNPC/internal/config"
	"github.com/Auriosi/AuriNPC/internal/db"
	"github.com/Auriosi/AuriNPC/internal/interact"
	"github.com/Auriosi/AuriNPC/internal/registry"
	"github.com/Auriosi/AuriNPC/internal/scripting"
	"github.com/Auriosi/AuriNPC/internal/skin"
	"github.com/Auriosi/AuriNPC/internal/spawn"
	"github.com/Auriosi/AuriNPC/internal/world"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load config FIRST to determine log level
	cfgPath := config.Path()
	cfg, err := config.LoadServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("aurinpc starting",
		"config", cfgPath,
		"log_level", cfg.LogLevel,
		"tick_interval", cfg.TickInterval,
		"default_shard", cfg.DefaultShard)

	// Preset sources: inline config first, database on top if enabled
	repos := spawn.MultiRepo{spawn.NewConfigPresetRepo(cfg.Presets)}
	if cfg.Database.Enabled {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		version, err := db.RunMigrations(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied", "version", version)

		repos = append(repos, database.Presets())
	}

	var skins spawn.SkinResolver
	if cfg.Redis.Enabled {
		client, err := skin.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer client.Close()

		catalog := skin.NewCatalog(client, cfg.Redis.KeyPrefix)
		if err := catalog.Seed(ctx, cfg.Redis.Skins); err != nil {
			return fmt.Errorf("seeding skin catalog: %w", err)
		}
		slog.Info("skin catalog ready", "addr", cfg.Redis.Addr, "seeded", len(cfg.Redis.Skins))
		skins = catalog
	}

	var scripts spawn.InteractBinder
	if cfg.ScriptsDir != "" {
		engine, err := scripting.NewEngine(cfg.ScriptsDir)
		if err != nil {
			return fmt.Errorf("loading scripts: %w", err)
		}
		defer engine.Close()
		scripts = engine
	}

	// World host and NPC core
	w := world.NewMemoryWorld()
	for _, name := range cfg.AllShards() {
		w.CreateShard(name)
	}

	reg := registry.New()
	if err := reg.Attach(w); err != nil {
		return fmt.Errorf("attaching registry: %w", err)
	}
	dispatcher := interact.NewDispatcher(reg)
	if err := dispatcher.Attach(w); err != nil {
		return fmt.Errorf("attaching interact dispatcher: %w", err)
	}

	respawnMgr := spawn.NewRespawnTaskManager(cfg.RespawnResolution)
	spawnMgr := spawn.NewManager(repos, reg, shardLookup(w), respawnMgr, skins, scripts)
	spawnMgr.SetDefaultShard(cfg.DefaultShard)

	if err := spawnMgr.LoadPresets(ctx); err != nil {
		return fmt.Errorf("loading presets: %w", err)
	}
	spawned, err := spawnMgr.SpawnAll(ctx)
	if err != nil {
		// Partial failures are not fatal: the rest of the presets are live.
		slog.Warn("some presets failed to spawn", "err", err)
	}
	slog.Info("npcs spawned", "count", spawned, "presets", spawnMgr.PresetCount())

	g, gctx := errgroup.WithContext(ctx)

	tickMgr := ai.NewTickManager(reg, cfg.TickInterval)
	g.Go(func() error {
		slog.Info("starting tick manager", "interval", tickMgr.Interval())
		if err := tickMgr.Start(gctx); err != nil {
			return fmt.Errorf("tick manager: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("starting respawn manager", "resolution", cfg.RespawnResolution)
		if err := respawnMgr.Start(gctx); err != nil {
			return fmt.Errorf("respawn manager: %w", err)
		}
		return nil
	})

	err = g.Wait()

	removed := reg.RemoveAll()
	handled, ignored := dispatcher.Stats()
	slog.Info("aurinpc stopped",
		"npcs_removed", removed,
		"ticks", tickMgr.TickCount(),
		"tick_panics", tickMgr.PanicCount(),
		"interactions_handled", handled,
		"interactions_ignored", ignored)
	return err
}

// shardLookup adapts the in-memory world to the spawn manager.
func shardLookup(w *world.MemoryWorld) spawn.ShardLookup {
	return func(name string) (world.Shard, error) {
		s, err := w.ShardByName(name)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
