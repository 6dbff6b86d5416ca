// Package main provides the combat server binary: it loads game content,
// wires the combat engine behind a Telnet session layer, and serves a gRPC
// health endpoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/cory-johannsen/duelcore/internal/config"
	"github.com/cory-johannsen/duelcore/internal/frontend/handlers"
	"github.com/cory-johannsen/duelcore/internal/frontend/telnet"
	"github.com/cory-johannsen/duelcore/internal/game/combat"
	"github.com/cory-johannsen/duelcore/internal/game/command"
	"github.com/cory-johannsen/duelcore/internal/game/dice"
	"github.com/cory-johannsen/duelcore/internal/game/npc"
	"github.com/cory-johannsen/duelcore/internal/game/roster"
	"github.com/cory-johannsen/duelcore/internal/game/ruleset"
	"github.com/cory-johannsen/duelcore/internal/game/skill"
	"github.com/cory-johannsen/duelcore/internal/game/world"
	"github.com/cory-johannsen/duelcore/internal/observability"
	"github.com/cory-johannsen/duelcore/internal/scripting"
	"github.com/cory-johannsen/duelcore/internal/server"
	"github.com/cory-johannsen/duelcore/internal/storage/postgres"
	"github.com/cory-johannsen/duelcore/internal/storage/sqlite"
)

const healthService = "duelcore.Combat"

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	scriptLimit := flag.Int("script-limit", scripting.DefaultInstructionLimit, "Lua instruction limit per hook call")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, cfg.Server.Name)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	diceRoller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)

	logger.Info("starting combat server",
		zap.String("grpc_addr", cfg.GameServer.Addr()),
		zap.String("telnet_addr", cfg.Telnet.Addr()),
		zap.String("storage", cfg.Storage.Driver),
	)

	// Content
	contentStart := time.Now()
	jobs, err := loadJobs(cfg.Content.JobsDir)
	if err != nil {
		logger.Fatal("loading jobs", zap.Error(err))
	}
	jobRegistry := ruleset.NewJobRegistry(jobs...)

	skills, err := skill.LoadDirectory(cfg.Content.SkillsDir)
	if err != nil {
		logger.Fatal("loading skills", zap.Error(err))
	}

	templates, err := npc.LoadTemplates(cfg.Content.MonstersDir)
	if err != nil {
		logger.Fatal("loading monster templates", zap.Error(err))
	}

	lobby, err := world.LoadLobbyFromFile(cfg.Content.WorldFile)
	if err != nil {
		logger.Fatal("loading world", zap.Error(err))
	}
	worldMgr, err := world.NewManager(lobby)
	if err != nil {
		logger.Fatal("creating world manager", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("jobs", len(jobs)),
		zap.Int("skills", len(skills.All())),
		zap.Int("monsters", len(templates)),
		zap.Int("dungeons", len(worldMgr.Dungeons())),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	// Characters
	lifecycle := server.NewLifecycle(logger)

	store, err := openStore(ctx, cfg, logger, lifecycle)
	if err != nil {
		logger.Fatal("opening character store", zap.Error(err))
	}

	stored, err := store.Count(ctx)
	if err != nil {
		logger.Fatal("counting characters", zap.Error(err))
	}
	logger.Info("character store ready", zap.Int("characters", stored))

	rosterMgr := roster.NewManager()

	saver := roster.NewSaver(store, logger, cfg.GameServer.SaveInterval)
	saverCtx, stopSaver := context.WithCancel(ctx)
	saverDone := make(chan struct{})
	lifecycle.Add("saver", &server.FuncService{
		StartFn: func() error {
			defer close(saverDone)
			return saver.Run(saverCtx)
		},
		StopFn: func() {
			stopSaver()
			<-saverDone
		},
	})

	// Monsters
	npcMgr := npc.NewManager()
	spawner := npc.NewSpawner(npcMgr, templates, worldMgr, rosterMgr.Occupied, diceRoller, logger)
	for _, mp := range worldMgr.Dungeons() {
		entries := make([]npc.SpawnEntry, 0, len(mp.Dungeon.Monsters))
		for _, dm := range mp.Dungeon.Monsters {
			entries = append(entries, npc.SpawnEntry{TemplateID: dm.TemplateID, Rate: dm.Rate})
		}
		spawner.Configure(mp.ID, npc.MapSpawn{MaxMonsters: mp.Dungeon.MaxMonsters, Entries: entries})
	}

	// Scripting
	deps := combat.Deps{
		Roster:   rosterMgr,
		Skills:   skills,
		Jobs:     jobRegistry,
		Maps:     worldMgr,
		Monsters: npcMgr,
		Spawner:  spawner,
		Dice:     diceRoller,
		Persist:  saver,
		Logger:   logger,
	}
	if dir := cfg.Content.ScriptDir; dir != "" {
		if _, statErr := os.Stat(dir); statErr == nil {
			scriptMgr := scripting.NewManager(diceRoller, logger)
			if err := scriptMgr.Load(dir, *scriptLimit); err != nil {
				logger.Fatal("loading combat scripts", zap.Error(err))
			}
			defer scriptMgr.Close()
			deps.Hooks = scriptMgr
		} else {
			logger.Info("script dir not found; scripting disabled", zap.String("dir", dir))
		}
	}

	engine := combat.NewEngine(deps)

	// Sessions
	hub := handlers.NewHub(logger)
	sessions := handlers.NewSessionHandler(handlers.Deps{
		Roster:     rosterMgr,
		Characters: store,
		Jobs:       jobRegistry,
		Places:     worldMgr,
		Commands:   command.NewDispatcher(command.DefaultRegistry(), engine, command.NewReport(rosterMgr, jobRegistry, skills, worldMgr, npcMgr), logger),
		Combat:     engine,
		Persist:    saver,
		Hub:        hub,
		Logger:     logger,
	})
	// Added after the saver so sessions drain their final snapshots into it
	// before it flushes.
	lifecycle.Add("telnet", telnet.NewAcceptor(cfg.Telnet, sessions, logger))

	// Health
	healthSrv := health.NewServer()
	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)

	lifecycle.Add("grpc", &server.FuncService{
		StartFn: func() error {
			lis, err := net.Listen("tcp", cfg.GameServer.Addr())
			if err != nil {
				return fmt.Errorf("listening on %s: %w", cfg.GameServer.Addr(), err)
			}
			healthSrv.SetServingStatus(healthService, healthpb.HealthCheckResponse_SERVING)
			logger.Info("gRPC health endpoint listening",
				zap.String("addr", lis.Addr().String()),
			)
			return grpcServer.Serve(lis)
		},
		StopFn: func() {
			healthSrv.Shutdown()
			grpcServer.GracefulStop()
		},
	})

	logger.Info("combat server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("telnet_addr", cfg.Telnet.Addr()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("server exited with error", zap.Error(err))
		os.Exit(1)
	}
}

// loadJobs reads job definitions from dir, falling back to the built-in jobs
// when dir is empty or missing.
func loadJobs(dir string) ([]*ruleset.Job, error) {
	if dir == "" {
		return ruleset.DefaultJobs(), nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return ruleset.DefaultJobs(), nil
	}
	return ruleset.LoadJobs(dir)
}

// characterStore is implemented by both storage backends.
type characterStore interface {
	roster.Store
	Count(ctx context.Context) (int, error)
}

// openStore connects the configured character store and registers its
// teardown with lifecycle.
//
// Postcondition: Returns a ready store or a non-nil error.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger, lifecycle *server.Lifecycle) (characterStore, error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		st, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("sqlite store opened", zap.String("path", cfg.Storage.SQLitePath))
		lifecycle.Add("sqlite", closer(func() {
			if err := st.Close(); err != nil {
				logger.Warn("closing sqlite store", zap.Error(err))
			}
		}))
		return st, nil
	default:
		pool, err := postgres.Connect(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		lifecycle.Add("database", pool)
		return pool.Characters(), nil
	}
}

// closer is a Service that idles until stopped, then runs release.
func closer(release func()) server.Service {
	done := make(chan struct{})
	return &server.FuncService{
		StartFn: func() error {
			<-done
			return nil
		},
		StopFn: func() {
			close(done)
			release()
		},
	}
}
