// matchsim simulates a football match tick by tick and records every
// decision the engine makes. Storage, metrics and the replay upload all
// hang off the same event stream the tick loop produces.
//
// Usage:
//
//	matchsim run            play a match using the configured lineups
//	matchsim export ID...   export stored matches to gzipped replay JSON
//	matchsim healthcheck    probe the web frontend
//
// Configuration is read from matchsim.cfg.json in the current directory,
// or the directory named by MATCHSIM_CONFIG_DIR.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/openfootball/matchsim/internal/api"
	"github.com/openfootball/matchsim/internal/channel"
	"github.com/openfootball/matchsim/internal/config"
	"github.com/openfootball/matchsim/internal/database"
	"github.com/openfootball/matchsim/internal/decision"
	"github.com/openfootball/matchsim/internal/dispatcher"
	"github.com/openfootball/matchsim/internal/handlers"
	"github.com/openfootball/matchsim/internal/influx"
	"github.com/openfootball/matchsim/internal/lineup"
	"github.com/openfootball/matchsim/internal/logging"
	"github.com/openfootball/matchsim/internal/match"
	"github.com/openfootball/matchsim/internal/matchctx"
	"github.com/openfootball/matchsim/internal/monitor"
	intotel "github.com/openfootball/matchsim/internal/otel"
	"github.com/openfootball/matchsim/internal/registry"
	"github.com/openfootball/matchsim/internal/storage"
	gormstorage "github.com/openfootball/matchsim/internal/storage/gorm"
	"github.com/openfootball/matchsim/internal/worker"
	"github.com/openfootball/matchsim/pkg/core"

	"github.com/rs/zerolog"
)

var (
	EngineVersion = "0.0.1"
	BuildDate     = "unknown"
)

type app struct {
	sessionStart time.Time

	slog *logging.SlogManager
	zlog zerolog.Logger
	otel *intotel.Provider

	registry *registry.PlayerRegistry
	matchCtx *matchctx.Context

	dispatcher *dispatcher.Dispatcher
	handlers   *handlers.Service
	events     channel.Channel[dispatcher.Event]
	worker     *worker.Manager
	backend    storage.Backend
	metrics    *influx.Manager
	monitor    *monitor.Service

	db *gorm.DB
}

func main() {
	args := os.Args[1:]
	command := "run"
	if len(args) > 0 {
		command = strings.ToLower(args[0])
		args = args[1:]
	}

	configDir := os.Getenv("MATCHSIM_CONFIG_DIR")
	if configDir == "" {
		configDir = "."
	}

	a, err := newApp(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}

	switch command {
	case "run":
		err = a.runMatch()
	case "export":
		if len(args) == 0 {
			err = fmt.Errorf("export needs at least one match id")
		} else {
			err = a.exportMatches(args)
		}
	case "healthcheck":
		client := api.New(viper.GetString("api.serverUrl"), viper.GetString("api.apiKey"))
		err = client.Healthcheck()
		if err == nil {
			fmt.Println("frontend reachable")
		}
	default:
		err = fmt.Errorf("unknown command %q", command)
	}

	a.shutdown()
	if err != nil {
		a.slog.Logger().Error("Command failed", "command", command, "error", err)
		os.Exit(1)
	}
}

// newApp loads config and sets up logging and observability. Services
// that depend on the storage backend are wired later, in runMatch.
func newApp(configDir string) (*app, error) {
	a := &app{
		sessionStart: time.Now(),
		slog:         logging.NewSlogManager(),
		registry:     registry.NewPlayerRegistry(),
		matchCtx:     matchctx.NewContext(),
	}
	a.slog.Setup(os.Stderr, "info", nil)

	if err := config.Load(configDir); err != nil {
		a.slog.Logger().Warn("Failed to load config, using defaults", "error", err)
	}

	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating logs dir: %w", err)
	}
	logPath := logging.LogFilePath(logsDir, "matchsim", a.sessionStart)
	logFile, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		a.otel, err = intotel.New(intotel.Config{
			Enabled:      otelCfg.Enabled,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    logFile,
			Endpoint:     otelCfg.Endpoint,
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			a.slog.Logger().Error("Failed to initialize OTel provider", "error", err)
			a.otel = nil
		}
	}

	if a.otel != nil {
		a.slog.Setup(logFile, viper.GetString("logLevel"), a.otel.LoggerProvider())
	} else {
		a.slog.Setup(logFile, viper.GetString("logLevel"), nil)
	}
	a.slog.Logger().Info("Logging to file", "path", logPath)

	a.zlog = zerolog.New(logFile).With().Timestamp().Logger()

	a.slog.Logger().Info("matchsim starting",
		"version", EngineVersion,
		"build", BuildDate,
	)
	return a, nil
}

// initServices wires the event path: dispatcher, storage backend,
// handlers, worker pump, metrics and the status monitor.
func (a *app) initServices() error {
	log := a.slog.Logger()

	d, err := dispatcher.New(logging.NewDispatcherLogger(a.zlog))
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}
	a.dispatcher = d

	storageCfg := config.GetStorageConfig()
	if storageCfg.Type == "postgres" {
		a.db, err = database.GetPostgresDBStandalone()
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
	}

	a.backend, err = newBackend(storageCfg, a)
	if err != nil {
		return fmt.Errorf("creating storage backend: %w", err)
	}
	if err := a.backend.Init(); err != nil {
		return fmt.Errorf("initializing storage backend: %w", err)
	}
	log.Info("Storage backend ready", "type", storageCfg.Type)

	a.handlers = handlers.NewService(handlers.Dependencies{
		Registry:   a.registry,
		LogManager: a.slog,
	}, a.matchCtx)
	a.handlers.SetBackend(a.backend)
	a.handlers.RegisterAll(a.dispatcher)

	// Stamp every log line with the fixture it belongs to.
	a.slog.SetContextProvider(func() []slog.Attr {
		return []slog.Attr{
			slog.Uint64("match_id", uint64(a.matchCtx.GetMatch().ID)),
			slog.Uint64("tick", a.matchCtx.Tick()),
		}
	})

	if viper.GetBool("influx.enabled") {
		backupPath := filepath.Join(viper.GetString("logsDir"),
			fmt.Sprintf("metrics_%s.lp.gz", a.sessionStart.Format("20060102_150405")))
		a.metrics = influx.NewManager(a.zlog, backupPath)
		if err := a.metrics.Connect(); err != nil {
			log.Warn("InfluxDB unavailable, metrics fall back to the backup file", "error", err)
		}
		a.metrics.CreateWriters()
		a.handlers.SetMetrics(a.metrics)
	}

	a.events = channel.New[dispatcher.Event](65536)
	a.worker = worker.NewManager(worker.Dependencies{
		LogManager: a.slog,
		Dispatcher: a.dispatcher,
		Events:     a.events,
	}, a.backend)

	monitorDeps := monitor.Dependencies{
		DB:              a.db,
		LogManager:      a.slog,
		MatchContext:    a.matchCtx,
		WorkerManager:   a.worker,
		StatusDir:       viper.GetString("logsDir"),
		IsDatabaseValid: func() bool { return a.db != nil },
	}
	if gb, ok := a.backend.(*gormstorage.Backend); ok {
		monitorDeps.QueueLengths = gb.QueueLengths
	}
	a.monitor = monitor.NewService(monitorDeps)

	if a.db != nil {
		if err := a.monitor.ValidateHypertables(map[string][]string{
			"player_states":   {"agent_id"},
			"decision_events": {"agent_id", "action_kind"},
		}); err != nil {
			log.Warn("Hypertable validation failed", "error", err)
		}
	}
	return nil
}

// newBackend builds the configured storage backend, injecting the shared
// postgres handle when one exists.
func newBackend(cfg config.StorageConfig, a *app) (storage.Backend, error) {
	if cfg.Type == "postgres" {
		return gormstorage.New(gormstorage.Dependencies{
			DB:         a.db,
			LogManager: a.slog,
		}), nil
	}
	return storage.NewBackend(cfg, a.slog)
}

// runMatch plays one full match and, for memory storage, uploads the
// exported replay to the frontend.
func (a *app) runMatch() error {
	if err := a.initServices(); err != nil {
		return err
	}
	log := a.slog.Logger()

	home, away, err := loadLineups()
	if err != nil {
		return err
	}
	id := uint(1)
	for _, sheet := range []core.TeamSheet{home, away} {
		for _, p := range sheet.Players {
			p.ID = id
			id++
			a.registry.Add(p)
		}
	}

	simCfg := config.GetSimulationConfig()
	m := core.Match{
		Competition:   viper.GetString("match.competition"),
		HomeTeam:      home.Name,
		AwayTeam:      away.Name,
		KickoffTime:   a.sessionStart,
		Seed:          simCfg.Seed,
		TickRate:      uint8(simCfg.TickRate),
		HalfTicks:     simCfg.HalfTicks,
		EngineVersion: EngineVersion,
		Tag:           viper.GetString("defaultTag"),
	}
	if name := viper.GetString("match.homeTeam"); name != "" {
		m.HomeTeam = name
	}
	if name := viper.GetString("match.awayTeam"); name != "" {
		m.AwayTeam = name
	}
	venue := core.Venue{Name: viper.GetString("match.venue")}

	runner, err := match.NewRunner(
		match.Dependencies{
			Log:      log,
			Registry: a.registry,
			Provider: match.NewDemoWorld(simCfg.Seed),
			Events:   a.events,
		},
		match.Config{
			TotalTicks: uint64(m.HalfTicks) * 2,
			Pipeline: decision.PipelineConfig{
				MinScoreThreshold: simCfg.MinScoreThreshold,
				TopNSelection:     1,
				DebugLogging:      simCfg.DebugDecisions,
			},
		},
		m, venue,
	)
	if err != nil {
		return err
	}

	a.worker.Start()
	if err := a.monitor.Start(); err != nil {
		log.Warn("Status monitor failed to start", "error", err)
	}

	result, err := runner.Run(context.Background())
	if err != nil {
		return err
	}

	// Let the pump drain the channel before closing the backend.
	a.events.Close()
	a.worker.Wait()
	a.monitor.Stop()

	log.Info("Full time",
		"score", fmt.Sprintf("%d-%d", result.HomeGoals, result.AwayGoals),
		"final_tick", result.FinalTick,
		"digest", result.FinalDigest,
	)

	if up, ok := a.backend.(storage.Uploadable); ok {
		if err := a.uploadReplay(up); err != nil {
			log.Warn("Replay upload failed", "error", err)
		}
	}
	return nil
}

// loadLineups parses the configured team sheet files, or falls back to
// the built-in demo squads.
func loadLineups() (home, away core.TeamSheet, err error) {
	homePath := viper.GetString("lineups.home")
	awayPath := viper.GetString("lineups.away")
	if homePath == "" || awayPath == "" {
		home, away = match.DemoTeamSheets()
		return home, away, nil
	}

	home, err = lineup.ParseFile(homePath, core.SideHome)
	if err != nil {
		return home, away, fmt.Errorf("home lineup: %w", err)
	}
	away, err = lineup.ParseFile(awayPath, core.SideAway)
	if err != nil {
		return home, away, fmt.Errorf("away lineup: %w", err)
	}
	return home, away, nil
}

func (a *app) uploadReplay(up storage.Uploadable) error {
	path := up.GetExportedFilePath()
	if path == "" {
		return nil
	}
	client := api.New(viper.GetString("api.serverUrl"), viper.GetString("api.apiKey"))
	if err := client.Healthcheck(); err != nil {
		return fmt.Errorf("frontend unreachable: %w", err)
	}
	meta := up.GetExportMetadata()
	if err := client.Upload(path, meta); err != nil {
		return err
	}
	a.slog.Logger().Info("Replay uploaded", "path", path, "match", meta.MatchName)
	return nil
}

func (a *app) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			a.slog.Logger().Error("Backend close failed", "error", err)
		}
	}
	if a.metrics != nil {
		a.metrics.Close()
	}
	if a.otel != nil {
		_ = a.otel.Flush(ctx)
		_ = a.otel.Shutdown(ctx)
	}
	_ = a.slog.Flush(ctx)
}
