// Command sentinel runs the native situational-awareness client: it
// polls the C2 feed into the entity world, renders the globe and dock
// shell at a fixed cadence, and optionally mirrors the view to a remote
// viewer server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/sentinelc2/client/internal/cache"
	"github.com/sentinelc2/client/internal/config"
	"github.com/sentinelc2/client/internal/database"
	"github.com/sentinelc2/client/internal/dispatcher"
	"github.com/sentinelc2/client/internal/feed"
	"github.com/sentinelc2/client/internal/frame"
	"github.com/sentinelc2/client/internal/influx"
	"github.com/sentinelc2/client/internal/logging"
	"github.com/sentinelc2/client/internal/model"
	"github.com/sentinelc2/client/internal/monitor"
	intOtel "github.com/sentinelc2/client/internal/otel"
	"github.com/sentinelc2/client/internal/render"
	"github.com/sentinelc2/client/internal/storage"
	"github.com/sentinelc2/client/internal/storage/websocket"
	"github.com/sentinelc2/client/internal/tiles"
	"github.com/sentinelc2/client/internal/ui"
	"github.com/sentinelc2/client/internal/world"
	"github.com/sentinelc2/client/pkg/core"
)

// Version and BuildDate can be set at build time via ldflags.
var (
	Version   = "0.0.1"
	BuildDate = "unknown"

	ClientName = "sentinel_client"
)

var (
	SessionStartTime = time.Now()
	SessionDir       string
	LogFilePath      string
	LogFile          *os.File

	SlogManager  *logging.SlogManager
	Logger       *slog.Logger
	OTelProvider *intOtel.Provider

	// set once the frame loop exists; the logging context provider and
	// status monitor read it
	mainLoop  *frame.Loop
	sessionID uint
)

// setup initializes config, session directories and logging. Fatal
// problems here end the process; everything later degrades gracefully.
func setup() error {
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(os.Stderr, "info", nil, nil)
	Logger = SlogManager.Logger()

	if err := config.Load("."); err != nil {
		Logger.Warn("Failed to load config, using defaults", "error", err)
	} else {
		Logger.Info("Loaded config")
	}

	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}
	SessionDir = filepath.Join(logsDir, "session_"+SessionStartTime.Format("20060102_150405"))
	if err := os.MkdirAll(SessionDir, 0755); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}

	var err error
	LogFilePath = logging.LogFilePath(SessionDir, ClientName, SessionStartTime)
	LogFile, err = os.OpenFile(LogFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}

	if viper.GetBool("otel.enabled") {
		OTelProvider, err = intOtel.New(intOtel.Config{
			Enabled:     true,
			ServiceName: ClientName,
			LogWriter:   LogFile,
			Endpoint:    viper.GetString("otel.endpoint"),
			Insecure:    viper.GetBool("otel.insecure"),
		})
		if err != nil {
			Logger.Error("Failed to initialize OTel provider", "error", err)
		}
	}

	var otelLogProvider *sdklog.LoggerProvider
	if OTelProvider != nil {
		otelLogProvider = OTelProvider.LoggerProvider()
	}
	SlogManager.Setup(LogFile, viper.GetString("logLevel"), otelLogProvider, func() []slog.Attr {
		attrs := []slog.Attr{slog.Uint64("sessionId", uint64(sessionID))}
		if mainLoop != nil {
			attrs = append(attrs, slog.Uint64("frame", mainLoop.Frames()))
		}
		return attrs
	})
	Logger = SlogManager.Logger()
	Logger.Info("Logging to file", "path", LogFilePath, "version", Version, "build", BuildDate)
	return nil
}

// registerControlHandlers bridges dispatcher commands into frame loop
// events so remote control and the feed share one entry point.
func registerControlHandlers(d *dispatcher.Dispatcher, loop *frame.Loop) {
	d.Register(dispatcher.CmdFocusEntity, func(e dispatcher.Event) (any, error) {
		id, ok := e.Payload.(core.EntityID)
		if !ok {
			return nil, fmt.Errorf("unexpected payload type %T", e.Payload)
		}
		loop.Enqueue(frame.FocusEvent{ID: id})
		return "queued", nil
	})
	d.Register(dispatcher.CmdSetLayer, func(e dispatcher.Event) (any, error) {
		ev, ok := e.Payload.(frame.LayerEvent)
		if !ok {
			return nil, fmt.Errorf("unexpected payload type %T", e.Payload)
		}
		loop.Enqueue(ev)
		return "queued", nil
	})
	d.Register(dispatcher.CmdSeedWorld, func(e dispatcher.Event) (any, error) {
		count, ok := e.Payload.(int)
		if !ok {
			return nil, fmt.Errorf("unexpected payload type %T", e.Payload)
		}
		loop.Enqueue(frame.SeedEvent{Count: count})
		return "queued", nil
	})
	d.Register(dispatcher.CmdResetWorld, func(e dispatcher.Event) (any, error) {
		loop.Enqueue(frame.ResetEvent{})
		return "queued", nil
	})
}

func main() {
	if err := setup(); err != nil {
		fmt.Fprintf(os.Stderr, "setup failed: %v\n", err)
		os.Exit(1)
	}
	// run owns all teardown defers so they fire before the exit code is
	// decided. A frame loop failure (lost surface, sink error) exits 1;
	// a signal-driven shutdown exits 0.
	if err := run(); err != nil {
		Logger.Error("Client stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	defer LogFile.Close()

	zlog := zerolog.New(LogFile).With().Timestamp().Logger()

	// Session bookkeeping database. A broken database never stops the
	// client, it just loses session rows.
	dbManager := database.NewManager(zlog)
	if err := dbManager.Connect(filepath.Join(SessionDir, "session.db")); err != nil {
		Logger.Error("Session database unavailable", "error", err)
	} else if err := dbManager.Setup(); err != nil {
		Logger.Error("Session database migration failed", "error", err)
	} else {
		session := model.SessionInfo{
			ClientName: ClientName,
			StartedAt:  SessionStartTime,
			SeedCount:  viper.GetInt("seedCount"),
			FeedURL:    viper.GetString("feed.serverUrl"),
		}
		if err := dbManager.DB.Create(&session).Error; err != nil {
			Logger.Error("Failed to create session row", "error", err)
		} else {
			sessionID = session.ID
		}
	}
	defer dbManager.Close()

	// Durable tile store behind the in-memory cache.
	var persistent tiles.PersistentStore
	store, err := storage.NewStore(storage.Config{
		Type:         viper.GetString("storage.type"),
		SqlitePath:   viper.GetString("storage.sqlite.path"),
		DumpInterval: 3 * time.Minute,
	}, SlogManager)
	if err != nil {
		Logger.Error("Tile store unavailable, running cache-only", "error", err)
	} else if err := store.Init(); err != nil {
		Logger.Error("Tile store init failed, running cache-only", "error", err)
		store = nil
	}
	if store != nil {
		persistent = store
		defer store.Close()
	}

	tileCache := cache.NewTileCache(viper.GetInt64("tiles.cacheCapBytes"))
	fetcher := tiles.NewFetcher(tiles.FetcherOptions{
		Timeout:  time.Duration(viper.GetInt("tiles.fetchTimeoutMs")) * time.Millisecond,
		Insecure: viper.GetBool("tiles.insecure"),
	}, tileCache, persistent, Logger)

	provider := tiles.Provider{
		ID:              "default",
		BaseTemplate:    viper.GetString("tiles.base"),
		WeatherTemplate: viper.GetString("tiles.weather"),
		SeaTemplate:     viper.GetString("tiles.sea"),
	}
	pipeline := tiles.New(tiles.Options{
		Provider:     provider,
		MaxFetchZoom: viper.GetInt("tiles.maxFetchZoom"),
		LayerSize:    viper.GetInt("tiles.layerSize"),
		StallAfter:   time.Duration(viper.GetInt("tiles.stallAfterMs")) * time.Millisecond,
	}, fetcher, tileCache, Logger)
	defer pipeline.Close()

	globeRadius := viper.GetFloat64("render.globeRadius")
	entityWorld := world.New(globeRadius)
	if seed := viper.GetInt("seedCount"); seed > 0 {
		entityWorld.Seed(seed)
		Logger.Info("Seeded world", "count", seed)
	}

	renderer := render.New(render.Options{
		GlobeRadius:  globeRadius,
		Subdivisions: viper.GetInt("render.subdivisions"),
		LayerSize:    viper.GetInt("tiles.layerSize"),
		ViewportW:    640,
		ViewportH:    480,
	})
	renderer.Camera.FovY = viper.GetFloat64("render.fovYDeg") * math.Pi / 180

	shell := ui.NewShell(ui.Metrics{
		PanelWidth:      viper.GetInt("ui.panelWidth"),
		InspectorHeight: viper.GetInt("ui.inspectorHeight"),
		Scale:           viper.GetFloat64("ui.scale"),
	}, 1280, 800)

	// Remote viewer sink, when enabled. The client runs headless either
	// way; without a sink frames are rendered and dropped.
	var sink frame.Sink
	if viper.GetBool("viewer.enabled") {
		viewer := websocket.New(websocket.Config{
			URL:        viper.GetString("viewer.url"),
			Secret:     viper.GetString("viewer.secret"),
			ClientName: ClientName,
			Version:    Version,
			Tenant:     viper.GetString("feed.tenant"),
			SessionID:  fmt.Sprintf("%d", sessionID),
		}, entityWorld, Logger)
		if err := viewer.Init(); err != nil {
			Logger.Error("Viewer connection failed, running without sink", "error", err)
		} else {
			sink = viewer
			defer viewer.Close()
		}
	}

	loop := frame.NewLoop(frame.Dependencies{
		World:    entityWorld,
		Pipeline: pipeline,
		Renderer: renderer,
		Shell:    shell,
		Sink:     sink,
		Logger:   Logger,
	})
	mainLoop = loop

	eventDispatcher, err := dispatcher.New(logging.NewDispatcherLogger(zlog))
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}
	feed.RegisterWorldHandlers(eventDispatcher, entityWorld,
		dispatcher.Buffered(256), dispatcher.Logged())
	registerControlHandlers(eventDispatcher, loop)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var poller *feed.Poller
	if viper.GetBool("feed.enabled") {
		client := feed.New(
			viper.GetString("feed.serverUrl"),
			viper.GetString("feed.apiKey"),
			viper.GetString("feed.tenant"),
		)
		if err := client.Healthcheck(); err != nil {
			Logger.Info("C2 API is offline, polling will retry", "error", err)
		} else {
			Logger.Info("C2 API is online")
		}
		poller = feed.NewPoller(client, eventDispatcher, nil,
			time.Duration(viper.GetInt("feed.pollIntervalMs"))*time.Millisecond, Logger)
		poller.Start(ctx)
		defer poller.Stop()
	}

	var influxManager *influx.Manager
	if viper.GetBool("influx.enabled") {
		influxManager = influx.NewManager(zlog, filepath.Join(SessionDir, "influx_backup.gz"))
		if err := influxManager.Connect(); err != nil {
			Logger.Error("InfluxDB connection failed", "error", err)
			influxManager = nil
		}
	}

	monitorService := monitor.NewService(monitor.Dependencies{
		LogManager: SlogManager,
		Loop:       loop,
		World:      entityWorld,
		Influx:     influxManager,
		Poller:     poller,
		Tiles:      pipeline,
		DB:         dbManager.DB,
		SessionID:  sessionID,
		SessionDir: SessionDir,
	})
	monitorService.Start()
	defer monitorService.Stop()

	// First mosaic request plus overlay toggles for served kinds.
	loop.Enqueue(frame.TileRequestEvent{
		Zoom:         viper.GetInt("tiles.maxFetchZoom"),
		WeatherField: viper.GetString("tiles.weatherField"),
		SeaField:     viper.GetString("tiles.seaField"),
	})
	if provider.WeatherTemplate != "" {
		loop.Enqueue(frame.LayerEvent{Kind: core.TileWeather, State: render.LayerState{Enabled: true, Opacity: 0.85}})
	}
	if provider.SeaTemplate != "" {
		loop.Enqueue(frame.LayerEvent{Kind: core.TileSea, State: render.LayerState{Enabled: true, Opacity: 0.7}})
	}

	Logger.Info("Starting frame loop", "targetFps", viper.GetInt("frame.targetFps"))
	runErr := loop.Run(ctx, viper.GetInt("frame.targetFps"))
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}
	if runErr != nil {
		Logger.Error("Frame loop stopped", "error", runErr)
	}

	// Close out the session row before the deferred teardown runs.
	if dbManager.IsValid && sessionID != 0 {
		now := time.Now()
		err := dbManager.DB.Model(&model.SessionInfo{}).
			Where("id = ?", sessionID).
			Updates(map[string]any{
				"stopped_at":   &now,
				"frames_drawn": int64(loop.Frames()),
			}).Error
		if err != nil {
			Logger.Error("Failed to close session row", "error", err)
		}
	}

	if OTelProvider != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := OTelProvider.Shutdown(shutdownCtx); err != nil {
			Logger.Warn("OTel shutdown failed", "error", err)
		}
	}
	Logger.Info("Shutdown complete", "frames", loop.Frames())
	return runErr
}
