// Castellan Core - single-authority ownership service
//
// Castellan guards one privileged role per deployment: exactly one owner at a
// time, transfers only by the current owner, and an irreversible renounce.
// Every transition is written to the audit trail and announced over MQTT and
// InfluxDB for observers.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/castellan-io/castellan-core/migrations"

	"github.com/castellan-io/castellan-core/internal/api"
	"github.com/castellan-io/castellan-core/internal/audit"
	"github.com/castellan-io/castellan-core/internal/events"
	"github.com/castellan-io/castellan-core/internal/infrastructure/config"
	"github.com/castellan-io/castellan-core/internal/infrastructure/database"
	"github.com/castellan-io/castellan-core/internal/infrastructure/influxdb"
	"github.com/castellan-io/castellan-core/internal/infrastructure/logging"
	"github.com/castellan-io/castellan-core/internal/infrastructure/mqtt"
	"github.com/castellan-io/castellan-core/internal/ownership"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Castellan Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Storage layer
	store := ownership.NewSQLiteStore(db.DB)
	auditRepo := audit.NewSQLiteRepository(db.DB)

	// Event fan-out: audit always, MQTT and InfluxDB when configured
	broadcaster := events.New(auditRepo, log)

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})

		broadcaster.AttachMQTT(mqttClient)
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})

		broadcaster.AttachInfluxDB(influxClient)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Ownership gate
	ownable := ownership.New(store, broadcaster)

	if bootErr := bootstrapOwner(ctx, cfg, store, ownable, log); bootErr != nil {
		return fmt.Errorf("bootstrapping owner: %w", bootErr)
	}

	// HTTP API
	server, err := api.New(api.Deps{
		Config:    cfg.API,
		Logger:    log,
		Ownable:   ownable,
		AuditRepo: auditRepo,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. InfluxDB (if enabled)
	// 3. MQTT (if enabled)
	// 4. Database

	log.Info("Castellan Core stopped")
	return nil
}

// initializedStore reports whether an ownership store has ever been written.
type initializedStore interface {
	Initialized(ctx context.Context) (bool, error)
}

// bootstrapOwner initializes the ownership store on first start.
//
// Initialization happens exactly once per database lifetime: a store that has
// ever held an owner is never re-initialized, so a renounced deployment stays
// renounced across restarts rather than quietly resurrecting an owner from
// config.
func bootstrapOwner(ctx context.Context, cfg *config.Config, store initializedStore, ownable *ownership.Ownable, log *logging.Logger) error {
	initialized, err := store.Initialized(ctx)
	if err != nil {
		return fmt.Errorf("checking store state: %w", err)
	}
	if initialized {
		owner, ownerErr := ownable.Owner(ctx)
		if ownerErr != nil {
			return fmt.Errorf("reading owner: %w", ownerErr)
		}
		if owner.IsZero() {
			log.Info("ownership renounced, store locked")
		} else {
			log.Info("ownership store ready", "owner", string(owner))
		}
		return nil
	}

	if cfg.Ownership.InitialOwner == "" {
		log.Warn("store uninitialized and no initial owner configured; guarded operations will fail until one is set")
		return nil
	}

	if initErr := ownable.Initialize(ctx, ownership.OwnerID(cfg.Ownership.InitialOwner)); initErr != nil {
		return fmt.Errorf("initializing owner: %w", initErr)
	}
	log.Info("ownership initialized", "owner", cfg.Ownership.InitialOwner)
	return nil
}

// getConfigPath returns the configuration file path.
// Uses CASTELLAN_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("CASTELLAN_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
