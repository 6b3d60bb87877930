package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/clickhouse"
	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/config"
	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/dal"
	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/dashboard"
	grpcserver "github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/grpc"
	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/handlers"
	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/logger"
	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/pubsub"
	"github.com/Billy-Davies-2/worldcup-finals-dashboard/internal/session"
)

// DatasetLoaded is published once the finals table has been read
const DatasetLoaded = "dataset:loaded"

type pinger interface {
	Ping(ctx context.Context) error
}

type upstream interface {
	pubsub.Upstream
	Connected() bool
	Close()
}

func main() {
	// Initialize logger first
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		log.Fatalf("Invalid configuration: %v", err)
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	logger.Info("Starting World Cup finals dashboard", "environment", cfg.Environment)

	source, err := openDataset(cfg)
	if err != nil {
		logger.Error("Failed to open dataset", "driver", cfg.DBDriver, "error", err)
		log.Fatalf("Failed to open dataset: %v", err)
	}
	defer source.Close()

	loadCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	app, err := dashboard.NewApp(loadCtx, source)
	cancel()
	if err != nil {
		logger.Error("Failed to load finals", "error", err)
		log.Fatalf("Failed to load finals: %v", err)
	}
	logger.Info("Finals loaded", "finals", len(app.Finals()), "winners", len(app.WinCounts()))

	// Use embedded NATS in development mode, real NATS in production
	var nats upstream
	if cfg.IsDevelopment() {
		logger.Info("Starting embedded NATS server for local development")
		opts := pubsub.DefaultEmbeddedNATSOptions()
		opts.Subject = cfg.NATSSubject
		embedded, err := pubsub.NewEmbeddedNATSPubSub(opts)
		if err != nil {
			logger.Error("Failed to initialize embedded NATS", "error", err)
			log.Fatalf("Failed to initialize embedded NATS: %v", err)
		}
		logger.Info("Embedded NATS server ready", "url", embedded.GetServerURL())
		nats = embedded
	} else {
		logger.Info("Using NATS JetStream", "url", cfg.NATSURL)
		external, err := pubsub.NewNATSPubSub(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			logger.Error("Failed to initialize NATS", "error", err)
			log.Fatalf("Failed to initialize NATS: %v", err)
		}
		nats = external
	}
	defer nats.Close()

	// Local subscribers see events from every replica through the upstream
	ps := pubsub.NewWithUpstream(nats)
	defer ps.Close()

	ps.Publish(pubsub.Event{
		Type: DatasetLoaded,
		Payload: map[string]interface{}{
			"driver": cfg.DBDriver,
			"finals": len(app.Finals()),
		},
	})

	sessions := session.NewStore(cfg.SessionTTL)
	ctrl := dashboard.NewController(app, sessions, ps)

	dashboardHandlers, err := handlers.NewDashboardHandlers(ctrl, sessions, ps)
	if err != nil {
		logger.Error("Failed to parse templates", "error", err)
		log.Fatalf("Failed to parse templates: %v", err)
	}
	logger.Info("Templates loaded successfully")

	health := handlers.NewHealthHandlers(
		handlers.Check{Name: "dataset", Critical: true, Probe: datasetProbe(source)},
		handlers.Check{Name: "nats", Probe: func(ctx context.Context) error {
			if !nats.Connected() {
				return errors.New("not connected")
			}
			return nil
		}},
	)

	var grpcServer *grpc.Server
	if addr := cfg.GRPCAddr(); addr != "" {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			logger.Error("Failed to listen for gRPC", "error", err, "address", addr)
			log.Fatalf("Failed to listen for gRPC: %v", err)
		}

		grpcServer = grpc.NewServer()
		grpcserver.RegisterFinalsServiceServer(grpcServer, grpcserver.NewServer(app))

		go func() {
			logger.Info("gRPC server starting", "address", addr)
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("Failed to serve gRPC", "error", err)
			}
		}()
	} else {
		logger.Info("gRPC disabled (GRPC_PORT is empty)")
	}

	mux := http.NewServeMux()
	dashboardHandlers.Register(mux)
	health.Register(mux)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if grpcServer != nil {
			grpcServer.GracefulStop()
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP shutdown failed", "error", err)
		}
	}()

	logger.Info("Server starting", "address", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server failed", "error", err)
		log.Fatal(err)
	}
}

// openDataset opens the finals backend selected by DB_DRIVER
func openDataset(cfg *config.Config) (dal.FinalsDAL, error) {
	switch cfg.DBDriver {
	case "memory":
		logger.Info("Using in-memory data store")
		return dal.NewMemoryDAL(), nil
	case "sqlite":
		store, err := dal.NewSQLiteDAL(cfg.SQLiteFile)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite: %w", err)
		}
		logger.Info("Connected to SQLite database", "file", cfg.SQLiteFile)
		return store, nil
	case "postgres":
		store, err := dal.NewPostgresDAL(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres: %w", err)
		}
		logger.Info("Connected to Postgres database")
		return store, nil
	case "clickhouse":
		store, err := clickhouse.NewClient(cfg.ClickHouseAddr, cfg.ClickHouseDB, cfg.ClickHouseUser, cfg.ClickHousePassword)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize ClickHouse: %w", err)
		}
		logger.Info("Connected to ClickHouse", "address", cfg.ClickHouseAddr, "database", cfg.ClickHouseDB)
		return store, nil
	}
	return nil, fmt.Errorf("%w: %s", dal.ErrUnknownDriver, cfg.DBDriver)
}

// datasetProbe pings SQL backends and reads the table otherwise
func datasetProbe(source dal.FinalsDAL) func(ctx context.Context) error {
	if p, ok := source.(pinger); ok {
		return p.Ping
	}
	return func(ctx context.Context) error {
		_, err := source.Finals(ctx)
		return err
	}
}
