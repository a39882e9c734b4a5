package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/auth"
	"github.com/ukydev/fleet-dashboard/internal/config"
	"github.com/ukydev/fleet-dashboard/internal/dashboard"
	"github.com/ukydev/fleet-dashboard/internal/db"
	"github.com/ukydev/fleet-dashboard/internal/events"
	"github.com/ukydev/fleet-dashboard/internal/handlers"
	"github.com/ukydev/fleet-dashboard/internal/logging"
	"github.com/ukydev/fleet-dashboard/internal/simulation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	logger := logging.Setup(cfg)
	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

func run(cfg *config.Config, logger *log.Logger) error {
	mainLog := logging.Component(logger, "main")
	mainLog.WithFields(log.Fields{
		"http_addr":       cfg.HTTPAddr,
		"database":        cfg.StoreDatabase,
		"reload_interval": cfg.ReloadInterval.String(),
		"mqtt":            cfg.MQTTBroker != "",
	}).Info("starting fleet dashboard")

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), cfg.StoreTimeout)
	client, err := db.ConnectMongo(connectCtx, cfg)
	cancelConnect()
	if err != nil {
		return err
	}
	mainLog.Info("connected to MongoDB")

	store := db.NewStore(client, cfg.StoreDatabase, logging.Component(logger, "store"))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := store.Disconnect(ctx); err != nil {
			mainLog.WithError(err).Warn("failed to disconnect from MongoDB")
		}
	}()

	if cfg.EnsureIndexes {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
		err := store.EnsureIndexes(ctx)
		cancel()
		if err != nil {
			return err
		}
	}

	publisher := newPublisher(cfg, logging.Component(logger, "events"))
	defer publisher.Close()

	board := dashboard.NewBoard(dashboard.Repositories{
		Buses:       store.Buses,
		Routes:      store.Routes,
		Schedules:   store.Schedules,
		Drivers:     store.Drivers,
		Maintenance: store.Maintenance,
		Performance: store.Performance,
	}, dashboard.Options{
		ReloadInterval: cfg.ReloadInterval,
		FlashTTL:       cfg.FlashTTL,
		Publisher:      publisher,
		Logger:         logging.Component(logger, "board"),
	})
	defer board.Close()

	svc, err := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		return err
	}
	gateway := auth.NewGateway(svc, store.Users, store.Sessions, logging.Component(logger, "auth"))
	seedAdmin(cfg, gateway, mainLog)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go board.Run(ctx)

	srv := newServer(cfg, handlers.NewRouter(handlers.Deps{
		Board:          board,
		Schedules:      store.Schedules,
		Gateway:        gateway,
		Store:          store,
		Simulator:      simulation.NewRandom(cfg.SimulationSeed),
		Logger:         logging.Component(logger, "http"),
		RequestTimeout: cfg.RequestTimeout,
		CORSOrigin:     cfg.CORSOrigin,
	}))

	serveErr := make(chan error, 1)
	go func() {
		mainLog.WithField("addr", cfg.HTTPAddr).Info("starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		mainLog.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			mainLog.WithError(err).Error("HTTP server error")
			return err
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		mainLog.WithError(err).Error("HTTP server shutdown error")
	}

	mainLog.Info("shutdown complete")
	return nil
}

func newServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// newPublisher connects to the MQTT broker when one is configured. A broker
// that cannot be reached disables events rather than blocking startup.
func newPublisher(cfg *config.Config, logger *log.Entry) events.Publisher {
	if cfg.MQTTBroker == "" {
		logger.Info("no MQTT broker configured, mutation events disabled")
		return events.Nop{}
	}
	pub, err := events.Connect(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopicPrefix, 5*time.Second, logger)
	if err != nil {
		logger.WithError(err).Warn("MQTT broker unreachable, mutation events disabled")
		return events.Nop{}
	}
	return pub
}

type adminSeeder interface {
	EnsureAdmin(ctx context.Context, email, password string) error
}

func seedAdmin(cfg *config.Config, seeder adminSeeder, logger *log.Entry) {
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
	defer cancel()
	if err := seeder.EnsureAdmin(ctx, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		logger.WithError(err).Warn("failed to seed admin account")
		return
	}
	logger.WithField("email", cfg.SeedAdminEmail).Info("admin account ready")
}
