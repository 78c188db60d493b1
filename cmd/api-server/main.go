// cmd/api-server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"policy-advisor/internal/common/config"
	"policy-advisor/internal/common/database"
	"policy-advisor/internal/common/logger"
	"policy-advisor/internal/server"
	"policy-advisor/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewStructured("info", "json").WithError(err).Error("failed to load configuration", nil)
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format).WithFields(map[string]interface{}{
		"app":         cfg.App.Name,
		"environment": cfg.App.Environment,
	})

	policyStore, cleanup, err := buildStore(cfg, log)
	if err != nil {
		log.WithError(err).Error("failed to initialize analysis store", nil)
		os.Exit(1)
	}
	defer cleanup()

	srv := server.New(policyStore, log)
	httpServer := &http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      srv.Routes(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	log.Info("api server started", map[string]interface{}{
		"listenAddr": cfg.Server.ListenAddr,
		"backend":    cfg.Storage.Backend,
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutting down", map[string]interface{}{"signal": sig.String()})
		ctx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			log.WithError(err).Error("shutdown did not complete cleanly", nil)
		}
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("server error", nil)
			os.Exit(1)
		}
	}
}

// buildStore selects the configured backend. The returned cleanup closes
// any underlying connections and is a no-op for the memory store.
func buildStore(cfg *config.Config, log logger.Logger) (store.PolicyStore, func(), error) {
	switch cfg.Storage.Backend {
	case "postgres":
		client, err := database.NewPostgres(cfg.Storage.Postgres)
		if err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), config.GetDuration(5000))
		defer cancel()
		if err := client.Ping(ctx); err != nil {
			client.Close()
			return nil, nil, err
		}
		pgStore := store.NewPostgresStore(client)
		if err := pgStore.Migrate(ctx); err != nil {
			client.Close()
			return nil, nil, err
		}
		log.Info("using postgres analysis store", map[string]interface{}{
			"host": cfg.Storage.Postgres.Host,
		})
		return pgStore, func() { client.Close() }, nil

	case "redis":
		client, err := database.NewRedis(cfg.Storage.Redis)
		if err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), config.GetDuration(5000))
		defer cancel()
		if err := client.Ping(ctx); err != nil {
			client.Close()
			return nil, nil, err
		}
		log.Info("using redis analysis store", map[string]interface{}{
			"address": cfg.Storage.Redis.Address,
		})
		return store.NewRedisStore(client), func() { client.Close() }, nil

	default:
		log.Info("using in-memory analysis store", nil)
		return store.NewMemoryStore(), func() {}, nil
	}
}
