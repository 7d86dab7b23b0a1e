/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the inventory counting server. Handles
  configuration, storage backend selection, dependency injection, and
  graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (environment / .env)
  2. Parse command-line overrides
  3. Open the configured storage backend and probe it once (Ping)
  4. Construct domain stores + API handler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides PORT)
  -driver  Storage driver: memory|fs|sqlite|s3 (overrides COUNT_BLOB_DRIVER)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the storage backend
  4. Exit

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
  - kvstore/factory.go: Backend selection
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sharbatly/count-engine/api"
	"github.com/sharbatly/count-engine/config"
	"github.com/sharbatly/count-engine/inventory"
	"github.com/sharbatly/count-engine/kvstore"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	port := flag.Int("port", cfg.Port, "HTTP server port")
	driver := flag.String("driver", cfg.Storage.Driver, "storage driver (memory|fs|sqlite|s3)")
	flag.Parse()

	store, err := kvstore.Open(context.Background(), kvstore.Options{
		Driver:     kvstore.Driver(*driver),
		FSRoot:     cfg.Storage.FSRoot,
		SQLitePath: cfg.Storage.SQLitePath,
		S3: kvstore.S3Config{
			Bucket:          cfg.Storage.S3Bucket,
			Region:          cfg.Storage.S3Region,
			Endpoint:        cfg.Storage.S3Endpoint,
			AccessKeyID:     cfg.Storage.S3AccessKeyID,
			SecretAccessKey: cfg.Storage.S3SecretKey,
			PathStyle:       cfg.Storage.S3PathStyle,
		},
	})
	if err != nil {
		log.Fatalf("Failed to open storage backend: %v", err)
	}
	defer store.Close()

	// One-time capability probe: a backend that cannot reach its storage
	// fails here, not on the first request.
	probeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := store.Ping(probeCtx); err != nil {
		cancel()
		log.Fatalf("Storage backend %q unreachable: %v", store.Driver(), err)
	}
	cancel()
	log.WithField("driver", store.Driver()).Info("storage backend ready")

	if cfg.AdminKey == "" {
		log.Warn("ADMIN_KEY not set; admin endpoints disabled")
	}

	handler := api.NewHandler(
		inventory.NewRegistry(store),
		inventory.NewCountStore(store),
		inventory.NewLedger(store),
		inventory.NewMappingStore(store),
		cfg.AdminKey,
		log,
	)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Server starting on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped")
}
