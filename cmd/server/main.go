/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the dispatch-engine server: SQLite store,
  reference catalog, seeding engine, HTTP router, graceful shutdown.

COMMAND-LINE FLAGS:
  -port        HTTP server port (default: 8080)
  -db          SQLite database path (default: dispatch.db)
               Use ":memory:" for an in-memory database
  -catalog     Reference catalog YAML (default: embedded catalog)
  -attachments Directory for generated attachment files
  -dev         Development logging (human-readable, debug level)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/dispatch.db"

  # Run with in-memory database and a custom catalog
  ./server -db=":memory:" -catalog="./catalog.yml"

SEE ALSO:
  - api/server.go: Router configuration
  - seed/orchestrator.go: The seeding engine behind POST /api/seed-runs
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

	"go.uber.org/zap"

	"github.com/warp/dispatch-engine/api"
	"github.com/warp/dispatch-engine/catalog"
	"github.com/warp/dispatch-engine/seed"
	"github.com/warp/dispatch-engine/store/sqlite"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "dispatch.db", "SQLite database path")
	catalogPath := flag.String("catalog", "", "reference catalog YAML (empty = embedded)")
	attachmentDir := flag.String("attachments", "./data/attachments", "attachment file directory")
	dev := flag.Bool("dev", false, "development logging")
	flag.Parse()

	log, err := buildLogger(*dev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer store.Close()

	cat, err := catalog.Load(*catalogPath)
	if err != nil {
		log.Fatal("failed to load reference catalog", zap.Error(err))
	}

	seeder := seed.NewSeeder(store, cat, log, seed.WithAttachmentDir(*attachmentDir))
	purger := seed.NewPurger(store, log)
	router := api.NewRouter(api.NewHandler(store, seeder, purger, log))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // seed runs execute synchronously
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting",
			zap.Int("port", *port),
			zap.String("db", *dbPath))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

func buildLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
