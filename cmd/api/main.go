package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/comandero/pos-core/internal/modules/catalog"
	"github.com/comandero/pos-core/internal/modules/dispatch"
	"github.com/comandero/pos-core/internal/modules/receipt"
	"github.com/comandero/pos-core/internal/modules/sales"
	"github.com/comandero/pos-core/internal/modules/settings"
	"github.com/comandero/pos-core/internal/modules/table"
	"github.com/comandero/pos-core/internal/modules/waiter"
	"github.com/comandero/pos-core/internal/store"
)

func main() {
	godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("APP_ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// ── Storage ─────────────────────────────────────────────
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	var backend store.Backend
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pg, err := store.NewPostgresBackend(dsn)
		if err != nil {
			log.Fatal().Err(err).Msg("open postgres backend")
		}
		backend = pg
		log.Info().Msg("durable tier: postgres")
	} else {
		bb, err := store.NewBoltBackend(dataDir + "/pos.db")
		if err != nil {
			log.Fatal().Err(err).Msg("open bolt backend")
		}
		backend = bb
		log.Info().Str("path", dataDir+"/pos.db").Msg("durable tier: bbolt")
	}

	kv, err := store.Open(backend, store.Options{
		FastDir:      dataDir + "/fast",
		PollInterval: 2 * time.Second,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer kv.Close()

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	// ── Settings & Catalog ──────────────────────────────────
	settingsService := settings.NewService(kv)
	settings.NewHandler(settingsService).RegisterRoutes(router)

	catalogRepo := catalog.NewKVRepository(kv)
	catalogService := catalog.NewService(catalogRepo)
	catalog.NewHandler(catalogService).RegisterRoutes(router)

	// ── Sales & Tables ──────────────────────────────────────
	salesService := sales.NewService(kv)
	sales.NewHandler(salesService).RegisterRoutes(router)

	tableRepo := table.NewKVRepository(kv)
	tableService := table.NewService(tableRepo, catalogService, salesService, settingsService)
	table.NewHandler(tableService).RegisterRoutes(router)

	// ── Kitchen Dispatch ────────────────────────────────────
	dispatchService := dispatch.NewService(tableService, catalogService, nil, settingsService)
	dispatch.NewHandler(dispatchService).RegisterRoutes(router)

	// ── Printing ────────────────────────────────────────────
	receipt.NewHandler(tableService, dispatchService, catalogService, settingsService).RegisterRoutes(router)

	// ── Waiter Assignments ──────────────────────────────────
	waiterService := waiter.NewService(kv)
	waiter.NewHandler(waiterService).RegisterRoutes(router)

	// Provision the dine-in pool before serving.
	ctx := context.Background()
	cfg, err := settingsService.Get(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load settings")
	}
	if err := tableService.EnsureTables(ctx, cfg.TotalTables); err != nil {
		log.Fatal().Err(err).Msg("provision tables")
	}

	// ── Start Server ─────────────────────────────────────────
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{Addr: ":" + port, Handler: router}

	stop, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		log.Info().Str("port", port).Msg("pos-core API server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	<-stop.Done()
	log.Info().Msg("shutting down")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
