package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/subosito/gotenv"

	"github.com/fantini/pricebook/internal/config"
	"github.com/fantini/pricebook/internal/domain/catalog"
	"github.com/fantini/pricebook/internal/domain/sheet"
	httpx "github.com/fantini/pricebook/internal/infra/http"
	"github.com/fantini/pricebook/internal/infra/logger"
	"github.com/fantini/pricebook/internal/infra/metrics"
	"github.com/fantini/pricebook/internal/web"
)

func main() {
	_ = gotenv.Load()

	cfgPath := os.Getenv("APP_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/example.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	store, err := catalog.Open(cfg.Catalog.DataFile)
	if err != nil {
		log.Error("open catalog failed", "file", cfg.Catalog.DataFile, "err", err)
		return
	}
	log.Info("catalog loaded", "file", cfg.Catalog.DataFile, "products", len(store.List()), "tables", len(store.PriceTables()))

	images, err := catalog.NewImageStore(cfg.Catalog.ImageDir)
	if err != nil {
		log.Error("image dir failed", "dir", cfg.Catalog.ImageDir, "err", err)
		return
	}

	met := metrics.New()
	resolver := sheet.NewResolver(cfg.Sheet.ThumbnailPx, cfg.Sheet.JPEGQuality)
	projector := sheet.NewProjector(resolver, images.Dir())
	sheets, err := sheet.NewService(log, met, projector, cfg.Sheet.OrgName, cfg.Sheet.CurrencyPrefix, images.LogoPath)
	if err != nil {
		log.Error("sheet service failed", "err", err)
		return
	}

	app, err := web.NewHandler(log, store, images, sheets, cfg.Catalog.Manufacturers, cfg.Sheet.CurrencyPrefix)
	if err != nil {
		log.Error("web handler failed", "err", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, app)
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
