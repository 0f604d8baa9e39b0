package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"ordertrack/config"
	"ordertrack/internal/cli"
	"ordertrack/internal/service"
	"ordertrack/internal/store"
	"ordertrack/internal/util"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting ordertrack")

	db, err := store.NewStore(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	orderService := service.NewOrderService(db)

	ctx := context.Background()
	if cfg.Business.SeedDemoData {
		if err := orderService.SeedDemoData(ctx); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	if cfg.Observ.MetricsEnabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			addr := fmt.Sprintf(":%s", cfg.Observ.PrometheusPort)
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Printf("Metrics listener error: %v", err)
			}
		}()
	}

	app := cli.New(orderService, os.Stdin, os.Stdout, cfg.Business.OrderListLimit)
	if err := app.Run(ctx); err != nil {
		log.Fatalf("CLI error: %v", err)
	}
}
