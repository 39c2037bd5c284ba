package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskgrid/internal/config"
	"taskgrid/internal/logger"
	"taskgrid/internal/result"
	"taskgrid/internal/server"
	"taskgrid/internal/store"
	"taskgrid/internal/view"
	"taskgrid/pkg/cache"
	"taskgrid/pkg/mq"
)

func main() {
	cfg, err := config.FromOS()
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logger.New(os.Stdout, cfg.Logger)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.NewContext(ctx, log)

	bus := mq.NewBus()
	st := store.New(store.WithPublisher(bus))
	st.Initialize(ctx)

	switch cfg.Mode {
	case config.ModeServer:
		v, err := view.New(cache.NewMemory(10 * time.Minute))
		if err != nil {
			log.Error("view init failed", "error", err)
			os.Exit(1)
		}
		if err := bus.Subscribe(store.TopicChanged, v.Invalidate); err != nil {
			log.Error("subscribe failed", "error", err)
			os.Exit(1)
		}
		srv := server.New(st, v, log)
		if err := bus.Subscribe(store.TopicChanged, srv.LogChange); err != nil {
			log.Error("subscribe failed", "error", err)
			os.Exit(1)
		}
		if err := srv.ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
		log.Info("server stopped")

	case config.ModeExport:
		b, err := result.NewExporter(st).Export(ctx, cfg.Format)
		if err != nil {
			log.Error("export failed", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(cfg.Out, b, 0644); err != nil {
			log.Error("write failed", "path", cfg.Out, "error", err)
			os.Exit(1)
		}
		fmt.Printf("Exported -> %s\n", cfg.Out)

	case config.ModeTasks:
		for _, t := range st.List(ctx) {
			fmt.Printf("%d\t%s\t%s\n", t.ID, t.Title, t.Description)
		}

	default:
		fmt.Println("Usage examples:")
		fmt.Println("  go run ./cmd --mode server --http-addr :8080")
		fmt.Println("  go run ./cmd --mode tasks")
		fmt.Println("  go run ./cmd --mode export --format pdf --out ./tasks.pdf")
	}
}
