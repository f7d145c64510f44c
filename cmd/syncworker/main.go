package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/franciiscocg/Trading212/internal/di"
	"github.com/franciiscocg/Trading212/pkg/config"
)

// syncworker runs the aggregation pipeline on a cron schedule, for setups
// where the dashboard should always have a fresh snapshot without anyone
// pressing sync.
func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	envFile := flag.String("env", ".env", "optional env file with API keys")
	runNow := flag.Bool("now", false, "run one sync immediately on startup")
	flag.Parse()

	_ = godotenv.Load(*envFile)

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if cfg.Sync.Schedule == "" {
		log.Fatal("sync.schedule is required for the sync worker")
	}

	pipeline, cleanup, err := di.InitializePipeline(cfg)
	if err != nil {
		log.Fatalf("pipeline initialization failed: %v", err)
	}
	defer cleanup()

	run := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		result, err := pipeline.Refresh(ctx, cfg.Sync.UserID, false)
		if err != nil {
			log.Printf("scheduled sync failed: %v", err)
			return
		}
		log.Printf("scheduled sync done: run_id=%s positions=%d errors=%d",
			result.RunID, len(result.Positions), len(result.Errors))
	}

	if *runNow {
		run()
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Sync.Schedule, run); err != nil {
		log.Fatalf("invalid sync schedule %q: %v", cfg.Sync.Schedule, err)
	}
	c.Start()
	log.Printf("sync worker started: schedule=%q user=%s", cfg.Sync.Schedule, cfg.Sync.UserID)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	// let an in-flight run finish
	<-c.Stop().Done()
	log.Println("sync worker stopped")
}
