package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/franciiscocg/Trading212/internal/di"
	"github.com/franciiscocg/Trading212/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	envFile := flag.String("env", ".env", "optional env file with API keys")
	flag.Parse()

	// Missing .env is fine; real env vars still apply.
	_ = godotenv.Load(*envFile)

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}
	defer cleanup()

	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
