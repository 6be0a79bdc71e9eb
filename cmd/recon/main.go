package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"interunit-recon-backend/internal/cli"
	"interunit-recon-backend/internal/infrastructure/config"
)

func main() {
	// Load .env if present, otherwise rely on system env
	_ = godotenv.Load()

	configFile := flag.String("config", "config.yaml", "Configuration file path")
	flags := cli.ParseReconFlags()

	cfg := config.LoadOrEnv_WithPath(*configFile)

	if err := cli.RunRecon(cfg, flags); err != nil {
		fmt.Fprintf(os.Stderr, "recon error: %v\n", err)
		os.Exit(1)
	}
}
