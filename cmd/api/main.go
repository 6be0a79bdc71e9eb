package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"interunit-recon-backend/internal/cli"
	"interunit-recon-backend/internal/infrastructure/config"
)

func main() {
	// Load .env if present, otherwise rely on system env
	_ = godotenv.Load()

	gin.SetMode(gin.ReleaseMode)

	configFile := flag.String("config", "config.yaml", "Configuration file path")
	flags := cli.ParseServeFlags()

	cfg := config.LoadOrEnv_WithPath(*configFile)

	if err := cli.RunServe(cfg, flags); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
