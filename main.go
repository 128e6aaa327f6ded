package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"finadmin/cmd"
	"finadmin/internal/config"
	"finadmin/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// The API settings are validated again per command, after flag overrides;
	// here the configuration only drives the logger.
	cfg, err := config.FromEnv()
	if err != nil {
		log.Printf("Warning: Could not load configuration: %v", err)
		if err := logger.Setup(logger.DefaultConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	} else {
		if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	}

	log := logger.WithComponent("main")
	log.Debug().Msg("Starting finadmin")

	cmd.Execute()

	log.Debug().Msg("finadmin shutdown")
	os.Exit(0)
}
