package main

import (
	"context"
	"os"

	"solder/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

var version = "dev"

func main() {
	log.Logger = logger.Get()

	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Msg("Warning: failed to load .env file")
		}
	}

	cmd := &cli.Command{
		Name:    "solder",
		Usage:   "Browser-based smart contract IDE for Soroban",
		Version: version,
		Commands: []*cli.Command{
			NewStartCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}
