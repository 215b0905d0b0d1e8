package main

import (
	"context"
	"os"

	"github.com/pennywise-dev/pennywise/internal/commands"
	"github.com/pennywise-dev/pennywise/internal/logger"
)

func main() {
	if err := commands.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		log := logger.New(os.Stderr, false)
		log.Error().Err(err).Msg("pennywise failed")
		os.Exit(1)
	}
}
