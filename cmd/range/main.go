package main

import (
	"context"
	"embed"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
)

//go:embed configs
var configFS embed.FS

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		stop()
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
		logger.Fatal().Err(err).Msg("range failed")
	}
}
