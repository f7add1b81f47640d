package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/blockfall/internal/config"
	"github.com/robalobadob/blockfall/internal/game"
	"github.com/robalobadob/blockfall/internal/shapes"
	"github.com/robalobadob/blockfall/internal/shell"
)

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := shapes.Init(cfg.PiecesFile); err != nil {
		log.Fatal().Err(err).Msg("failed to load piece catalog")
	}

	sh := shell.New(os.Stdin, os.Stdout,
		shell.WithLogger(log.Logger),
		shell.WithGridOptions(
			game.WithCatalog(shapes.Default()),
			game.WithSymbols(cfg.EmptySymbol, cfg.FilledSymbol),
			game.WithLogger(log.Logger),
		),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = sh.Run(ctx)
	stop()
	if err != nil {
		log.Fatal().Err(err).Str("session", sh.ID()).Msg("game aborted")
	}
}
