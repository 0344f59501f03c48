package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/tadabbur/cmd"
)

func main() {
	if os.Getenv("APP_ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if err := cmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("tadabbur exited")
	}
}
