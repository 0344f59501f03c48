package cmd

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/tadabbur/assets"
	"github.com/robalobadob/tadabbur/internal/challenge"
	"github.com/robalobadob/tadabbur/internal/config"
	"github.com/robalobadob/tadabbur/internal/daily"
	"github.com/robalobadob/tadabbur/internal/httpserver"
	"github.com/robalobadob/tadabbur/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Without a corpus the server still starts; challenges answer 503.
	ix, err := loadCorpus(cmd.Context(), cfg)
	if err != nil {
		log.Error().Err(err).Msg("corpus unavailable")
	}

	st, results, closeDB, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	srv := httpserver.New(httpserver.Options{
		Builder:    challenge.NewBuilder(ix),
		Store:      st,
		Results:    results,
		Commentary: quranClient(cfg),
		Secret:     []byte(cfg.JWTSecret),
		TokenTTL:   cfg.JWTLifetime,
		Origin:     cfg.ClientOrigin,
		Secure:     cfg.Production,
	})
	log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("starting tadabbur")
	return srv.Start(":" + cfg.Port)
}

// openStore opens the configured record store. The results log (and so the
// leaderboard) is only available with the SQLite driver.
func openStore(cfg *config.Config) (store.Store, *daily.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return store.NewMemoryStore(), nil, func() {}, nil
	case config.DriverFile:
		return store.NewFileStore(cfg.DataDir), nil, func() {}, nil
	}

	db, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open db: %w", err)
	}
	if err := store.Migrate(db, assets.Migrations()); err != nil {
		_ = db.Close()
		return nil, nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return store.NewSQLite(db), daily.NewStore(db), closer(db), nil
}

func closer(db *sql.DB) func() {
	return func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("close db")
		}
	}
}
