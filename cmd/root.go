package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/robalobadob/tadabbur/internal/config"
	"github.com/robalobadob/tadabbur/internal/corpus"
	"github.com/robalobadob/tadabbur/internal/quranapi"
)

var rootCmd = &cobra.Command{
	Use:   "tadabbur",
	Short: "Daily verse trivia",
	Long:  "Tadabbur: guess which chapter today's verse comes from, in three difficulty tiers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(corpusCmd)
}

// loadConfig reads the environment and applies the log level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	return cfg, nil
}

func quranClient(cfg *config.Config) *quranapi.Client {
	return quranapi.New(quranapi.Options{
		BaseURL:     cfg.Quran.BaseURL,
		TafsirURL:   cfg.Quran.TafsirURL,
		Arabic:      cfg.Quran.Arabic,
		Translation: cfg.Quran.Translation,
		Audio:       cfg.Quran.Audio,
	})
}

// loadCorpus reads the corpus cache, fetching it on first use.
func loadCorpus(ctx context.Context, cfg *config.Config) (*corpus.Index, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Quran.FetchTimeout)
	defer cancel()
	ix, err := quranClient(cfg).Load(ctx, cfg.Quran.CorpusCache)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	return ix, nil
}
