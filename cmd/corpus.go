package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robalobadob/tadabbur/internal/corpus"
	"github.com/robalobadob/tadabbur/internal/quranapi"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage the local corpus cache",
}

var corpusFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the corpus and rewrite the cache file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Quran.FetchTimeout)
		defer cancel()

		d, err := quranClient(cfg).LoadCorpus(ctx)
		if err != nil {
			return fmt.Errorf("fetch corpus: %w", err)
		}
		ix, err := corpus.New(d)
		if err != nil {
			return err
		}
		if err := quranapi.SaveCache(cfg.Quran.CorpusCache, d); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cached %d verses in %d chapters to %s\n",
			ix.Len(), len(ix.Chapters()), cfg.Quran.CorpusCache)
		return nil
	},
}

func init() {
	corpusCmd.AddCommand(corpusFetchCmd)
}
