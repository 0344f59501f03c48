package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/robalobadob/tadabbur/internal/challenge"
	"github.com/robalobadob/tadabbur/internal/corpus"
	"github.com/robalobadob/tadabbur/internal/daily"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Print each tier's verse for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		if date == "" {
			date = daily.DateKey(time.Now())
		} else if _, err := time.Parse("2006-01-02", date); err != nil {
			return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ix, err := loadCorpus(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		b := challenge.NewBuilder(ix)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Tadabbur %s\n", date)
		for _, t := range challenge.Tiers() {
			v, err := b.Pick(t, date)
			if errors.Is(err, challenge.ErrDataUnavailable) {
				fmt.Fprintf(out, "%-6s  no verse available\n", t.Name)
				continue
			}
			if err != nil {
				return err
			}
			_, text := corpus.SplitBasmala(v)
			fmt.Fprintf(out, "%-6s  %-7s  %s (%s)  juz %d\n        %s\n",
				t.Name, v.Key(), v.Chapter.EnglishName, v.Chapter.Name, v.Part, text)
		}
		return nil
	},
}

func init() {
	todayCmd.Flags().String("date", "", "Day to show (YYYY-MM-DD, default today in UTC)")
}
