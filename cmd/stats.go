package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lifetime statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		st := s.Stats()
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Played %d  Win %% %d  Current streak %d  Max streak %d\n",
			st.GamesPlayed, st.WinPercent(), st.CurrentStreak, st.MaxStreak)
		fmt.Fprintln(out, strings.Repeat("─", 40))
		for _, b := range st.Bars(s.StatsBuckets()) {
			width := int(b.Percent * 30 / 100)
			fmt.Fprintf(out, "%-2s %s %d\n", b.Label, strings.Repeat("█", width), b.Count)
		}
		if s.AllCompleted() {
			fmt.Fprintln(out, "All challenges completed today.")
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().String("player", "local", "Player name for the local record files")
}
