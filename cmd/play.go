package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robalobadob/tadabbur/internal/challenge"
	"github.com/robalobadob/tadabbur/internal/corpus"
	"github.com/robalobadob/tadabbur/internal/game"
	"github.com/robalobadob/tadabbur/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play today's challenge from the terminal",
}

var playShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current state of a tier",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPlaySession(cmd, func(s *game.Session, tier string) (string, *game.View, error) {
			v, err := s.View(cmd.Context(), tier)
			return "", v, err
		})
	},
}

var playGuessCmd = &cobra.Command{
	Use:   "guess <chapter>",
	Short: "Guess the chapter of today's verse",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chapter, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid chapter %q: %w", args[0], err)
		}
		return withPlaySession(cmd, func(s *game.Session, tier string) (string, *game.View, error) {
			out, v, err := s.Guess(cmd.Context(), tier, chapter)
			return out.String(), v, err
		})
	},
}

var playHintCmd = &cobra.Command{
	Use:   "hint",
	Short: "Reveal the next verse of the chapter",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPlaySession(cmd, func(s *game.Session, tier string) (string, *game.View, error) {
			out, v, err := s.Hint(cmd.Context(), tier)
			return out.String(), v, err
		})
	},
}

var playGiveUpCmd = &cobra.Command{
	Use:   "giveup",
	Short: "End the tier and reveal the answer",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPlaySession(cmd, func(s *game.Session, tier string) (string, *game.View, error) {
			ended, v, err := s.GiveUp(cmd.Context(), tier)
			return outcome(ended, "gave_up"), v, err
		})
	},
}

var playViewCmd = &cobra.Command{
	Use:   "view <index>",
	Short: "Show an unlocked verse (0 is today's verse)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q: %w", args[0], err)
		}
		return withPlaySession(cmd, func(s *game.Session, tier string) (string, *game.View, error) {
			moved, v, err := s.Navigate(cmd.Context(), tier, idx)
			return outcome(moved, "moved"), v, err
		})
	},
}

var playShareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print the share text of a finished tier",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		tier, _ := cmd.Flags().GetString("tier")
		text, err := s.Share(cmd.Context(), tier)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	playCmd.PersistentFlags().String("tier", challenge.Easy.Name, "Difficulty tier (Easy, Medium, Hard)")
	playCmd.PersistentFlags().String("player", "local", "Player name for the local record files")

	playCmd.AddCommand(playShowCmd, playGuessCmd, playHintCmd, playGiveUpCmd, playViewCmd, playShareCmd)
}

func outcome(ok bool, name string) string {
	if ok {
		return name
	}
	return "ignored"
}

// openSession loads the local player's session from the JSON file store.
func openSession(cmd *cobra.Command) (*game.Session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	ix, err := loadCorpus(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	player, _ := cmd.Flags().GetString("player")
	return game.NewSession(cmd.Context(), game.Options{
		Player:  player,
		Builder: challenge.NewBuilder(ix),
		Store:   store.NewFileStore(cfg.DataDir),
	})
}

func withPlaySession(cmd *cobra.Command, fn func(s *game.Session, tier string) (string, *game.View, error)) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	tier, _ := cmd.Flags().GetString("tier")
	out, v, err := fn(s, tier)
	if err != nil {
		return err
	}
	if out != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "> %s\n", out)
	}
	printView(cmd.OutOrStdout(), v)
	return nil
}

func printView(w io.Writer, v *game.View) {
	fmt.Fprintf(w, "%s · %s (%s) · %s\n", v.Date, v.Tier.Name, v.Tier.Label, v.Status())
	for i, vs := range v.Challenge.Unlocked {
		mark := " "
		if i == v.Challenge.Visible {
			mark = "*"
		}
		basmala, text := corpus.SplitBasmala(vs)
		if basmala != "" {
			text = "(" + strings.TrimSpace(basmala) + ") " + text
		}
		ref := ""
		if v.Review {
			ref = " [" + vs.Key() + "]"
		}
		fmt.Fprintf(w, "%s %d%s  %s\n", mark, i, ref, text)
	}

	if len(v.Progress.Attempts) > 0 {
		var guesses []string
		for _, a := range v.Progress.Attempts {
			m := "✗"
			if a.Correct {
				m = "✓"
			}
			guesses = append(guesses, strconv.Itoa(a.Chapter)+m)
		}
		fmt.Fprintf(w, "guesses: %s\n", strings.Join(guesses, " "))
	}
	if msg := v.Message(); msg != "" {
		fmt.Fprintln(w, msg)
		return
	}
	fmt.Fprintf(w, "%d attempts left", v.Remaining)
	if v.Progress.HintAvailable {
		fmt.Fprint(w, " · hint available")
	}
	fmt.Fprintln(w)
}
