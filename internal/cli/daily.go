package cli

import (
	"errors"
	"net/url"

	"github.com/spf13/cobra"
)

// timedDifficulty marks a finish request as belonging to the daily challenge
const timedDifficulty = 4

func newDailyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Daily challenge commands",
	}

	cmd.AddCommand(newDailyShowCmd())
	cmd.AddCommand(newDailyLeaderboardCmd())
	cmd.AddCommand(newDailyFinishCmd())

	return cmd
}

func newDailyShowCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show today's challenge and its top times",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result DailyChallenge

			if err := client.Get(cmd.Context(), "/daily", url.Values{"username": {username}}, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Include this player's time and rank")
	return cmd
}

func newDailyLeaderboardCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show today's full leaderboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result DailyLeaderboard

			if err := client.Get(cmd.Context(), "/daily/leaderboard", url.Values{"username": {username}}, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Include this player's rank")
	return cmd
}

func newDailyFinishCmd() *cobra.Command {
	var (
		username string
		elapsed  int
		score    int
	)

	cmd := &cobra.Command{
		Use:   "finish",
		Short: "Submit your time for today's challenge",
		Long: `Submit your time for today's challenge. Player and score default to
the current session. Only your first time counts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("elapsed") {
				return errors.New("--elapsed is required")
			}

			if username == "" || !cmd.Flags().Changed("score") {
				session, err := loadSession()
				if err != nil {
					return err
				}
				if username == "" {
					username = session.Username
				}
				if !cmd.Flags().Changed("score") {
					score = session.Score
				}
			}

			req := map[string]any{
				"username":        username,
				"difficulty":      timedDifficulty,
				"elapsed_seconds": elapsed,
				"score":           score,
			}
			var result FinishDailyResult

			if err := client.Post(cmd.Context(), "/daily/finish", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Player name (default: current session)")
	cmd.Flags().IntVar(&elapsed, "elapsed", 0, "Seconds taken")
	cmd.Flags().IntVar(&score, "score", 0, "Score (default: current session)")
	return cmd
}
