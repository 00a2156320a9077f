package cli

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var errNoRun = errors.New("no time attack run in progress, run 'kmapgame timeattack start' first")

func newTimeAttackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "timeattack",
		Aliases: []string{"ta"},
		Short:   "Time attack commands",
		Long: `Time attack commands. Solve as many puzzles as you can on one
difficulty; the first wrong answer ends the run.`,
	}

	cmd.AddCommand(newTimeAttackStartCmd())
	cmd.AddCommand(newTimeAttackAnswerCmd())
	cmd.AddCommand(newTimeAttackFinishCmd())
	cmd.AddCommand(newTimeAttackLeaderboardCmd())

	return cmd
}

func newTimeAttackStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <username> <difficulty>",
		Short: "Start a run on difficulty 1, 2 or 3",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			difficulty, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.New("difficulty must be 1, 2 or 3")
			}

			req := map[string]any{"username": args[0], "difficulty": difficulty}
			var result TimeAttackState

			if err := client.Post(cmd.Context(), "/time-attack", req, &result); err != nil {
				return err
			}

			if err := saveRun(&result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newTimeAttackAnswerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "answer <expression>",
		Short: "Answer the current time attack puzzle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := loadRun()
			if err != nil {
				return err
			}

			req := struct {
				TimeAttackState
				Answer string `json:"answer"`
			}{TimeAttackState: *run, Answer: args[0]}
			var result TimeAttackCheck

			if err := client.Post(cmd.Context(), "/time-attack/check", req, &result); err != nil {
				return err
			}

			if err := saveRun(&result.State); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newTimeAttackFinishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "finish",
		Short: "Record the current run on the leaderboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := loadRun()
			if err != nil {
				return err
			}

			req := map[string]any{
				"username":         run.Username,
				"difficulty":       run.Difficulty,
				"questions_solved": run.QuestionsSolved,
			}
			var result TimeAttackFinish

			if err := client.Post(cmd.Context(), "/time-attack/finish", req, &result); err != nil {
				return err
			}

			if err := saveRun(nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newTimeAttackLeaderboardCmd() *cobra.Command {
	var (
		difficulty int
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the best runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if difficulty != 0 {
				query.Set("difficulty", strconv.Itoa(difficulty))
			}
			if limit != 0 {
				query.Set("limit", strconv.Itoa(limit))
			}
			var result TimeAttackLeaderboard

			if err := client.Get(cmd.Context(), "/time-attack/leaderboard", query, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&difficulty, "difficulty", 0, "Only runs on this difficulty (default: all)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Number of runs to show (default: 10)")
	return cmd
}

func loadRun() (*TimeAttackState, error) {
	st, err := cfg.LoadState()
	if err != nil {
		return nil, err
	}
	if st.TimeAttack == nil {
		return nil, errNoRun
	}
	return st.TimeAttack, nil
}

// saveRun stores the run, or clears it when run is nil
func saveRun(run *TimeAttackState) error {
	st, err := cfg.LoadState()
	if err != nil {
		return err
	}
	st.TimeAttack = run
	return cfg.SaveState(st)
}
