package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errNoSession = errors.New("no session in progress, run 'kmapgame session start' first")

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Practice and daily session commands",
	}

	cmd.AddCommand(newSessionStartCmd())
	cmd.AddCommand(newSessionShowCmd())
	cmd.AddCommand(newSessionAdvanceCmd())

	return cmd
}

func newSessionStartCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "start <username>",
		Short: "Start a new session",
		Long: `Start a new session. Modes are easy, medium, hard (fixed size),
adaptive (grows with your score) and daily (today's shared challenge).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"username": args[0], "mode": mode}
			var result Session

			if err := client.Post(cmd.Context(), "/sessions", req, &result); err != nil {
				return err
			}

			if err := saveSession(&result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "adaptive", "Game mode: easy, medium, hard, adaptive, daily")
	return cmd
}

func newSessionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := loadSession()
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(*session)
			return nil
		},
	}
}

func newSessionAdvanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advance <correct|incorrect>",
		Short: "Record a result and move to the next puzzle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] != "correct" && args[0] != "incorrect" {
				return fmt.Errorf("result must be correct or incorrect")
			}

			session, err := loadSession()
			if err != nil {
				return err
			}

			next, err := advance(cmd.Context(), session, args[0])
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(*next)
			return nil
		},
	}
}

func newAnswerCmd() *cobra.Command {
	var noAdvance bool

	cmd := &cobra.Command{
		Use:   "answer <expression>",
		Short: "Answer the current session puzzle",
		Long: `Answer the current session puzzle, then move on to the next one.

Write sums of products like "A'B + CD" and products of sums like
"(A + B')(C + D)". Complement a variable with a trailing apostrophe.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := loadSession()
			if err != nil {
				return err
			}

			req := struct {
				Session
				Answer string `json:"answer"`
			}{Session: *session, Answer: args[0]}
			var result SubmitResult

			if err := client.Post(cmd.Context(), "/answers", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)

			if noAdvance {
				return nil
			}

			outcome := "incorrect"
			if result.Correct {
				outcome = "correct"
			}
			next, err := advance(cmd.Context(), session, outcome)
			if err != nil {
				return err
			}
			out.Print(*next)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noAdvance, "no-advance", false, "Only check the answer, keep the current puzzle")
	return cmd
}

// advance posts the session with a result and stores the next one
func advance(ctx context.Context, session *Session, result string) (*Session, error) {
	req := struct {
		Session
		Result string `json:"result"`
	}{Session: *session, Result: result}
	var next Session

	if err := client.Post(ctx, "/sessions/advance", req, &next); err != nil {
		return nil, err
	}

	if err := saveSession(&next); err != nil {
		return nil, err
	}
	return &next, nil
}

func loadSession() (*Session, error) {
	st, err := cfg.LoadState()
	if err != nil {
		return nil, err
	}
	if st.Session == nil {
		return nil, errNoSession
	}
	return st.Session, nil
}

func saveSession(s *Session) error {
	st, err := cfg.LoadState()
	if err != nil {
		return err
	}
	st.Session = s
	return cfg.SaveState(st)
}
