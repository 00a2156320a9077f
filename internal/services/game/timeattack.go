package game

import (
	"context"
	"log/slog"

	"github.com/mcoot/kmapgame/internal/model"
	"github.com/mcoot/kmapgame/internal/services/leaderboard"
)

// TimeAttackState is a survival run in progress. Like sessions, it lives
// with the client between requests.
type TimeAttackState struct {
	Username        string
	Difficulty      model.Tier
	QuestionsSolved int
	Puzzle          model.Puzzle
}

// TimeAttackCheckOutput is the verdict on one survival answer. A wrong
// answer ends the run; State then still holds the final count.
type TimeAttackCheckOutput struct {
	Correct  bool
	GameOver bool
	Answers  []string
	State    TimeAttackState
}

// FinishTimeAttackOutput is a stored run with its standing
type FinishTimeAttackOutput struct {
	Run         *model.TimeAttackResult
	Rank        int
	Leaderboard []leaderboard.TimeAttackEntry
}

// StartTimeAttack begins a survival run on a fixed tier
func (c *Controller) StartTimeAttack(ctx context.Context, username string, difficulty model.Tier) (*TimeAttackState, error) {
	if username == "" {
		return nil, model.ErrUsernameRequired
	}
	if !difficulty.Valid() {
		return nil, model.ErrInvalidTimeAttackTier
	}

	p, err := c.generate(ctx, difficulty)
	if err != nil {
		return nil, err
	}

	c.logger.Info("time attack started",
		slog.String("username", username),
		slog.Int("difficulty", int(difficulty)),
	)
	return &TimeAttackState{
		Username:   username,
		Difficulty: difficulty,
		Puzzle:     p,
	}, nil
}

// CheckTimeAttack checks an answer in a survival run. Correct answers bump the
// count and deal a fresh puzzle on the same tier.
func (c *Controller) CheckTimeAttack(ctx context.Context, state TimeAttackState, answer string) (*TimeAttackCheckOutput, error) {
	if state.Username == "" {
		return nil, model.ErrUsernameRequired
	}
	if !state.Difficulty.Valid() {
		return nil, model.ErrInvalidTimeAttackTier
	}
	if state.QuestionsSolved < 0 {
		return nil, model.ErrNegativeScore
	}
	if err := c.guard.CheckTimeAttack(ctx, state); err != nil {
		return nil, err
	}

	correct, answers := c.engine.Check(state.Puzzle, answer)
	c.metrics.AnswerChecked(correct)

	out := &TimeAttackCheckOutput{Correct: correct, Answers: answers, State: state}
	if !correct {
		out.GameOver = true
		return out, nil
	}

	p, err := c.generate(ctx, state.Difficulty)
	if err != nil {
		return nil, err
	}
	out.State.QuestionsSolved++
	out.State.Puzzle = p
	return out, nil
}

// FinishTimeAttack stores a finished run and ranks it among its difficulty
func (c *Controller) FinishTimeAttack(ctx context.Context, username string, difficulty model.Tier, questionsSolved int) (*FinishTimeAttackOutput, error) {
	run, err := c.recorder.RecordRun(ctx, username, difficulty, questionsSolved)
	if err != nil {
		return nil, err
	}

	runs, err := c.storage.ListTimeAttackResults(ctx, difficulty)
	if err != nil {
		return nil, err
	}

	return &FinishTimeAttackOutput{
		Run:         run,
		Rank:        leaderboard.TimeAttackRank(runs, run.ID),
		Leaderboard: leaderboard.TopTimeAttack(runs, leaderboard.DefaultSize),
	}, nil
}

// GetTimeAttackLeaderboard lists the best runs. Difficulty 0 spans every tier;
// a limit of 0 or less means the default size.
func (c *Controller) GetTimeAttackLeaderboard(ctx context.Context, difficulty model.Tier, limit int) ([]leaderboard.TimeAttackEntry, error) {
	if difficulty != 0 && !difficulty.Valid() {
		return nil, model.ErrInvalidTimeAttackTier
	}
	if limit <= 0 {
		limit = leaderboard.DefaultSize
	}

	runs, err := c.storage.ListTimeAttackResults(ctx, difficulty)
	if err != nil {
		return nil, err
	}
	return leaderboard.TopTimeAttack(runs, limit), nil
}
