package game

import (
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mcoot/kmapgame/internal/model"
	utils "github.com/mcoot/kmapgame/internal/testutil"
)

func (s *ControllerSuite) TestStartTimeAttack() {
	state, err := s.controller.StartTimeAttack(s.ctx, "alice", model.TierMedium)
	s.Require().NoError(err)

	s.Equal("alice", state.Username)
	s.Equal(model.TierMedium, state.Difficulty)
	s.Equal(0, state.QuestionsSolved)
	s.Equal(4, state.Puzzle.NumVars)
}

func (s *ControllerSuite) TestStartTimeAttackValidation() {
	_, err := s.controller.StartTimeAttack(s.ctx, "", model.TierEasy)
	s.ErrorIs(err, model.ErrUsernameRequired)

	_, err = s.controller.StartTimeAttack(s.ctx, "alice", model.Tier(4))
	s.ErrorIs(err, model.ErrInvalidTimeAttackTier)

	_, err = s.controller.StartTimeAttack(s.ctx, "alice", model.Tier(0))
	s.ErrorIs(err, model.ErrInvalidTimeAttackTier)
}

func (s *ControllerSuite) TestCheckTimeAttackCorrectDealsNewPuzzle() {
	state, err := s.controller.StartTimeAttack(s.ctx, "alice", model.TierHard)
	s.Require().NoError(err)

	out, err := s.controller.CheckTimeAttack(s.ctx, *state, "right")
	s.Require().NoError(err)

	s.True(out.Correct)
	s.False(out.GameOver)
	s.Equal(1, out.State.QuestionsSolved)
	s.Equal(model.TierHard, out.State.Difficulty)
	s.Equal(5, out.State.Puzzle.NumVars)
	s.NotEqual(state.Puzzle, out.State.Puzzle)
}

func (s *ControllerSuite) TestCheckTimeAttackWrongEndsRun() {
	state := TimeAttackState{Username: "alice", Difficulty: model.TierEasy, QuestionsSolved: 6, Puzzle: model.Puzzle{NumVars: 3}}

	out, err := s.controller.CheckTimeAttack(s.ctx, state, "wrong")
	s.Require().NoError(err)

	s.False(out.Correct)
	s.True(out.GameOver)
	s.Equal([]string{"right"}, out.Answers)
	s.Equal(6, out.State.QuestionsSolved)
	s.Equal(0, s.engine.count())
}

func (s *ControllerSuite) TestCheckTimeAttackGuard() {
	controller := NewController(s.storage, s.engine, s.registry, s.recorder, rejectingGuard{}, s.clock, s.metrics, utils.NopLogger())
	state := TimeAttackState{Username: "alice", Difficulty: model.TierEasy}

	_, err := controller.CheckTimeAttack(s.ctx, state, "right")
	s.ErrorIs(err, errTampered)
}

func (s *ControllerSuite) TestFinishTimeAttackRanksRun() {
	_, err := s.controller.FinishTimeAttack(s.ctx, "alice", model.TierEasy, 5)
	s.Require().NoError(err)
	s.clock.Advance(2 * time.Minute)
	_, err = s.controller.FinishTimeAttack(s.ctx, "bob", model.TierEasy, 8)
	s.Require().NoError(err)
	s.clock.Advance(time.Minute)
	out, err := s.controller.FinishTimeAttack(s.ctx, "carol", model.TierEasy, 8)
	s.Require().NoError(err)

	s.Equal("carol", out.Run.Username)
	s.Equal(2, out.Rank)
	s.Require().Len(out.Leaderboard, 3)
	s.Equal("bob", out.Leaderboard[0].Username)
	s.Equal("carol", out.Leaderboard[1].Username)
	s.Equal("alice", out.Leaderboard[2].Username)
	s.Equal(3.0, testutil.ToFloat64(s.metrics.TimeAttackRuns.WithLabelValues("1")))
}

func (s *ControllerSuite) TestFinishTimeAttackIsPerDifficulty() {
	_, err := s.controller.FinishTimeAttack(s.ctx, "alice", model.TierHard, 20)
	s.Require().NoError(err)
	out, err := s.controller.FinishTimeAttack(s.ctx, "bob", model.TierEasy, 1)
	s.Require().NoError(err)

	s.Equal(1, out.Rank)
	s.Len(out.Leaderboard, 1)
}

func (s *ControllerSuite) TestGetTimeAttackLeaderboard() {
	for i := 0; i < 12; i++ {
		_, err := s.controller.FinishTimeAttack(s.ctx, "alice", model.TierMedium, i)
		s.Require().NoError(err)
		s.clock.Advance(time.Second)
	}
	_, err := s.controller.FinishTimeAttack(s.ctx, "bob", model.TierHard, 3)
	s.Require().NoError(err)

	entries, err := s.controller.GetTimeAttackLeaderboard(s.ctx, model.TierMedium, 0)
	s.Require().NoError(err)
	s.Len(entries, 10)
	s.Equal(11, entries[0].QuestionsSolved)

	entries, err = s.controller.GetTimeAttackLeaderboard(s.ctx, model.TierMedium, 3)
	s.Require().NoError(err)
	s.Len(entries, 3)

	entries, err = s.controller.GetTimeAttackLeaderboard(s.ctx, 0, 50)
	s.Require().NoError(err)
	s.Len(entries, 13)

	_, err = s.controller.GetTimeAttackLeaderboard(s.ctx, model.Tier(7), 10)
	s.ErrorIs(err, model.ErrInvalidTimeAttackTier)
}
