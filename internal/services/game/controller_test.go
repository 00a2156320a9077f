package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/kmapgame/internal/dependencies/mocks"
	"github.com/mcoot/kmapgame/internal/metrics"
	"github.com/mcoot/kmapgame/internal/model"
	"github.com/mcoot/kmapgame/internal/services/completion"
	"github.com/mcoot/kmapgame/internal/services/daily"
	"github.com/mcoot/kmapgame/internal/storage/memory"
	utils "github.com/mcoot/kmapgame/internal/testutil"
)

// stubEngine numbers its puzzles and accepts only the answer "right"
type stubEngine struct {
	mu        sync.Mutex
	generated []model.Tier
}

func (e *stubEngine) Generate(ctx context.Context, tier model.Tier) (model.Puzzle, error) {
	if !tier.Valid() {
		return model.Puzzle{}, model.ErrInvalidTier
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generated = append(e.generated, tier)
	return model.Puzzle{NumVars: int(tier) + 2, Form: model.FormMin, Terms: []int{len(e.generated)}}, nil
}

func (e *stubEngine) Check(p model.Puzzle, answer string) (bool, []string) {
	return answer == "right", []string{"right"}
}

func (e *stubEngine) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.generated)
}

type rejectingGuard struct {
	TrustingGuard
}

var errTampered = fmt.Errorf("%w: score out of range", model.ErrSessionRejected)

func (rejectingGuard) CheckAdvance(ctx context.Context, session model.Session) error {
	return errTampered
}

func (rejectingGuard) CheckTimeAttack(ctx context.Context, state TimeAttackState) error {
	return errTampered
}

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	engine     *stubEngine
	clock      *mocks.MockClock
	metrics    *metrics.Metrics
	registry   *daily.Registry
	recorder   *completion.Recorder
	controller *Controller
	logs       *utils.LogBuffer
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.engine = &stubEngine{}
	s.clock = mocks.NewMockClock(time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC))
	s.metrics = metrics.New(prometheus.NewRegistry())
	ids := mocks.NewMockIDGenerator()
	s.registry = daily.NewRegistry(s.storage, s.engine, s.clock, ids, time.UTC, s.metrics, utils.NopLogger())
	s.recorder = completion.NewRecorder(s.storage, s.clock, ids, s.metrics, utils.NopLogger())
	var logger *slog.Logger
	logger, s.logs = utils.BufferLogger()
	s.controller = NewController(s.storage, s.engine, s.registry, s.recorder, nil, s.clock, s.metrics, logger)
	s.ctx = context.Background()
}

func (s *ControllerSuite) startDaily(username string) *model.Session {
	session, err := s.controller.StartSession(s.ctx, StartInput{Username: username, Mode: model.ModeDaily})
	s.Require().NoError(err)
	return session
}

func (s *ControllerSuite) dailyResults() []*model.DailyChallengeResult {
	challenge, err := s.registry.Get(s.ctx, "2025-03-14")
	s.Require().NoError(err)
	results, err := s.storage.ListDailyResults(s.ctx, challenge.ID)
	s.Require().NoError(err)
	return results
}

func intPtr(v int) *int {
	return &v
}

// StartSession tests

func (s *ControllerSuite) TestStartFixedSession() {
	session, err := s.controller.StartSession(s.ctx, StartInput{Username: "alice", Mode: model.ModeFixedMedium})
	s.Require().NoError(err)

	s.Equal("alice", session.Username)
	s.Equal(0, session.Score)
	s.Equal(model.ModeFixedMedium, session.Mode)
	s.Equal(model.DifficultyMedium, session.Difficulty)
	s.Equal(4, session.Puzzle.NumVars)
	s.Empty(session.StartedAt)
}

func (s *ControllerSuite) TestStartAdaptiveSessionBeginsEasy() {
	session, err := s.controller.StartSession(s.ctx, StartInput{Username: "alice", Mode: model.ModeAdaptive})
	s.Require().NoError(err)

	s.Equal(model.DifficultyAdaptive, session.Difficulty)
	s.Equal(3, session.Puzzle.NumVars)
}

func (s *ControllerSuite) TestStartDailySessionUsesChallenge() {
	session := s.startDaily("alice")

	challenge, err := s.registry.Get(s.ctx, "2025-03-14")
	s.Require().NoError(err)
	s.Equal(challenge.Puzzle, session.Puzzle)
	s.Equal(5, session.Puzzle.NumVars)
	s.Equal(model.DifficultyTimed, session.Difficulty)
	s.Equal("2025-03-14T12:00:00Z", session.StartedAt)

	other := s.startDaily("bob")
	s.Equal(session.Puzzle, other.Puzzle)
	s.Equal(1, s.engine.count())
}

func (s *ControllerSuite) TestStartSessionRequiresUsername() {
	_, err := s.controller.StartSession(s.ctx, StartInput{Mode: model.ModeAdaptive})
	s.ErrorIs(err, model.ErrUsernameRequired)
}

// AdvanceSession tests

func (s *ControllerSuite) TestAdvanceAdaptiveEscalatesOnThreshold() {
	session := model.Session{Username: "alice", Score: 4, Mode: model.ModeAdaptive}

	next, err := s.controller.AdvanceSession(s.ctx, AdvanceInput{Session: session, Result: model.ResultCorrect})
	s.Require().NoError(err)

	s.Equal(5, next.Score)
	s.Equal(4, next.Puzzle.NumVars)
	s.Equal(model.DifficultyAdaptive, next.Difficulty)
}

func (s *ControllerSuite) TestAdvanceAdaptiveResetsOnMiss() {
	session := model.Session{Username: "alice", Score: 12, Mode: model.ModeAdaptive}

	next, err := s.controller.AdvanceSession(s.ctx, AdvanceInput{Session: session, Result: model.ResultIncorrect})
	s.Require().NoError(err)

	s.Equal(0, next.Score)
	s.Equal(3, next.Puzzle.NumVars)
}

func (s *ControllerSuite) TestAdvanceFixedKeepsTier() {
	session := model.Session{Username: "alice", Score: 12, Mode: model.ModeFixedHard}

	next, err := s.controller.AdvanceSession(s.ctx, AdvanceInput{Session: session, Result: model.ResultIncorrect})
	s.Require().NoError(err)

	s.Equal(0, next.Score)
	s.Equal(5, next.Puzzle.NumVars)
}

func (s *ControllerSuite) TestAdvanceDailyKeepsPuzzleAndStartTime() {
	session := s.startDaily("alice")
	s.clock.Advance(time.Hour)

	next, err := s.controller.AdvanceSession(s.ctx, AdvanceInput{Session: *session, Result: model.ResultCorrect})
	s.Require().NoError(err)

	s.Equal(1, next.Score)
	s.Equal(session.Puzzle, next.Puzzle)
	s.Equal(session.StartedAt, next.StartedAt)
	s.Equal(1, s.engine.count())

	next, err = s.controller.AdvanceSession(s.ctx, AdvanceInput{Session: *next, Result: model.ResultIncorrect})
	s.Require().NoError(err)
	s.Equal(0, next.Score)
	s.Equal(session.Puzzle, next.Puzzle)
	s.Equal("2025-03-14T12:00:00Z", next.StartedAt)
}

func (s *ControllerSuite) TestAdvanceRejectsBadInput() {
	session := model.Session{Username: "alice", Mode: model.ModeAdaptive}

	_, err := s.controller.AdvanceSession(s.ctx, AdvanceInput{Session: session})
	s.ErrorIs(err, model.ErrInvalidResult)

	session.Score = -1
	_, err = s.controller.AdvanceSession(s.ctx, AdvanceInput{Session: session, Result: model.ResultCorrect})
	s.ErrorIs(err, model.ErrNegativeScore)

	_, err = s.controller.AdvanceSession(s.ctx, AdvanceInput{Session: model.Session{Mode: model.ModeAdaptive}, Result: model.ResultCorrect})
	s.ErrorIs(err, model.ErrUsernameRequired)
}

func (s *ControllerSuite) TestGuardCanRejectSession() {
	controller := NewController(s.storage, s.engine, s.registry, s.recorder, rejectingGuard{}, s.clock, s.metrics, utils.NopLogger())
	session := model.Session{Username: "alice", Score: 900, Mode: model.ModeAdaptive}

	_, err := controller.AdvanceSession(s.ctx, AdvanceInput{Session: session, Result: model.ResultCorrect})
	s.ErrorIs(err, errTampered)
	s.Equal(0, s.engine.count())
}

// SubmitAnswer tests

func (s *ControllerSuite) TestSubmitAnswer() {
	session := model.Session{Username: "alice", Mode: model.ModeFixedEasy, Puzzle: model.Puzzle{NumVars: 3}}

	out, err := s.controller.SubmitAnswer(s.ctx, SubmitInput{Session: session, Answer: "right"})
	s.Require().NoError(err)
	s.True(out.Correct)
	s.Equal([]string{"right"}, out.Answers)

	out, err = s.controller.SubmitAnswer(s.ctx, SubmitInput{Session: session, Answer: "wrong"})
	s.Require().NoError(err)
	s.False(out.Correct)
	s.Equal([]string{"right"}, out.Answers)

	s.Equal(1.0, testutil.ToFloat64(s.metrics.AnswersChecked.WithLabelValues("true")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.AnswersChecked.WithLabelValues("false")))
}

func (s *ControllerSuite) TestSubmitCorrectDailyRecordsElapsedTime() {
	session := s.startDaily("alice")
	session.Score = 2
	s.clock.Advance(90 * time.Second)

	out, err := s.controller.SubmitAnswer(s.ctx, SubmitInput{Session: *session, Answer: "right"})
	s.Require().NoError(err)
	s.True(out.Correct)

	results := s.dailyResults()
	s.Require().Len(results, 1)
	s.Equal("alice", results[0].Username)
	s.Equal(90, *results[0].CompletionTimeSeconds)
	s.Equal(2, results[0].Score)
}

func (s *ControllerSuite) TestSubmitDailyKeepsFirstTime() {
	session := s.startDaily("alice")
	s.clock.Advance(30 * time.Second)
	_, err := s.controller.SubmitAnswer(s.ctx, SubmitInput{Session: *session, Answer: "right"})
	s.Require().NoError(err)

	s.clock.Advance(time.Hour)
	_, err = s.controller.SubmitAnswer(s.ctx, SubmitInput{Session: *session, Answer: "right"})
	s.Require().NoError(err)

	results := s.dailyResults()
	s.Require().Len(results, 1)
	s.Equal(30, *results[0].CompletionTimeSeconds)
}

func (s *ControllerSuite) TestSubmitIncorrectDailyRecordsNothing() {
	session := s.startDaily("alice")

	out, err := s.controller.SubmitAnswer(s.ctx, SubmitInput{Session: *session, Answer: "wrong"})
	s.Require().NoError(err)
	s.False(out.Correct)
	s.Empty(s.dailyResults())
}

func (s *ControllerSuite) TestSubmitDailyWithBadStartTimeStillSucceeds() {
	session := s.startDaily("alice")
	session.StartedAt = "half past noon"

	out, err := s.controller.SubmitAnswer(s.ctx, SubmitInput{Session: *session, Answer: "right"})
	s.Require().NoError(err)
	s.True(out.Correct)
	s.Empty(s.dailyResults())
	s.Equal(1.0, testutil.ToFloat64(s.metrics.DailyCompletions.WithLabelValues(metrics.OutcomeSkipped)))
	s.Contains(s.logs.String(), `"msg":"daily completion not recorded"`)
	s.Contains(s.logs.String(), `"reason":"unparsable start time"`)
}

func (s *ControllerSuite) TestSubmitDailyWithoutChallengeStillSucceeds() {
	session := model.Session{Username: "alice", Mode: model.ModeDaily, StartedAt: "2025-03-14T11:00:00Z"}

	out, err := s.controller.SubmitAnswer(s.ctx, SubmitInput{Session: session, Answer: "right"})
	s.Require().NoError(err)
	s.True(out.Correct)

	_, err = s.registry.Get(s.ctx, "2025-03-14")
	s.ErrorIs(err, model.ErrDailyChallengeNotFound)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.DailyCompletions.WithLabelValues(metrics.OutcomeSkipped)))
}

func (s *ControllerSuite) TestSubmitDailyAcceptsNaiveStartTime() {
	session := s.startDaily("alice")
	session.StartedAt = "2025-03-14T11:59:00"

	_, err := s.controller.SubmitAnswer(s.ctx, SubmitInput{Session: *session, Answer: "right"})
	s.Require().NoError(err)

	results := s.dailyResults()
	s.Require().Len(results, 1)
	s.Equal(60, *results[0].CompletionTimeSeconds)
}

// FinishDaily tests

func (s *ControllerSuite) TestFinishDailyValidation() {
	_, err := s.controller.FinishDaily(s.ctx, FinishDailyInput{Username: "alice", Difficulty: model.DifficultyHard, ElapsedSeconds: intPtr(10)})
	s.ErrorIs(err, model.ErrNotTimedChallenge)

	_, err = s.controller.FinishDaily(s.ctx, FinishDailyInput{Difficulty: model.DifficultyTimed, ElapsedSeconds: intPtr(10)})
	s.ErrorIs(err, model.ErrNotTimedChallenge)

	_, err = s.controller.FinishDaily(s.ctx, FinishDailyInput{Username: "alice", Difficulty: model.DifficultyTimed})
	s.ErrorIs(err, model.ErrElapsedRequired)
}

func (s *ControllerSuite) TestFinishDailyWithoutChallenge() {
	_, err := s.controller.FinishDaily(s.ctx, FinishDailyInput{Username: "alice", Difficulty: model.DifficultyTimed, ElapsedSeconds: intPtr(10)})
	s.ErrorIs(err, model.ErrDailyChallengeNotFound)
}

func (s *ControllerSuite) TestFinishDailyClampsElapsed() {
	s.startDaily("alice")

	out, err := s.controller.FinishDaily(s.ctx, FinishDailyInput{Username: "alice", Difficulty: model.DifficultyTimed, ElapsedSeconds: intPtr(0), Score: 1})
	s.Require().NoError(err)
	s.Equal(1, out.ElapsedSeconds)
	s.Equal(1, out.Rank)
	s.Equal(1, out.Score)
}

func (s *ControllerSuite) TestFinishDailyDuplicateReturnsStoredTime() {
	s.startDaily("alice")

	first, err := s.controller.FinishDaily(s.ctx, FinishDailyInput{Username: "alice", Difficulty: model.DifficultyTimed, ElapsedSeconds: intPtr(50), Score: 3})
	s.Require().NoError(err)
	s.Equal(50, first.ElapsedSeconds)

	second, err := s.controller.FinishDaily(s.ctx, FinishDailyInput{Username: "alice", Difficulty: model.DifficultyTimed, ElapsedSeconds: intPtr(99), Score: 7})
	s.Require().NoError(err)
	s.Equal(50, second.ElapsedSeconds)
	s.Equal(1, second.Rank)
	s.Require().Len(second.Leaderboard, 1)
	s.Equal(50, *second.Leaderboard[0].CompletionTimeSeconds)

	results := s.dailyResults()
	s.Require().Len(results, 1)
	s.Equal(3, results[0].Score)
}

func (s *ControllerSuite) TestFinishDailyRanksAndOrders() {
	s.startDaily("alice")
	finish := func(username string, seconds int) *FinishDailyOutput {
		out, err := s.controller.FinishDaily(s.ctx, FinishDailyInput{Username: username, Difficulty: model.DifficultyTimed, ElapsedSeconds: intPtr(seconds)})
		s.Require().NoError(err)
		return out
	}

	s.Equal(1, finish("alice", 40).Rank)
	s.Equal(1, finish("bob", 40).Rank)
	out := finish("carol", 30)

	s.Equal(1, out.Rank)
	s.Require().Len(out.Leaderboard, 3)
	s.Equal("carol", out.Leaderboard[0].Username)
	s.Equal(40, *out.Leaderboard[1].CompletionTimeSeconds)
	s.Equal(40, *out.Leaderboard[2].CompletionTimeSeconds)

	again := finish("alice", 5)
	s.Equal(40, again.ElapsedSeconds)
	s.Equal(2, again.Rank)
}

// Daily view tests

func (s *ControllerSuite) TestGetDailyChallengeCreatesOnFirstView() {
	view, err := s.controller.GetDailyChallenge(s.ctx, "")
	s.Require().NoError(err)

	s.Equal(model.Date("2025-03-14"), view.Date)
	s.Equal(5, view.Puzzle.NumVars)
	s.Empty(view.Leaderboard)
	s.False(view.UserCompleted)
	s.Nil(view.UserTime)
	s.Nil(view.UserRank)
}

func (s *ControllerSuite) TestGetDailyChallengeReportsUser() {
	s.startDaily("alice")
	for username, seconds := range map[string]int{"alice": 45, "bob": 20, "carol": 60} {
		_, err := s.controller.FinishDaily(s.ctx, FinishDailyInput{Username: username, Difficulty: model.DifficultyTimed, ElapsedSeconds: intPtr(seconds)})
		s.Require().NoError(err)
	}

	view, err := s.controller.GetDailyChallenge(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(view.UserCompleted)
	s.Equal(45, *view.UserTime)
	s.Equal(2, *view.UserRank)
	s.Len(view.Leaderboard, 3)
	s.Equal("bob", view.Leaderboard[0].Username)

	view, err = s.controller.GetDailyChallenge(s.ctx, "dave")
	s.Require().NoError(err)
	s.False(view.UserCompleted)
	s.Nil(view.UserRank)
}

func (s *ControllerSuite) TestGetDailyLeaderboard() {
	s.startDaily("alice")
	for i, username := range []string{"u01", "u02", "u03", "u04", "u05", "u06", "u07", "u08", "u09", "u10", "u11", "u12"} {
		_, err := s.controller.FinishDaily(s.ctx, FinishDailyInput{Username: username, Difficulty: model.DifficultyTimed, ElapsedSeconds: intPtr(100 - i)})
		s.Require().NoError(err)
	}

	view, err := s.controller.GetDailyLeaderboard(s.ctx, "u01")
	s.Require().NoError(err)
	s.Equal(model.Date("2025-03-14"), view.Date)
	s.Equal(12, view.TotalParticipants)
	s.Len(view.Leaderboard, 12)
	s.Equal("u12", view.Leaderboard[0].Username)
	s.Equal(12, *view.UserRank)

	short, err := s.controller.GetDailyChallenge(s.ctx, "")
	s.Require().NoError(err)
	s.Len(short.Leaderboard, 10)

	view, err = s.controller.GetDailyLeaderboard(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Nil(view.UserRank)
}

func (s *ControllerSuite) TestDailyRollsOverWithClock() {
	first, err := s.controller.GetDailyChallenge(s.ctx, "")
	s.Require().NoError(err)

	s.clock.Advance(24 * time.Hour)
	second, err := s.controller.GetDailyChallenge(s.ctx, "")
	s.Require().NoError(err)

	s.Equal(model.Date("2025-03-15"), second.Date)
	s.NotEqual(first.Puzzle, second.Puzzle)
}
