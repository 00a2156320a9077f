package game

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/kmapgame/internal/dependencies/clock"
	"github.com/mcoot/kmapgame/internal/metrics"
	"github.com/mcoot/kmapgame/internal/model"
	"github.com/mcoot/kmapgame/internal/services/completion"
	"github.com/mcoot/kmapgame/internal/services/daily"
	"github.com/mcoot/kmapgame/internal/services/leaderboard"
	"github.com/mcoot/kmapgame/internal/services/progression"
	"github.com/mcoot/kmapgame/internal/services/puzzle"
	"github.com/mcoot/kmapgame/internal/storage"
)

// Controller runs every player-facing game operation. It holds no session
// state: each call works from the caller's envelope plus stored rows.
type Controller struct {
	storage  storage.Storage
	engine   puzzle.Engine
	registry *daily.Registry
	recorder *completion.Recorder
	guard    SessionGuard
	clock    clock.Clock
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewController creates a new Controller. A nil guard trusts the client.
func NewController(
	storage storage.Storage,
	engine puzzle.Engine,
	registry *daily.Registry,
	recorder *completion.Recorder,
	guard SessionGuard,
	clock clock.Clock,
	metrics *metrics.Metrics,
	logger *slog.Logger,
) *Controller {
	if guard == nil {
		guard = TrustingGuard{}
	}
	return &Controller{
		storage:  storage,
		engine:   engine,
		registry: registry,
		recorder: recorder,
		guard:    guard,
		clock:    clock,
		metrics:  metrics,
		logger:   logger,
	}
}

// StartInput creates a session
type StartInput struct {
	Username string
	Mode     model.Mode
}

// AdvanceInput moves a session on after the client has reported a result
type AdvanceInput struct {
	Session model.Session
	Result  model.Result
}

// SubmitInput checks an answer to the session's puzzle
type SubmitInput struct {
	Session model.Session
	Answer  string
}

// SubmitOutput is the verdict on a submitted answer
type SubmitOutput struct {
	Correct bool
	Answers []string
}

// StartSession creates a fresh session at score 0. Daily sessions get the
// shared challenge and a start time; every other mode gets a new puzzle.
func (c *Controller) StartSession(ctx context.Context, in StartInput) (*model.Session, error) {
	if in.Username == "" {
		return nil, model.ErrUsernameRequired
	}

	session := &model.Session{
		Username:   in.Username,
		Mode:       in.Mode,
		Difficulty: in.Mode.Difficulty(),
	}

	if in.Mode == model.ModeDaily {
		challenge, err := c.registry.GetOrCreate(ctx, c.registry.Today())
		if err != nil {
			return nil, err
		}
		session.Puzzle = challenge.Puzzle
		session.StartedAt = FormatStartedAt(c.clock.Now())
	} else {
		p, err := c.generate(ctx, progression.Start(in.Mode))
		if err != nil {
			return nil, err
		}
		session.Puzzle = p
	}

	c.logger.Info("session started",
		slog.String("username", in.Username),
		slog.String("mode", string(in.Mode)),
	)
	return session, nil
}

// AdvanceSession applies a result to the session and hands out the next puzzle
func (c *Controller) AdvanceSession(ctx context.Context, in AdvanceInput) (*model.Session, error) {
	s := in.Session
	if s.Username == "" {
		return nil, model.ErrUsernameRequired
	}
	if in.Result != model.ResultCorrect && in.Result != model.ResultIncorrect {
		return nil, model.ErrInvalidResult
	}
	if s.Score < 0 {
		return nil, model.ErrNegativeScore
	}
	if err := c.guard.CheckAdvance(ctx, s); err != nil {
		return nil, err
	}

	step := progression.Advance(s.Mode, s.Score, in.Result)

	next := &model.Session{
		Username:   s.Username,
		Score:      step.Score,
		Mode:       s.Mode,
		Difficulty: s.Mode.Difficulty(),
		StartedAt:  s.StartedAt,
	}

	if step.Regenerate {
		p, err := c.generate(ctx, step.Tier)
		if err != nil {
			return nil, err
		}
		next.Puzzle = p
	} else {
		challenge, err := c.registry.GetOrCreate(ctx, c.registry.Today())
		if err != nil {
			return nil, err
		}
		next.Puzzle = challenge.Puzzle
	}

	c.logger.Debug("session advanced",
		slog.String("username", s.Username),
		slog.String("mode", string(s.Mode)),
		slog.String("result", string(in.Result)),
		slog.Int("score", step.Score),
		slog.Int("tier", int(step.Tier)),
	)
	return next, nil
}

// SubmitAnswer checks an answer. A correct daily answer also records the
// player's completion time; that bookkeeping is best effort and never fails
// the request.
func (c *Controller) SubmitAnswer(ctx context.Context, in SubmitInput) (*SubmitOutput, error) {
	if err := c.guard.CheckSubmit(ctx, in.Session); err != nil {
		return nil, err
	}

	correct, answers := c.engine.Check(in.Session.Puzzle, in.Answer)
	c.metrics.AnswerChecked(correct)

	if correct && in.Session.Mode == model.ModeDaily {
		c.recordDailyFromSubmit(ctx, in.Session)
	}

	return &SubmitOutput{Correct: correct, Answers: answers}, nil
}

func (c *Controller) recordDailyFromSubmit(ctx context.Context, s model.Session) {
	if s.StartedAt == "" || s.Username == "" {
		c.metrics.DailyCompletion(metrics.OutcomeSkipped)
		return
	}

	now := c.clock.Now()
	elapsed, err := ElapsedSeconds(s.StartedAt, now)
	if err != nil {
		c.skipDaily(s.Username, "unparsable start time", err)
		return
	}

	challenge, err := c.registry.Get(ctx, c.registry.Today())
	if err != nil {
		c.skipDaily(s.Username, "no daily challenge", err)
		return
	}

	if _, _, err := c.recorder.RecordCompletion(ctx, s.Username, challenge, elapsed, s.Score); err != nil {
		c.skipDaily(s.Username, "record failed", err)
	}
}

func (c *Controller) skipDaily(username, reason string, err error) {
	c.metrics.DailyCompletion(metrics.OutcomeSkipped)
	c.logger.Warn("daily completion not recorded",
		slog.String("username", username),
		slog.String("reason", reason),
		slog.String("error", err.Error()),
	)
}

// FinishDailyInput closes a timed daily run
type FinishDailyInput struct {
	Username       string
	Difficulty     model.Difficulty
	ElapsedSeconds *int
	Score          int
}

// FinishDailyOutput reports the player's standing
type FinishDailyOutput struct {
	Username       string
	Score          int
	ElapsedSeconds int
	Rank           int
	Leaderboard    []leaderboard.DailyEntry
}

// FinishDaily records a timed daily completion and ranks it. A player who
// already finished keeps their first time, which is what gets reported back.
func (c *Controller) FinishDaily(ctx context.Context, in FinishDailyInput) (*FinishDailyOutput, error) {
	if in.Username == "" || in.Difficulty != model.DifficultyTimed {
		return nil, model.ErrNotTimedChallenge
	}
	if in.ElapsedSeconds == nil {
		return nil, model.ErrElapsedRequired
	}
	elapsed := max(1, *in.ElapsedSeconds)

	challenge, err := c.registry.Get(ctx, c.registry.Today())
	if err != nil {
		return nil, err
	}

	stored, _, err := c.recorder.RecordCompletion(ctx, in.Username, challenge, elapsed, in.Score)
	if err != nil {
		return nil, err
	}
	if stored.CompletionTimeSeconds != nil {
		elapsed = *stored.CompletionTimeSeconds
	}

	results, err := c.storage.ListDailyResults(ctx, challenge.ID)
	if err != nil {
		return nil, err
	}

	return &FinishDailyOutput{
		Username:       in.Username,
		Score:          in.Score,
		ElapsedSeconds: elapsed,
		Rank:           leaderboard.Rank(results, elapsed),
		Leaderboard:    leaderboard.TopN(results, leaderboard.DefaultSize),
	}, nil
}

// DailyView is today's challenge with its short leaderboard
type DailyView struct {
	Date          model.Date
	Puzzle        model.Puzzle
	Leaderboard   []leaderboard.DailyEntry
	UserCompleted bool
	UserTime      *int
	UserRank      *int
}

// GetDailyChallenge returns today's challenge, creating it if needed. With a
// username it also reports whether that player has finished and their rank.
func (c *Controller) GetDailyChallenge(ctx context.Context, username string) (*DailyView, error) {
	challenge, err := c.registry.GetOrCreate(ctx, c.registry.Today())
	if err != nil {
		return nil, err
	}

	results, err := c.storage.ListDailyResults(ctx, challenge.ID)
	if err != nil {
		return nil, err
	}

	view := &DailyView{
		Date:        challenge.Date,
		Puzzle:      challenge.Puzzle,
		Leaderboard: leaderboard.TopN(results, leaderboard.DefaultSize),
	}

	mine, err := c.userResult(ctx, challenge.ID, username)
	if err != nil {
		return nil, err
	}
	if mine != nil {
		view.UserCompleted = true
		view.UserTime = mine.CompletionTimeSeconds
		view.UserRank = userRank(results, mine)
	}
	return view, nil
}

// DailyLeaderboardView is the complete leaderboard for today
type DailyLeaderboardView struct {
	Date              model.Date
	Leaderboard       []leaderboard.DailyEntry
	TotalParticipants int
	UserRank          *int
}

// GetDailyLeaderboard returns every result for today's challenge
func (c *Controller) GetDailyLeaderboard(ctx context.Context, username string) (*DailyLeaderboardView, error) {
	challenge, err := c.registry.GetOrCreate(ctx, c.registry.Today())
	if err != nil {
		return nil, err
	}

	results, err := c.storage.ListDailyResults(ctx, challenge.ID)
	if err != nil {
		return nil, err
	}

	view := &DailyLeaderboardView{
		Date:              challenge.Date,
		Leaderboard:       leaderboard.Full(results),
		TotalParticipants: len(results),
	}

	mine, err := c.userResult(ctx, challenge.ID, username)
	if err != nil {
		return nil, err
	}
	if mine != nil {
		view.UserRank = userRank(results, mine)
	}
	return view, nil
}

func (c *Controller) userResult(ctx context.Context, challengeID, username string) (*model.DailyChallengeResult, error) {
	if username == "" {
		return nil, nil
	}
	result, err := c.storage.GetDailyResult(ctx, challengeID, username)
	if errors.Is(err, model.ErrDailyResultNotFound) {
		return nil, nil
	}
	return result, err
}

func userRank(results []*model.DailyChallengeResult, mine *model.DailyChallengeResult) *int {
	if mine.CompletionTimeSeconds == nil {
		return nil
	}
	rank := leaderboard.Rank(results, *mine.CompletionTimeSeconds)
	return &rank
}

func (c *Controller) generate(ctx context.Context, tier model.Tier) (model.Puzzle, error) {
	p, err := c.engine.Generate(ctx, tier)
	if err != nil {
		return model.Puzzle{}, err
	}
	c.metrics.PuzzleGenerated(tier)
	return p, nil
}
