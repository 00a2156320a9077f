package completion

import (
	"context"
	"log/slog"

	"github.com/mcoot/kmapgame/internal/dependencies/clock"
	"github.com/mcoot/kmapgame/internal/dependencies/idgen"
	"github.com/mcoot/kmapgame/internal/metrics"
	"github.com/mcoot/kmapgame/internal/model"
	"github.com/mcoot/kmapgame/internal/storage"
)

// Recorder persists daily completions and time attack runs
type Recorder struct {
	storage storage.Storage
	clock   clock.Clock
	ids     idgen.Generator
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewRecorder creates a new Recorder
func NewRecorder(storage storage.Storage, clock clock.Clock, ids idgen.Generator, metrics *metrics.Metrics, logger *slog.Logger) *Recorder {
	return &Recorder{
		storage: storage,
		clock:   clock,
		ids:     ids,
		metrics: metrics,
		logger:  logger,
	}
}

// RecordCompletion stores a user's time for a challenge. The first call for a
// (username, challenge) pair wins; later calls change nothing and return the
// row stored by the first, with created false.
func (r *Recorder) RecordCompletion(ctx context.Context, username string, challenge *model.DailyChallenge, elapsedSeconds, score int) (*model.DailyChallengeResult, bool, error) {
	if username == "" {
		return nil, false, model.ErrUsernameRequired
	}

	now := r.clock.Now()
	result := &model.DailyChallengeResult{
		ID:                    r.ids.NewID(),
		Username:              username,
		ChallengeID:           challenge.ID,
		CompletionTimeSeconds: &elapsedSeconds,
		CompletedAt:           &now,
		Score:                 score,
		CreatedAt:             now,
	}

	stored, created, err := r.storage.InsertDailyResultIfAbsent(ctx, result)
	if err != nil {
		r.logger.Error("failed to record daily completion",
			slog.String("username", username),
			slog.String("challenge_id", challenge.ID),
			slog.String("error", err.Error()),
		)
		return nil, false, err
	}

	if created {
		r.metrics.DailyCompletion(metrics.OutcomeRecorded)
		r.logger.Info("daily completion recorded",
			slog.String("username", username),
			slog.String("date", string(challenge.Date)),
			slog.Int("elapsed_seconds", elapsedSeconds),
		)
	} else {
		r.metrics.DailyCompletion(metrics.OutcomeDuplicate)
		r.logger.Debug("daily completion already recorded",
			slog.String("username", username),
			slog.String("date", string(challenge.Date)),
		)
	}
	return stored, created, nil
}

// RecordRun appends a finished time attack run
func (r *Recorder) RecordRun(ctx context.Context, username string, difficulty model.Tier, questionsSolved int) (*model.TimeAttackResult, error) {
	if username == "" {
		return nil, model.ErrUsernameRequired
	}
	if !difficulty.Valid() {
		return nil, model.ErrInvalidTimeAttackTier
	}
	if questionsSolved < 0 {
		return nil, model.ErrNegativeScore
	}

	run := &model.TimeAttackResult{
		ID:              r.ids.NewID(),
		Username:        username,
		Difficulty:      difficulty,
		QuestionsSolved: questionsSolved,
		CreatedAt:       r.clock.Now(),
	}
	if err := r.storage.InsertTimeAttackResult(ctx, run); err != nil {
		return nil, err
	}

	r.metrics.TimeAttackRun(difficulty)
	r.logger.Info("time attack run recorded",
		slog.String("username", username),
		slog.Int("difficulty", int(difficulty)),
		slog.Int("questions_solved", questionsSolved),
	)
	return run, nil
}
