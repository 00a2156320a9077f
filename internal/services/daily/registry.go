package daily

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mcoot/kmapgame/internal/dependencies/clock"
	"github.com/mcoot/kmapgame/internal/dependencies/idgen"
	"github.com/mcoot/kmapgame/internal/metrics"
	"github.com/mcoot/kmapgame/internal/model"
	"github.com/mcoot/kmapgame/internal/services/puzzle"
	"github.com/mcoot/kmapgame/internal/storage"
)

// ChallengeTier is the tier every daily puzzle is generated at
const ChallengeTier = model.TierHard

// Registry owns the one-per-date daily challenge
type Registry struct {
	storage  storage.Storage
	engine   puzzle.Engine
	clock    clock.Clock
	ids      idgen.Generator
	location *time.Location
	metrics  *metrics.Metrics
	logger   *slog.Logger

	inflight singleflight.Group
}

// NewRegistry creates a new Registry. Dates are computed in location, UTC if nil.
func NewRegistry(
	storage storage.Storage,
	engine puzzle.Engine,
	clock clock.Clock,
	ids idgen.Generator,
	location *time.Location,
	metrics *metrics.Metrics,
	logger *slog.Logger,
) *Registry {
	if location == nil {
		location = time.UTC
	}
	return &Registry{
		storage:  storage,
		engine:   engine,
		clock:    clock,
		ids:      ids,
		location: location,
		metrics:  metrics,
		logger:   logger,
	}
}

// Today returns the current date in the registry's location
func (r *Registry) Today() model.Date {
	return model.DateOf(r.clock.Now(), r.location)
}

// Get returns the challenge for date without creating one
func (r *Registry) Get(ctx context.Context, date model.Date) (*model.DailyChallenge, error) {
	return r.storage.GetDailyChallenge(ctx, date)
}

// GetOrCreate returns the challenge for date, generating and storing it on
// first access. Concurrent first callers all receive the single stored row;
// storage decides the winner so this also holds across processes.
func (r *Registry) GetOrCreate(ctx context.Context, date model.Date) (*model.DailyChallenge, error) {
	challenge, err := r.storage.GetDailyChallenge(ctx, date)
	if err == nil {
		return challenge, nil
	}
	if !errors.Is(err, model.ErrDailyChallengeNotFound) {
		return nil, err
	}

	// The flight outlives any one caller: a caller that goes away stops
	// waiting, but the others still get the stored row.
	flight := r.inflight.DoChan(string(date), func() (any, error) {
		return r.create(context.WithoutCancel(ctx), date)
	})

	var res singleflight.Result
	select {
	case res = <-flight:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.Err != nil {
		return nil, res.Err
	}

	// Callers share the flight's result; hand each its own copy
	stored := *res.Val.(*model.DailyChallenge)
	stored.Puzzle = stored.Puzzle.Clone()
	return &stored, nil
}

func (r *Registry) create(ctx context.Context, date model.Date) (*model.DailyChallenge, error) {
	p, err := r.engine.Generate(ctx, ChallengeTier)
	if err != nil {
		return nil, err
	}
	r.metrics.PuzzleGenerated(ChallengeTier)

	candidate := &model.DailyChallenge{
		ID:        r.ids.NewID(),
		Date:      date,
		Puzzle:    p,
		CreatedAt: r.clock.Now(),
	}

	stored, created, err := r.storage.InsertDailyChallengeIfAbsent(ctx, candidate)
	if err != nil {
		r.logger.Error("failed to store daily challenge",
			slog.String("date", string(date)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if created {
		r.metrics.DailyChallengeCreated()
		r.logger.Info("daily challenge created",
			slog.String("date", string(date)),
			slog.String("challenge_id", stored.ID),
			slog.Int("num_vars", stored.Puzzle.NumVars),
		)
	}
	return stored, nil
}
