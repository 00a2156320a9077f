package storage

import (
	"context"

	"github.com/mcoot/kmapgame/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Daily challenge operations

	// InsertDailyChallengeIfAbsent stores challenge unless a row for its date
	// already exists. It returns the stored row and whether this call created it.
	InsertDailyChallengeIfAbsent(ctx context.Context, challenge *model.DailyChallenge) (*model.DailyChallenge, bool, error)
	GetDailyChallenge(ctx context.Context, date model.Date) (*model.DailyChallenge, error)

	// Daily result operations

	// InsertDailyResultIfAbsent stores result unless the user already has one
	// for the challenge. It returns the stored row and whether this call created it.
	InsertDailyResultIfAbsent(ctx context.Context, result *model.DailyChallengeResult) (*model.DailyChallengeResult, bool, error)
	GetDailyResult(ctx context.Context, challengeID, username string) (*model.DailyChallengeResult, error)
	ListDailyResults(ctx context.Context, challengeID string) ([]*model.DailyChallengeResult, error)

	// Time attack operations
	InsertTimeAttackResult(ctx context.Context, result *model.TimeAttackResult) error
	// ListTimeAttackResults returns runs for a difficulty, or every run when difficulty is 0
	ListTimeAttackResults(ctx context.Context, difficulty model.Tier) ([]*model.TimeAttackResult, error)

	Close() error
}
