package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/kmapgame/internal/model"
	"github.com/mcoot/kmapgame/internal/storage"
)

var timeAttackTiers = []model.Tier{model.TierEasy, model.TierMedium, model.TierHard}

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	keys   keys
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		keys:   keys{prefix: cfg.KeyPrefix},
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Daily challenge operations

func (s *Storage) InsertDailyChallengeIfAbsent(ctx context.Context, challenge *model.DailyChallenge) (*model.DailyChallenge, bool, error) {
	data, err := json.Marshal(challenge)
	if err != nil {
		return nil, false, err
	}

	key := s.keys.dailyChallenge(challenge.Date)
	created, err := s.client.SetNX(ctx, key, data, 0).Result()
	if err != nil {
		return nil, false, fmt.Errorf("insert daily challenge: %w", err)
	}
	if created {
		stored := *challenge
		stored.Puzzle = challenge.Puzzle.Clone()
		return &stored, true, nil
	}

	existing, err := s.GetDailyChallenge(ctx, challenge.Date)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (s *Storage) GetDailyChallenge(ctx context.Context, date model.Date) (*model.DailyChallenge, error) {
	data, err := s.client.Get(ctx, s.keys.dailyChallenge(date)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrDailyChallengeNotFound
		}
		return nil, err
	}

	var challenge model.DailyChallenge
	if err := json.Unmarshal(data, &challenge); err != nil {
		return nil, err
	}
	return &challenge, nil
}

// Daily result operations

func (s *Storage) InsertDailyResultIfAbsent(ctx context.Context, result *model.DailyChallengeResult) (*model.DailyChallengeResult, bool, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, false, err
	}

	key := s.keys.dailyResults(result.ChallengeID)
	created, err := s.client.HSetNX(ctx, key, result.Username, data).Result()
	if err != nil {
		return nil, false, fmt.Errorf("insert daily result: %w", err)
	}
	stored, err := s.GetDailyResult(ctx, result.ChallengeID, result.Username)
	if err != nil {
		return nil, false, err
	}
	return stored, created, nil
}

func (s *Storage) GetDailyResult(ctx context.Context, challengeID, username string) (*model.DailyChallengeResult, error) {
	data, err := s.client.HGet(ctx, s.keys.dailyResults(challengeID), username).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrDailyResultNotFound
		}
		return nil, err
	}

	var result model.DailyChallengeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Storage) ListDailyResults(ctx context.Context, challengeID string) ([]*model.DailyChallengeResult, error) {
	values, err := s.client.HVals(ctx, s.keys.dailyResults(challengeID)).Result()
	if err != nil {
		return nil, err
	}

	results := make([]*model.DailyChallengeResult, 0, len(values))
	for _, v := range values {
		var result model.DailyChallengeResult
		if err := json.Unmarshal([]byte(v), &result); err != nil {
			return nil, err
		}
		results = append(results, &result)
	}
	return results, nil
}

// Time attack operations

func (s *Storage) InsertTimeAttackResult(ctx context.Context, result *model.TimeAttackResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.client.RPush(ctx, s.keys.timeAttackRuns(result.Difficulty), data).Err()
}

func (s *Storage) ListTimeAttackResults(ctx context.Context, difficulty model.Tier) ([]*model.TimeAttackResult, error) {
	tiers := timeAttackTiers
	if difficulty != 0 {
		tiers = []model.Tier{difficulty}
	}

	// Use pipeline to fetch every list in one round trip
	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringSliceCmd, len(tiers))
	for i, tier := range tiers {
		cmds[i] = pipe.LRange(ctx, s.keys.timeAttackRuns(tier), 0, -1)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	var results []*model.TimeAttackResult
	for _, cmd := range cmds {
		values, err := cmd.Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return nil, err
		}
		for _, v := range values {
			var result model.TimeAttackResult
			if err := json.Unmarshal([]byte(v), &result); err != nil {
				return nil, err
			}
			results = append(results, &result)
		}
	}
	return results, nil
}
