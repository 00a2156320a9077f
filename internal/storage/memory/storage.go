package memory

import (
	"context"
	"sync"

	"github.com/mcoot/kmapgame/internal/model"
	"github.com/mcoot/kmapgame/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	challenges    map[model.Date]*model.DailyChallenge
	results       map[resultKey]*model.DailyChallengeResult
	resultOrder   map[string][]resultKey
	timeAttackRun []*model.TimeAttackResult
}

type resultKey struct {
	challengeID string
	username    string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		challenges:  make(map[model.Date]*model.DailyChallenge),
		results:     make(map[resultKey]*model.DailyChallengeResult),
		resultOrder: make(map[string][]resultKey),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Daily challenge operations

func (s *Storage) InsertDailyChallengeIfAbsent(ctx context.Context, challenge *model.DailyChallenge) (*model.DailyChallenge, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.challenges[challenge.Date]; ok {
		return copyChallenge(existing), false, nil
	}
	stored := copyChallenge(challenge)
	s.challenges[challenge.Date] = stored
	return copyChallenge(stored), true, nil
}

func (s *Storage) GetDailyChallenge(ctx context.Context, date model.Date) (*model.DailyChallenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	challenge, ok := s.challenges[date]
	if !ok {
		return nil, model.ErrDailyChallengeNotFound
	}
	return copyChallenge(challenge), nil
}

// Daily result operations

func (s *Storage) InsertDailyResultIfAbsent(ctx context.Context, result *model.DailyChallengeResult) (*model.DailyChallengeResult, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := resultKey{challengeID: result.ChallengeID, username: result.Username}
	if existing, ok := s.results[key]; ok {
		return copyResult(existing), false, nil
	}
	stored := copyResult(result)
	s.results[key] = stored
	s.resultOrder[result.ChallengeID] = append(s.resultOrder[result.ChallengeID], key)
	return copyResult(stored), true, nil
}

func (s *Storage) GetDailyResult(ctx context.Context, challengeID, username string) (*model.DailyChallengeResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[resultKey{challengeID: challengeID, username: username}]
	if !ok {
		return nil, model.ErrDailyResultNotFound
	}
	return copyResult(result), nil
}

func (s *Storage) ListDailyResults(ctx context.Context, challengeID string) ([]*model.DailyChallengeResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := s.resultOrder[challengeID]
	results := make([]*model.DailyChallengeResult, 0, len(keys))
	for _, key := range keys {
		results = append(results, copyResult(s.results[key]))
	}
	return results, nil
}

// Time attack operations

func (s *Storage) InsertTimeAttackResult(ctx context.Context, result *model.TimeAttackResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *result
	s.timeAttackRun = append(s.timeAttackRun, &stored)
	return nil
}

func (s *Storage) ListTimeAttackResults(ctx context.Context, difficulty model.Tier) ([]*model.TimeAttackResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]*model.TimeAttackResult, 0, len(s.timeAttackRun))
	for _, run := range s.timeAttackRun {
		if difficulty != 0 && run.Difficulty != difficulty {
			continue
		}
		stored := *run
		results = append(results, &stored)
	}
	return results, nil
}

// Close is a no-op for in-memory storage
func (s *Storage) Close() error {
	return nil
}

func copyChallenge(c *model.DailyChallenge) *model.DailyChallenge {
	out := *c
	out.Puzzle = c.Puzzle.Clone()
	return &out
}

func copyResult(r *model.DailyChallengeResult) *model.DailyChallengeResult {
	out := *r
	if r.CompletionTimeSeconds != nil {
		v := *r.CompletionTimeSeconds
		out.CompletionTimeSeconds = &v
	}
	if r.CompletedAt != nil {
		v := *r.CompletedAt
		out.CompletedAt = &v
	}
	return &out
}
