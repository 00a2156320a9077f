// Package storagetest holds the behaviour every storage backend must share.
// Backend test files embed Suite and provide a fresh store per test.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/kmapgame/internal/model"
	"github.com/mcoot/kmapgame/internal/storage"
)

// Suite runs the shared storage contract against Store
type Suite struct {
	suite.Suite
	Store storage.Storage
	Ctx   context.Context
}

var baseTime = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func samplePuzzle() model.Puzzle {
	return model.Puzzle{
		NumVars:   5,
		Form:      model.FormMax,
		Terms:     []int{1, 3, 17, 19},
		DontCares: []int{2},
		Groupings: [][]int{{1, 3, 17, 19}},
	}
}

func challenge(id string, date model.Date) *model.DailyChallenge {
	return &model.DailyChallenge{
		ID:        id,
		Date:      date,
		Puzzle:    samplePuzzle(),
		CreatedAt: baseTime,
	}
}

func result(id, challengeID, username string, seconds int) *model.DailyChallengeResult {
	completed := baseTime.Add(time.Duration(seconds) * time.Second)
	return &model.DailyChallengeResult{
		ID:                    id,
		Username:              username,
		ChallengeID:           challengeID,
		CompletionTimeSeconds: &seconds,
		CompletedAt:           &completed,
		Score:                 3,
		CreatedAt:             completed,
	}
}

// Daily challenge tests

func (s *Suite) TestInsertDailyChallengeCreates() {
	stored, created, err := s.Store.InsertDailyChallengeIfAbsent(s.Ctx, challenge("c-1", "2025-03-14"))
	s.Require().NoError(err)
	s.True(created)
	s.Equal("c-1", stored.ID)
	s.Equal(model.Date("2025-03-14"), stored.Date)
	s.Equal(samplePuzzle(), stored.Puzzle)
	s.True(baseTime.Equal(stored.CreatedAt))

	fetched, err := s.Store.GetDailyChallenge(s.Ctx, "2025-03-14")
	s.Require().NoError(err)
	s.Equal("c-1", fetched.ID)
	s.Equal(samplePuzzle(), fetched.Puzzle)
}

func (s *Suite) TestInsertDailyChallengeKeepsFirst() {
	_, _, err := s.Store.InsertDailyChallengeIfAbsent(s.Ctx, challenge("c-1", "2025-03-14"))
	s.Require().NoError(err)

	second := challenge("c-2", "2025-03-14")
	second.Puzzle.Terms = []int{0}
	stored, created, err := s.Store.InsertDailyChallengeIfAbsent(s.Ctx, second)
	s.Require().NoError(err)
	s.False(created)
	s.Equal("c-1", stored.ID)
	s.Equal([]int{1, 3, 17, 19}, stored.Puzzle.Terms)
}

func (s *Suite) TestDailyChallengesAreKeyedByDate() {
	_, _, err := s.Store.InsertDailyChallengeIfAbsent(s.Ctx, challenge("c-1", "2025-03-14"))
	s.Require().NoError(err)
	_, created, err := s.Store.InsertDailyChallengeIfAbsent(s.Ctx, challenge("c-2", "2025-03-15"))
	s.Require().NoError(err)
	s.True(created)

	fetched, err := s.Store.GetDailyChallenge(s.Ctx, "2025-03-15")
	s.Require().NoError(err)
	s.Equal("c-2", fetched.ID)
}

func (s *Suite) TestGetDailyChallengeNotFound() {
	_, err := s.Store.GetDailyChallenge(s.Ctx, "1999-01-01")
	s.ErrorIs(err, model.ErrDailyChallengeNotFound)
}

func (s *Suite) TestConcurrentDailyChallengeInsertsStoreOneRow() {
	const callers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ids     = make(map[string]int)
		creates int
	)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stored, created, err := s.Store.InsertDailyChallengeIfAbsent(s.Ctx, challenge(fmt.Sprintf("c-%d", i), "2025-03-14"))
			if err != nil {
				s.T().Errorf("insert %d: %v", i, err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			ids[stored.ID]++
			if created {
				creates++
			}
		}(i)
	}
	wg.Wait()

	s.Equal(1, creates)
	s.Len(ids, 1)
	for _, count := range ids {
		s.Equal(callers, count)
	}
}

// Daily result tests

func (s *Suite) TestInsertDailyResultFirstWriterWins() {
	stored, created, err := s.Store.InsertDailyResultIfAbsent(s.Ctx, result("r-1", "c-1", "alice", 50))
	s.Require().NoError(err)
	s.True(created)
	s.Equal(50, *stored.CompletionTimeSeconds)

	again := result("r-2", "c-1", "alice", 99)
	again.Score = 7
	stored, created, err = s.Store.InsertDailyResultIfAbsent(s.Ctx, again)
	s.Require().NoError(err)
	s.False(created)
	s.Equal("r-1", stored.ID)
	s.Equal(50, *stored.CompletionTimeSeconds)
	s.Equal(3, stored.Score)

	fetched, err := s.Store.GetDailyResult(s.Ctx, "c-1", "alice")
	s.Require().NoError(err)
	s.Equal("r-1", fetched.ID)
	s.Equal(50, *fetched.CompletionTimeSeconds)
	s.Require().NotNil(fetched.CompletedAt)
	s.True(baseTime.Add(50 * time.Second).Equal(*fetched.CompletedAt))
}

func (s *Suite) TestDailyResultWithoutTime() {
	r := &model.DailyChallengeResult{
		ID:          "r-1",
		Username:    "dave",
		ChallengeID: "c-1",
		CreatedAt:   baseTime,
	}
	_, _, err := s.Store.InsertDailyResultIfAbsent(s.Ctx, r)
	s.Require().NoError(err)

	fetched, err := s.Store.GetDailyResult(s.Ctx, "c-1", "dave")
	s.Require().NoError(err)
	s.Nil(fetched.CompletionTimeSeconds)
	s.Nil(fetched.CompletedAt)
}

func (s *Suite) TestGetDailyResultNotFound() {
	_, err := s.Store.GetDailyResult(s.Ctx, "c-1", "nobody")
	s.ErrorIs(err, model.ErrDailyResultNotFound)
}

func (s *Suite) TestListDailyResultsByChallenge() {
	for i, name := range []string{"alice", "bob", "carol"} {
		_, _, err := s.Store.InsertDailyResultIfAbsent(s.Ctx, result(fmt.Sprintf("r-%d", i), "c-1", name, 10*(i+1)))
		s.Require().NoError(err)
	}
	_, _, err := s.Store.InsertDailyResultIfAbsent(s.Ctx, result("r-other", "c-2", "alice", 5))
	s.Require().NoError(err)

	results, err := s.Store.ListDailyResults(s.Ctx, "c-1")
	s.Require().NoError(err)
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Username)
	}
	s.ElementsMatch([]string{"alice", "bob", "carol"}, names)

	empty, err := s.Store.ListDailyResults(s.Ctx, "c-missing")
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *Suite) TestConcurrentDailyResultInsertsStoreOneRow() {
	const callers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		creates int
	)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, created, err := s.Store.InsertDailyResultIfAbsent(s.Ctx, result(fmt.Sprintf("r-%d", i), "c-1", "alice", 10+i))
			if err != nil {
				s.T().Errorf("insert %d: %v", i, err)
				return
			}
			if created {
				mu.Lock()
				creates++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	s.Equal(1, creates)
	results, err := s.Store.ListDailyResults(s.Ctx, "c-1")
	s.Require().NoError(err)
	s.Len(results, 1)
}

// Time attack tests

func (s *Suite) TestTimeAttackResultsAppendAndFilter() {
	runs := []*model.TimeAttackResult{
		{ID: "t-1", Username: "alice", Difficulty: model.TierEasy, QuestionsSolved: 4, CreatedAt: baseTime},
		{ID: "t-2", Username: "alice", Difficulty: model.TierEasy, QuestionsSolved: 4, CreatedAt: baseTime.Add(time.Minute)},
		{ID: "t-3", Username: "bob", Difficulty: model.TierHard, QuestionsSolved: 9, CreatedAt: baseTime.Add(2 * time.Minute)},
	}
	for _, run := range runs {
		s.Require().NoError(s.Store.InsertTimeAttackResult(s.Ctx, run))
	}

	easy, err := s.Store.ListTimeAttackResults(s.Ctx, model.TierEasy)
	s.Require().NoError(err)
	s.Require().Len(easy, 2)
	s.ElementsMatch([]string{"t-1", "t-2"}, []string{easy[0].ID, easy[1].ID})

	hard, err := s.Store.ListTimeAttackResults(s.Ctx, model.TierHard)
	s.Require().NoError(err)
	s.Require().Len(hard, 1)
	s.Equal("bob", hard[0].Username)
	s.Equal(9, hard[0].QuestionsSolved)
	s.True(baseTime.Add(2 * time.Minute).Equal(hard[0].CreatedAt))

	all, err := s.Store.ListTimeAttackResults(s.Ctx, 0)
	s.Require().NoError(err)
	s.Len(all, 3)

	medium, err := s.Store.ListTimeAttackResults(s.Ctx, model.TierMedium)
	s.Require().NoError(err)
	s.Empty(medium)
}
