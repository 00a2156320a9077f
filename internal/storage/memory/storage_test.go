package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/kmapgame/internal/model"
	"github.com/mcoot/kmapgame/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.Store = s.storage
	s.Ctx = context.Background()
}

func (s *StorageSuite) TestReturnedChallengeIsACopy() {
	c := &model.DailyChallenge{ID: "c-1", Date: "2025-03-14", Puzzle: model.Puzzle{NumVars: 3, Terms: []int{1}}}
	_, _, err := s.storage.InsertDailyChallengeIfAbsent(s.Ctx, c)
	s.Require().NoError(err)

	c.Puzzle.Terms[0] = 7
	fetched, err := s.storage.GetDailyChallenge(s.Ctx, "2025-03-14")
	s.Require().NoError(err)
	s.Equal([]int{1}, fetched.Puzzle.Terms)

	fetched.Puzzle.Terms[0] = 5
	again, err := s.storage.GetDailyChallenge(s.Ctx, "2025-03-14")
	s.Require().NoError(err)
	s.Equal([]int{1}, again.Puzzle.Terms)
}

func (s *StorageSuite) TestListDailyResultsKeepsInsertOrder() {
	for _, name := range []string{"carol", "alice", "bob"} {
		_, _, err := s.storage.InsertDailyResultIfAbsent(s.Ctx, &model.DailyChallengeResult{ID: name, Username: name, ChallengeID: "c-1"})
		s.Require().NoError(err)
	}

	results, err := s.storage.ListDailyResults(s.Ctx, "c-1")
	s.Require().NoError(err)
	s.Require().Len(results, 3)
	s.Equal("carol", results[0].Username)
	s.Equal("alice", results[1].Username)
	s.Equal("bob", results[2].Username)
}
