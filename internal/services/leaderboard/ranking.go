// Package leaderboard orders persisted results and computes ranks.
// Nothing here touches storage.
package leaderboard

import (
	"sort"
	"time"

	"github.com/mcoot/kmapgame/internal/model"
)

// DefaultSize is how many entries the short leaderboards show
const DefaultSize = 10

// DailyEntry is one row of a daily leaderboard
type DailyEntry struct {
	Username              string `json:"username"`
	CompletionTimeSeconds *int   `json:"completion_time_seconds"`
}

// TimeAttackEntry is one row of a time attack leaderboard
type TimeAttackEntry struct {
	Username        string     `json:"username"`
	Difficulty      model.Tier `json:"difficulty"`
	QuestionsSolved int        `json:"questions_solved"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Rank returns one plus the number of results strictly faster than seconds.
// Equal times share a rank and results without a time never count.
func Rank(results []*model.DailyChallengeResult, seconds int) int {
	rank := 1
	for _, r := range results {
		if r.CompletionTimeSeconds != nil && *r.CompletionTimeSeconds < seconds {
			rank++
		}
	}
	return rank
}

// SortDaily returns a copy of results ordered fastest first. Results without a
// time go last; ties fall back to creation time then username.
func SortDaily(results []*model.DailyChallengeResult) []*model.DailyChallengeResult {
	sorted := append([]*model.DailyChallengeResult(nil), results...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		switch {
		case a.CompletionTimeSeconds == nil && b.CompletionTimeSeconds == nil:
		case a.CompletionTimeSeconds == nil:
			return false
		case b.CompletionTimeSeconds == nil:
			return true
		case *a.CompletionTimeSeconds != *b.CompletionTimeSeconds:
			return *a.CompletionTimeSeconds < *b.CompletionTimeSeconds
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.Username < b.Username
	})
	return sorted
}

// TopN returns the n fastest entries
func TopN(results []*model.DailyChallengeResult, n int) []DailyEntry {
	sorted := SortDaily(results)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return dailyEntries(sorted)
}

// Full returns every entry, fastest first
func Full(results []*model.DailyChallengeResult) []DailyEntry {
	return dailyEntries(SortDaily(results))
}

func dailyEntries(results []*model.DailyChallengeResult) []DailyEntry {
	entries := make([]DailyEntry, len(results))
	for i, r := range results {
		entries[i] = DailyEntry{Username: r.Username, CompletionTimeSeconds: r.CompletionTimeSeconds}
	}
	return entries
}

// SortTimeAttack returns a copy of results ordered by questions solved, most
// first. Equal scores rank the earlier run higher.
func SortTimeAttack(results []*model.TimeAttackResult) []*model.TimeAttackResult {
	sorted := append([]*model.TimeAttackResult(nil), results...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.QuestionsSolved != b.QuestionsSolved {
			return a.QuestionsSolved > b.QuestionsSolved
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return sorted
}

// TopTimeAttack returns the best n runs; n < 0 returns all of them
func TopTimeAttack(results []*model.TimeAttackResult, n int) []TimeAttackEntry {
	sorted := SortTimeAttack(results)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	entries := make([]TimeAttackEntry, len(sorted))
	for i, r := range sorted {
		entries[i] = TimeAttackEntry{
			Username:        r.Username,
			Difficulty:      r.Difficulty,
			QuestionsSolved: r.QuestionsSolved,
			CreatedAt:       r.CreatedAt,
		}
	}
	return entries
}

// TimeAttackRank returns the 1-indexed position of the run with the given ID,
// or 0 if it is not present
func TimeAttackRank(results []*model.TimeAttackResult, id string) int {
	for i, r := range SortTimeAttack(results) {
		if r.ID == id {
			return i + 1
		}
	}
	return 0
}
