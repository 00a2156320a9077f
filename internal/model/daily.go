package model

import "time"

// DateLayout is the wire and storage format of a calendar date
const DateLayout = "2006-01-02"

// Date is a calendar day, formatted YYYY-MM-DD
type Date string

// DateOf returns the calendar date of t in loc
func DateOf(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return Date(t.In(loc).Format(DateLayout))
}

// DailyChallenge is the single shared puzzle for one calendar date.
// Immutable once created.
type DailyChallenge struct {
	ID        string    `json:"id"`
	Date      Date      `json:"date"`
	Puzzle    Puzzle    `json:"puzzle"`
	CreatedAt time.Time `json:"created_at"`
}

// DailyChallengeResult is a player's completion of a daily challenge.
// At most one exists per (Username, ChallengeID).
type DailyChallengeResult struct {
	ID                    string     `json:"id"`
	Username              string     `json:"username"`
	ChallengeID           string     `json:"challenge_id"`
	CompletionTimeSeconds *int       `json:"completion_time_seconds"`
	CompletedAt           *time.Time `json:"completed_at"`
	Score                 int        `json:"score"`
	CreatedAt             time.Time  `json:"created_at"`
}

// TimeAttackResult is one finished survival run. Append-only.
type TimeAttackResult struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Difficulty      Tier      `json:"difficulty"`
	QuestionsSolved int       `json:"questions_solved"`
	CreatedAt       time.Time `json:"created_at"`
}
