package response

import (
	"github.com/mcoot/kmapgame/internal/model"
	"github.com/mcoot/kmapgame/internal/services/game"
	"github.com/mcoot/kmapgame/internal/services/leaderboard"
)

// Session is the session envelope handed back to the client
type Session struct {
	Username   string           `json:"username"`
	Score      int              `json:"score"`
	Mode       model.Mode       `json:"mode"`
	Difficulty model.Difficulty `json:"difficulty"`
	Puzzle     model.Puzzle     `json:"puzzle"`
	StartedAt  string           `json:"started_at,omitempty"`
}

// SessionFromModel converts a model.Session
func SessionFromModel(s *model.Session) Session {
	return Session{
		Username:   s.Username,
		Score:      s.Score,
		Mode:       s.Mode,
		Difficulty: s.Difficulty,
		Puzzle:     s.Puzzle,
		StartedAt:  s.StartedAt,
	}
}

// SubmitAnswer is the verdict on an answer
type SubmitAnswer struct {
	Correct bool     `json:"correct"`
	Answers []string `json:"answers"`
}

// SubmitAnswerFromOutput converts a game.SubmitOutput
func SubmitAnswerFromOutput(o *game.SubmitOutput) SubmitAnswer {
	return SubmitAnswer{Correct: o.Correct, Answers: nonNil(o.Answers)}
}

// FinishDaily reports a timed daily completion
type FinishDaily struct {
	Username       string                   `json:"username"`
	Score          int                      `json:"score"`
	ElapsedSeconds int                      `json:"elapsed_seconds"`
	Rank           int                      `json:"rank"`
	Leaderboard    []leaderboard.DailyEntry `json:"leaderboard"`
}

// FinishDailyFromOutput converts a game.FinishDailyOutput
func FinishDailyFromOutput(o *game.FinishDailyOutput) FinishDaily {
	return FinishDaily{
		Username:       o.Username,
		Score:          o.Score,
		ElapsedSeconds: o.ElapsedSeconds,
		Rank:           o.Rank,
		Leaderboard:    o.Leaderboard,
	}
}

// DailyChallenge is today's challenge with the short leaderboard
type DailyChallenge struct {
	Date          model.Date               `json:"date"`
	Puzzle        model.Puzzle             `json:"puzzle"`
	Leaderboard   []leaderboard.DailyEntry `json:"leaderboard"`
	UserCompleted bool                     `json:"user_completed"`
	UserTime      *int                     `json:"user_time"`
	UserRank      *int                     `json:"user_rank"`
}

// DailyChallengeFromView converts a game.DailyView
func DailyChallengeFromView(v *game.DailyView) DailyChallenge {
	return DailyChallenge{
		Date:          v.Date,
		Puzzle:        v.Puzzle,
		Leaderboard:   v.Leaderboard,
		UserCompleted: v.UserCompleted,
		UserTime:      v.UserTime,
		UserRank:      v.UserRank,
	}
}

// DailyLeaderboard is the full ranking for today
type DailyLeaderboard struct {
	Date              model.Date               `json:"date"`
	Leaderboard       []leaderboard.DailyEntry `json:"leaderboard"`
	TotalParticipants int                      `json:"total_participants"`
	UserRank          *int                     `json:"user_rank"`
}

// DailyLeaderboardFromView converts a game.DailyLeaderboardView
func DailyLeaderboardFromView(v *game.DailyLeaderboardView) DailyLeaderboard {
	return DailyLeaderboard{
		Date:              v.Date,
		Leaderboard:       v.Leaderboard,
		TotalParticipants: v.TotalParticipants,
		UserRank:          v.UserRank,
	}
}

// TimeAttackState is the client-held survival run
type TimeAttackState struct {
	Username        string       `json:"username"`
	Difficulty      model.Tier   `json:"difficulty"`
	QuestionsSolved int          `json:"questions_solved"`
	Puzzle          model.Puzzle `json:"puzzle"`
}

// TimeAttackStateFromModel converts a game.TimeAttackState
func TimeAttackStateFromModel(s game.TimeAttackState) TimeAttackState {
	return TimeAttackState{
		Username:        s.Username,
		Difficulty:      s.Difficulty,
		QuestionsSolved: s.QuestionsSolved,
		Puzzle:          s.Puzzle,
	}
}

// TimeAttackCheck is the verdict on a survival answer
type TimeAttackCheck struct {
	Correct  bool            `json:"correct"`
	GameOver bool            `json:"game_over"`
	Answers  []string        `json:"answers"`
	State    TimeAttackState `json:"state"`
}

// TimeAttackCheckFromOutput converts a game.TimeAttackCheckOutput
func TimeAttackCheckFromOutput(o *game.TimeAttackCheckOutput) TimeAttackCheck {
	return TimeAttackCheck{
		Correct:  o.Correct,
		GameOver: o.GameOver,
		Answers:  nonNil(o.Answers),
		State:    TimeAttackStateFromModel(o.State),
	}
}

// TimeAttackFinish reports a recorded run and where it placed
type TimeAttackFinish struct {
	ID              string                        `json:"id"`
	Username        string                        `json:"username"`
	Difficulty      model.Tier                    `json:"difficulty"`
	QuestionsSolved int                           `json:"questions_solved"`
	Rank            int                           `json:"rank"`
	Leaderboard     []leaderboard.TimeAttackEntry `json:"leaderboard"`
}

// TimeAttackFinishFromOutput converts a game.FinishTimeAttackOutput
func TimeAttackFinishFromOutput(o *game.FinishTimeAttackOutput) TimeAttackFinish {
	return TimeAttackFinish{
		ID:              o.Run.ID,
		Username:        o.Run.Username,
		Difficulty:      o.Run.Difficulty,
		QuestionsSolved: o.Run.QuestionsSolved,
		Rank:            o.Rank,
		Leaderboard:     o.Leaderboard,
	}
}

// TimeAttackLeaderboard lists the best survival runs
type TimeAttackLeaderboard struct {
	Difficulty  model.Tier                    `json:"difficulty,omitempty"`
	Leaderboard []leaderboard.TimeAttackEntry `json:"leaderboard"`
}

// Health is the health check body
type Health struct {
	Status string `json:"status"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
