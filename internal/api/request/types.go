package request

import (
	"github.com/mcoot/kmapgame/internal/model"
)

// Session is the client-held session envelope. The server keeps no copy:
// each request carries it in and each response hands the next one back.
type Session struct {
	Username   string           `json:"username" validate:"max=50"`
	Score      int              `json:"score" validate:"min=0"`
	Mode       string           `json:"mode,omitempty"`
	Difficulty model.Difficulty `json:"difficulty,omitempty"`
	Puzzle     model.Puzzle     `json:"puzzle"`
	StartedAt  string           `json:"started_at,omitempty"`
}

// ResolveMode picks the session mode. A mode label wins over the numeric
// difficulty code; with neither the session is adaptive.
func ResolveMode(label string, difficulty model.Difficulty) model.Mode {
	if label != "" {
		return model.ParseMode(label)
	}
	return model.ModeFromDifficulty(difficulty)
}

// ToModel converts the envelope to a model.Session
func (s Session) ToModel() model.Session {
	mode := ResolveMode(s.Mode, s.Difficulty)
	return model.Session{
		Username:   s.Username,
		Score:      s.Score,
		Mode:       mode,
		Difficulty: mode.Difficulty(),
		Puzzle:     s.Puzzle,
		StartedAt:  s.StartedAt,
	}
}

// CreateSessionRequest is the request body for starting a session
type CreateSessionRequest struct {
	Username   string           `json:"username" validate:"max=50"`
	Mode       string           `json:"mode,omitempty"`
	Difficulty model.Difficulty `json:"difficulty,omitempty"`
}

// AdvanceSessionRequest is the request body for moving to the next puzzle
type AdvanceSessionRequest struct {
	Session
	Result model.Result `json:"result" validate:"required,oneof=correct incorrect"`
}

// SubmitAnswerRequest is the request body for checking an answer
type SubmitAnswerRequest struct {
	Session
	Answer string `json:"answer"`
}

// FinishDailyRequest is the request body for closing a timed daily run
type FinishDailyRequest struct {
	Username       string           `json:"username" validate:"max=50"`
	Difficulty     model.Difficulty `json:"difficulty"`
	ElapsedSeconds *FlexInt         `json:"elapsed_seconds"`
	Score          int              `json:"score" validate:"min=0"`
}

// Elapsed returns the elapsed seconds, or nil when the field was absent
func (r FinishDailyRequest) Elapsed() *int {
	if r.ElapsedSeconds == nil {
		return nil
	}
	v := int(*r.ElapsedSeconds)
	return &v
}

// StartTimeAttackRequest is the request body for starting a survival run
type StartTimeAttackRequest struct {
	Username   string     `json:"username" validate:"max=50"`
	Difficulty model.Tier `json:"difficulty"`
}

// CheckTimeAttackRequest is the request body for answering in a survival run
type CheckTimeAttackRequest struct {
	Username        string       `json:"username" validate:"max=50"`
	Difficulty      model.Tier   `json:"difficulty"`
	QuestionsSolved int          `json:"questions_solved" validate:"min=0"`
	Puzzle          model.Puzzle `json:"puzzle"`
	Answer          string       `json:"answer"`
}

// FinishTimeAttackRequest is the request body for recording a survival run
type FinishTimeAttackRequest struct {
	Username        string     `json:"username" validate:"max=50"`
	Difficulty      model.Tier `json:"difficulty"`
	QuestionsSolved int        `json:"questions_solved" validate:"min=0"`
}
