package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/kmapgame/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Session:
		o.printSession(v)
	case SubmitResult:
		o.printSubmitResult(v)
	case FinishDailyResult:
		o.printFinishDaily(v)
	case DailyChallenge:
		o.printDailyChallenge(v)
	case DailyLeaderboard:
		o.printDailyLeaderboard(v)
	case TimeAttackState:
		o.printTimeAttackState(v)
	case TimeAttackCheck:
		o.printTimeAttackCheck(v)
	case TimeAttackFinish:
		o.printTimeAttackFinish(v)
	case TimeAttackLeaderboard:
		o.printTimeAttackLeaderboard(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Session response type (matches API)
type Session struct {
	Username   string       `json:"username"`
	Score      int          `json:"score"`
	Mode       string       `json:"mode"`
	Difficulty int          `json:"difficulty"`
	Puzzle     model.Puzzle `json:"puzzle"`
	StartedAt  string       `json:"started_at,omitempty"`
}

// SubmitResult response type
type SubmitResult struct {
	Correct bool     `json:"correct"`
	Answers []string `json:"answers"`
}

// DailyEntry is one daily leaderboard row
type DailyEntry struct {
	Username              string `json:"username"`
	CompletionTimeSeconds *int   `json:"completion_time_seconds"`
}

// FinishDailyResult response type
type FinishDailyResult struct {
	Username       string       `json:"username"`
	Score          int          `json:"score"`
	ElapsedSeconds int          `json:"elapsed_seconds"`
	Rank           int          `json:"rank"`
	Leaderboard    []DailyEntry `json:"leaderboard"`
}

// DailyChallenge response type
type DailyChallenge struct {
	Date          string       `json:"date"`
	Puzzle        model.Puzzle `json:"puzzle"`
	Leaderboard   []DailyEntry `json:"leaderboard"`
	UserCompleted bool         `json:"user_completed"`
	UserTime      *int         `json:"user_time"`
	UserRank      *int         `json:"user_rank"`
}

// DailyLeaderboard response type
type DailyLeaderboard struct {
	Date              string       `json:"date"`
	Leaderboard       []DailyEntry `json:"leaderboard"`
	TotalParticipants int          `json:"total_participants"`
	UserRank          *int         `json:"user_rank"`
}

// TimeAttackState response type
type TimeAttackState struct {
	Username        string       `json:"username"`
	Difficulty      int          `json:"difficulty"`
	QuestionsSolved int          `json:"questions_solved"`
	Puzzle          model.Puzzle `json:"puzzle"`
}

// TimeAttackCheck response type
type TimeAttackCheck struct {
	Correct  bool            `json:"correct"`
	GameOver bool            `json:"game_over"`
	Answers  []string        `json:"answers"`
	State    TimeAttackState `json:"state"`
}

// TimeAttackEntry is one time attack leaderboard row
type TimeAttackEntry struct {
	Username        string `json:"username"`
	Difficulty      int    `json:"difficulty"`
	QuestionsSolved int    `json:"questions_solved"`
}

// TimeAttackFinish response type
type TimeAttackFinish struct {
	ID              string            `json:"id"`
	Username        string            `json:"username"`
	Difficulty      int               `json:"difficulty"`
	QuestionsSolved int               `json:"questions_solved"`
	Rank            int               `json:"rank"`
	Leaderboard     []TimeAttackEntry `json:"leaderboard"`
}

// TimeAttackLeaderboard response type
type TimeAttackLeaderboard struct {
	Difficulty  int               `json:"difficulty,omitempty"`
	Leaderboard []TimeAttackEntry `json:"leaderboard"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printSession(s Session) {
	fmt.Fprintf(o.w, "Player: %s\n", s.Username)
	fmt.Fprintf(o.w, "Mode: %s\n", s.Mode)
	fmt.Fprintf(o.w, "Score: %d\n", s.Score)
	if s.StartedAt != "" {
		fmt.Fprintf(o.w, "Started: %s\n", s.StartedAt)
	}
	fmt.Fprintln(o.w)
	o.printPuzzle(s.Puzzle)
}

func (o *Output) printPuzzle(p model.Puzzle) {
	kind, answer := "minterms", "sum of products"
	if p.Form == model.FormMax {
		kind, answer = "maxterms", "product of sums"
	}
	fmt.Fprintf(o.w, "%d variables, %s: %s\n", p.NumVars, kind, joinInts(p.Terms))
	if len(p.DontCares) > 0 {
		fmt.Fprintf(o.w, "Don't cares: %s\n", joinInts(p.DontCares))
	}
	fmt.Fprintf(o.w, "Answer as a minimal %s\n\n", answer)
	for _, line := range renderKMap(p) {
		fmt.Fprintln(o.w, line)
	}
}

func (o *Output) printSubmitResult(r SubmitResult) {
	if r.Correct {
		fmt.Fprintln(o.w, "Correct!")
	} else {
		fmt.Fprintln(o.w, "Incorrect.")
	}
	o.printAnswers(r.Answers)
}

func (o *Output) printAnswers(answers []string) {
	if len(answers) == 0 {
		return
	}
	fmt.Fprintln(o.w, "Minimal answers:")
	for _, a := range answers {
		fmt.Fprintf(o.w, "  %s\n", a)
	}
}

func (o *Output) printFinishDaily(r FinishDailyResult) {
	fmt.Fprintf(o.w, "%s finished in %ds (rank %d)\n", r.Username, r.ElapsedSeconds, r.Rank)
	o.printDailyEntries(r.Leaderboard)
}

func (o *Output) printDailyChallenge(d DailyChallenge) {
	fmt.Fprintf(o.w, "Daily challenge for %s\n", d.Date)
	if d.UserCompleted && d.UserTime != nil {
		rank := 0
		if d.UserRank != nil {
			rank = *d.UserRank
		}
		fmt.Fprintf(o.w, "You finished in %ds (rank %d)\n", *d.UserTime, rank)
	}
	fmt.Fprintln(o.w)
	o.printPuzzle(d.Puzzle)
	o.printDailyEntries(d.Leaderboard)
}

func (o *Output) printDailyLeaderboard(d DailyLeaderboard) {
	fmt.Fprintf(o.w, "Daily leaderboard for %s (%d players)\n", d.Date, d.TotalParticipants)
	if d.UserRank != nil {
		fmt.Fprintf(o.w, "Your rank: %d\n", *d.UserRank)
	}
	o.printDailyEntries(d.Leaderboard)
}

func (o *Output) printDailyEntries(entries []DailyEntry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintln(o.w, "\nLeaderboard:")
	for i, e := range entries {
		t := "-"
		if e.CompletionTimeSeconds != nil {
			t = fmt.Sprintf("%ds", *e.CompletionTimeSeconds)
		}
		fmt.Fprintf(o.w, "  %2d. %s %s\n", i+1, e.Username, t)
	}
}

func (o *Output) printTimeAttackState(s TimeAttackState) {
	fmt.Fprintf(o.w, "Time attack: %s, difficulty %d, solved %d\n\n", s.Username, s.Difficulty, s.QuestionsSolved)
	o.printPuzzle(s.Puzzle)
}

func (o *Output) printTimeAttackCheck(c TimeAttackCheck) {
	if c.GameOver {
		fmt.Fprintf(o.w, "Game over! Solved %d\n", c.State.QuestionsSolved)
		o.printAnswers(c.Answers)
		return
	}
	fmt.Fprintf(o.w, "Correct! Solved %d\n\n", c.State.QuestionsSolved)
	o.printPuzzle(c.State.Puzzle)
}

func (o *Output) printTimeAttackFinish(f TimeAttackFinish) {
	fmt.Fprintf(o.w, "%s solved %d on difficulty %d (rank %d)\n", f.Username, f.QuestionsSolved, f.Difficulty, f.Rank)
	o.printTimeAttackEntries(f.Leaderboard)
}

func (o *Output) printTimeAttackLeaderboard(l TimeAttackLeaderboard) {
	if l.Difficulty != 0 {
		fmt.Fprintf(o.w, "Time attack leaderboard, difficulty %d\n", l.Difficulty)
	} else {
		fmt.Fprintln(o.w, "Time attack leaderboard")
	}
	o.printTimeAttackEntries(l.Leaderboard)
}

func (o *Output) printTimeAttackEntries(entries []TimeAttackEntry) {
	for i, e := range entries {
		fmt.Fprintf(o.w, "  %2d. %s %d (difficulty %d)\n", i+1, e.Username, e.QuestionsSolved, e.Difficulty)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}
