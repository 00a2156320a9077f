package model

// Session is a player's game state. It is never stored server side:
// every request carries it in and every response carries it back out.
type Session struct {
	Username   string
	Score      int
	Mode       Mode
	Difficulty Difficulty
	Puzzle     Puzzle
	StartedAt  string // Only set in daily mode, echoed verbatim
}
