package model

// Form selects whether a puzzle's terms are minterms or maxterms
type Form string

const (
	FormMin Form = "min" // terms are minterms, answer is a sum of products
	FormMax Form = "max" // terms are maxterms, answer is a product of sums
)

// Puzzle is a single K-map minimization problem
type Puzzle struct {
	NumVars   int     `json:"num_vars"`
	Form      Form    `json:"form"`
	Terms     []int   `json:"terms"`
	DontCares []int   `json:"dont_cares"`
	Groupings [][]int `json:"groupings"`
}

// Clone returns a deep copy of the puzzle
func (p Puzzle) Clone() Puzzle {
	out := Puzzle{
		NumVars:   p.NumVars,
		Form:      p.Form,
		Terms:     append([]int{}, p.Terms...),
		DontCares: append([]int{}, p.DontCares...),
		Groupings: make([][]int, len(p.Groupings)),
	}
	for i, g := range p.Groupings {
		out.Groupings[i] = append([]int{}, g...)
	}
	return out
}
