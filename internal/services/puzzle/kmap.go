package puzzle

import (
	"context"
	"log/slog"
	"sort"

	"github.com/mcoot/kmapgame/internal/dependencies/random"
	"github.com/mcoot/kmapgame/internal/model"
)

// tierShape describes the size of puzzles generated for a tier
type tierShape struct {
	numVars      int
	maxDontCares int
}

var tierShapes = map[model.Tier]tierShape{
	model.TierEasy:   {numVars: 3, maxDontCares: 0},
	model.TierMedium: {numVars: 4, maxDontCares: 2},
	model.TierHard:   {numVars: 5, maxDontCares: 3},
}

// KMapEngine generates random K-map minimization puzzles and checks answers
// against every minimal cover
type KMapEngine struct {
	random random.Random
	logger *slog.Logger
}

// Ensure KMapEngine implements Engine
var _ Engine = (*KMapEngine)(nil)

// NewKMapEngine creates a new KMapEngine
func NewKMapEngine(random random.Random, logger *slog.Logger) *KMapEngine {
	return &KMapEngine{
		random: random,
		logger: logger,
	}
}

// Generate builds a puzzle for the tier. At least one cell is always left
// outside both the terms and the don't-cares so the answer is never constant.
func (e *KMapEngine) Generate(ctx context.Context, tier model.Tier) (model.Puzzle, error) {
	shape, ok := tierShapes[tier]
	if !ok {
		return model.Puzzle{}, model.ErrInvalidTier
	}

	size := 1 << shape.numVars
	cells := e.random.Perm(size)
	dontCares := e.random.Intn(shape.maxDontCares + 1)
	termCount := 1 + e.random.Intn(size-dontCares-1)

	form := model.FormMin
	if e.random.Intn(2) == 1 {
		form = model.FormMax
	}

	p := model.Puzzle{
		NumVars:   shape.numVars,
		Form:      form,
		Terms:     sortedCopy(cells[:termCount]),
		DontCares: sortedCopy(cells[termCount : termCount+dontCares]),
	}

	m := minimize(p.NumVars, p.Terms, p.DontCares)
	p.Groupings = [][]int{}
	if covers := sortCovers(m.covers, p); len(covers) > 0 {
		for _, im := range covers[0] {
			p.Groupings = append(p.Groupings, im.cells(p.NumVars))
		}
	}

	e.logger.Debug("puzzle generated",
		slog.Int("tier", int(tier)),
		slog.Int("num_vars", p.NumVars),
		slog.String("form", string(p.Form)),
		slog.Int("terms", len(p.Terms)),
		slog.Int("dont_cares", len(p.DontCares)),
	)

	return p, nil
}

// Check reports whether answer is logically equivalent to the puzzle's
// function on every cared-about cell and is as small as a minimal form.
// Malformed answers are simply incorrect.
func (e *KMapEngine) Check(p model.Puzzle, answer string) (bool, []string) {
	if !validPuzzle(p) {
		return false, nil
	}

	m := minimize(p.NumVars, p.Terms, p.DontCares)
	canonical := renderCovers(sortCovers(m.covers, p), p)

	candidate, err := parseAnswer(p, answer)
	if err != nil {
		return false, canonical
	}
	candidate = dedupe(candidate)

	if !equivalent(p, candidate) {
		return false, canonical
	}
	if coverCost(candidate, p.NumVars) != m.best {
		return false, canonical
	}
	return true, canonical
}

func parseAnswer(p model.Puzzle, answer string) ([]implicant, error) {
	s := normalizeAnswer(answer)
	if p.Form == model.FormMax {
		return parsePOS(s, p.NumVars)
	}
	return parseSOP(s, p.NumVars)
}

// equivalent checks that the candidate covers exactly the puzzle terms,
// ignoring don't-care cells. For max form both sides describe the zero cells.
func equivalent(p model.Puzzle, candidate []implicant) bool {
	terms := toSet(p.Terms)
	dontCares := toSet(p.DontCares)
	for cell := 0; cell < 1<<p.NumVars; cell++ {
		if dontCares[cell] {
			continue
		}
		covered := false
		for _, im := range candidate {
			if im.covers(cell) {
				covered = true
				break
			}
		}
		if covered != terms[cell] {
			return false
		}
	}
	return true
}

func validPuzzle(p model.Puzzle) bool {
	if p.NumVars < 1 || p.NumVars > maxVars {
		return false
	}
	if p.Form != model.FormMin && p.Form != model.FormMax {
		return false
	}
	size := 1 << p.NumVars
	for _, c := range append(append([]int{}, p.Terms...), p.DontCares...) {
		if c < 0 || c >= size {
			return false
		}
	}
	return true
}

func render(cover []implicant, p model.Puzzle) string {
	if p.Form == model.FormMax {
		return renderPOS(cover, p.NumVars)
	}
	return renderSOP(cover, p.NumVars)
}

// sortCovers orders covers by their rendered form so results are stable
func sortCovers(covers [][]implicant, p model.Puzzle) [][]implicant {
	out := append([][]implicant{}, covers...)
	sort.SliceStable(out, func(i, j int) bool {
		return render(out[i], p) < render(out[j], p)
	})
	return out
}

func renderCovers(covers [][]implicant, p model.Puzzle) []string {
	out := make([]string, len(covers))
	for i, c := range covers {
		out[i] = render(c, p)
	}
	return out
}

func dedupe(ims []implicant) []implicant {
	seen := make(map[implicant]bool, len(ims))
	out := make([]implicant, 0, len(ims))
	for _, im := range ims {
		if seen[im] {
			continue
		}
		seen[im] = true
		out = append(out, im)
	}
	return out
}

func toSet(cells []int) map[int]bool {
	set := make(map[int]bool, len(cells))
	for _, c := range cells {
		set[c] = true
	}
	return set
}

func sortedCopy(cells []int) []int {
	out := append([]int{}, cells...)
	sort.Ints(out)
	return out
}
