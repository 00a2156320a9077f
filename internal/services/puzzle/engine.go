package puzzle

import (
	"context"

	"github.com/mcoot/kmapgame/internal/model"
)

// Engine produces puzzles and verifies candidate answers.
//
// Check must be a pure function of its inputs: the same puzzle and answer
// always produce the same verdict. The returned canonical answers list every
// minimal form the engine knows about; there may be more than one.
type Engine interface {
	Generate(ctx context.Context, tier model.Tier) (model.Puzzle, error)
	Check(p model.Puzzle, answer string) (correct bool, canonical []string)
}
