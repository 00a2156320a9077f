// Package progression decides how a session moves after each answer.
// Everything here is a pure function of its inputs.
package progression

import "github.com/mcoot/kmapgame/internal/model"

// Adaptive mode thresholds on the updated score
const (
	MediumThreshold = 5
	HardThreshold   = 10
)

// Step is the outcome of one answer
type Step struct {
	Score int
	Tier  model.Tier
	// Regenerate is false when the session keeps its current puzzle (daily mode)
	Regenerate bool
}

// Start returns the tier a new session of the given mode begins on
func Start(mode model.Mode) model.Tier {
	if tier, ok := mode.FixedTier(); ok {
		return tier
	}
	if mode == model.ModeDaily {
		return model.TierHard
	}
	return model.TierEasy
}

// TierForScore derives the adaptive tier from a score
func TierForScore(score int) model.Tier {
	switch {
	case score >= HardThreshold:
		return model.TierHard
	case score >= MediumThreshold:
		return model.TierMedium
	default:
		return model.TierEasy
	}
}

// Advance applies one answer to (mode, score).
//
//   - fixed tiers never change tier; a miss resets the score
//   - adaptive re-derives the tier from the updated score every turn;
//     a miss resets to score 0 on the easy tier
//   - daily keeps its puzzle whatever happens
func Advance(mode model.Mode, score int, result model.Result) Step {
	correct := result == model.ResultCorrect
	next := 0
	if correct {
		next = score + 1
	}

	if tier, ok := mode.FixedTier(); ok {
		return Step{Score: next, Tier: tier, Regenerate: true}
	}

	switch mode {
	case model.ModeDaily:
		return Step{Score: next, Tier: model.TierHard, Regenerate: false}
	default:
		if !correct {
			return Step{Score: 0, Tier: model.TierEasy, Regenerate: true}
		}
		return Step{Score: next, Tier: TierForScore(next), Regenerate: true}
	}
}
