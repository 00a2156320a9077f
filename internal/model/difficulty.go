package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Difficulty is the numeric mode code carried in the session envelope
type Difficulty int

const (
	DifficultyEasy     Difficulty = 1
	DifficultyMedium   Difficulty = 2
	DifficultyHard     Difficulty = 3
	DifficultyTimed    Difficulty = 4 // Daily challenge marker
	DifficultyAdaptive Difficulty = 5
)

// UnmarshalJSON accepts a numeric code, as a number or a numeric string, or a
// mode label such as "hard" or "timed". Unrecognized labels are adaptive.
func (d *Difficulty) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		*d = Difficulty(int(v))
	case string:
		label := strings.TrimSpace(v)
		if label == "" {
			*d = 0
		} else if n, err := strconv.Atoi(label); err == nil {
			*d = Difficulty(n)
		} else {
			*d = ParseMode(label).Difficulty()
		}
	case nil:
		*d = 0
	default:
		return fmt.Errorf("unsupported difficulty value %s", string(data))
	}
	return nil
}

// Tier is a puzzle size tier accepted by the puzzle engine (1..3)
type Tier int

const (
	TierEasy   Tier = 1
	TierMedium Tier = 2
	TierHard   Tier = 3
)

// Valid reports whether t is one of the three engine tiers
func (t Tier) Valid() bool {
	return t >= TierEasy && t <= TierHard
}

// Mode is the session game mode
type Mode string

const (
	ModeFixedEasy   Mode = "fixed-easy"
	ModeFixedMedium Mode = "fixed-medium"
	ModeFixedHard   Mode = "fixed-hard"
	ModeDaily       Mode = "daily"
	ModeAdaptive    Mode = "adaptive"
)

// ParseMode resolves a mode label. Unrecognized labels fall back to adaptive.
func ParseMode(label string) Mode {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "easy", string(ModeFixedEasy):
		return ModeFixedEasy
	case "medium", string(ModeFixedMedium):
		return ModeFixedMedium
	case "hard", string(ModeFixedHard):
		return ModeFixedHard
	case "timed", string(ModeDaily):
		return ModeDaily
	default:
		return ModeAdaptive
	}
}

// ModeFromDifficulty maps a numeric difficulty code to its mode.
// Unknown codes fall back to adaptive, like unknown labels.
func ModeFromDifficulty(d Difficulty) Mode {
	switch d {
	case DifficultyEasy:
		return ModeFixedEasy
	case DifficultyMedium:
		return ModeFixedMedium
	case DifficultyHard:
		return ModeFixedHard
	case DifficultyTimed:
		return ModeDaily
	default:
		return ModeAdaptive
	}
}

// Difficulty returns the numeric code for the mode
func (m Mode) Difficulty() Difficulty {
	switch m {
	case ModeFixedEasy:
		return DifficultyEasy
	case ModeFixedMedium:
		return DifficultyMedium
	case ModeFixedHard:
		return DifficultyHard
	case ModeDaily:
		return DifficultyTimed
	default:
		return DifficultyAdaptive
	}
}

// FixedTier returns the tier of a fixed mode, and false for daily/adaptive
func (m Mode) FixedTier() (Tier, bool) {
	switch m {
	case ModeFixedEasy:
		return TierEasy, true
	case ModeFixedMedium:
		return TierMedium, true
	case ModeFixedHard:
		return TierHard, true
	default:
		return 0, false
	}
}

// Result is the outcome of a player's answer
type Result string

const (
	ResultCorrect   Result = "correct"
	ResultIncorrect Result = "incorrect"
)

// UnmarshalJSON accepts "correct"/"incorrect", 1/0 and true/false
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		switch strings.ToLower(v) {
		case string(ResultCorrect), "1":
			*r = ResultCorrect
		case string(ResultIncorrect), "0":
			*r = ResultIncorrect
		default:
			return fmt.Errorf("unknown result %q", v)
		}
	case float64:
		if v == 1 {
			*r = ResultCorrect
		} else {
			*r = ResultIncorrect
		}
	case bool:
		if v {
			*r = ResultCorrect
		} else {
			*r = ResultIncorrect
		}
	case nil:
		*r = ""
	default:
		return fmt.Errorf("unsupported result value %s", string(data))
	}
	return nil
}
