package redis

import (
	"fmt"

	"github.com/mcoot/kmapgame/internal/model"
)

// keys builds every key under a common prefix
type keys struct {
	prefix string
}

// dailyChallenge returns the key holding the challenge for a date
func (k keys) dailyChallenge(date model.Date) string {
	return fmt.Sprintf("%s:daily:%s", k.prefix, date)
}

// dailyResults returns the HASH of username -> result for a challenge
func (k keys) dailyResults(challengeID string) string {
	return fmt.Sprintf("%s:daily_results:%s", k.prefix, challengeID)
}

// timeAttackRuns returns the LIST of runs for a difficulty
func (k keys) timeAttackRuns(difficulty model.Tier) string {
	return fmt.Sprintf("%s:time_attack:%d", k.prefix, difficulty)
}
