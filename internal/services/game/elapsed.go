package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/mcoot/kmapgame/internal/model"
)

// Accepted start time layouts. Layouts without a zone parse as UTC.
var startedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// ElapsedSeconds returns the whole seconds between startedAt and now,
// never negative. Naive timestamps are taken to be UTC.
func ElapsedSeconds(startedAt string, now time.Time) (int, error) {
	s := strings.TrimSpace(startedAt)
	for _, layout := range startedAtLayouts {
		start, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		elapsed := int(now.UTC().Sub(start.UTC()).Seconds())
		if elapsed < 0 {
			elapsed = 0
		}
		return elapsed, nil
	}
	return 0, fmt.Errorf("%w: %q", model.ErrInvalidStartTime, startedAt)
}

// FormatStartedAt renders a session start time
func FormatStartedAt(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
