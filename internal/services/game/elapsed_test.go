package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/kmapgame/internal/model"
)

func TestElapsedSeconds(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		startedAt string
		expected  int
	}{
		{startedAt: "2025-03-14T11:58:30Z", expected: 90},
		{startedAt: "2025-03-14T11:58:30+00:00", expected: 90},
		{startedAt: "2025-03-14T13:58:30+02:00", expected: 90},
		{startedAt: "2025-03-14T11:58:30.750000+00:00", expected: 89},
		{startedAt: "2025-03-14T11:58:30", expected: 90},
		{startedAt: "2025-03-14 11:58:30", expected: 90},
		{startedAt: " 2025-03-14T11:58:30Z ", expected: 90},
		{startedAt: "2025-03-14T12:05:00Z", expected: 0},
	}

	for _, tc := range cases {
		elapsed, err := ElapsedSeconds(tc.startedAt, now)
		require.NoError(t, err, tc.startedAt)
		assert.Equal(t, tc.expected, elapsed, tc.startedAt)
	}
}

func TestElapsedSecondsRejectsGarbage(t *testing.T) {
	for _, startedAt := range []string{"", "yesterday", "2025-13-40T00:00:00Z", "1710417600"} {
		_, err := ElapsedSeconds(startedAt, time.Now())
		assert.ErrorIs(t, err, model.ErrInvalidStartTime, startedAt)
	}
}

func TestFormatStartedAtRoundTrips(t *testing.T) {
	start := time.Date(2025, 3, 14, 11, 0, 0, 0, time.FixedZone("X", -5*60*60))
	s := FormatStartedAt(start)
	assert.Equal(t, "2025-03-14T16:00:00Z", s)

	elapsed, err := ElapsedSeconds(s, start.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 120, elapsed)
}
