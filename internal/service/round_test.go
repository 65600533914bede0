package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"gang-admin-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var threeRounds = []model.Round{
	{ID: 1, Name: "Morning", StartTime: "08:00", EndTime: "10:00"},
	{ID: 2, Name: "Afternoon", StartTime: "13:00", EndTime: "15:00"},
	{ID: 3, Name: "Night", StartTime: "20:00", EndTime: "22:00"},
}

func localTime(loc *time.Location, hh, mm int) time.Time {
	return time.Date(2025, 3, 14, hh, mm, 0, 0, loc)
}

func TestResolveRound(t *testing.T) {
	loc := bangkok()

	t.Run("Inside Window", func(t *testing.T) {
		r := ResolveRound(localTime(loc, 9, 15), loc, threeRounds)
		require.NotNil(t, r)
		assert.Equal(t, 1, r.ID)
	})

	t.Run("Both Ends Inclusive", func(t *testing.T) {
		assert.Equal(t, 2, ResolveRound(localTime(loc, 13, 0), loc, threeRounds).ID)
		assert.Equal(t, 2, ResolveRound(localTime(loc, 15, 0), loc, threeRounds).ID)
		assert.Nil(t, ResolveRound(localTime(loc, 15, 1), loc, threeRounds))
	})

	t.Run("Between Rounds", func(t *testing.T) {
		assert.Nil(t, ResolveRound(localTime(loc, 11, 30), loc, threeRounds))
	})

	t.Run("Uses Configured Zone", func(t *testing.T) {
		// 02:30 UTC is 09:30 in Bangkok.
		now := time.Date(2025, 3, 14, 2, 30, 0, 0, time.UTC)
		r := ResolveRound(now, loc, threeRounds)
		require.NotNil(t, r)
		assert.Equal(t, "Morning", r.Name)
	})

	t.Run("First Match Wins On Overlap", func(t *testing.T) {
		rounds := []model.Round{
			{ID: 7, Name: "Wide", StartTime: "08:00", EndTime: "12:00"},
			{ID: 8, Name: "Narrow", StartTime: "09:00", EndTime: "09:30"},
		}
		assert.Equal(t, 7, ResolveRound(localTime(loc, 9, 10), loc, rounds).ID)
	})

	t.Run("Malformed Round Skipped", func(t *testing.T) {
		rounds := []model.Round{
			{ID: 1, Name: "Broken", StartTime: "8am", EndTime: "10:00"},
			{ID: 2, Name: "Ok", StartTime: "08:00", EndTime: "10:00"},
		}
		assert.Equal(t, 2, ResolveRound(localTime(loc, 9, 0), loc, rounds).ID)
	})
}

func hhmm(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// A resolved round always contains the minute; outside every window there is none.
func TestResolveRound_Property(t *testing.T) {
	loc := bangkok()
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 5).Draw(t, "n")
		rounds := make([]model.Round, n)
		for i := range rounds {
			start := rapid.IntRange(0, 1439).Draw(t, "start")
			end := rapid.IntRange(start, 1439).Draw(t, "end")
			rounds[i] = model.Round{ID: i + 1, Name: fmt.Sprintf("R%d", i+1), StartTime: hhmm(start), EndTime: hhmm(end)}
		}
		minute := rapid.IntRange(0, 1439).Draw(t, "minute")

		got := ResolveRound(localTime(loc, minute/60, minute%60), loc, rounds)

		var want *model.Round
		for i := range rounds {
			if minute >= timeToMinutes(rounds[i].StartTime) && minute <= timeToMinutes(rounds[i].EndTime) {
				want = &rounds[i]
				break
			}
		}
		if want == nil {
			if got != nil {
				t.Fatalf("minute %d resolved to %+v, expected none", minute, *got)
			}
			return
		}
		if got == nil || got.ID != want.ID {
			t.Fatalf("minute %d resolved to %v, expected round %d", minute, got, want.ID)
		}
	})
}

func TestParseRounds(t *testing.T) {
	rounds, err := ParseRounds(`[{"id":1,"name":"Morning","start_time":"08:00","end_time":"10:00"}]`)
	require.NoError(t, err)
	assert.Equal(t, []model.Round{{ID: 1, Name: "Morning", StartTime: "08:00", EndTime: "10:00"}}, rounds)

	rounds, err = ParseRounds("  ")
	require.NoError(t, err)
	assert.Empty(t, rounds)

	_, err = ParseRounds(`{"id":1}`)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestValidateRounds(t *testing.T) {
	assert.NoError(t, ValidateRounds(threeRounds))

	cases := map[string][]model.Round{
		"zero id":      {{ID: 0, Name: "A", StartTime: "08:00", EndTime: "09:00"}},
		"duplicate id": {{ID: 1, Name: "A", StartTime: "08:00", EndTime: "09:00"}, {ID: 1, Name: "B", StartTime: "10:00", EndTime: "11:00"}},
		"empty name":   {{ID: 1, Name: " ", StartTime: "08:00", EndTime: "09:00"}},
		"bad time":     {{ID: 1, Name: "A", StartTime: "25:00", EndTime: "26:00"}},
		"reversed":     {{ID: 1, Name: "A", StartTime: "10:00", EndTime: "09:00"}},
	}
	for name, rounds := range cases {
		t.Run(name, func(t *testing.T) {
			assert.True(t, errors.Is(ValidateRounds(rounds), ErrInvalidInput))
		})
	}
}

func TestRoundName(t *testing.T) {
	assert.Equal(t, "Afternoon", RoundName(threeRounds, 2))
	assert.NotEmpty(t, RoundName(threeRounds, 9))
}
