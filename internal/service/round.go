package service

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"gang-admin-api/internal/model"
	"gang-admin-api/pkg/validator"
)

// ParseRounds decodes the attendance_rounds setting. Empty input means no rounds.
func ParseRounds(raw string) ([]model.Round, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var rounds []model.Round
	if err := json.Unmarshal([]byte(raw), &rounds); err != nil {
		return nil, invalid("attendance rounds must be a JSON array: %v", err)
	}
	return rounds, nil
}

// timeToMinutes converts HH:MM to minutes since midnight, -1 when malformed.
func timeToMinutes(timeStr string) int {
	if !validator.IsHHMM(timeStr) {
		return -1
	}
	parts := strings.Split(timeStr, ":")
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	return hours*60 + minutes
}

// ResolveRound returns the first round whose inclusive [start, end] window
// contains the minute-of-day of now in loc, or nil.
func ResolveRound(now time.Time, loc *time.Location, rounds []model.Round) *model.Round {
	local := now.In(loc)
	m := local.Hour()*60 + local.Minute()
	for i := range rounds {
		start := timeToMinutes(rounds[i].StartTime)
		end := timeToMinutes(rounds[i].EndTime)
		if start < 0 || end < 0 {
			continue
		}
		if m >= start && m <= end {
			return &rounds[i]
		}
	}
	return nil
}

// ValidateRounds checks a configuration before it is stored.
// Overlaps are allowed; resolution picks the first match.
func ValidateRounds(rounds []model.Round) error {
	seen := make(map[int]bool, len(rounds))
	for _, r := range rounds {
		if r.ID <= 0 {
			return invalid("round id must be positive")
		}
		if seen[r.ID] {
			return invalid("duplicate round id %d", r.ID)
		}
		seen[r.ID] = true
		if strings.TrimSpace(r.Name) == "" {
			return invalid("round %d needs a name", r.ID)
		}
		start, end := timeToMinutes(r.StartTime), timeToMinutes(r.EndTime)
		if start < 0 || end < 0 {
			return invalid("round %d: invalid time format, use HH:MM (e.g., 08:30, 17:59)", r.ID)
		}
		if start > end {
			return invalid("round %d: start time is after end time", r.ID)
		}
	}
	return nil
}

// RoundName returns the configured name of round id, or a generic label.
func RoundName(rounds []model.Round, id int) string {
	for _, r := range rounds {
		if r.ID == id {
			return r.Name
		}
	}
	return "Round " + strconv.Itoa(id)
}
