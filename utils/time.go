package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// CalculateSleepDuration returns the sleep duration in hours (two decimals)
// for a pair of "HH:mm" clock times. If the end time is at or before the
// start time the session is assumed to cross midnight. Returns (nil, nil)
// when either input is empty.
func CalculateSleepDuration(sleepStart, sleepEnd string) (*float64, error) {
	if sleepStart == "" || sleepEnd == "" {
		return nil, nil
	}

	start, err := parseClock(sleepStart)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(sleepEnd)
	if err != nil {
		return nil, err
	}

	if end <= start {
		end += 24 * 60
	}

	hours := math.Round(float64(end-start)/60.0*100) / 100
	return &hours, nil
}

// parseClock converts "HH:mm" to minutes since midnight.
func parseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:mm", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid time %q: hour out of range", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time %q: minute out of range", s)
	}
	return h*60 + m, nil
}

// DetermineAnalysisPhase maps days-of-data to a cold-start phase:
// 0 (<7 days, global priors), 1 (7-29 days, blended), 2 (>=30, personalized).
func DetermineAnalysisPhase(daysOfData int) int {
	if daysOfData < 7 {
		return 0
	}
	if daysOfData < 30 {
		return 1
	}
	return 2
}

func DayStart(t time.Time) time.Time {
	tt := t.In(time.Local)
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.Local)
}

// DateRange returns the window covering the trailing n days ending now.
func DateRange(days int) (time.Time, time.Time) {
	end := time.Now()
	return end.AddDate(0, 0, -days), end
}

func FormatDate(t time.Time) string { return t.Format("2006-01-02") }
