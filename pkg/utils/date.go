package utils

import (
	"log"
	"time"
)

// TimeNowET returns the current time in the US market timezone.
func TimeNowET() time.Time {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		log.Fatal("Failed to load location", err)
	}
	return time.Now().In(loc)
}

// DateOnly truncates t to midnight UTC, the granularity of price and
// prediction rows.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
