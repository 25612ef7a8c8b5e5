package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFinvizDate_FullTimestamp(t *testing.T) {
	parsed, hasDate := parseFinvizDate("Aug-01-25 09:30AM", time.Time{})
	assert.True(t, hasDate)
	assert.Equal(t, time.Date(2025, 8, 1, 9, 30, 0, 0, time.UTC), parsed)
}

func TestParseFinvizDate_TimeOnlyInheritsLastDate(t *testing.T) {
	lastDate := time.Date(2025, 8, 1, 9, 30, 0, 0, time.UTC)
	parsed, hasDate := parseFinvizDate("04:15PM", lastDate)
	assert.False(t, hasDate)
	assert.Equal(t, time.Date(2025, 8, 1, 16, 15, 0, 0, time.UTC), parsed)
}

func TestParseFinvizDate_Today(t *testing.T) {
	parsed, hasDate := parseFinvizDate("Today 10:05AM", time.Time{})
	assert.True(t, hasDate)
	now := time.Now()
	assert.Equal(t, now.Year(), parsed.Year())
	assert.Equal(t, now.Month(), parsed.Month())
	assert.Equal(t, now.Day(), parsed.Day())
	assert.Equal(t, 10, parsed.Hour())
}

func TestParseFinvizDate_GarbageKeepsLastDate(t *testing.T) {
	lastDate := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	parsed, hasDate := parseFinvizDate("not a date at all", lastDate)
	assert.False(t, hasDate)
	assert.Equal(t, lastDate, parsed)
}

func TestNewsHashIdentifier_Deterministic(t *testing.T) {
	a := NewsHashIdentifier("AAPL", "Apple beats estimates", "https://example.com/a")
	b := NewsHashIdentifier("AAPL", "Apple beats estimates", "https://example.com/a")
	c := NewsHashIdentifier("MSFT", "Apple beats estimates", "https://example.com/a")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32)
}
