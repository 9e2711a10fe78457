package models

import (
	"testing"
	"time"
)

func TestStartOfNextDayIsExclusiveUpperBound(t *testing.T) {
	in := time.Date(2024, time.May, 1, 13, 45, 9, 123456789, time.UTC)
	got := startOfNextDay(in)
	want := time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %s, want %s", got, want)
	}

	// Anything stored within the day, sub-second precision included,
	// stays strictly below the bound.
	lastMoment := time.Date(2024, time.May, 1, 23, 59, 59, 999000000, time.UTC)
	if !lastMoment.Before(got) {
		t.Fatalf("%s is not before the bound %s", lastMoment, got)
	}
}
