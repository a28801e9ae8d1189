package util

import (
	"testing"
	"time"
)

func TestMonthKey(t *testing.T) {
	d := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	if key := MonthKey(d); key != "2024-01" {
		t.Errorf("Expected 2024-01, got %s", key)
	}

	d = time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	if key := MonthKey(d); key != "2023-12" {
		t.Errorf("Expected 2023-12, got %s", key)
	}
}

func TestStartOfTrailingWindow(t *testing.T) {
	now := time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC)

	start := StartOfTrailingWindow(now, 12)
	expected := time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)
	if !start.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, start)
	}
}

func TestStartOfTrailingWindow_YearBoundary(t *testing.T) {
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	start := StartOfTrailingWindow(now, 12)
	expected := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)
	if !start.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, start)
	}

	start = StartOfTrailingWindow(now, 1)
	expected = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !start.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, start)
	}
}
