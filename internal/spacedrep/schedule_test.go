package spacedrep

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultIntervals_Length(t *testing.T) {
	if len(DefaultIntervals) != MaxTier+1 {
		t.Errorf("expected %d default intervals, got %d", MaxTier+1, len(DefaultIntervals))
	}
}

func TestInterval_EachTier(t *testing.T) {
	tests := []struct {
		level    int
		expected time.Duration
	}{
		{0, 10 * time.Minute},
		{1, time.Hour},
		{2, 8 * time.Hour},
		{3, 24 * time.Hour},
		{4, 72 * time.Hour},
		{5, 7 * 24 * time.Hour},
		{6, 14 * 24 * time.Hour},
		{7, 30 * 24 * time.Hour},
	}
	s := DefaultSchedule()
	for _, tt := range tests {
		got := s.Interval(tt.level)
		if got != tt.expected {
			t.Errorf("Level %d: Interval() = %s, want %s", tt.level, got, tt.expected)
		}
	}
}

func TestInterval_Monotonic(t *testing.T) {
	s := DefaultSchedule()
	for level := 1; level <= s.MaxTier(); level++ {
		if s.Interval(level) <= s.Interval(level-1) {
			t.Errorf("Interval(%d) = %s not greater than Interval(%d) = %s",
				level, s.Interval(level), level-1, s.Interval(level-1))
		}
	}
}

func TestInterval_Clamped(t *testing.T) {
	s := DefaultSchedule()
	if got := s.Interval(42); got != 30*24*time.Hour {
		t.Errorf("Interval(42) = %s, want 720h", got)
	}
	if got := s.Interval(-3); got != 10*time.Minute {
		t.Errorf("Interval(-3) = %s, want 10m", got)
	}
}

func TestInterval_ZeroScheduleUsesDefaults(t *testing.T) {
	var s Schedule
	if got := s.Interval(1); got != time.Hour {
		t.Errorf("Interval(1) = %s, want 1h", got)
	}
	if s.MaxTier() != MaxTier {
		t.Errorf("MaxTier() = %d, want %d", s.MaxTier(), MaxTier)
	}
}

func TestNewSchedule_Custom(t *testing.T) {
	s, err := NewSchedule([]time.Duration{time.Minute, time.Hour, 24 * time.Hour})
	if err != nil {
		t.Fatalf("NewSchedule: %v", err)
	}
	if s.MaxTier() != 2 {
		t.Errorf("MaxTier() = %d, want 2", s.MaxTier())
	}
	if s.Interval(5) != 24*time.Hour {
		t.Errorf("Interval(5) = %s, want 24h", s.Interval(5))
	}
}

func TestNewSchedule_CopiesSteps(t *testing.T) {
	steps := []time.Duration{time.Minute, time.Hour}
	s, err := NewSchedule(steps)
	if err != nil {
		t.Fatalf("NewSchedule: %v", err)
	}
	steps[0] = 5 * time.Hour
	if s.Interval(0) != time.Minute {
		t.Errorf("schedule changed after caller mutated input: %s", s.Interval(0))
	}
}

func TestNewSchedule_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		steps []time.Duration
	}{
		{"empty", nil},
		{"zero step", []time.Duration{0, time.Hour}},
		{"negative step", []time.Duration{-time.Minute}},
		{"not increasing", []time.Duration{time.Hour, time.Hour}},
		{"decreasing", []time.Duration{time.Hour, time.Minute}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchedule(tt.steps)
			if !errors.Is(err, ErrInvalidSchedule) {
				t.Errorf("NewSchedule(%v) error = %v, want ErrInvalidSchedule", tt.steps, err)
			}
		})
	}
}
