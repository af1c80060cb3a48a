package scheduler

import (
	"errors"
	"testing"
)

func TestDuration(t *testing.T) {
	cases := []struct {
		start, end string
		want       float64
	}{
		{"09:00", "17:00", 8.0},
		{"22:00", "06:00", 8.0},
		{"08:15", "08:45", 0.5},
		{"23:00", "02:00", 3.0},
		{"09:00:00", "12:30:00", 3.5},
		{"10:00", "10:00", 0},
	}

	for _, c := range cases {
		got, err := Duration(c.start, c.end)
		if err != nil {
			t.Fatalf("Duration(%q, %q) returned error: %v", c.start, c.end, err)
		}
		if got != c.want {
			t.Errorf("Duration(%q, %q) = %v, want %v", c.start, c.end, got, c.want)
		}
	}
}

func TestDurationMalformed(t *testing.T) {
	for _, s := range []string{"", "9am", "25:00", "12:61"} {
		if _, err := Duration(s, "10:00"); !errors.Is(err, ErrInvalidClock) {
			t.Errorf("Duration(%q) error = %v, want ErrInvalidClock", s, err)
		}
	}
}

func TestWeekday(t *testing.T) {
	got, err := Weekday("2025-06-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "tuesday" {
		t.Errorf("Weekday = %q, want tuesday", got)
	}

	if _, err := Weekday("2025/06/10"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}

func TestDatesBetween(t *testing.T) {
	got, err := DatesBetween("2025-02-27", "2025-03-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"2025-02-27", "2025-02-28", "2025-03-01", "2025-03-02"}
	if len(got) != len(want) {
		t.Fatalf("DatesBetween = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DatesBetween[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	if got, _ := DatesBetween("2025-03-02", "2025-03-01"); len(got) != 0 {
		t.Errorf("reversed range should be empty, got %v", got)
	}
}
