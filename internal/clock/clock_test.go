package clock

import (
	"testing"
	"time"
)

func TestWeekBounds(t *testing.T) {
	cases := []struct {
		now      string
		from, to   string
	}{
		{"2025-06-09", "2025-06-09", "2025-06-15"}, // 周一
		{"2025-06-12", "2025-06-09", "2025-06-15"},
		{"2025-06-15", "2025-06-09", "2025-06-15"}, // 周日
		{"2025-01-01", "2024-12-30", "2025-01-05"},
	}

	for _, c := range cases {
		now, _ := time.Parse(time.DateOnly, c.now)
		from, to := WeekBounds(now)
		if from != c.from || to != c.to {
			t.Errorf("WeekBounds(%s) = %s..%s, want %s..%s", c.now, from, to, c.from, c.to)
		}
	}
}

func TestFakeClock(t *testing.T) {
	start := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	c := Fake(start)
	c.Advance(2 * time.Hour)
	if got := c.Now(); !got.Equal(start.Add(2 * time.Hour)) {
		t.Errorf("Now = %v", got)
	}
}
