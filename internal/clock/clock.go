package clock

import (
	"sync"
	"time"
)

// Clock 用于在测试中替换当前时间
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func Real() Clock { return realClock{} }

type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func Fake(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// WeekBounds 返回 t 所在周（周一开始）的第一天和最后一天，格式为 yyyy-MM-dd
func WeekBounds(t time.Time) (string, string) {
	offset := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -offset)
	sunday := monday.AddDate(0, 0, 6)
	return monday.Format(time.DateOnly), sunday.Format(time.DateOnly)
}
