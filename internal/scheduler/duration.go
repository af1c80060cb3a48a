package scheduler

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidClock = errors.New("时间格式错误")
	ErrInvalidDate  = errors.New("日期格式错误")
)

const minutesPerDay = 24 * 60

// ParseClock 将 HH:MM（或数据库返回的 HH:MM:SS）转换为从零点开始的分钟数
func ParseClock(s string) (int, error) {
	layout := "15:04"
	if strings.Count(s, ":") == 2 {
		layout = "15:04:05"
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	return t.Hour()*60 + t.Minute(), nil
}

// clockRange 返回班次的起止分钟数，结束时间小于开始时间时视为跨越午夜
func clockRange(start, end string) (int, int, error) {
	startMinutes, err := ParseClock(start)
	if err != nil {
		return 0, 0, err
	}
	endMinutes, err := ParseClock(end)
	if err != nil {
		return 0, 0, err
	}

	if endMinutes < startMinutes {
		endMinutes += minutesPerDay
	}

	return startMinutes, endMinutes, nil
}

// Duration 计算两个时刻之间的小时数
func Duration(start, end string) (float64, error) {
	startMinutes, endMinutes, err := clockRange(start, end)
	if err != nil {
		return 0, err
	}

	return float64(endMinutes-startMinutes) / 60, nil
}

func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return t, nil
}

// Weekday 返回日期对应的小写英文星期名，例如 monday
func Weekday(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return strings.ToLower(t.Weekday().String()), nil
}

// inWindow 按字典序判断日期是否落在闭区间 [from, to] 内
func inWindow(date, from, to string) bool {
	return date >= from && date <= to
}

// DatesBetween 返回闭区间 [from, to] 内的所有日期
func DatesBetween(from, to string) ([]string, error) {
	start, err := ParseDate(from)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(to)
	if err != nil {
		return nil, err
	}

	dates := []string{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(time.DateOnly))
	}
	return dates, nil
}
