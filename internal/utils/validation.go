package utils

import (
	"errors"
	"time"
)

// IsClock 判断字符串是否为 24 小时制的 HH:MM
func IsClock(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// IsDate 判断字符串是否为 yyyy-MM-dd
func IsDate(s string) bool {
	if len(s) != 10 {
		return false
	}
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

// ValidateShiftTimes 检查班次时间，结束时间早于开始时间表示跨越午夜
func ValidateShiftTimes(start, end string) error {
	if !IsClock(start) || !IsClock(end) {
		return errors.New("班次时间必须是 HH:MM 格式")
	}
	if start == end {
		return errors.New("班次的开始时间和结束时间不能相同")
	}
	return nil
}

// ValidateTimeOffWindow 检查非全天请假的时间段，请假不允许跨越午夜
func ValidateTimeOffWindow(isFullDay bool, start, end string) error {
	if isFullDay {
		return nil
	}
	if start == "" || end == "" {
		return errors.New("非全天请假必须填写开始时间和结束时间")
	}
	if !IsClock(start) || !IsClock(end) {
		return errors.New("请假时间必须是 HH:MM 格式")
	}
	if start >= end {
		return errors.New("请假的结束时间必须晚于开始时间")
	}
	return nil
}

// ValidateDateRange 检查日期范围，from 不能晚于 to
func ValidateDateRange(from, to string) error {
	if !IsDate(from) || !IsDate(to) {
		return errors.New("日期必须是 yyyy-MM-dd 格式")
	}
	if from > to {
		return errors.New("开始日期不能晚于结束日期")
	}
	return nil
}
