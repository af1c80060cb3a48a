package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/mozillazg/go-pinyin"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

func GenerateRandomChineseName() string {
	var sb strings.Builder
	sb.WriteString(commonSurnames[rand.Intn(len(commonSurnames))])

	nameLength := rand.Intn(2) + 1
	for i := 0; i < nameLength; i++ {
		sb.WriteString(commonNameCharacters[rand.Intn(len(commonNameCharacters))])
	}
	return sb.String()
}

var digits = "0123456789"

// GenerateEmailLocalPart 用姓名的拼音加随机数字生成邮箱前缀，例如 zhangwei42
func GenerateEmailLocalPart(chineseName string) string {
	var sb strings.Builder
	for _, p := range pinyin.LazyConvert(chineseName, nil) {
		sb.WriteString(p)
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		sb.WriteByte(digits[rand.Intn(len(digits))])
	}
	return sb.String()
}

var palette = []string{
	"#ef4444", "#f97316", "#eab308", "#22c55e", "#14b8a6",
	"#3b82f6", "#6366f1", "#a855f7", "#ec4899", "#64748b",
}

func GenerateRandomColor() string {
	return palette[rand.Intn(len(palette))]
}

// 用 Fisher-Yates 洗牌算法生成一个非空的随机子集，不修改原切片
func GenerateRandomSubset[T any](arr []T) []T {
	if len(arr) == 0 {
		return []T{}
	}

	arrCopy := append([]T{}, arr...)
	for i := len(arrCopy) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		arrCopy[i], arrCopy[j] = arrCopy[j], arrCopy[i]
	}

	n := rand.Intn(len(arrCopy)) + 1
	return arrCopy[:n]
}

// GenerateRandomShiftTimes 生成一个随机班次，开始时间为 6 点到 20 点之间的整点或半点，时长 3 到 9 小时，
// 可能跨越午夜
func GenerateRandomShiftTimes() (string, string) {
	startMinutes := 6*60 + rand.Intn(29)*30
	length := (3 + rand.Intn(7)) * 60
	endMinutes := (startMinutes + length) % (24 * 60)
	return formatClock(startMinutes), formatClock(endMinutes)
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
