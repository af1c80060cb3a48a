package scheduler

import "github.com/sysu-ecnc-dev/qwikshifts/backend/internal/domain"

type interval struct {
	id    string
	start int
	end   int
}

func (a interval) overlaps(b interval) bool {
	return a.start < b.end && b.start < a.end
}

// before 先按开始时间、再按班次 ID 排序
func (a interval) before(b interval) bool {
	if a.start != b.start {
		return a.start < b.start
	}
	return a.id < b.id
}

// LayoutShifts 为同一区域同一天的班次计算渲染列。
// 每个班次的列数只由与它自身重叠的班次决定，不做全局着色。
// 时间无法解析的班次单独占一列，也不参与其他班次的重叠计算。
func LayoutShifts(shifts []domain.Shift) map[string]domain.Lane {
	lanes := make(map[string]domain.Lane, len(shifts))

	intervals := make([]interval, 0, len(shifts))
	for _, s := range shifts {
		start, end, err := clockRange(s.StartTime, s.EndTime)
		if err != nil {
			lanes[s.ID] = domain.Lane{LaneIndex: 0, LaneCount: 1}
			continue
		}
		intervals = append(intervals, interval{id: s.ID, start: start, end: end})
	}

	for i, cur := range intervals {
		overlapping, earlier := 0, 0
		for j, other := range intervals {
			if i == j || !cur.overlaps(other) {
				continue
			}
			overlapping++
			if other.before(cur) {
				earlier++
			}
		}
		lanes[cur.id] = domain.Lane{LaneIndex: earlier, LaneCount: overlapping + 1}
	}

	return lanes
}
