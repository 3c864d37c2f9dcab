package wage

import (
	"iter"
	"time"
)

const daysPerWeek = 7

// WeekRange 表示一个闭区间 [Start, End]，最长 7 天
type WeekRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days 返回该区间包含的天数
func (w WeekRange) Days() int {
	return daysBetween(w.Start, w.End) + 1
}

// Contains 判断时间点所在的自然日是否落在区间内。
// 工作时间都是墙上时间，只比较日历日期，不按时区换算。
func (w WeekRange) Contains(t time.Time) bool {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, w.Start.Location())
	return !d.Before(w.Start) && !d.After(w.End)
}

// PartitionWeeks 以开始日期为起点，把 [start, end] 按 7 天一段切分。
// 最后一段可能不足 7 天。返回的序列可以重复遍历。
func PartitionWeeks(start, end time.Time) (iter.Seq[WeekRange], error) {
	start, end = startOfDay(start), startOfDay(end)
	if end.Before(start) {
		return nil, &InvalidRangeError{Start: start, End: end}
	}

	return func(yield func(WeekRange) bool) {
		for cursor := start; !cursor.After(end); {
			windowEnd := cursor.AddDate(0, 0, daysPerWeek-1)
			if windowEnd.After(end) {
				windowEnd = end
			}

			if !yield(WeekRange{Start: cursor, End: windowEnd}) {
				return
			}

			cursor = windowEnd.AddDate(0, 0, 1)
		}
	}, nil
}

// daysBetween 按日历计算两个日期之间相差的天数，不受夏令时影响
func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
