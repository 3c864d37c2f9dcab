package wage

import "time"

// 劳动法中关于夜间工作的常量
const (
	NightShiftStartHour = 22 // 夜间时段从 22:00 开始
	NightShiftEndHour   = 6  // 到次日 06:00 结束

	// 在职员工数达到该人数的门店才需要支付夜间加班费
	NightPremiumHeadcount = 5
)

// SplitShift 把一段已经对齐过的工作时间拆分为日间分钟数和夜间分钟数。
//
// 夜间时段为 [22:00, 06:00)。对工作时间覆盖到的每一个自然日，分别计算
// 与 [00:00, 06:00) 和 [22:00, 24:00) 两个窗口的重叠部分并累加为夜间分钟数，
// 剩余部分即为日间分钟数。跨越三天及以上的记录也按同样的方式逐日处理。
func SplitShift(start, end time.Time, nightPremiumEligible bool) (dayMinutes, nightMinutes int64, err error) {
	if end.Before(start) {
		return 0, 0, &NegativeDurationError{Start: start, End: end}
	}

	total := minutesBetween(start, end)
	if !nightPremiumEligible {
		return total, 0, nil
	}

	lastDay := startOfDay(end)
	for day := startOfDay(start); !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		earlyMorningEnd := atHour(day, NightShiftEndHour)
		lateNightStart := atHour(day, NightShiftStartHour)
		nextDay := day.AddDate(0, 0, 1)

		nightMinutes += overlapMinutes(start, end, day, earlyMorningEnd)
		nightMinutes += overlapMinutes(start, end, lateNightStart, nextDay)
	}

	if nightMinutes > total {
		return 0, 0, &InternalInvariantError{
			Start:        start,
			End:          end,
			TotalMinutes: total,
			NightMinutes: nightMinutes,
		}
	}

	return total - nightMinutes, nightMinutes, nil
}

// overlapMinutes 计算 [aStart, aEnd) 与 [bStart, bEnd) 重叠的分钟数，不重叠时为 0
func overlapMinutes(aStart, aEnd, bStart, bEnd time.Time) int64 {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}

	if !end.After(start) {
		return 0
	}
	return minutesBetween(start, end)
}

func minutesBetween(start, end time.Time) int64 {
	return int64(end.Sub(start) / time.Minute)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func atHour(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
}
