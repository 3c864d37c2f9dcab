package wage

import "time"

// RoundToHalfHour 把打卡时间对齐到最近的整点或半点：
// 0~14 分舍去到整点，15~44 分对齐到半点，45~59 分进位到下一个整点。
// 秒及以下的部分一律丢弃。
func RoundToHalfHour(t time.Time) time.Time {
	hourStart := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())

	switch m := t.Minute(); {
	case m < 15:
		return hourStart
	case m < 45:
		return hourStart.Add(30 * time.Minute)
	default:
		return hourStart.Add(time.Hour)
	}
}
