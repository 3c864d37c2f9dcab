package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/ss6051/shift-payroll/backend/internal/domain"
)

// 请求中的工作记录时间不带时区，按门店当地时间理解
const DateTimeLayout = "2006-01-02T15:04:05"

func ValidateWorkInterval(iv *domain.WorkInterval) error {
	if iv.End.Before(iv.Start) {
		return errors.New("结束时间不能早于开始时间")
	}

	return nil
}

// ValidateScheduledWorkDays 检查一周的约定工作时间：每天至多出现一次，开始和结束时间要么都有要么都没有
func ValidateScheduledWorkDays(days []*domain.ScheduledWorkDay) error {
	seen := make(map[int32]bool)

	for _, day := range days {
		if day.DayOfWeek < 1 || day.DayOfWeek > 7 {
			return fmt.Errorf("星期 %d 无效", day.DayOfWeek)
		}
		if seen[day.DayOfWeek] {
			return fmt.Errorf("星期 %d 重复", day.DayOfWeek)
		}
		seen[day.DayOfWeek] = true

		if (day.StartTime == nil) != (day.EndTime == nil) {
			return fmt.Errorf("星期 %d 的开始时间和结束时间必须同时设置", day.DayOfWeek)
		}
		if day.StartTime == nil {
			continue
		}

		startTime, err := time.Parse(time.TimeOnly, *day.StartTime)
		if err != nil {
			return fmt.Errorf("星期 %d 的开始时间格式错误", day.DayOfWeek)
		}
		endTime, err := time.Parse(time.TimeOnly, *day.EndTime)
		if err != nil {
			return fmt.Errorf("星期 %d 的结束时间格式错误", day.DayOfWeek)
		}
		if !endTime.After(startTime) {
			return fmt.Errorf("星期 %d 的结束时间必须晚于开始时间", day.DayOfWeek)
		}
	}

	return nil
}

// ParseDateRange 解析查询参数中的日期区间，日期格式为 2006-01-02
func ParseDateRange(startParam, endParam string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.DateOnly, startParam)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("开始日期格式错误")
	}
	end, err := time.Parse(time.DateOnly, endParam)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("结束日期格式错误")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("结束日期不能早于开始日期")
	}

	return start, end, nil
}

// PreviousMonth 返回 now 所在月份的上一个自然月的第一天和最后一天。
// 月份按 now 自身的时区判断，返回的日期和工作记录一样不带时区（UTC 零点）
func PreviousMonth(now time.Time) (time.Time, time.Time) {
	firstOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := firstOfThisMonth.AddDate(0, -1, 0)
	end := firstOfThisMonth.AddDate(0, 0, -1)
	return start, end
}
