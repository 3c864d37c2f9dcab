package wage

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ss6051/shift-payroll/backend/internal/domain"
)

const (
	// 一周实际工作满 15 小时才有资格领取周休津贴
	HolidayAllowanceThresholdMinutes = 15 * 60

	minutesPerHour = 60
)

var nightPremiumRate = decimal.RequireFromString("1.5")

// WageProfile 是某个员工在某个门店的工资快照
type WageProfile struct {
	BaseHourlyWage       int64 `json:"baseHourlyWage"`
	NightPremiumEligible bool  `json:"nightPremiumEligible"`
}

// NewWageProfile 根据时薪和门店在职员工数生成工资快照
func NewWageProfile(baseHourlyWage int64, employeeCount int64) WageProfile {
	return WageProfile{
		BaseHourlyWage:       baseHourlyWage,
		NightPremiumEligible: employeeCount >= NightPremiumHeadcount,
	}
}

type WorkTimeResult struct {
	DayMinutes   int64 `json:"dayMinutes"`
	NightMinutes int64 `json:"nightMinutes"`
	WorkDayCount int   `json:"workDayCount"`
}

func (r WorkTimeResult) TotalMinutes() int64 {
	return r.DayMinutes + r.NightMinutes
}

type WeekSummary struct {
	WeekRange
	WorkTimeResult
	HolidayAllowanceEligible bool `json:"holidayAllowanceEligible"`
}

// Input 是一次工资计算所需的全部数据，计算过程中不会再做任何 I/O
type Input struct {
	AccountID     int64
	StoreID       int64
	StartDate     time.Time
	EndDate       time.Time
	Profile       WageProfile
	Intervals     []*domain.WorkInterval
	ScheduledDays []*domain.ScheduledWorkDay
}

type Payslip struct {
	AccountID             int64         `json:"accountID"`
	StoreID               int64         `json:"storeID"`
	StartDate             time.Time     `json:"startDate"`
	EndDate               time.Time     `json:"endDate"`
	BaseHourlyWage        int64         `json:"baseHourlyWage"`
	NightPremiumEligible  bool          `json:"nightPremiumEligible"`
	DayMinutes            int64         `json:"dayMinutes"`
	NightMinutes          int64         `json:"nightMinutes"`
	HolidayAllowanceWeeks int           `json:"holidayAllowanceWeeks"`
	BaseWage              int64         `json:"baseWage"`
	HolidayAllowance      int64         `json:"holidayAllowance"`
	Total                 int64         `json:"total"`
	Weeks                 []WeekSummary `json:"weeks"`
}

// ComputeWorkTime 统计某员工在 [from, to] 期间（按开始时间所在日期筛选）的日间和夜间工作分钟数。
// 不属于该员工和门店的记录会被忽略。
func ComputeWorkTime(accountID, storeID int64, intervals []*domain.WorkInterval, nightPremiumEligible bool, from, to time.Time) (WorkTimeResult, error) {
	from, to = startOfDay(from), startOfDay(to)
	if to.Before(from) {
		return WorkTimeResult{}, &InvalidRangeError{Start: from, End: to}
	}

	return accumulate(ownedBy(intervals, accountID, storeID), nightPremiumEligible, WeekRange{Start: from, End: to})
}

// Calculate 计算一个结算周期内的工资：
//
//	基本工资 = floor(日间分钟/60) * 时薪 + floor(夜间分钟/60) * 时薪 * 1.5（结果截断取整）
//	周休津贴 = 时薪 * 约定周工作分钟数 / 约定工作天数（至少有一周满 15 小时时发放）
func Calculate(in Input) (*Payslip, error) {
	weeks, err := PartitionWeeks(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}

	intervals := ownedBy(in.Intervals, in.AccountID, in.StoreID)

	payslip := &Payslip{
		AccountID:            in.AccountID,
		StoreID:              in.StoreID,
		StartDate:            startOfDay(in.StartDate),
		EndDate:              startOfDay(in.EndDate),
		BaseHourlyWage:       in.Profile.BaseHourlyWage,
		NightPremiumEligible: in.Profile.NightPremiumEligible,
		Weeks:                make([]WeekSummary, 0),
	}

	for week := range weeks {
		result, err := accumulate(intervals, in.Profile.NightPremiumEligible, week)
		if err != nil {
			return nil, err
		}

		payslip.DayMinutes += result.DayMinutes
		payslip.NightMinutes += result.NightMinutes

		eligible := result.TotalMinutes() >= HolidayAllowanceThresholdMinutes
		if eligible {
			payslip.HolidayAllowanceWeeks++
		}

		payslip.Weeks = append(payslip.Weeks, WeekSummary{
			WeekRange:                week,
			WorkTimeResult:           result,
			HolidayAllowanceEligible: eligible,
		})
	}

	payslip.BaseWage = baseWage(in.Profile.BaseHourlyWage, payslip.DayMinutes, payslip.NightMinutes)

	dividend, divisor, err := contractedWeek(in.ScheduledDays)
	if err != nil {
		return nil, err
	}

	// TODO: 周休津贴没有乘以满足条件的周数，和原有结算结果保持一致，等待业务方确认公式
	if divisor > 0 && payslip.HolidayAllowanceWeeks > 0 {
		payslip.HolidayAllowance = in.Profile.BaseHourlyWage * dividend / divisor
	}

	payslip.Total = payslip.BaseWage + payslip.HolidayAllowance

	return payslip, nil
}

func accumulate(intervals []*domain.WorkInterval, nightPremiumEligible bool, rng WeekRange) (WorkTimeResult, error) {
	var result WorkTimeResult
	workDays := make(map[string]struct{})

	for _, iv := range intervals {
		if !rng.Contains(iv.Start) {
			continue
		}

		if iv.End.Before(iv.Start) {
			return WorkTimeResult{}, &NegativeDurationError{
				IntervalID: iv.ID,
				AccountID:  iv.AccountID,
				StoreID:    iv.StoreID,
				Start:      iv.Start,
				End:        iv.End,
			}
		}

		day, night, err := SplitShift(RoundToHalfHour(iv.Start), RoundToHalfHour(iv.End), nightPremiumEligible)
		if err != nil {
			return WorkTimeResult{}, err
		}

		result.DayMinutes += day
		result.NightMinutes += night
		workDays[iv.Start.Format(time.DateOnly)] = struct{}{}
	}

	result.WorkDayCount = len(workDays)
	return result, nil
}

// baseWage 先把分钟数截断为整小时再乘以时薪，59 分钟按 0 小时计
func baseWage(baseHourlyWage, dayMinutes, nightMinutes int64) int64 {
	base := decimal.NewFromInt(baseHourlyWage)
	dayHours := decimal.NewFromInt(dayMinutes / minutesPerHour)
	nightHours := decimal.NewFromInt(nightMinutes / minutesPerHour)

	return dayHours.Mul(base).
		Add(nightHours.Mul(base).Mul(nightPremiumRate)).
		IntPart()
}

// contractedWeek 统计约定工作日：dividend 为一周约定工作的总分钟数，divisor 为约定工作的天数。
// 只统计开始时间和结束时间都设置了的日子。
func contractedWeek(days []*domain.ScheduledWorkDay) (dividend, divisor int64, err error) {
	for _, d := range days {
		if d.StartTime == nil || d.EndTime == nil {
			continue
		}

		start, err := time.Parse(time.TimeOnly, *d.StartTime)
		if err != nil {
			return 0, 0, fmt.Errorf("scheduled work day %d: invalid start time %q: %w", d.DayOfWeek, *d.StartTime, err)
		}
		end, err := time.Parse(time.TimeOnly, *d.EndTime)
		if err != nil {
			return 0, 0, fmt.Errorf("scheduled work day %d: invalid end time %q: %w", d.DayOfWeek, *d.EndTime, err)
		}

		dividend += minutesBetween(start, end)
		divisor++
	}

	return dividend, divisor, nil
}

func ownedBy(intervals []*domain.WorkInterval, accountID, storeID int64) []*domain.WorkInterval {
	owned := make([]*domain.WorkInterval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.AccountID == accountID && iv.StoreID == storeID {
			owned = append(owned, iv)
		}
	}
	return owned
}
