package wage

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/ss6051/shift-payroll/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Source 提供工资计算所需的外部数据。
// GetWageProfile 在找不到员工与门店的对应关系时应当返回 ErrMissingWageProfile（可包装）。
type Source interface {
	GetWageProfile(ctx context.Context, accountID, storeID int64) (*WageProfile, error)
	GetWorkIntervals(ctx context.Context, accountID, storeID int64, from, to time.Time) ([]*domain.WorkInterval, error)
	GetScheduledWorkDays(ctx context.Context, accountID, storeID int64) ([]*domain.ScheduledWorkDay, error)
	GetStoreEmployeeIDs(ctx context.Context, storeID int64) ([]int64, error)
}

type Calculator struct {
	source      Source
	logger      *slog.Logger
	concurrency int
}

func NewCalculator(source Source, logger *slog.Logger, concurrency int) *Calculator {
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Calculator{
		source:      source,
		logger:      logger,
		concurrency: concurrency,
	}
}

// CalculateWage 计算单个员工在某门店 [startDate, endDate] 期间的工资
func (c *Calculator) CalculateWage(ctx context.Context, accountID, storeID int64, startDate, endDate time.Time) (*Payslip, error) {
	startDate, endDate = startOfDay(startDate), startOfDay(endDate)
	if endDate.Before(startDate) {
		return nil, &InvalidRangeError{Start: startDate, End: endDate}
	}

	profile, err := c.source.GetWageProfile(ctx, accountID, storeID)
	if err != nil {
		return nil, err
	}

	// 结束日期当天开始的记录也要计入，所以取到结束日期的下一天
	intervals, err := c.source.GetWorkIntervals(ctx, accountID, storeID, startDate, endDate.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	days, err := c.source.GetScheduledWorkDays(ctx, accountID, storeID)
	if err != nil {
		return nil, err
	}

	payslip, err := Calculate(Input{
		AccountID:     accountID,
		StoreID:       storeID,
		StartDate:     startDate,
		EndDate:       endDate,
		Profile:       *profile,
		Intervals:     intervals,
		ScheduledDays: days,
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("工资计算完成",
		"account_id", accountID,
		"store_id", storeID,
		"start_date", startDate.Format(time.DateOnly),
		"end_date", endDate.Format(time.DateOnly),
		"day_minutes", payslip.DayMinutes,
		"night_minutes", payslip.NightMinutes,
		"holiday_allowance_weeks", payslip.HolidayAllowanceWeeks,
		"total", payslip.Total,
	)

	return payslip, nil
}

// ComputeWorkTime 统计单个员工在 [from, to] 期间的工作时长，用于核对
func (c *Calculator) ComputeWorkTime(ctx context.Context, accountID, storeID int64, from, to time.Time) (WorkTimeResult, error) {
	from, to = startOfDay(from), startOfDay(to)
	if to.Before(from) {
		return WorkTimeResult{}, &InvalidRangeError{Start: from, End: to}
	}

	profile, err := c.source.GetWageProfile(ctx, accountID, storeID)
	if err != nil {
		return WorkTimeResult{}, err
	}

	intervals, err := c.source.GetWorkIntervals(ctx, accountID, storeID, from, to.AddDate(0, 0, 1))
	if err != nil {
		return WorkTimeResult{}, err
	}

	return ComputeWorkTime(accountID, storeID, intervals, profile.NightPremiumEligible, from, to)
}

// CalculateStorePayroll 并发计算门店所有员工的工资，结果顺序与员工 ID 顺序一致。
// 计算期间离开门店的员工会被跳过；其余任意一个员工计算失败时，其余计算会被取消并返回该错误。
func (c *Calculator) CalculateStorePayroll(ctx context.Context, storeID int64, startDate, endDate time.Time) ([]*Payslip, error) {
	startDate, endDate = startOfDay(startDate), startOfDay(endDate)
	if endDate.Before(startDate) {
		return nil, &InvalidRangeError{Start: startDate, End: endDate}
	}

	accountIDs, err := c.source.GetStoreEmployeeIDs(ctx, storeID)
	if err != nil {
		return nil, err
	}

	payslips := make([]*Payslip, len(accountIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, accountID := range accountIDs {
		g.Go(func() error {
			payslip, err := c.CalculateWage(ctx, accountID, storeID, startDate, endDate)
			if errors.Is(err, ErrMissingWageProfile) {
				// 员工列表读取之后才离开门店
				c.logger.Warn("员工已不在门店，跳过工资计算", "account_id", accountID, "store_id", storeID)
				return nil
			}
			if err != nil {
				return err
			}
			payslips[i] = payslip
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	payslips = slices.DeleteFunc(payslips, func(p *Payslip) bool { return p == nil })

	c.logger.Info("门店工资计算完成", "store_id", storeID, "employees", len(accountIDs), "payslips", len(payslips))

	return payslips, nil
}
