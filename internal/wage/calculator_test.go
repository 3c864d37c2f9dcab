package wage_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ss6051/shift-payroll/backend/internal/domain"
	"github.com/ss6051/shift-payroll/backend/internal/wage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type membership struct {
	accountID int64
	storeID   int64
}

type fakeSource struct {
	mu sync.Mutex

	profiles  map[membership]*wage.WageProfile
	intervals []*domain.WorkInterval
	days      map[membership][]*domain.ScheduledWorkDay
	employees map[int64][]int64

	intervalErr    error
	requestedRange [2]time.Time
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		profiles:  make(map[membership]*wage.WageProfile),
		days:      make(map[membership][]*domain.ScheduledWorkDay),
		employees: make(map[int64][]int64),
	}
}

func (f *fakeSource) addEmployee(storeID, accountID, baseHourlyWage int64) {
	f.profiles[membership{accountID, storeID}] = &wage.WageProfile{BaseHourlyWage: baseHourlyWage, NightPremiumEligible: true}
	f.employees[storeID] = append(f.employees[storeID], accountID)
}

func (f *fakeSource) GetWageProfile(_ context.Context, accountID, storeID int64) (*wage.WageProfile, error) {
	p, ok := f.profiles[membership{accountID, storeID}]
	if !ok {
		return nil, &wage.MissingWageProfileError{AccountID: accountID, StoreID: storeID}
	}
	return p, nil
}

func (f *fakeSource) GetWorkIntervals(_ context.Context, accountID, storeID int64, from, to time.Time) ([]*domain.WorkInterval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.intervalErr != nil {
		return nil, f.intervalErr
	}
	f.requestedRange = [2]time.Time{from, to}

	var result []*domain.WorkInterval
	for _, iv := range f.intervals {
		if iv.AccountID == accountID && iv.StoreID == storeID && !iv.Start.Before(from) && iv.Start.Before(to) {
			result = append(result, iv)
		}
	}
	return result, nil
}

func (f *fakeSource) GetScheduledWorkDays(_ context.Context, accountID, storeID int64) ([]*domain.ScheduledWorkDay, error) {
	return f.days[membership{accountID, storeID}], nil
}

func (f *fakeSource) GetStoreEmployeeIDs(_ context.Context, storeID int64) ([]int64, error) {
	return f.employees[storeID], nil
}

func newCalculator(src wage.Source) *wage.Calculator {
	return wage.NewCalculator(src, slog.New(slog.NewTextHandler(io.Discard, nil)), 3)
}

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func shift(accountID, storeID int64, d, startHour, endHour int) *domain.WorkInterval {
	return &domain.WorkInterval{
		AccountID: accountID,
		StoreID:   storeID,
		Start:     time.Date(2024, time.January, d, startHour, 0, 0, 0, time.UTC),
		End:       time.Date(2024, time.January, d, endHour, 0, 0, 0, time.UTC),
	}
}

func TestCalculator_CalculateWage(t *testing.T) {
	src := newFakeSource()
	src.addEmployee(1, 10, 10000)
	src.intervals = []*domain.WorkInterval{
		shift(10, 1, 1, 9, 17),
		shift(10, 1, 7, 9, 17), // 结束日期当天
		shift(10, 1, 8, 9, 17), // 结算周期之外
		shift(11, 1, 2, 9, 17), // 其他员工
	}

	payslip, err := newCalculator(src).CalculateWage(context.Background(), 10, 1, day(1), day(7))
	require.NoError(t, err)

	assert.Equal(t, int64(960), payslip.DayMinutes)
	assert.Equal(t, 1, payslip.HolidayAllowanceWeeks)
	assert.Equal(t, int64(160000), payslip.Total)
	assert.True(t, src.requestedRange[0].Equal(day(1)))
	assert.True(t, src.requestedRange[1].Equal(day(8)))
}

func TestCalculator_CalculateWage_MissingProfile(t *testing.T) {
	src := newFakeSource()

	_, err := newCalculator(src).CalculateWage(context.Background(), 10, 1, day(1), day(7))
	require.ErrorIs(t, err, wage.ErrMissingWageProfile)

	var missing *wage.MissingWageProfileError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, int64(10), missing.AccountID)
	assert.Equal(t, int64(1), missing.StoreID)
}

func TestCalculator_CalculateWage_InvalidRange(t *testing.T) {
	_, err := newCalculator(newFakeSource()).CalculateWage(context.Background(), 10, 1, day(7), day(1))
	require.ErrorIs(t, err, wage.ErrInvalidRange)
}

func TestCalculator_CalculateWage_SourceError(t *testing.T) {
	src := newFakeSource()
	src.addEmployee(1, 10, 10000)
	src.intervalErr = errors.New("connection refused")

	_, err := newCalculator(src).CalculateWage(context.Background(), 10, 1, day(1), day(7))
	require.Error(t, err)
	assert.False(t, wage.IsClientError(err))
}

func TestCalculator_ComputeWorkTime(t *testing.T) {
	src := newFakeSource()
	src.addEmployee(1, 10, 10000)
	src.intervals = []*domain.WorkInterval{
		shift(10, 1, 2, 20, 23),
		shift(10, 1, 3, 9, 12),
	}

	result, err := newCalculator(src).ComputeWorkTime(context.Background(), 10, 1, day(2), day(2))
	require.NoError(t, err)

	assert.Equal(t, wage.WorkTimeResult{DayMinutes: 120, NightMinutes: 60, WorkDayCount: 1}, result)
}

func TestCalculator_CalculateStorePayroll(t *testing.T) {
	src := newFakeSource()
	for i := int64(1); i <= 6; i++ {
		src.addEmployee(1, i, 1000*i)
		src.intervals = append(src.intervals, shift(i, 1, 2, 9, 9+int(i)))
	}
	src.addEmployee(2, 99, 50000)

	payslips, err := newCalculator(src).CalculateStorePayroll(context.Background(), 1, day(1), day(7))
	require.NoError(t, err)
	require.Len(t, payslips, 6)

	for i, p := range payslips {
		accountID := int64(i + 1)
		assert.Equal(t, accountID, p.AccountID)
		assert.Equal(t, int64(1), p.StoreID)
		assert.Equal(t, accountID*1000*accountID, p.Total)
	}
}

func TestCalculator_CalculateStorePayroll_PropagatesFailure(t *testing.T) {
	src := newFakeSource()
	src.addEmployee(1, 1, 1000)
	src.addEmployee(1, 2, 1000)
	src.intervals = []*domain.WorkInterval{
		{ID: 5, AccountID: 2, StoreID: 1, Start: time.Date(2024, time.January, 2, 12, 0, 0, 0, time.UTC), End: time.Date(2024, time.January, 2, 9, 0, 0, 0, time.UTC)},
	}

	_, err := newCalculator(src).CalculateStorePayroll(context.Background(), 1, day(1), day(7))
	require.ErrorIs(t, err, wage.ErrNegativeDuration)
}

func TestCalculator_CalculateStorePayroll_SkipsDepartedMember(t *testing.T) {
	src := newFakeSource()
	src.addEmployee(1, 1, 1000)
	src.addEmployee(1, 3, 2000)
	// 员工 2 在列表里，但读取工资信息时已经离开门店
	src.employees[1] = []int64{1, 2, 3}
	src.intervals = []*domain.WorkInterval{shift(1, 1, 2, 9, 11), shift(2, 1, 2, 9, 11), shift(3, 1, 3, 9, 10)}

	payslips, err := newCalculator(src).CalculateStorePayroll(context.Background(), 1, day(1), day(7))
	require.NoError(t, err)
	require.Len(t, payslips, 2)

	assert.Equal(t, int64(1), payslips[0].AccountID)
	assert.Equal(t, int64(2000), payslips[0].Total)
	assert.Equal(t, int64(3), payslips[1].AccountID)
	assert.Equal(t, int64(2000), payslips[1].Total)
}

func TestCalculator_CalculateStorePayroll_EmptyStore(t *testing.T) {
	payslips, err := newCalculator(newFakeSource()).CalculateStorePayroll(context.Background(), 1, day(1), day(7))
	require.NoError(t, err)
	assert.Empty(t, payslips)
}
