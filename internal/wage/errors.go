package wage

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidRange 结束日期早于开始日期
	ErrInvalidRange = errors.New("invalid range: end date before start date")

	// ErrMissingWageProfile 找不到员工在该门店的工资信息
	ErrMissingWageProfile = errors.New("missing wage profile")

	// ErrNegativeDuration 实际工作记录的结束时间早于开始时间
	ErrNegativeDuration = errors.New("negative work duration")

	// ErrInternalInvariant 夜间分钟数超过了总时长，说明拆分算法本身有问题
	ErrInternalInvariant = errors.New("internal invariant violation")
)

type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: %s is before %s", e.End.Format(time.DateOnly), e.Start.Format(time.DateOnly))
}

func (e *InvalidRangeError) Unwrap() error {
	return ErrInvalidRange
}

type MissingWageProfileError struct {
	AccountID int64
	StoreID   int64
}

func (e *MissingWageProfileError) Error() string {
	return fmt.Sprintf("missing wage profile for account %d in store %d", e.AccountID, e.StoreID)
}

func (e *MissingWageProfileError) Unwrap() error {
	return ErrMissingWageProfile
}

// NegativeDurationError 携带出错的工作记录，便于定位脏数据
type NegativeDurationError struct {
	IntervalID int64
	AccountID  int64
	StoreID    int64
	Start      time.Time
	End        time.Time
}

func (e *NegativeDurationError) Error() string {
	return fmt.Sprintf("work interval %d (account %d, store %d) ends at %s before it starts at %s",
		e.IntervalID, e.AccountID, e.StoreID, e.End.Format(time.DateTime), e.Start.Format(time.DateTime))
}

func (e *NegativeDurationError) Unwrap() error {
	return ErrNegativeDuration
}

type InternalInvariantError struct {
	Start        time.Time
	End          time.Time
	TotalMinutes int64
	NightMinutes int64
}

func (e *InternalInvariantError) Error() string {
	return fmt.Sprintf("night minutes %d exceed total minutes %d for [%s, %s)",
		e.NightMinutes, e.TotalMinutes, e.Start.Format(time.DateTime), e.End.Format(time.DateTime))
}

func (e *InternalInvariantError) Unwrap() error {
	return ErrInternalInvariant
}

// IsClientError 判断错误是否由调用方的输入导致
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrMissingWageProfile) ||
		errors.Is(err, ErrNegativeDuration)
}
