package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ss6051/shift-payroll/backend/internal/domain"
	"github.com/ss6051/shift-payroll/backend/internal/wage"
)

type wageSource struct {
	repo *Repository
}

// WageSource 把 repository 适配为工资计算所需的数据源，所有查询都受调用方 ctx 控制
func (r *Repository) WageSource() wage.Source {
	return &wageSource{repo: r}
}

func (s *wageSource) queryContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, time.Duration(s.repo.cfg.Database.QueryTimeout)*time.Second)
}

func (s *wageSource) GetWageProfile(ctx context.Context, accountID, storeID int64) (*wage.WageProfile, error) {
	// 夜间加班费只看门店的员工人数，店主和店长不计入
	query := `
		SELECT
			sa.base_hourly_wage,
			(SELECT COUNT(*) FROM store_accounts e WHERE e.store_id = sa.store_id AND e.role = $3)
		FROM store_accounts sa
		WHERE sa.store_id = $1 AND sa.account_id = $2
	`

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	var baseHourlyWage, employeeCount int64
	if err := s.repo.dbpool.QueryRowContext(ctx, query, storeID, accountID, domain.StoreRoleEmployee).Scan(&baseHourlyWage, &employeeCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &wage.MissingWageProfileError{AccountID: accountID, StoreID: storeID}
		}
		return nil, err
	}

	profile := wage.NewWageProfile(baseHourlyWage, employeeCount)
	return &profile, nil
}

func (s *wageSource) GetWorkIntervals(ctx context.Context, accountID, storeID int64, from, to time.Time) ([]*domain.WorkInterval, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	return s.repo.queryWorkIntervals(ctx, storeID, accountID, from, to)
}

func (s *wageSource) GetScheduledWorkDays(ctx context.Context, accountID, storeID int64) ([]*domain.ScheduledWorkDay, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	return s.repo.queryScheduledWorkDays(ctx, storeID, accountID)
}

// GetStoreEmployeeIDs 返回门店中所有需要结算工资的成员（包括店长，不包括店主）
func (s *wageSource) GetStoreEmployeeIDs(ctx context.Context, storeID int64) ([]int64, error) {
	query := `
		SELECT account_id FROM store_accounts
		WHERE store_id = $1 AND role <> $2
		ORDER BY account_id
	`

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	rows, err := s.repo.dbpool.QueryContext(ctx, query, storeID, domain.StoreRoleOwner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
