package repository

import (
	"context"
	"time"

	"github.com/ss6051/shift-payroll/backend/internal/domain"
)

func (r *Repository) CreateWorkInterval(iv *domain.WorkInterval) error {
	query := `
		INSERT INTO work_intervals (store_id, account_id, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{iv.StoreID, iv.AccountID, iv.Start, iv.End}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&iv.ID, &iv.CreatedAt, &iv.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetWorkIntervalByID(id int64) (*domain.WorkInterval, error) {
	query := `
		SELECT store_id, account_id, start_time, end_time, created_at, version
		FROM work_intervals WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	iv := &domain.WorkInterval{
		ID: id,
	}

	dst := []any{&iv.StoreID, &iv.AccountID, &iv.Start, &iv.End, &iv.CreatedAt, &iv.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return iv, nil
}

// ListWorkIntervals 获取门店在 [from, to) 期间开始的工作记录，accountID 为 0 时返回所有员工的记录
func (r *Repository) ListWorkIntervals(storeID, accountID int64, from, to time.Time) ([]*domain.WorkInterval, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.queryWorkIntervals(ctx, storeID, accountID, from, to)
}

func (r *Repository) queryWorkIntervals(ctx context.Context, storeID, accountID int64, from, to time.Time) ([]*domain.WorkInterval, error) {
	query := `
		SELECT id, store_id, account_id, start_time, end_time, created_at, version
		FROM work_intervals
		WHERE store_id = $1
			AND ($2::bigint = 0 OR account_id = $2)
			AND start_time >= $3 AND start_time < $4
		ORDER BY start_time, id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, storeID, accountID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	intervals := make([]*domain.WorkInterval, 0)
	for rows.Next() {
		iv := &domain.WorkInterval{}
		dst := []any{&iv.ID, &iv.StoreID, &iv.AccountID, &iv.Start, &iv.End, &iv.CreatedAt, &iv.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		intervals = append(intervals, iv)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return intervals, nil
}

func (r *Repository) UpdateWorkInterval(iv *domain.WorkInterval) error {
	query := `
		UPDATE work_intervals
		SET
			start_time = $1,
			end_time = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING store_id, account_id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{iv.Start, iv.End, iv.ID, iv.Version}
	dst := []any{&iv.StoreID, &iv.AccountID, &iv.CreatedAt, &iv.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteWorkInterval(id int64) error {
	query := `
		DELETE FROM work_intervals WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
