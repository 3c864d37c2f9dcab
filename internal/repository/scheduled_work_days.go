package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/ss6051/shift-payroll/backend/internal/domain"
)

func (r *Repository) GetScheduledWorkDays(storeID, accountID int64) ([]*domain.ScheduledWorkDay, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.queryScheduledWorkDays(ctx, storeID, accountID)
}

func (r *Repository) queryScheduledWorkDays(ctx context.Context, storeID, accountID int64) ([]*domain.ScheduledWorkDay, error) {
	// TIME 类型统一转换成 HH24:MI:SS 字符串，和请求中的格式保持一致
	query := `
		SELECT day_of_week, to_char(start_time, 'HH24:MI:SS'), to_char(end_time, 'HH24:MI:SS')
		FROM scheduled_work_days
		WHERE store_id = $1 AND account_id = $2
		ORDER BY day_of_week
	`

	rows, err := r.dbpool.QueryContext(ctx, query, storeID, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make([]*domain.ScheduledWorkDay, 0, 7)
	for rows.Next() {
		var startTime, endTime sql.NullString
		day := &domain.ScheduledWorkDay{StoreID: storeID, AccountID: accountID}
		if err := rows.Scan(&day.DayOfWeek, &startTime, &endTime); err != nil {
			return nil, err
		}
		if startTime.Valid {
			day.StartTime = &startTime.String
		}
		if endTime.Valid {
			day.EndTime = &endTime.String
		}
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return days, nil
}

// ReplaceScheduledWorkDays 用新的一周约定工作时间整体替换旧的
func (r *Repository) ReplaceScheduledWorkDays(storeID, accountID int64, days []*domain.ScheduledWorkDay) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		DELETE FROM scheduled_work_days WHERE store_id = $1 AND account_id = $2
	`
	if _, err := tx.ExecContext(ctx, query, storeID, accountID); err != nil {
		return err
	}

	for _, day := range days {
		query = `
			INSERT INTO scheduled_work_days (store_id, account_id, day_of_week, start_time, end_time)
			VALUES ($1, $2, $3, $4::time, $5::time)
		`
		args := []any{storeID, accountID, day.DayOfWeek, day.StartTime, day.EndTime}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
