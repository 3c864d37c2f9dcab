package repository

import (
	"context"
	"time"

	"github.com/ss6051/shift-payroll/backend/internal/domain"
)

func (r *Repository) GetStoreAccount(storeID, accountID int64) (*domain.StoreAccount, error) {
	query := `
		SELECT role, base_hourly_wage, joined_at, version
		FROM store_accounts WHERE store_id = $1 AND account_id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	sa := &domain.StoreAccount{
		StoreID:   storeID,
		AccountID: accountID,
	}

	dst := []any{&sa.Role, &sa.BaseHourlyWage, &sa.JoinedAt, &sa.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, storeID, accountID).Scan(dst...); err != nil {
		return nil, err
	}

	return sa, nil
}

func (r *Repository) GetStoreAccounts(storeID int64) ([]*domain.StoreAccount, error) {
	query := `
		SELECT account_id, role, base_hourly_wage, joined_at, version
		FROM store_accounts WHERE store_id = $1
		ORDER BY account_id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]*domain.StoreAccount, 0)
	for rows.Next() {
		sa := &domain.StoreAccount{StoreID: storeID}
		dst := []any{&sa.AccountID, &sa.Role, &sa.BaseHourlyWage, &sa.JoinedAt, &sa.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		members = append(members, sa)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return members, nil
}

// AddStoreEmployee 以员工身份加入门店，时薪默认为 0
func (r *Repository) AddStoreEmployee(storeID, accountID int64) (*domain.StoreAccount, error) {
	query := `
		INSERT INTO store_accounts (store_id, account_id, role)
		VALUES ($1, $2, $3)
		RETURNING base_hourly_wage, joined_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	sa := &domain.StoreAccount{
		StoreID:   storeID,
		AccountID: accountID,
		Role:      domain.StoreRoleEmployee,
	}

	dst := []any{&sa.BaseHourlyWage, &sa.JoinedAt, &sa.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, storeID, accountID, sa.Role).Scan(dst...); err != nil {
		return nil, err
	}

	return sa, nil
}

func (r *Repository) UpdateStoreAccount(sa *domain.StoreAccount) error {
	query := `
		UPDATE store_accounts
		SET
			role = $1,
			base_hourly_wage = $2,
			version = version + 1
		WHERE store_id = $3 AND account_id = $4 AND version = $5
		RETURNING joined_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{sa.Role, sa.BaseHourlyWage, sa.StoreID, sa.AccountID, sa.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&sa.JoinedAt, &sa.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteStoreAccount(storeID, accountID int64) error {
	query := `
		DELETE FROM store_accounts WHERE store_id = $1 AND account_id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, storeID, accountID)
	if err != nil {
		return err
	}

	return nil
}
