package repository

import (
	"context"
	"time"

	"github.com/ss6051/shift-payroll/backend/internal/domain"
)

// CreateStore 创建门店，同时把创建者登记为店主
func (r *Repository) CreateStore(store *domain.Store) error {
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
		INSERT INTO stores (name, address, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`
	if err := tx.QueryRowContext(ctx, query, store.Name, store.Address, store.OwnerID).Scan(&store.ID, &store.CreatedAt, &store.Version); err != nil {
		return err
	}

	query = `
		INSERT INTO store_accounts (store_id, account_id, role)
		VALUES ($1, $2, $3)
	`
	if _, err := tx.ExecContext(ctx, query, store.ID, store.OwnerID, domain.StoreRoleOwner); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetStoreByID(id int64) (*domain.Store, error) {
	query := `
		SELECT name, address, owner_id, created_at, version
		FROM stores WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	store := &domain.Store{
		ID: id,
	}

	dst := []any{&store.Name, &store.Address, &store.OwnerID, &store.CreatedAt, &store.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return store, nil
}

func (r *Repository) GetAllStores() ([]*domain.Store, error) {
	query := `
		SELECT id, name, address, owner_id, created_at, version FROM stores ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStores(rows)
}

// GetStoresOfAccount 获取账户所属的所有门店
func (r *Repository) GetStoresOfAccount(accountID int64) ([]*domain.Store, error) {
	query := `
		SELECT s.id, s.name, s.address, s.owner_id, s.created_at, s.version
		FROM stores s
		JOIN store_accounts sa ON s.id = sa.store_id
		WHERE sa.account_id = $1
		ORDER BY s.id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStores(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanStores(rows rowScanner) ([]*domain.Store, error) {
	stores := make([]*domain.Store, 0)
	for rows.Next() {
		store := &domain.Store{}
		dst := []any{&store.ID, &store.Name, &store.Address, &store.OwnerID, &store.CreatedAt, &store.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		stores = append(stores, store)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stores, nil
}
