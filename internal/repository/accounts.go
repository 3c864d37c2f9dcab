package repository

import (
	"context"
	"time"

	"github.com/ss6051/shift-payroll/backend/internal/domain"
)

func (r *Repository) GetAccountByID(id int64) (*domain.Account, error) {
	query := `
		SELECT username, password_hash, full_name, email, is_active, created_at, version
		FROM accounts WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	account := &domain.Account{
		ID: id,
	}

	dst := []any{&account.Username, &account.PasswordHash, &account.FullName, &account.Email, &account.IsActive, &account.CreatedAt, &account.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return account, nil
}

func (r *Repository) GetAccountByUsername(username string) (*domain.Account, error) {
	query := `
		SELECT id, password_hash, full_name, email, is_active, created_at, version
		FROM accounts WHERE username = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	account := &domain.Account{
		Username: username,
	}

	dst := []any{&account.ID, &account.PasswordHash, &account.FullName, &account.Email, &account.IsActive, &account.CreatedAt, &account.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, username).Scan(dst...); err != nil {
		return nil, err
	}

	return account, nil
}

func (r *Repository) UpdateAccount(account *domain.Account) error {
	query := `
		UPDATE accounts
		SET
		    password_hash = $1,
			email = $2,
			is_active = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING username, full_name, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{account.PasswordHash, account.Email, account.IsActive, account.ID, account.Version}
	dst := []any{&account.Username, &account.FullName, &account.CreatedAt, &account.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllAccounts() ([]*domain.Account, error) {
	query := `
		SELECT id, username, password_hash, full_name, email, is_active, created_at, version FROM accounts
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		account := &domain.Account{}
		dst := []any{&account.ID, &account.Username, &account.PasswordHash, &account.FullName, &account.Email, &account.IsActive, &account.CreatedAt, &account.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return accounts, nil
}

func (r *Repository) CreateAccount(account *domain.Account) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO accounts (username, password_hash, full_name, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, created_at, version
	`

	args := []any{account.Username, account.PasswordHash, account.FullName, account.Email}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&account.ID, &account.IsActive, &account.CreatedAt, &account.Version); err != nil {
		return err
	}

	return nil
}
