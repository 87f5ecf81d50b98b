package postgres

import (
	"context"
	"database/sql"

	"awdtrack/internal/model"
	"awdtrack/internal/repository"
)

// AccountPostgres is a PostgreSQL implementation of repository.AccountRepository.
type AccountPostgres struct {
	db *sql.DB
}

// NewAccountPostgres creates a new AccountPostgres repository.
func NewAccountPostgres(db *sql.DB) *AccountPostgres {
	return &AccountPostgres{db: db}
}

var _ repository.AccountRepository = (*AccountPostgres)(nil)

const accountColumns = `id, name, email, division, password_hash, created_at`

func scanAccount(s scanner) (*model.Account, error) {
	var a model.Account
	var division string
	if err := s.Scan(&a.ID, &a.Name, &a.Email, &division, &a.PasswordHash, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Division = model.Role(division)
	return &a, nil
}

func (r *AccountPostgres) Create(ctx context.Context, acc *model.Account) (*model.Account, error) {
	const q = `
		INSERT INTO accounts (id, name, email, division, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + accountColumns
	out, err := scanAccount(r.db.QueryRowContext(ctx, q,
		acc.ID,
		acc.Name,
		acc.Email,
		string(acc.Division),
		acc.PasswordHash,
		acc.CreatedAt,
	))
	if err != nil {
		return nil, mapWriteError(err)
	}
	return out, nil
}

func (r *AccountPostgres) FindByID(ctx context.Context, id string) (*model.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(r.db.QueryRowContext(ctx, q, id))
}

func (r *AccountPostgres) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE lower(email) = lower($1)`
	return scanAccount(r.db.QueryRowContext(ctx, q, email))
}

func (r *AccountPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Account], error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&total); err != nil {
		return nil, err
	}

	const q = `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY name ASC, id ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, q, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Account]{Items: items, Total: total}, nil
}

// Update returns sql.ErrNoRows when the account does not exist.
func (r *AccountPostgres) Update(ctx context.Context, acc *model.Account) (*model.Account, error) {
	const q = `
		UPDATE accounts
		SET name = $1, email = $2, division = $3, password_hash = $4
		WHERE id = $5
		RETURNING ` + accountColumns
	out, err := scanAccount(r.db.QueryRowContext(ctx, q,
		acc.Name,
		acc.Email,
		string(acc.Division),
		acc.PasswordHash,
		acc.ID,
	))
	if err != nil {
		return nil, mapWriteError(err)
	}
	return out, nil
}

func (r *AccountPostgres) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	return err
}
