package users

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

const userColumns = `id, tenant_id, email, name, picture, role, provider, created_at, updated_at`

// UpsertByEmail inserts or refreshes a user keyed by email. Tenant and
// role survive repeat sign-ins; only the profile fields are refreshed.
func (r *PGRepo) UpsertByEmail(ctx context.Context, user User) (User, error) {
	const query = `
INSERT INTO users (id, tenant_id, email, name, picture, role, provider, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
ON CONFLICT (email) DO UPDATE SET
  name = EXCLUDED.name,
  picture = EXCLUDED.picture,
  updated_at = now()
RETURNING ` + userColumns
	return scanUser(r.DB.QueryRowContext(ctx, query,
		user.ID,
		nullString(user.TenantID),
		user.Email,
		nullString(user.Name),
		nullString(user.Picture),
		user.Role,
		user.Provider,
	))
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
LIMIT 1`
	return r.scanOne(ctx, query, userID)
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `
SELECT ` + userColumns + `
FROM users
WHERE lower(email) = lower($1)
LIMIT 1`
	return r.scanOne(ctx, query, email)
}

func (r *PGRepo) scanOne(ctx context.Context, query string, arg any) (User, error) {
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

func scanUser(row *sql.Row) (User, error) {
	var user User
	var tenantID, name, picture sql.NullString
	err := row.Scan(
		&user.ID,
		&tenantID,
		&user.Email,
		&name,
		&picture,
		&user.Role,
		&user.Provider,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return User{}, err
	}
	user.TenantID = tenantID.String
	user.Name = name.String
	user.Picture = picture.String
	return user, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
