package auth

import (
	"context"
	"crm/source/schemas"
	"database/sql"
	"errors"
	"fmt"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	FindActiveByEmail(ctx context.Context, email string) (*schemas.User, error)
	FindActiveByID(ctx context.Context, id int64) (*schemas.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

const selectUser = `SELECT u.id, u.client_id, c.name, u.name, u.email, u.password, u.role, u.active, u.created_at, u.updated_at
	FROM users u
	LEFT JOIN clients c ON u.client_id = c.id`

type mysqlUserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &mysqlUserRepository{db: db}
}

func (r *mysqlUserRepository) FindActiveByEmail(ctx context.Context, email string) (*schemas.User, error) {
	return r.findOne(ctx, selectUser+" WHERE u.email = ? AND u.active = 1", email)
}

func (r *mysqlUserRepository) FindActiveByID(ctx context.Context, id int64) (*schemas.User, error) {
	return r.findOne(ctx, selectUser+" WHERE u.id = ? AND u.active = 1", id)
}

func (r *mysqlUserRepository) findOne(ctx context.Context, query string, args ...any) (*schemas.User, error) {
	var (
		user       schemas.User
		clientID   sql.NullInt64
		clientName sql.NullString
	)

	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &clientID, &clientName, &user.Name, &user.Email,
		&user.PasswordHash, &user.Role, &user.Active, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if clientID.Valid {
		user.ClientID = &clientID.Int64
	}
	if clientName.Valid {
		user.ClientName = &clientName.String
	}
	return &user, nil
}

func (r *mysqlUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	result, err := r.db.ExecContext(ctx, "UPDATE users SET password = ?, updated_at = NOW() WHERE id = ? AND active = 1", passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrUserNotFound
	}
	return nil
}
