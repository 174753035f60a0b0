package users

import (
	"context"
	"crm/source/schemas"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var ErrUserNotFound = errors.New("user not found")

const selectUser = `SELECT u.id, u.client_id, c.name, u.name, u.email, u.role, u.active, u.created_at, u.updated_at
	FROM users u
	LEFT JOIN clients c ON u.client_id = c.id
	WHERE u.active = 1`

type UserPatch struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

type Repository interface {
	FindAll(ctx context.Context, clientID *int64) ([]schemas.User, error)
	FindByID(ctx context.Context, id int64) (*schemas.User, error)
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
	ClientIsActive(ctx context.Context, clientID int64) (bool, error)
	Create(ctx context.Context, user schemas.User) (int64, error)
	Update(ctx context.Context, id int64, patch UserPatch) error
	SoftDelete(ctx context.Context, id int64) error
}

type mysqlRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &mysqlRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*schemas.User, error) {
	var (
		user       schemas.User
		clientID   sql.NullInt64
		clientName sql.NullString
	)
	err := row.Scan(&user.ID, &clientID, &clientName, &user.Name, &user.Email, &user.Role, &user.Active, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if clientID.Valid {
		user.ClientID = &clientID.Int64
	}
	if clientName.Valid {
		user.ClientName = &clientName.String
	}
	return &user, nil
}

func (r *mysqlRepository) FindAll(ctx context.Context, clientID *int64) ([]schemas.User, error) {
	query := selectUser
	args := []any{}
	if clientID != nil {
		query += " AND u.client_id = ?"
		args = append(args, *clientID)
	}
	query += " ORDER BY u.name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []schemas.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

func (r *mysqlRepository) FindByID(ctx context.Context, id int64) (*schemas.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, selectUser+" AND u.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// EmailTaken checks every user, active or not, since emails are unique in the table.
func (r *mysqlRepository) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE email = ? AND id <> ?", email, exceptID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check user email: %w", err)
	}
	return count > 0, nil
}

func (r *mysqlRepository) ClientIsActive(ctx context.Context, clientID int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM clients WHERE id = ? AND active = 1", clientID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check client: %w", err)
	}
	return count > 0, nil
}

func (r *mysqlRepository) Create(ctx context.Context, user schemas.User) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO users (client_id, name, email, password, role) VALUES (?, ?, ?, ?, ?)",
		user.ClientID, user.Name, user.Email, user.PasswordHash, user.Role,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return result.LastInsertId()
}

func (r *mysqlRepository) Update(ctx context.Context, id int64, patch UserPatch) error {
	fields := []string{}
	args := []any{}
	if patch.Name != nil {
		fields = append(fields, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Email != nil {
		fields = append(fields, "email = ?")
		args = append(args, *patch.Email)
	}
	if patch.PasswordHash != nil {
		fields = append(fields, "password = ?")
		args = append(args, *patch.PasswordHash)
	}
	fields = append(fields, "updated_at = NOW()")
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, "UPDATE users SET "+strings.Join(fields, ", ")+" WHERE id = ? AND active = 1", args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *mysqlRepository) SoftDelete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "UPDATE users SET active = 0, updated_at = NOW() WHERE id = ? AND active = 1", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrUserNotFound
	}
	return nil
}
