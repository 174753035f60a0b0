package origins

import (
	"context"
	"crm/source/schemas"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var ErrOriginNotFound = errors.New("origin not found")

const (
	QueryInsertOrigin = "INSERT INTO origins (client_id, name, color, is_default) VALUES (?, ?, ?, ?)"

	selectOrigin = "SELECT id, client_id, name, color, is_default, created_at FROM origins"
)

type OriginPatch struct {
	Name  *string
	Color *string
}

type Repository interface {
	FindAll(ctx context.Context, clientID *int64) ([]schemas.Origin, error)
	FindByID(ctx context.Context, id int64) (*schemas.Origin, error)
	Create(ctx context.Context, origin schemas.Origin) (int64, error)
	Update(ctx context.Context, id int64, patch OriginPatch) error
	Delete(ctx context.Context, id int64) error
}

type mysqlRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &mysqlRepository{db: db}
}

// InsertDefaults seeds the default lead sources of a freshly created client.
func InsertDefaults(ctx context.Context, tx *sql.Tx, clientID int64) error {
	for _, origin := range schemas.DefaultOrigins() {
		if _, err := tx.ExecContext(ctx, QueryInsertOrigin, clientID, origin.Name, origin.Color, origin.IsDefault); err != nil {
			return fmt.Errorf("failed to insert default origin %q: %w", origin.Name, err)
		}
	}
	return nil
}

func (r *mysqlRepository) FindAll(ctx context.Context, clientID *int64) ([]schemas.Origin, error) {
	query := selectOrigin
	args := []any{}
	if clientID != nil {
		query += " WHERE client_id = ?"
		args = append(args, *clientID)
	}
	query += " ORDER BY is_default DESC, name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query origins: %w", err)
	}
	defer rows.Close()

	origins := []schemas.Origin{}
	for rows.Next() {
		origin := schemas.Origin{}
		if err := rows.Scan(&origin.ID, &origin.ClientID, &origin.Name, &origin.Color, &origin.IsDefault, &origin.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan origin row: %w", err)
		}
		origins = append(origins, origin)
	}
	return origins, rows.Err()
}

func (r *mysqlRepository) FindByID(ctx context.Context, id int64) (*schemas.Origin, error) {
	origin := schemas.Origin{}
	err := r.db.QueryRowContext(ctx, selectOrigin+" WHERE id = ?", id).Scan(
		&origin.ID, &origin.ClientID, &origin.Name, &origin.Color, &origin.IsDefault, &origin.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOriginNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query origin: %w", err)
	}
	return &origin, nil
}

func (r *mysqlRepository) Create(ctx context.Context, origin schemas.Origin) (int64, error) {
	result, err := r.db.ExecContext(ctx, QueryInsertOrigin, origin.ClientID, origin.Name, origin.Color, false)
	if err != nil {
		return 0, fmt.Errorf("failed to insert origin: %w", err)
	}
	return result.LastInsertId()
}

func (r *mysqlRepository) Update(ctx context.Context, id int64, patch OriginPatch) error {
	fields := []string{}
	args := []any{}
	if patch.Name != nil {
		fields = append(fields, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Color != nil {
		fields = append(fields, "color = ?")
		args = append(args, *patch.Color)
	}
	if len(fields) == 0 {
		return nil
	}
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, "UPDATE origins SET "+strings.Join(fields, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("failed to update origin: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrOriginNotFound
	}
	return nil
}

func (r *mysqlRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM origins WHERE id = ? AND is_default = 0", id)
	if err != nil {
		return fmt.Errorf("failed to delete origin: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrOriginNotFound
	}
	return nil
}
