package clients

import (
	"context"
	"crm/source/database"
	"crm/source/entities/funnels"
	"crm/source/entities/origins"
	"crm/source/schemas"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var ErrClientNotFound = errors.New("client not found")

const (
	DEFAULT_FUNNEL_NAME        = "Funil Principal"
	DEFAULT_FUNNEL_DESCRIPTION = "Funil padrão de vendas"

	QueryInsertClient = "INSERT INTO clients (name, email, phone) VALUES (?, ?, ?)"
	QueryEmailTaken   = "SELECT COUNT(*) FROM clients WHERE email = ? AND active = 1 AND id <> ?"
	QueryCountLeads   = "SELECT COUNT(*) FROM leads WHERE client_id = ? AND status = 'active'"
	QueryDeleteClient = "UPDATE clients SET active = 0, updated_at = NOW() WHERE id = ? AND active = 1"
	QueryDeleteUsers  = "UPDATE users SET active = 0, updated_at = NOW() WHERE client_id = ?"
	QueryDeleteFunnel = "UPDATE funnels SET active = 0, updated_at = NOW() WHERE client_id = ?"

	selectClient = `SELECT c.id, c.name, c.email, c.phone, c.active, c.created_at, c.updated_at,
		(SELECT COUNT(*) FROM funnels f WHERE f.client_id = c.id AND f.active = 1) AS funnels_count,
		(SELECT COUNT(*) FROM leads l WHERE l.client_id = c.id AND l.status = 'active') AS leads_count,
		(SELECT COUNT(*) FROM users u WHERE u.client_id = c.id AND u.active = 1) AS users_count
	FROM clients c
	WHERE c.active = 1`
)

type ClientPatch struct {
	Name  *string
	Email *string
	Phone *string
}

type Repository interface {
	FindAll(ctx context.Context) ([]schemas.Client, error)
	FindByID(ctx context.Context, id int64) (*schemas.Client, error)
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
	CreateWithDefaults(ctx context.Context, client schemas.Client) (int64, error)
	Update(ctx context.Context, id int64, patch ClientPatch) error
	CountActiveLeads(ctx context.Context, id int64) (int, error)
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

func scanClient(row rowScanner) (*schemas.Client, error) {
	client := schemas.Client{}
	err := row.Scan(
		&client.ID, &client.Name, &client.Email, &client.Phone, &client.Active,
		&client.CreatedAt, &client.UpdatedAt,
		&client.FunnelsCount, &client.LeadsCount, &client.UsersCount,
	)
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *mysqlRepository) FindAll(ctx context.Context) ([]schemas.Client, error) {
	rows, err := r.db.QueryContext(ctx, selectClient+" ORDER BY c.created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	clients := []schemas.Client{}
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client row: %w", err)
		}
		clients = append(clients, *client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client rows: %w", err)
	}
	return clients, nil
}

func (r *mysqlRepository) FindByID(ctx context.Context, id int64) (*schemas.Client, error) {
	client, err := scanClient(r.db.QueryRowContext(ctx, selectClient+" AND c.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query client: %w", err)
	}
	return client, nil
}

func (r *mysqlRepository) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, QueryEmailTaken, email, exceptID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check client email: %w", err)
	}
	return count > 0, nil
}

// CreateWithDefaults inserts the client together with its starter funnel,
// the default stages and the default origins, all or nothing.
func (r *mysqlRepository) CreateWithDefaults(ctx context.Context, client schemas.Client) (int64, error) {
	var clientID int64
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, QueryInsertClient, client.Name, client.Email, client.Phone)
		if err != nil {
			return fmt.Errorf("failed to insert client: %w", err)
		}
		if clientID, err = result.LastInsertId(); err != nil {
			return err
		}

		funnelID, err := funnels.InsertFunnel(ctx, tx, clientID, DEFAULT_FUNNEL_NAME, DEFAULT_FUNNEL_DESCRIPTION)
		if err != nil {
			return err
		}
		if _, err := funnels.InsertStages(ctx, tx, funnelID, schemas.DefaultStages()); err != nil {
			return err
		}

		return origins.InsertDefaults(ctx, tx, clientID)
	})
	return clientID, err
}

func (r *mysqlRepository) Update(ctx context.Context, id int64, patch ClientPatch) error {
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
	if patch.Phone != nil {
		fields = append(fields, "phone = ?")
		args = append(args, *patch.Phone)
	}
	fields = append(fields, "updated_at = NOW()")
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, "UPDATE clients SET "+strings.Join(fields, ", ")+" WHERE id = ? AND active = 1", args...)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrClientNotFound
	}
	return nil
}

func (r *mysqlRepository) CountActiveLeads(ctx context.Context, id int64) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, QueryCountLeads, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count client leads: %w", err)
	}
	return count, nil
}

func (r *mysqlRepository) SoftDelete(ctx context.Context, id int64) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, QueryDeleteClient, id)
		if err != nil {
			return fmt.Errorf("failed to delete client: %w", err)
		}
		if affected, _ := result.RowsAffected(); affected == 0 {
			return ErrClientNotFound
		}
		if _, err := tx.ExecContext(ctx, QueryDeleteUsers, id); err != nil {
			return fmt.Errorf("failed to deactivate client users: %w", err)
		}
		if _, err := tx.ExecContext(ctx, QueryDeleteFunnel, id); err != nil {
			return fmt.Errorf("failed to deactivate client funnels: %w", err)
		}
		return nil
	})
}
