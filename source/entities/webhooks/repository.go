package webhooks

import (
	"context"
	"crm/source/schemas"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrWebhookNotFound = errors.New("webhook not found")

const (
	MAX_LOGS = 50

	QueryInsertLog = "INSERT INTO webhook_logs (webhook_id, event_type, payload, response_status, response_body) VALUES (?, ?, ?, ?, ?)"
	QuerySubscribed = `SELECT w.id, w.client_id, w.funnel_id, w.url, w.events, w.active, w.created_at, w.updated_at
	FROM webhooks w
	WHERE w.client_id = ? AND w.active = 1 AND (w.funnel_id IS NULL OR w.funnel_id = ?)
	ORDER BY w.id ASC`

	selectWebhook = `SELECT w.id, w.client_id, c.name, w.funnel_id, f.name, w.url, w.events, w.active, w.created_at, w.updated_at
	FROM webhooks w
	JOIN clients c ON w.client_id = c.id
	LEFT JOIN funnels f ON w.funnel_id = f.id`
)

type WebhookPatch struct {
	URL         *string
	Events      []string
	FunnelID    *int64
	SetFunnelID bool
	Active      *bool
}

type Repository interface {
	FindAll(ctx context.Context, clientID *int64) ([]schemas.Webhook, error)
	FindByID(ctx context.Context, id int64, clientID *int64) (*schemas.Webhook, error)
	FindSubscribed(ctx context.Context, clientID, funnelID int64) ([]schemas.Webhook, error)
	FunnelBelongsTo(ctx context.Context, funnelID, clientID int64) (bool, error)
	ClientIsActive(ctx context.Context, clientID int64) (bool, error)
	Create(ctx context.Context, webhook schemas.Webhook) (int64, error)
	Update(ctx context.Context, id int64, patch WebhookPatch) error
	Delete(ctx context.Context, id int64) error
	InsertLog(ctx context.Context, log schemas.WebhookLog) error
	FindLogs(ctx context.Context, webhookID int64, limit int) ([]schemas.WebhookLog, error)
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

func scanWebhook(row rowScanner, withNames bool) (*schemas.Webhook, error) {
	var (
		webhook    schemas.Webhook
		funnelID   sql.NullInt64
		funnelName sql.NullString
		events     []byte
	)

	dest := []any{&webhook.ID, &webhook.ClientID}
	if withNames {
		dest = append(dest, &webhook.ClientName, &funnelID, &funnelName)
	} else {
		dest = append(dest, &funnelID)
	}
	dest = append(dest, &webhook.URL, &events, &webhook.Active, &webhook.CreatedAt, &webhook.UpdatedAt)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if funnelID.Valid {
		webhook.FunnelID = &funnelID.Int64
	}
	if funnelName.Valid {
		webhook.FunnelName = &funnelName.String
	}
	webhook.Events = []string{}
	if len(events) > 0 {
		if err := json.Unmarshal(events, &webhook.Events); err != nil {
			return nil, fmt.Errorf("webhook %d has malformed events: %w", webhook.ID, err)
		}
	}
	return &webhook, nil
}

func (r *mysqlRepository) queryWebhooks(ctx context.Context, withNames bool, query string, args ...any) ([]schemas.Webhook, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query webhooks: %w", err)
	}
	defer rows.Close()

	webhooks := []schemas.Webhook{}
	for rows.Next() {
		webhook, err := scanWebhook(rows, withNames)
		if err != nil {
			return nil, fmt.Errorf("failed to scan webhook row: %w", err)
		}
		webhooks = append(webhooks, *webhook)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating webhook rows: %w", err)
	}
	return webhooks, nil
}

func (r *mysqlRepository) FindAll(ctx context.Context, clientID *int64) ([]schemas.Webhook, error) {
	query := selectWebhook
	args := []any{}
	if clientID != nil {
		query += " WHERE w.client_id = ?"
		args = append(args, *clientID)
	}
	query += " ORDER BY w.created_at DESC"
	return r.queryWebhooks(ctx, true, query, args...)
}

func (r *mysqlRepository) FindByID(ctx context.Context, id int64, clientID *int64) (*schemas.Webhook, error) {
	query := selectWebhook + " WHERE w.id = ?"
	args := []any{id}
	if clientID != nil {
		query += " AND w.client_id = ?"
		args = append(args, *clientID)
	}

	webhook, err := scanWebhook(r.db.QueryRowContext(ctx, query, args...), true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWebhookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query webhook: %w", err)
	}
	return webhook, nil
}

func (r *mysqlRepository) FindSubscribed(ctx context.Context, clientID, funnelID int64) ([]schemas.Webhook, error) {
	return r.queryWebhooks(ctx, false, QuerySubscribed, clientID, funnelID)
}

func (r *mysqlRepository) FunnelBelongsTo(ctx context.Context, funnelID, clientID int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM funnels WHERE id = ? AND client_id = ? AND active = 1", funnelID, clientID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check funnel ownership: %w", err)
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

func (r *mysqlRepository) Create(ctx context.Context, webhook schemas.Webhook) (int64, error) {
	events, err := json.Marshal(webhook.Events)
	if err != nil {
		return 0, err
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO webhooks (client_id, funnel_id, url, events, active) VALUES (?, ?, ?, ?, ?)",
		webhook.ClientID, webhook.FunnelID, webhook.URL, string(events), webhook.Active,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert webhook: %w", err)
	}
	return result.LastInsertId()
}

func (r *mysqlRepository) Update(ctx context.Context, id int64, patch WebhookPatch) error {
	fields := []string{}
	args := []any{}
	if patch.URL != nil {
		fields = append(fields, "url = ?")
		args = append(args, *patch.URL)
	}
	if patch.Events != nil {
		events, err := json.Marshal(patch.Events)
		if err != nil {
			return err
		}
		fields = append(fields, "events = ?")
		args = append(args, string(events))
	}
	if patch.SetFunnelID {
		fields = append(fields, "funnel_id = ?")
		args = append(args, patch.FunnelID)
	}
	if patch.Active != nil {
		fields = append(fields, "active = ?")
		args = append(args, *patch.Active)
	}
	fields = append(fields, "updated_at = NOW()")
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, "UPDATE webhooks SET "+strings.Join(fields, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("failed to update webhook: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrWebhookNotFound
	}
	return nil
}

func (r *mysqlRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM webhooks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrWebhookNotFound
	}
	return nil
}

func (r *mysqlRepository) InsertLog(ctx context.Context, log schemas.WebhookLog) error {
	_, err := r.db.ExecContext(ctx, QueryInsertLog,
		log.WebhookID, log.EventType, string(log.Payload), log.ResponseStatus, log.ResponseBody,
	)
	if err != nil {
		return fmt.Errorf("failed to insert webhook log: %w", err)
	}
	return nil
}

func (r *mysqlRepository) FindLogs(ctx context.Context, webhookID int64, limit int) ([]schemas.WebhookLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, webhook_id, event_type, payload, response_status, response_body, created_at
		FROM webhook_logs WHERE webhook_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		webhookID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query webhook logs: %w", err)
	}
	defer rows.Close()

	logs := []schemas.WebhookLog{}
	for rows.Next() {
		var (
			log     schemas.WebhookLog
			payload []byte
			status  sql.NullInt64
			body    sql.NullString
		)
		if err := rows.Scan(&log.ID, &log.WebhookID, &log.EventType, &payload, &status, &body, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan webhook log row: %w", err)
		}
		log.Payload = json.RawMessage(payload)
		if status.Valid {
			code := int(status.Int64)
			log.ResponseStatus = &code
		}
		log.ResponseBody = body.String
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating webhook log rows: %w", err)
	}
	return logs, nil
}
