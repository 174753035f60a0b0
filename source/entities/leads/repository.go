package leads

import (
	"context"
	"crm/source/schemas"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrLeadNotFound  = errors.New("lead not found")
	ErrStageNotFound = errors.New("stage not found")
	ErrNoStages      = errors.New("funnel has no stages")
)

const (
	QueryInsertLead = `INSERT INTO leads (client_id, funnel_id, stage_id, name, email, phone, source, value, notes, tags, status)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'active')`
	QueryUpdateStage = "UPDATE leads SET stage_id = ?, updated_at = NOW() WHERE id = ?"
	QueryFirstStage  = "SELECT id, funnel_id, name, position, color FROM stages WHERE funnel_id = ? ORDER BY position ASC, id ASC LIMIT 1"
	QueryFindStage   = "SELECT id, funnel_id, name, position, color FROM stages WHERE id = ?"

	selectLead = `SELECT l.id, l.client_id, l.funnel_id, l.stage_id, l.name, l.email, l.phone, l.source, l.value,
		l.notes, l.tags, l.status, l.created_at, l.updated_at,
		f.name AS funnel_name, s.name AS stage_name, s.color AS stage_color, c.name AS client_name
	FROM leads l
	JOIN funnels f ON l.funnel_id = f.id
	JOIN stages s ON l.stage_id = s.id
	JOIN clients c ON l.client_id = c.id`
)

// LeadFilter narrows a listing. A nil Status lists every status.
type LeadFilter struct {
	ClientID *int64
	FunnelID *int64
	Status   *string
	Source   string
	Query    string
}

type LeadPatch struct {
	Name   *string
	Email  *string
	Phone  *string
	Source *string
	Value  *float64
	Notes  *string
	Tags   *[]string
	Status *string
}

func (p LeadPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Source == nil &&
		p.Value == nil && p.Notes == nil && p.Tags == nil && p.Status == nil
}

type Repository interface {
	FindAll(ctx context.Context, filter LeadFilter) ([]schemas.Lead, error)
	FindByID(ctx context.Context, id int64, clientID *int64) (*schemas.Lead, error)
	FunnelBelongsTo(ctx context.Context, funnelID, clientID int64) (bool, error)
	FirstStage(ctx context.Context, funnelID int64) (*schemas.FunnelStage, error)
	FindStage(ctx context.Context, stageID int64) (*schemas.FunnelStage, error)
	Create(ctx context.Context, lead schemas.Lead) (int64, error)
	Update(ctx context.Context, id int64, patch LeadPatch) error
	UpdateStage(ctx context.Context, id, stageID int64) error
	Delete(ctx context.Context, id int64) error
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

func scanLead(row rowScanner) (*schemas.Lead, error) {
	var (
		lead schemas.Lead
		tags []byte
	)
	err := row.Scan(
		&lead.ID, &lead.ClientID, &lead.FunnelID, &lead.StageID, &lead.Name, &lead.Email, &lead.Phone,
		&lead.Source, &lead.Value, &lead.Notes, &tags, &lead.Status, &lead.CreatedAt, &lead.UpdatedAt,
		&lead.FunnelName, &lead.StageName, &lead.StageColor, &lead.ClientName,
	)
	if err != nil {
		return nil, err
	}

	lead.Tags = []string{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &lead.Tags); err != nil {
			return nil, fmt.Errorf("lead %d has malformed tags: %w", lead.ID, err)
		}
	}
	return &lead, nil
}

func (r *mysqlRepository) FindAll(ctx context.Context, filter LeadFilter) ([]schemas.Lead, error) {
	conditions := []string{}
	args := []any{}

	if filter.ClientID != nil {
		conditions = append(conditions, "l.client_id = ?")
		args = append(args, *filter.ClientID)
	}
	if filter.FunnelID != nil {
		conditions = append(conditions, "l.funnel_id = ?")
		args = append(args, *filter.FunnelID)
	}
	if filter.Status != nil {
		conditions = append(conditions, "l.status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Source != "" {
		conditions = append(conditions, "l.source = ?")
		args = append(args, filter.Source)
	}
	if filter.Query != "" {
		like := "%" + escapeLike(filter.Query) + "%"
		conditions = append(conditions, "(l.name LIKE ? OR l.email LIKE ? OR l.phone LIKE ?)")
		args = append(args, like, like, like)
	}

	query := selectLead
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY l.created_at DESC, l.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer rows.Close()

	leads := []schemas.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead row: %w", err)
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lead rows: %w", err)
	}
	return leads, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}

func (r *mysqlRepository) FindByID(ctx context.Context, id int64, clientID *int64) (*schemas.Lead, error) {
	query := selectLead + " WHERE l.id = ?"
	args := []any{id}
	if clientID != nil {
		query += " AND l.client_id = ?"
		args = append(args, *clientID)
	}

	lead, err := scanLead(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query lead: %w", err)
	}
	return lead, nil
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

func (r *mysqlRepository) findStage(ctx context.Context, query string, arg int64, notFound error) (*schemas.FunnelStage, error) {
	stage := schemas.FunnelStage{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&stage.ID, &stage.FunnelID, &stage.Name, &stage.Position, &stage.Color)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query stage: %w", err)
	}
	return &stage, nil
}

func (r *mysqlRepository) FirstStage(ctx context.Context, funnelID int64) (*schemas.FunnelStage, error) {
	return r.findStage(ctx, QueryFirstStage, funnelID, ErrNoStages)
}

func (r *mysqlRepository) FindStage(ctx context.Context, stageID int64) (*schemas.FunnelStage, error) {
	return r.findStage(ctx, QueryFindStage, stageID, ErrStageNotFound)
}

func (r *mysqlRepository) Create(ctx context.Context, lead schemas.Lead) (int64, error) {
	tags, err := marshalTags(lead.Tags)
	if err != nil {
		return 0, err
	}

	result, err := r.db.ExecContext(ctx, QueryInsertLead,
		lead.ClientID, lead.FunnelID, lead.StageID, lead.Name, lead.Email, lead.Phone,
		lead.Source, lead.Value, lead.Notes, tags,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert lead: %w", err)
	}
	return result.LastInsertId()
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(raw), nil
}

func (r *mysqlRepository) Update(ctx context.Context, id int64, patch LeadPatch) error {
	fields := []string{}
	args := []any{}
	set := func(column string, value any) {
		fields = append(fields, column+" = ?")
		args = append(args, value)
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Email != nil {
		set("email", *patch.Email)
	}
	if patch.Phone != nil {
		set("phone", *patch.Phone)
	}
	if patch.Source != nil {
		set("source", *patch.Source)
	}
	if patch.Value != nil {
		set("value", *patch.Value)
	}
	if patch.Notes != nil {
		set("notes", *patch.Notes)
	}
	if patch.Tags != nil {
		tags, err := marshalTags(*patch.Tags)
		if err != nil {
			return err
		}
		set("tags", tags)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	fields = append(fields, "updated_at = NOW()")
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, "UPDATE leads SET "+strings.Join(fields, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrLeadNotFound
	}
	return nil
}

func (r *mysqlRepository) UpdateStage(ctx context.Context, id, stageID int64) error {
	result, err := r.db.ExecContext(ctx, QueryUpdateStage, stageID, id)
	if err != nil {
		return fmt.Errorf("failed to move lead: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrLeadNotFound
	}
	return nil
}

func (r *mysqlRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM leads WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrLeadNotFound
	}
	return nil
}
