package funnels

import (
	"context"
	"crm/source/database"
	"crm/source/schemas"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFunnelNotFound      = errors.New("funnel not found")
	ErrStageHasActiveLeads = errors.New("stage slated for removal has active leads")
	ErrNoStages            = errors.New("at least one stage is required")
)

const (
	QueryInsertFunnel = "INSERT INTO funnels (client_id, name, description) VALUES (?, ?, ?)"
	QueryInsertStage  = "INSERT INTO stages (funnel_id, name, position, color) VALUES (?, ?, ?, ?)"
	QueryUpdateStage  = "UPDATE stages SET name = ?, position = ?, color = ? WHERE id = ? AND funnel_id = ?"
	QueryLockStages   = "SELECT id FROM stages WHERE funnel_id = ? ORDER BY position ASC FOR UPDATE"

	selectFunnel = `SELECT f.id, f.client_id, c.name, f.name, f.description, f.active, f.created_at, f.updated_at,
		COUNT(DISTINCT l.id) AS leads_count,
		COUNT(DISTINCT s.id) AS stages_count
	FROM funnels f
	JOIN clients c ON f.client_id = c.id
	LEFT JOIN leads l ON f.id = l.funnel_id AND l.status = 'active'
	LEFT JOIN stages s ON f.id = s.funnel_id
	WHERE f.active = 1`
)

type FunnelPatch struct {
	Name        *string
	Description *string
	Stages      []schemas.FunnelStage
	// ReplaceStages distinguishes "no stages field" from an empty list.
	ReplaceStages bool
}

type Repository interface {
	FindAll(ctx context.Context, clientID *int64) ([]schemas.Funnel, error)
	FindByID(ctx context.Context, id int64, clientID *int64) (*schemas.Funnel, error)
	ClientIsActive(ctx context.Context, clientID int64) (bool, error)
	Create(ctx context.Context, funnel schemas.Funnel, stages []schemas.FunnelStage) (int64, error)
	Update(ctx context.Context, id int64, patch FunnelPatch) error
	CountActiveLeads(ctx context.Context, id int64) (int, error)
	SoftDelete(ctx context.Context, id int64) error
}

type mysqlRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &mysqlRepository{db: db}
}

func (r *mysqlRepository) FindAll(ctx context.Context, clientID *int64) ([]schemas.Funnel, error) {
	query := selectFunnel
	args := []any{}
	if clientID != nil {
		query += " AND f.client_id = ?"
		args = append(args, *clientID)
	}
	query += " GROUP BY f.id ORDER BY f.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query funnels: %w", err)
	}
	defer rows.Close()

	funnels := []schemas.Funnel{}
	for rows.Next() {
		funnel, err := scanFunnel(rows)
		if err != nil {
			return nil, err
		}
		funnels = append(funnels, *funnel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating funnel rows: %w", err)
	}

	for i := range funnels {
		stages, err := r.findStages(ctx, funnels[i].ID)
		if err != nil {
			return nil, err
		}
		funnels[i].Stages = stages
	}

	return funnels, nil
}

func (r *mysqlRepository) FindByID(ctx context.Context, id int64, clientID *int64) (*schemas.Funnel, error) {
	query := selectFunnel + " AND f.id = ?"
	args := []any{id}
	if clientID != nil {
		query += " AND f.client_id = ?"
		args = append(args, *clientID)
	}
	query += " GROUP BY f.id"

	funnel, err := scanFunnel(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFunnelNotFound
	}
	if err != nil {
		return nil, err
	}

	funnel.Stages, err = r.findStages(ctx, funnel.ID)
	if err != nil {
		return nil, err
	}
	return funnel, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFunnel(row rowScanner) (*schemas.Funnel, error) {
	funnel := schemas.Funnel{}
	err := row.Scan(
		&funnel.ID, &funnel.ClientID, &funnel.ClientName, &funnel.Name, &funnel.Description,
		&funnel.Active, &funnel.CreatedAt, &funnel.UpdatedAt, &funnel.LeadsCount, &funnel.StagesCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan funnel row: %w", err)
	}
	return &funnel, nil
}

func (r *mysqlRepository) findStages(ctx context.Context, funnelID int64) ([]schemas.FunnelStage, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, funnel_id, name, position, color, created_at FROM stages WHERE funnel_id = ? ORDER BY position ASC",
		funnelID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query stages: %w", err)
	}
	defer rows.Close()

	stages := []schemas.FunnelStage{}
	for rows.Next() {
		stage := schemas.FunnelStage{}
		if err := rows.Scan(&stage.ID, &stage.FunnelID, &stage.Name, &stage.Position, &stage.Color, &stage.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stage row: %w", err)
		}
		stages = append(stages, stage)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stage rows: %w", err)
	}
	return stages, nil
}

func (r *mysqlRepository) ClientIsActive(ctx context.Context, clientID int64) (bool, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, "SELECT id FROM clients WHERE id = ? AND active = 1", clientID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query client: %w", err)
	}
	return true, nil
}

func (r *mysqlRepository) Create(ctx context.Context, funnel schemas.Funnel, stages []schemas.FunnelStage) (int64, error) {
	var funnelID int64
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		funnelID, err = InsertFunnel(ctx, tx, funnel.ClientID, funnel.Name, funnel.Description)
		if err != nil {
			return err
		}
		_, err = InsertStages(ctx, tx, funnelID, stages)
		return err
	})
	return funnelID, err
}

// InsertFunnel is shared with client creation, which seeds a default funnel.
func InsertFunnel(ctx context.Context, tx *sql.Tx, clientID int64, name, description string) (int64, error) {
	result, err := tx.ExecContext(ctx, QueryInsertFunnel, clientID, name, description)
	if err != nil {
		return 0, fmt.Errorf("failed to insert funnel: %w", err)
	}
	return result.LastInsertId()
}

// InsertStages writes stages in order with positions 1..n.
func InsertStages(ctx context.Context, tx *sql.Tx, funnelID int64, stages []schemas.FunnelStage) ([]int64, error) {
	ids := make([]int64, 0, len(stages))
	for i, stage := range stages {
		result, err := tx.ExecContext(ctx, QueryInsertStage, funnelID, stage.Name, i+1, stageColor(stage.Color))
		if err != nil {
			return nil, fmt.Errorf("failed to insert stage %q: %w", stage.Name, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *mysqlRepository) Update(ctx context.Context, id int64, patch FunnelPatch) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		fields := []string{}
		args := []any{}
		if patch.Name != nil {
			fields = append(fields, "name = ?")
			args = append(args, *patch.Name)
		}
		if patch.Description != nil {
			fields = append(fields, "description = ?")
			args = append(args, *patch.Description)
		}
		fields = append(fields, "updated_at = NOW()")
		args = append(args, id)

		result, err := tx.ExecContext(ctx,
			"UPDATE funnels SET "+strings.Join(fields, ", ")+" WHERE id = ? AND active = 1", args...)
		if err != nil {
			return fmt.Errorf("failed to update funnel: %w", err)
		}
		if affected, _ := result.RowsAffected(); affected == 0 {
			return ErrFunnelNotFound
		}

		if !patch.ReplaceStages {
			return nil
		}
		return replaceStages(ctx, tx, id, patch.Stages)
	})
}

func replaceStages(ctx context.Context, tx *sql.Tx, funnelID int64, incoming []schemas.FunnelStage) error {
	if len(incoming) == 0 {
		return ErrNoStages
	}

	rows, err := tx.QueryContext(ctx, QueryLockStages, funnelID)
	if err != nil {
		return fmt.Errorf("failed to lock stages: %w", err)
	}
	currentIDs := []int64{}
	for rows.Next() {
		var stageID int64
		if err := rows.Scan(&stageID); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan stage id: %w", err)
		}
		currentIDs = append(currentIDs, stageID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating stage ids: %w", err)
	}

	plan := PlanStages(currentIDs, incoming)

	if len(plan.Remove) > 0 {
		var activeLeads int
		query, args := inClause("SELECT COUNT(*) FROM leads WHERE status = 'active' AND stage_id IN", plan.Remove)
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&activeLeads); err != nil {
			return fmt.Errorf("failed to count leads in removed stages: %w", err)
		}
		if activeLeads > 0 {
			return ErrStageHasActiveLeads
		}
	}

	for _, stage := range plan.Keep {
		if _, err := tx.ExecContext(ctx, QueryUpdateStage, stage.Name, stage.Position, stage.Color, stage.ID, funnelID); err != nil {
			return fmt.Errorf("failed to update stage %d: %w", stage.ID, err)
		}
	}

	for i := range plan.Insert {
		stage := &plan.Insert[i]
		result, err := tx.ExecContext(ctx, QueryInsertStage, funnelID, stage.Name, stage.Position, stage.Color)
		if err != nil {
			return fmt.Errorf("failed to insert stage %q: %w", stage.Name, err)
		}
		if stage.ID, err = result.LastInsertId(); err != nil {
			return err
		}
	}

	if len(plan.Remove) > 0 {
		firstStageID := plan.FirstStageID()

		query, args := inClause("UPDATE leads SET stage_id = ? WHERE stage_id IN", plan.Remove)
		if _, err := tx.ExecContext(ctx, query, append([]any{firstStageID}, args...)...); err != nil {
			return fmt.Errorf("failed to move closed leads out of removed stages: %w", err)
		}

		query, args = inClause("DELETE FROM stages WHERE id IN", plan.Remove)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to delete removed stages: %w", err)
		}
	}

	return nil
}

func inClause(prefix string, ids []int64) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return fmt.Sprintf("%s (%s)", prefix, strings.Join(placeholders, ",")), args
}

func (r *mysqlRepository) CountActiveLeads(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM leads WHERE funnel_id = ? AND status = 'active'", id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count funnel leads: %w", err)
	}
	return count, nil
}

func (r *mysqlRepository) SoftDelete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "UPDATE funnels SET active = 0, updated_at = NOW() WHERE id = ? AND active = 1", id)
	if err != nil {
		return fmt.Errorf("failed to delete funnel: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrFunnelNotFound
	}
	return nil
}

func stageColor(color string) string {
	if strings.TrimSpace(color) == "" {
		return schemas.DEFAULT_STAGE_COLOR
	}
	return color
}
