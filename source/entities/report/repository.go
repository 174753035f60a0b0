package report

import (
	"context"
	"crm/source/schemas"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

type ReportFilter struct {
	ClientID *int64
	FunnelID *int64
	From     *time.Time
	Until    *time.Time
}

// where renders the filter for a table aliased as alias.
func (f ReportFilter) where(alias string, withFunnel bool) (string, []any) {
	conditions := []string{"1 = 1"}
	args := []any{}
	if f.ClientID != nil {
		conditions = append(conditions, alias+".client_id = ?")
		args = append(args, *f.ClientID)
	}
	if withFunnel && f.FunnelID != nil {
		conditions = append(conditions, alias+".funnel_id = ?")
		args = append(args, *f.FunnelID)
	}
	if f.From != nil {
		conditions = append(conditions, alias+".created_at >= ?")
		args = append(args, *f.From)
	}
	if f.Until != nil {
		conditions = append(conditions, alias+".created_at <= ?")
		args = append(args, *f.Until)
	}
	return strings.Join(conditions, " AND "), args
}

type Repository interface {
	LeadsByStatus(ctx context.Context, f ReportFilter) (map[string]int64, error)
	LeadsWonValue(ctx context.Context, f ReportFilter) (float64, error)
	LeadsBySource(ctx context.Context, f ReportFilter) (map[string]int64, error)
	LeadsByStage(ctx context.Context, funnelID int64, f ReportFilter) ([]schemas.StageCount, error)
	ClientsTotal(ctx context.Context, f ReportFilter) (int64, error)
	ClientsNewPerMonth(ctx context.Context, f ReportFilter) (map[string]int64, error)
}

type mysqlRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &mysqlRepository{db: db}
}

func (r *mysqlRepository) groupCount(ctx context.Context, query string, args ...any) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run report query: %w", err)
	}
	defer rows.Close()

	result := map[string]int64{}
	for rows.Next() {
		var (
			key   string
			count int64
		)
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		result[key] = count
	}
	return result, rows.Err()
}

func (r *mysqlRepository) LeadsByStatus(ctx context.Context, f ReportFilter) (map[string]int64, error) {
	where, args := f.where("l", true)
	counts, err := r.groupCount(ctx, "SELECT l.status, COUNT(*) FROM leads l WHERE "+where+" GROUP BY l.status", args...)
	if err != nil {
		return nil, err
	}
	for _, status := range []string{schemas.LEAD_STATUS_ACTIVE, schemas.LEAD_STATUS_WON, schemas.LEAD_STATUS_LOST} {
		if _, ok := counts[status]; !ok {
			counts[status] = 0
		}
	}
	return counts, nil
}

func (r *mysqlRepository) LeadsWonValue(ctx context.Context, f ReportFilter) (float64, error) {
	where, args := f.where("l", true)
	var total float64
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(l.value), 0) FROM leads l WHERE "+where+" AND l.status = 'won'", args...,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum won value: %w", err)
	}
	return total, nil
}

func (r *mysqlRepository) LeadsBySource(ctx context.Context, f ReportFilter) (map[string]int64, error) {
	where, args := f.where("l", true)
	return r.groupCount(ctx, "SELECT l.source, COUNT(*) FROM leads l WHERE "+where+" GROUP BY l.source", args...)
}

func (r *mysqlRepository) LeadsByStage(ctx context.Context, funnelID int64, f ReportFilter) ([]schemas.StageCount, error) {
	f.FunnelID = nil
	where, args := f.where("l", false)

	query := `SELECT s.id, s.name, s.color, s.position, COUNT(l.id)
	FROM stages s
	LEFT JOIN leads l ON l.stage_id = s.id AND l.status = 'active' AND ` + where + `
	WHERE s.funnel_id = ?
	GROUP BY s.id, s.name, s.color, s.position
	ORDER BY s.position ASC`

	rows, err := r.db.QueryContext(ctx, query, append(args, funnelID)...)
	if err != nil {
		return nil, fmt.Errorf("failed to count leads by stage: %w", err)
	}
	defer rows.Close()

	stages := []schemas.StageCount{}
	for rows.Next() {
		stage := schemas.StageCount{}
		if err := rows.Scan(&stage.StageID, &stage.Name, &stage.Color, &stage.Position, &stage.Count); err != nil {
			return nil, fmt.Errorf("failed to scan stage count: %w", err)
		}
		stages = append(stages, stage)
	}
	return stages, rows.Err()
}

func (r *mysqlRepository) ClientsTotal(ctx context.Context, f ReportFilter) (int64, error) {
	f.ClientID = nil
	where, args := f.where("c", false)
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM clients c WHERE "+where+" AND c.active = 1", args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return total, nil
}

func (r *mysqlRepository) ClientsNewPerMonth(ctx context.Context, f ReportFilter) (map[string]int64, error) {
	f.ClientID = nil
	where, args := f.where("c", false)
	return r.groupCount(ctx,
		"SELECT DATE_FORMAT(c.created_at, '%Y-%m') AS month, COUNT(*) FROM clients c WHERE "+where+" GROUP BY month ORDER BY month", args...)
}
