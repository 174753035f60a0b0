package funnels

import (
	"context"
	"crm/source/schemas"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const queryUpdateName = "UPDATE funnels SET name = ?, updated_at = NOW() WHERE id = ? AND active = 1"

func newMockRepository(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func ptr[T any](v T) *T { return &v }

func TestUpdateRejectsRemovingStageWithActiveLeads(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(queryUpdateName)).
		WithArgs("Vendas", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(QueryLockStages)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10).AddRow(11).AddRow(12))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM leads WHERE status = 'active' AND stage_id IN (?,?)")).
		WithArgs(int64(11), int64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), 5, FunnelPatch{
		Name:          ptr("Vendas"),
		Stages:        []schemas.FunnelStage{{ID: 10, Name: "Novo Lead"}, {Name: "Fechado"}},
		ReplaceStages: true,
	})

	assert.ErrorIs(t, err, ErrStageHasActiveLeads)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateReplacesStagesInPlace(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(queryUpdateName)).
		WithArgs("Vendas", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(QueryLockStages)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10).AddRow(11).AddRow(12))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM leads WHERE status = 'active' AND stage_id IN (?,?)")).
		WithArgs(int64(11), int64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(QueryUpdateStage)).
		WithArgs("Novo Lead", 1, "#ef4444", int64(10), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(QueryInsertStage)).
		WithArgs(int64(5), "Fechado", 2, schemas.DEFAULT_STAGE_COLOR).
		WillReturnResult(sqlmock.NewResult(20, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE leads SET stage_id = ? WHERE stage_id IN (?,?)")).
		WithArgs(int64(10), int64(11), int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM stages WHERE id IN (?,?)")).
		WithArgs(int64(11), int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), 5, FunnelPatch{
		Name:          ptr("Vendas"),
		Stages:        []schemas.FunnelStage{{ID: 10, Name: "Novo Lead", Color: "#ef4444"}, {Name: "Fechado"}},
		ReplaceStages: true,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingFunnel(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(queryUpdateName)).
		WithArgs("Vendas", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), 5, FunnelPatch{Name: ptr("Vendas")})
	assert.ErrorIs(t, err, ErrFunnelNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWritesFunnelAndStagesInOneTransaction(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(QueryInsertFunnel)).
		WithArgs(int64(3), "Pós-venda", "").
		WillReturnResult(sqlmock.NewResult(8, 1))
	for i, stage := range schemas.DefaultStages() {
		mock.ExpectExec(regexp.QuoteMeta(QueryInsertStage)).
			WithArgs(int64(8), stage.Name, i+1, stage.Color).
			WillReturnResult(sqlmock.NewResult(int64(100+i), 1))
	}
	mock.ExpectCommit()

	id, err := repo.Create(context.Background(), schemas.Funnel{ClientID: 3, Name: "Pós-venda"}, schemas.DefaultStages())
	require.NoError(t, err)
	assert.Equal(t, int64(8), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}
