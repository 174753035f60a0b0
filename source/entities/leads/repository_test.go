package leads

import (
	"context"
	"crm/source/schemas"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var leadColumns = []string{
	"id", "client_id", "funnel_id", "stage_id", "name", "email", "phone", "source", "value",
	"notes", "tags", "status", "created_at", "updated_at", "funnel_name", "stage_name", "stage_color", "client_name",
}

func newMockRepository(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestFindAllBuildsFilter(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(selectLead+
		" WHERE l.client_id = ? AND l.status = ? AND (l.name LIKE ? OR l.email LIKE ? OR l.phone LIKE ?)"+
		" ORDER BY l.created_at DESC, l.id DESC")).
		WithArgs(int64(3), "active", `%50\%%`, `%50\%%`, `%50\%%`).
		WillReturnRows(sqlmock.NewRows(leadColumns).
			AddRow(1, 3, 10, 100, "Maria", "", "", "", 0.0, "", []byte(`["vip"]`), "active", now, now, "Vendas", "Novo Lead", "#ef4444", "Acme").
			AddRow(2, 3, 10, 100, "João", "", "", "", 0.0, "", nil, "active", now, now, "Vendas", "Novo Lead", "#ef4444", "Acme"))

	leads, err := repo.FindAll(context.Background(), LeadFilter{
		ClientID: int64Ptr(3),
		Status:   stringPtr(schemas.LEAD_STATUS_ACTIVE),
		Query:    "50%",
	})
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, []string{"vip"}, leads[0].Tags)
	assert.Equal(t, []string{}, leads[1].Tags)
	assert.Equal(t, "Novo Lead", leads[0].StageName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStoresTagsAsJSON(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(QueryInsertLead)).
		WithArgs(int64(3), int64(10), int64(100), "Maria", "", "", "", 0.0, "", "[]").
		WillReturnResult(sqlmock.NewResult(51, 1))

	id, err := repo.Create(context.Background(), schemas.Lead{ClientID: 3, FunnelID: 10, StageID: 100, Name: "Maria"})
	require.NoError(t, err)
	assert.Equal(t, int64(51), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFirstStageOfEmptyFunnel(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(QueryFirstStage)).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "funnel_id", "name", "position", "color"}))

	_, err := repo.FirstStage(context.Background(), 10)
	assert.ErrorIs(t, err, ErrNoStages)
}

func TestUpdateStageMissingLead(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(QueryUpdateStage)).
		WithArgs(int64(101), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.UpdateStage(context.Background(), 1, 101), ErrLeadNotFound)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\_b\%c\\d`, escapeLike(`a_b%c\d`))
}
