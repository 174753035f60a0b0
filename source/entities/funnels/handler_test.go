package funnels

import (
	"context"
	"crm/source/middlewares"
	"crm/source/schemas"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	funnels      map[int64]schemas.Funnel
	activeClient bool
	activeLeads  int
	updateErr    error

	created       []schemas.FunnelStage
	updated       *FunnelPatch
	deleted       bool
	lastClientArg *int64
}

func (f *fakeRepository) FindAll(ctx context.Context, clientID *int64) ([]schemas.Funnel, error) {
	f.lastClientArg = clientID
	out := []schemas.Funnel{}
	for _, funnel := range f.funnels {
		if clientID == nil || funnel.ClientID == *clientID {
			out = append(out, funnel)
		}
	}
	return out, nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id int64, clientID *int64) (*schemas.Funnel, error) {
	funnel, ok := f.funnels[id]
	if !ok || (clientID != nil && funnel.ClientID != *clientID) {
		return nil, ErrFunnelNotFound
	}
	return &funnel, nil
}

func (f *fakeRepository) ClientIsActive(ctx context.Context, clientID int64) (bool, error) {
	return f.activeClient, nil
}

func (f *fakeRepository) Create(ctx context.Context, funnel schemas.Funnel, stages []schemas.FunnelStage) (int64, error) {
	f.created = stages
	return 42, nil
}

func (f *fakeRepository) Update(ctx context.Context, id int64, patch FunnelPatch) error {
	f.updated = &patch
	return f.updateErr
}

func (f *fakeRepository) CountActiveLeads(ctx context.Context, id int64) (int, error) {
	return f.activeLeads, nil
}

func (f *fakeRepository) SoftDelete(ctx context.Context, id int64) error {
	f.deleted = true
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func serve(t *testing.T, handler http.HandlerFunc, method, target, body string, user middlewares.AuthUser, pathID string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if pathID != "" {
		req.SetPathValue("id", pathID)
	}
	req = req.WithContext(middlewares.WithUser(req.Context(), user))
	rec := httptest.NewRecorder()
	handler(rec, req)

	var out envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec.Code, out
}

var (
	admin  = middlewares.AuthUser{UserID: 1, Role: schemas.ROLE_ADMIN}
	client = middlewares.AuthUser{UserID: 2, Role: schemas.ROLE_CLIENT, ClientID: ptr(int64(3))}
)

func TestCreateOneSeedsDefaultStages(t *testing.T) {
	repo := &fakeRepository{activeClient: true}
	h := NewHandler(repo)

	code, body := serve(t, h.CreateOne, http.MethodPost, "/v1/funnels", `{"client_id":3,"name":"Pós-venda"}`, admin, "")
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Funil criado com sucesso", body.Message)
	assert.JSONEq(t, `{"id":42}`, string(body.Data))
	require.Len(t, repo.created, 5)
	assert.Equal(t, "Novo Lead", repo.created[0].Name)
}

func TestCreateOneValidation(t *testing.T) {
	tests := []struct {
		name   string
		repo   *fakeRepository
		body   string
		wantEr string
	}{
		{"inactive client", &fakeRepository{}, `{"client_id":3,"name":"X"}`, "Cliente não encontrado ou inativo"},
		{"missing name", &fakeRepository{activeClient: true}, `{"client_id":3}`, "Nome é obrigatório"},
		{"blank stage", &fakeRepository{activeClient: true}, `{"client_id":3,"name":"X","stages":[{"name":" "}]}`, "Nome do estágio não pode estar vazio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := serve(t, NewHandler(tt.repo).CreateOne, http.MethodPost, "/v1/funnels", tt.body, admin, "")
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, tt.wantEr, body.Error)
			assert.Nil(t, tt.repo.created)
		})
	}
}

func TestUpdateOneStages(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		repo := &fakeRepository{}
		code, body := serve(t, NewHandler(repo).UpdateOne, http.MethodPut, "/v1/funnels/5", `{"stages":[]}`, admin, "5")
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Pelo menos um estágio é obrigatório", body.Error)
		assert.Nil(t, repo.updated)
	})

	t.Run("stage with active leads", func(t *testing.T) {
		repo := &fakeRepository{updateErr: ErrStageHasActiveLeads}
		code, body := serve(t, NewHandler(repo).UpdateOne, http.MethodPut, "/v1/funnels/5", `{"stages":[{"id":10,"name":"Novo"}]}`, admin, "5")
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Não é possível remover estágios que possuem leads ativos", body.Error)
	})

	t.Run("name only keeps stages", func(t *testing.T) {
		repo := &fakeRepository{}
		code, _ := serve(t, NewHandler(repo).UpdateOne, http.MethodPut, "/v1/funnels/5", `{"name":" Vendas "}`, admin, "5")
		assert.Equal(t, http.StatusOK, code)
		require.NotNil(t, repo.updated)
		assert.Equal(t, "Vendas", *repo.updated.Name)
		assert.False(t, repo.updated.ReplaceStages)
	})
}

func TestDeleteOneWithActiveLeads(t *testing.T) {
	repo := &fakeRepository{funnels: map[int64]schemas.Funnel{5: {ID: 5, ClientID: 3}}, activeLeads: 1}
	code, body := serve(t, NewHandler(repo).DeleteOne, http.MethodDelete, "/v1/funnels/5", "", admin, "5")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Não é possível remover funil que possui leads ativos", body.Error)
	assert.False(t, repo.deleted)
}

func TestReadsAreScopedToTheCallerClient(t *testing.T) {
	repo := &fakeRepository{funnels: map[int64]schemas.Funnel{
		5: {ID: 5, ClientID: 3},
		6: {ID: 6, ClientID: 4},
	}}
	h := NewHandler(repo)

	code, _ := serve(t, h.GetAll, http.MethodGet, "/v1/funnels?client_id=4", "", client, "")
	assert.Equal(t, http.StatusOK, code)
	require.NotNil(t, repo.lastClientArg)
	assert.Equal(t, int64(3), *repo.lastClientArg)

	code, _ = serve(t, h.GetOne, http.MethodGet, "/v1/funnels/6", "", client, "6")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = serve(t, h.GetOne, http.MethodGet, "/v1/funnels/6", "", admin, "6")
	assert.Equal(t, http.StatusOK, code)
}
