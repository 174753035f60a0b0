package settings

import (
	"context"
	"crm/source/schemas"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewStore(rdb), mr
}

func strPtr(s string) *string { return &s }

func TestGetDefaults(t *testing.T) {
	store, _ := newTestStore(t)

	settings, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, schemas.DEFAULT_CRM_NAME, settings.CRMName)
	assert.Empty(t, settings.LogoURL)
}

func TestUpdateIsPartial(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	_, err := store.Update(ctx, SettingsPatch{CRMName: strPtr("Acme CRM"), LogoURL: strPtr("https://cdn.acme.com/logo.png")})
	require.NoError(t, err)

	settings, err := store.Update(ctx, SettingsPatch{CRMName: strPtr("Acme Vendas")})
	require.NoError(t, err)
	assert.Equal(t, "Acme Vendas", settings.CRMName)
	assert.Equal(t, "https://cdn.acme.com/logo.png", settings.LogoURL)

	assert.Equal(t, "Acme Vendas", mr.HGet(SETTINGS_KEY, "crm_name"))
}

func TestGetFailsWhenRedisIsDown(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	_, err := store.Get(context.Background())
	assert.Error(t, err)
}

func TestHandlerUpdate(t *testing.T) {
	store, _ := newTestStore(t)
	h := NewHandler(store)

	rec := httptest.NewRecorder()
	h.Update(rec, httptest.NewRequest(http.MethodPut, "/v1/settings", strings.NewReader(`{"crm_name":"  Acme  ","logo_url":"ftp://logo"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Update(rec, httptest.NewRequest(http.MethodPut, "/v1/settings", strings.NewReader(`{"crm_name":"  Acme  "}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message string                 `json:"message"`
		Data    schemas.SystemSettings `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Configurações atualizadas com sucesso", body.Message)
	assert.Equal(t, "Acme", body.Data.CRMName)

	rec = httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/v1/settings", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Acme", body.Data.CRMName)
}
