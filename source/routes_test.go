package main

import (
	"crm/source/entities/auth"
	"crm/source/entities/board"
	"crm/source/entities/clients"
	"crm/source/entities/funnels"
	"crm/source/entities/leads"
	"crm/source/entities/origins"
	"crm/source/entities/report"
	"crm/source/entities/settings"
	"crm/source/entities/users"
	"crm/source/entities/webhooks"
	"crm/source/middlewares"
	"crm/source/schemas"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter wires every handler against a mock database that expects no
// queries, so only routing and middleware behaviour is exercised.
func newTestRouter(t *testing.T) (http.Handler, *middlewares.TokenIssuer, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rdb := redis.NewClient(&redis.Options{Addr: miniredis.RunT(t).Addr()})
	t.Cleanup(func() { rdb.Close() })

	tokens := middlewares.NewTokenIssuer("secret", time.Hour)
	hub := board.NewHub()
	webhookRepo := webhooks.NewRepository(db)
	dispatcher := webhooks.NewDispatcher(webhookRepo, time.Second)

	router := newRouter(handlers{
		tokens:   tokens,
		auth:     auth.NewHandler(auth.NewUserRepository(db), tokens),
		users:    users.NewHandler(users.NewRepository(db)),
		clients:  clients.NewHandler(clients.NewRepository(db)),
		funnels:  funnels.NewHandler(funnels.NewRepository(db)),
		leads:    leads.NewHandler(leads.NewRepository(db), dispatcher, nil, hub),
		webhooks: webhooks.NewHandler(webhookRepo, dispatcher),
		origins:  origins.NewHandler(origins.NewRepository(db)),
		settings: settings.NewHandler(settings.NewStore(rdb)),
		board:    board.NewHandler(hub, tokens),
		report:   report.NewHandler(report.NewRepository(db)),
	}, []string{"https://app.example.com"})

	return router, tokens, mock
}

func bearer(t *testing.T, tokens *middlewares.TokenIssuer, user schemas.User) string {
	t.Helper()
	token, err := tokens.Issue(user)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRouterAccessControl(t *testing.T) {
	router, tokens, mock := newTestRouter(t)
	clientID := int64(3)
	clientToken := bearer(t, tokens, schemas.User{ID: 2, Role: schemas.ROLE_CLIENT, ClientID: &clientID})

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		want   int
	}{
		{"clients need a token", http.MethodGet, "/v1/clients", "", http.StatusUnauthorized},
		{"clients are admin only", http.MethodGet, "/v1/clients", clientToken, http.StatusForbidden},
		{"client delete is admin only", http.MethodDelete, "/v1/clients/3", clientToken, http.StatusForbidden},
		{"users are admin only", http.MethodPost, "/v1/users", clientToken, http.StatusForbidden},
		{"funnel create is admin only", http.MethodPost, "/v1/funnels", clientToken, http.StatusForbidden},
		{"funnel update is admin only", http.MethodPut, "/v1/funnels/5", clientToken, http.StatusForbidden},
		{"settings update is admin only", http.MethodPut, "/v1/settings", clientToken, http.StatusForbidden},
		{"leads need a token", http.MethodGet, "/v1/leads", "", http.StatusUnauthorized},
		{"unsupported verb", http.MethodPatch, "/v1/leads/1", clientToken, http.StatusMethodNotAllowed},
		{"unsupported verb on collection", http.MethodDelete, "/v1/webhooks", clientToken, http.StatusMethodNotAllowed},
		{"board needs a token", http.MethodGet, "/v1/ws/board", "", http.StatusUnauthorized},
		{"login validates body", http.MethodPost, "/v1/auth", "", http.StatusBadRequest},
		{"settings readable by any user", http.MethodGet, "/v1/settings", clientToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader("{}"))
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		})
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouterPreflight(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/leads/1/stage", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
