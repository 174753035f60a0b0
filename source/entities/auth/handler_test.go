package auth

import (
	"context"
	"crm/source/middlewares"
	"crm/source/schemas"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	byID        map[int64]schemas.User
	updatedHash string
}

func newFakeUsers(t *testing.T) *fakeUsers {
	t.Helper()
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	clientID := int64(3)
	return &fakeUsers{byID: map[int64]schemas.User{
		2: {ID: 2, Name: "Ana", Email: "ana@acme.com", PasswordHash: hash, Role: schemas.ROLE_CLIENT, ClientID: &clientID, Active: true},
	}}
}

func (f *fakeUsers) FindActiveByEmail(ctx context.Context, email string) (*schemas.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeUsers) FindActiveByID(ctx context.Context, id int64) (*schemas.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (f *fakeUsers) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	f.updatedHash = passwordHash
	return nil
}

func post(t *testing.T, handler http.HandlerFunc, body string, user *middlewares.AuthUser) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth", strings.NewReader(body))
	if user != nil {
		req = req.WithContext(middlewares.WithUser(req.Context(), *user))
	}
	rec := httptest.NewRecorder()
	handler(rec, req)

	out := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec.Code, out
}

func TestLogin(t *testing.T) {
	tokens := middlewares.NewTokenIssuer("secret", time.Hour)
	h := NewHandler(newFakeUsers(t), tokens)

	code, body := post(t, h.Login, `{"email":" ana@acme.com ","password":"secret123"}`, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Login realizado com sucesso", body["message"])

	data := body["data"].(map[string]any)
	user, err := tokens.Parse(data["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, int64(2), user.UserID)
	assert.Equal(t, int64(3), *user.ClientID)
	assert.NotContains(t, data["user"], "password")
}

func TestLoginRejects(t *testing.T) {
	h := NewHandler(newFakeUsers(t), middlewares.NewTokenIssuer("secret", time.Hour))

	tests := []struct {
		body string
		code int
		want string
	}{
		{`{"email":"ana@acme.com","password":"wrong"}`, http.StatusUnauthorized, "Email ou senha inválidos"},
		{`{"email":"nobody@acme.com","password":"secret123"}`, http.StatusUnauthorized, "Email ou senha inválidos"},
		{`{"email":"ana@acme.com"}`, http.StatusBadRequest, "Email e senha são obrigatórios"},
		{`nope`, http.StatusBadRequest, "Email e senha são obrigatórios"},
	}

	for _, tt := range tests {
		code, body := post(t, h.Login, tt.body, nil)
		assert.Equal(t, tt.code, code, tt.body)
		assert.Equal(t, tt.want, body["error"], tt.body)
	}
}

func TestUpdatePassword(t *testing.T) {
	users := newFakeUsers(t)
	h := NewHandler(users, middlewares.NewTokenIssuer("secret", time.Hour))
	me := &middlewares.AuthUser{UserID: 2, Role: schemas.ROLE_CLIENT}

	code, body := post(t, h.UpdatePassword, `{"current_password":"bad","new_password":"another1"}`, me)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Senha atual incorreta", body["error"])
	assert.Empty(t, users.updatedHash)

	code, body = post(t, h.UpdatePassword, `{"current_password":"secret123","new_password":"abc"}`, me)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Nova senha deve ter pelo menos 6 caracteres", body["error"])

	code, _ = post(t, h.UpdatePassword, `{"current_password":"secret123","new_password":"another1"}`, me)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, checkPassword(users.updatedHash, "another1"))
}

func TestMe(t *testing.T) {
	h := NewHandler(newFakeUsers(t), middlewares.NewTokenIssuer("secret", time.Hour))

	code, body := post(t, h.Me, "", &middlewares.AuthUser{UserID: 2})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ana@acme.com", body["data"].(map[string]any)["email"])

	code, _ = post(t, h.Me, "", &middlewares.AuthUser{UserID: 99})
	assert.Equal(t, http.StatusNotFound, code)
}
