package users

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
	"golang.org/x/crypto/bcrypt"
)

type fakeRepository struct {
	users       map[int64]schemas.User
	emailTaken  bool
	activeIDs   map[int64]bool
	created     *schemas.User
	patched     *UserPatch
	deletedUser int64
}

func (f *fakeRepository) FindAll(ctx context.Context, clientID *int64) ([]schemas.User, error) {
	return []schemas.User{}, nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id int64) (*schemas.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (f *fakeRepository) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	return f.emailTaken, nil
}

func (f *fakeRepository) ClientIsActive(ctx context.Context, clientID int64) (bool, error) {
	return f.activeIDs[clientID], nil
}

func (f *fakeRepository) Create(ctx context.Context, user schemas.User) (int64, error) {
	f.created = &user
	return 21, nil
}

func (f *fakeRepository) Update(ctx context.Context, id int64, patch UserPatch) error {
	if _, ok := f.users[id]; !ok {
		return ErrUserNotFound
	}
	f.patched = &patch
	return nil
}

func (f *fakeRepository) SoftDelete(ctx context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return ErrUserNotFound
	}
	f.deletedUser = id
	return nil
}

var admin = middlewares.AuthUser{UserID: 1, Role: schemas.ROLE_ADMIN}

func send(t *testing.T, handler http.HandlerFunc, method, body, pathID string) (int, schemas.ApiResponse) {
	t.Helper()
	req := httptest.NewRequest(method, "/v1/users", strings.NewReader(body))
	if pathID != "" {
		req.SetPathValue("id", pathID)
	}
	req = req.WithContext(middlewares.WithUser(req.Context(), admin))
	rec := httptest.NewRecorder()
	handler(rec, req)

	var out schemas.ApiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec.Code, out
}

func TestCreateOne(t *testing.T) {
	t.Run("client user", func(t *testing.T) {
		repo := &fakeRepository{activeIDs: map[int64]bool{3: true}}
		code, body := send(t, NewHandler(repo).CreateOne, http.MethodPost,
			`{"client_id":3,"name":"Ana","email":"ana@acme.com","password":"secret123","role":"client"}`, "")

		require.Equal(t, http.StatusCreated, code, body.Error)
		require.NotNil(t, repo.created)
		assert.Equal(t, int64(3), *repo.created.ClientID)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.created.PasswordHash), []byte("secret123")))
	})

	t.Run("admin drops client", func(t *testing.T) {
		repo := &fakeRepository{}
		code, _ := send(t, NewHandler(repo).CreateOne, http.MethodPost,
			`{"client_id":3,"name":"Root","email":"root@crm.com","password":"secret123","role":"admin"}`, "")

		require.Equal(t, http.StatusCreated, code)
		assert.Nil(t, repo.created.ClientID)
	})
}

func TestCreateOneRejects(t *testing.T) {
	tests := []struct {
		name string
		repo *fakeRepository
		body string
		want string
	}{
		{"client role without client", &fakeRepository{}, `{"name":"Ana","email":"ana@acme.com","password":"secret123","role":"client"}`, "Cliente é obrigatório"},
		{"inactive client", &fakeRepository{}, `{"client_id":3,"name":"Ana","email":"ana@acme.com","password":"secret123","role":"client"}`, "Cliente não encontrado ou inativo"},
		{"short password", &fakeRepository{}, `{"name":"Ana","email":"ana@acme.com","password":"123","role":"admin"}`, "Senha deve ter pelo menos 6 caracteres"},
		{"unknown role", &fakeRepository{}, `{"name":"Ana","email":"ana@acme.com","password":"secret123","role":"owner"}`, "Perfil inválido: owner"},
		{"email taken", &fakeRepository{emailTaken: true}, `{"name":"Ana","email":"ana@acme.com","password":"secret123","role":"admin"}`, "Já existe um usuário com este email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := send(t, NewHandler(tt.repo).CreateOne, http.MethodPost, tt.body, "")
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, tt.want, body.Error)
			assert.Nil(t, tt.repo.created)
		})
	}
}

func TestUpdateOneHashesPassword(t *testing.T) {
	repo := &fakeRepository{users: map[int64]schemas.User{5: {ID: 5}}}
	code, _ := send(t, NewHandler(repo).UpdateOne, http.MethodPut, `{"password":"another1"}`, "5")

	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, repo.patched.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*repo.patched.PasswordHash), []byte("another1")))
	assert.Nil(t, repo.patched.Email)
}

func TestDeleteOne(t *testing.T) {
	repo := &fakeRepository{users: map[int64]schemas.User{1: {ID: 1}, 5: {ID: 5}}}
	h := NewHandler(repo)

	code, body := send(t, h.DeleteOne, http.MethodDelete, "", "1")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Não é possível remover o próprio usuário", body.Error)

	code, _ = send(t, h.DeleteOne, http.MethodDelete, "", "5")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(5), repo.deletedUser)

	code, _ = send(t, h.DeleteOne, http.MethodDelete, "", "9")
	assert.Equal(t, http.StatusNotFound, code)
}
