package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathID(t *testing.T) {
	for raw, valid := range map[string]bool{"12": true, "0": false, "-3": false, "abc": false} {
		r := httptest.NewRequest(http.MethodGet, "/v1/leads/"+raw, nil)
		r.SetPathValue("id", raw)

		id, err := PathID(r, "id")
		if valid {
			require.NoError(t, err, raw)
			assert.Equal(t, int64(12), id)
		} else {
			assert.Error(t, err, raw)
		}
	}
}

func TestQueryID(t *testing.T) {
	id, err := QueryID(httptest.NewRequest(http.MethodGet, "/v1/leads", nil), "client_id")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = QueryID(httptest.NewRequest(http.MethodGet, "/v1/leads?client_id=5", nil), "client_id")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(5), *id)

	_, err = QueryID(httptest.NewRequest(http.MethodGet, "/v1/leads?client_id=x", nil), "client_id")
	assert.Error(t, err)
}

func TestDecodeJSON(t *testing.T) {
	var input struct {
		Name string `json:"name"`
	}

	rec := httptest.NewRecorder()
	err := DecodeJSON(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ana"}`)), &input)
	require.NoError(t, err)
	assert.Equal(t, "Ana", input.Name)

	err = DecodeJSON(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")), &input)
	assert.ErrorIs(t, err, ErrEmptyBody)

	err = DecodeJSON(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{")), &input)
	assert.Error(t, err)
}
