package board

import (
	"crm/source/middlewares"
	"crm/source/schemas"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func startBoard(t *testing.T) (*Hub, *middlewares.TokenIssuer, string) {
	t.Helper()
	hub := NewHub()
	tokens := middlewares.NewTokenIssuer("secret", time.Hour)
	server := httptest.NewServer(http.HandlerFunc(NewHandler(hub, tokens).Connect))
	t.Cleanup(server.Close)
	return hub, tokens, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, url string, tokens *middlewares.TokenIssuer, user schemas.User) *websocket.Conn {
	t.Helper()
	token, err := tokens.Issue(user)
	require.NoError(t, err)

	conn, resp, err := websocket.DefaultDialer.Dial(url+"?token="+token, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcastReachesOnlyAllowedBoards(t *testing.T) {
	hub, tokens, url := startBoard(t)

	admin := dial(t, url, tokens, schemas.User{ID: 1, Role: schemas.ROLE_ADMIN})
	owner := dial(t, url, tokens, schemas.User{ID: 2, Role: schemas.ROLE_CLIENT, ClientID: int64Ptr(3)})
	other := dial(t, url, tokens, schemas.User{ID: 3, Role: schemas.ROLE_CLIENT, ClientID: int64Ptr(4)})

	require.Eventually(t, func() bool { return hub.Count() == 3 }, 2*time.Second, 10*time.Millisecond)

	msg := schemas.BoardMessage{Action: schemas.BOARD_ACTION_LEAD_MOVED, LeadID: 9, ClientID: 3, FunnelID: 10, StageID: 101}
	hub.Broadcast(msg)

	for _, conn := range []*websocket.Conn{admin, owner} {
		var got schemas.BoardMessage
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		require.NoError(t, conn.ReadJSON(&got))
		assert.Equal(t, msg, got)
	}

	require.NoError(t, other.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var got schemas.BoardMessage
	assert.Error(t, other.ReadJSON(&got))
}

func TestClosedConnectionsAreDropped(t *testing.T) {
	hub, tokens, url := startBoard(t)

	conn := dial(t, url, tokens, schemas.User{ID: 1, Role: schemas.ROLE_ADMIN})
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestConnectRequiresToken(t *testing.T) {
	_, _, url := startBoard(t)
	httpURL := "http" + strings.TrimPrefix(url, "ws")

	resp, err := http.Get(httpURL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Get(httpURL + "?token=garbage")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(url+"?token=garbage", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
