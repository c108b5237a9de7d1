package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialClient(t *testing.T, hub *Hub, userID int64) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.URL.Query().Get("uid"), 10, 64)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		go NewClient(id, conn, hub).Run()
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?uid=" + strconv.FormatInt(userID, 10)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// wait for registration before publishing
	require.Eventually(t, func() bool {
		return hub.ConnectedUsers() > 0
	}, time.Second, 10*time.Millisecond)
	return conn
}

func TestHubPublishReachesAddressedUserOnly(t *testing.T) {
	hub := NewHub()
	conn := dialClient(t, hub, 7)

	hub.Publish([]int64{7, 8}, Event{Type: EventTaskUpdated, TaskID: 42})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(payload, &ev))
	assert.Equal(t, EventTaskUpdated, ev.Type)
	assert.Equal(t, int64(42), ev.TaskID)
}

func TestHubPublishSkipsOtherUsers(t *testing.T) {
	hub := NewHub()
	conn := dialClient(t, hub, 7)

	hub.Publish([]int64{8}, Event{Type: EventTaskDeleted, TaskID: 1})

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "user 7 must not receive an event addressed to user 8")
}

func TestHubDuplicateRecipientDeliversOnce(t *testing.T) {
	hub := NewHub()
	conn := dialClient(t, hub, 7)

	hub.Publish([]int64{7, 7}, Event{Type: EventPermissionGranted, TaskID: 3})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := conn.ReadMessage()
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err, "event must be delivered once despite duplicate addressing")
}

func TestHubUnregisterOnClose(t *testing.T) {
	hub := NewHub()
	conn := dialClient(t, hub, 7)

	conn.Close()
	assert.Eventually(t, func() bool {
		return hub.ConnectedUsers() == 0
	}, time.Second, 10*time.Millisecond)
}
