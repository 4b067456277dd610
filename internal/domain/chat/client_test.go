package chat

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClient_DisconnectReleasesRoomAndSendChannel(t *testing.T) {
	hub := NewHub(zap.NewNop())
	upg := websocket.Upgrader{}
	clients := make(chan *Client, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upg.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := NewClient(conn, hub, nil, zap.NewNop(), 1, "Daniyar", "client", 7)
		clients <- c
		c.Run()
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	peer, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	c := <-clients
	assert.Eventually(t, func() bool { return hub.RoomSize(7) == 1 },
		time.Second, 10*time.Millisecond, "client never joined the room")

	require.NoError(t, peer.Close())

	assert.Eventually(t, func() bool { return hub.RoomSize(7) == 0 },
		time.Second, 10*time.Millisecond, "room was not released on disconnect")

	// the send channel closes with the connection, so the write loop exits
	// without waiting for a ping tick
	select {
	case _, ok := <-c.send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed on disconnect")
	}
}

func TestClient_TypingBroadcastToRoom(t *testing.T) {
	hub := NewHub(zap.NewNop())
	upg := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upg.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := NewClient(conn, hub, nil, zap.NewNop(), 1, "Daniyar", "client", 7)
		c.Run()
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	peer, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer peer.Close()

	assert.Eventually(t, func() bool { return hub.RoomSize(7) == 1 },
		time.Second, 10*time.Millisecond)

	// a listener joined directly to the hub observes the indicator
	listener := &Client{send: make(chan []byte, 4)}
	hub.Join(7, listener)

	require.NoError(t, peer.WriteJSON(map[string]bool{"typing": true}))

	select {
	case raw := <-listener.send:
		assert.Contains(t, string(raw), `"is_typing":true`)
		assert.Contains(t, string(raw), `"user_name":"Daniyar"`)
	case <-time.After(time.Second):
		t.Fatal("typing indicator never reached the room")
	}
}
