package websockets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublish(t *testing.T) {
	hub := NewHub()
	upgrader := websocket.Upgrader{}
	attached := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Attach("client-1", conn)
		close(attached)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	select {
	case <-attached:
	case <-time.After(time.Second):
		t.Fatal("connection was never attached")
	}
	assert.Equal(t, 1, hub.Len())

	err = hub.Publish(context.Background(), Message{Type: MessageTypeCountdown, Payload: CountdownPayload{Tickets: []CountdownEntry{{TicketID: "t1", RemainingSeconds: 5}}}})
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got struct {
		Type    MessageType      `json:"type"`
		Payload CountdownPayload `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, MessageTypeCountdown, got.Type)
	assert.Equal(t, []CountdownEntry{{TicketID: "t1", RemainingSeconds: 5}}, got.Payload.Tickets)

	hub.Detach("client-1")
	assert.Zero(t, hub.Len())
}
