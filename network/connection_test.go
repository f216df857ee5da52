package network

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoServer wraps each accepted socket in a WSConnection and echoes every
// envelope back with the event name upper-cased.
func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn := NewWSConnection(raw, time.Second)
		defer conn.Close()
		for {
			env, err := conn.ReadEnvelope()
			if err != nil {
				if errors.Is(err, ErrMalformedMessage) {
					_ = conn.Send(EventError, "malformed")
					continue
				}
				return
			}
			_ = conn.Send(strings.ToUpper(env.Event), env.Data)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func dialEcho(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Skipf("skipping test; websocket dial unavailable: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) *Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)
	env, err := Decode(frame)
	require.NoError(t, err)
	return env
}

func TestWSConnection_RoundTrip(t *testing.T) {
	conn := dialEcho(t, echoServer(t))

	frame, err := Encode(EventChatMessage, ChatRequest{RoomID: "ABCD", Message: "hi"})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, frame))

	env := readEnvelope(t, conn)
	assert.Equal(t, "CHAT_MESSAGE", env.Event)
	assert.JSONEq(t, `{"roomId":"ABCD","message":"hi"}`, string(env.Data))
}

func TestWSConnection_MalformedFrameKeepsConnection(t *testing.T) {
	conn := dialEcho(t, echoServer(t))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("garbage")))
	assert.Equal(t, EventError, readEnvelope(t, conn).Event)

	frame, err := Encode(EventStartGame, RoomRequest{RoomID: "ABCD"})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, frame))
	assert.Equal(t, "START_GAME", readEnvelope(t, conn).Event)
}

func TestWSConnection_SendAfterClose(t *testing.T) {
	upgraded := make(chan *WSConnection, 1)
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		upgraded <- NewWSConnection(raw, 0)
	}))
	defer ts.Close()
	dialEcho(t, ts)

	var conn *WSConnection
	select {
	case conn = <-upgraded:
	case <-time.After(5 * time.Second):
		t.Fatal("server never upgraded")
	}
	require.NoError(t, conn.Close())
	assert.NoError(t, conn.Close())
	assert.ErrorIs(t, conn.Send(EventGameState, nil), ErrConnectionClosed)
}
