package server

import (
	"dm-chat/dto"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type frame struct {
	Type string          `json:"type"`
	Body json.RawMessage `json:"body"`
}

func (a *api) connect(t *testing.T, token string) *websocket.Conn {
	t.Helper()
	before := a.registry.Count()
	url := "ws" + strings.TrimPrefix(a.url, "http") + "/chat/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.Eventually(t, func() bool { return a.registry.Count() == before+1 }, 2*time.Second, 10*time.Millisecond)
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	var f frame
	require.NoError(t, json.Unmarshal(payload, &f))
	return f
}

func TestWebsocket_Participants_Receive_Events(t *testing.T) {
	req := require.New(t)
	a := setupAPI(t)
	demir, _ := a.register(t, "demir@example.com")
	eddie, eddieID := a.register(t, "eddie@example.com")

	// Given both users are connected
	demirConn := a.connect(t, demir)
	eddieConn := a.connect(t, eddie)

	// When demir opens a room with eddie
	code, res := a.do(t, http.MethodPost, "/chat/createRoom", demir, gin.H{"acceptorId": eddieID, "initialMessage": "Hello Eddie"})
	req.Equal(http.StatusCreated, code)
	room := decode[roomData](t, res).Room

	// Then both are told about the room
	for _, conn := range []*websocket.Conn{demirConn, eddieConn} {
		created := readFrame(t, conn)
		req.Equal("new_room", created.Type)
		var body dto.Room
		req.NoError(json.Unmarshal(created.Body, &body))
		req.Equal(room.ID, body.ID)
		req.Equal(room.LastMessageID, body.LastMessageID)
	}

	// When eddie subscribes
	code, _ = a.do(t, http.MethodPatch, path("/chat/subscribe/%d", room.ID), eddie, nil)
	req.Equal(http.StatusOK, code)

	// Then demir is told
	req.Equal("subscribe_room", readFrame(t, demirConn).Type)
	req.Equal("subscribe_room", readFrame(t, eddieConn).Type)

	// When eddie answers
	code, _ = a.do(t, http.MethodPost, path("/chat/message/%d", room.ID), eddie, gin.H{"content": "Hi Demir"})
	req.Equal(http.StatusCreated, code)

	// Then demir receives the message
	sent := readFrame(t, demirConn)
	req.Equal("new_message", sent.Type)
	var message dto.Message
	req.NoError(json.Unmarshal(sent.Body, &message))
	req.Equal("Hi Demir", message.Content)
}

func TestWebsocket_Requires_Identity(t *testing.T) {
	req := require.New(t)
	a := setupAPI(t)

	url := "ws" + strings.TrimPrefix(a.url, "http") + "/chat/ws"
	_, res, err := websocket.DefaultDialer.Dial(url, nil)

	req.ErrorIs(err, websocket.ErrBadHandshake)
	req.Equal(http.StatusUnauthorized, res.StatusCode)
	req.Zero(a.registry.Count())
}

func TestWebsocket_Unregisters_On_Disconnect(t *testing.T) {
	req := require.New(t)
	a := setupAPI(t)
	demir, _ := a.register(t, "demir@example.com")

	conn := a.connect(t, demir)
	req.Equal(1, a.registry.Count())

	req.NoError(conn.Close())

	req.Eventually(func() bool { return a.registry.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}
