package sink

import (
	"context"
	"dm-chat/domain"
	"dm-chat/domain/event"
	"dm-chat/dto"
	"dm-chat/errors"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxInboundSize = 4096
)

// WebsocketSink pushes realtime frames to one connected session.
// Writes go through a buffered channel drained by a single writer goroutine.
type WebsocketSink struct {
	id     string
	userID domain.UserID
	conn   *websocket.Conn
	send   chan []byte
	closed chan struct{}
	once   sync.Once
	log    *slog.Logger
}

func NewWebsocketSink(conn *websocket.Conn, userID domain.UserID, bufferSize int, log *slog.Logger) *WebsocketSink {
	id := uuid.NewString()
	return &WebsocketSink{
		id:     id,
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, bufferSize),
		closed: make(chan struct{}),
		log:    log.With("sink", id, "user", userID),
	}
}

func (s *WebsocketSink) ID() string {
	return s.id
}

func (s *WebsocketSink) UserID() domain.UserID {
	return s.userID
}

// Consume never blocks: a client too slow to drain its buffer is disconnected.
func (s *WebsocketSink) Consume(_ context.Context, e event.DomainEvent) error {
	frame, ok := dto.FromEvent(e)
	if !ok {
		return nil
	}
	payload, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("encoding %s frame: %w", e.Type(), err)
	}
	select {
	case <-s.closed:
		return errors.ErrSinkClosed
	default:
	}
	select {
	case s.send <- payload:
		return nil
	default:
		s.Close(websocket.ClosePolicyViolation, "send buffer full")
		return errors.ErrSinkSaturated
	}
}

// Run serves the connection until the peer goes away, ctx is done or Close is called.
// Inbound messages are ignored, only control frames matter.
func (s *WebsocketSink) Run(ctx context.Context) {
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeLoop()
	}()
	go func() {
		select {
		case <-ctx.Done():
			s.Close(websocket.CloseGoingAway, "server shutting down")
		case <-s.closed:
		}
	}()

	s.readLoop()
	s.Close(websocket.CloseNormalClosure, "")
	<-writerDone
}

// Close is idempotent and safe to call from any goroutine.
func (s *WebsocketSink) Close(code int, reason string) {
	s.once.Do(func() {
		close(s.closed)
		deadline := time.Now().Add(writeWait)
		_ = s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
		_ = s.conn.Close()
		s.log.Debug("Realtime connection closed", "reason", reason)
	})
}

func (s *WebsocketSink) Done() <-chan struct{} {
	return s.closed
}

func (s *WebsocketSink) readLoop() {
	s.conn.SetReadLimit(maxInboundSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("Realtime read failed", "error", err)
			}
			return
		}
	}
}

func (s *WebsocketSink) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-s.closed:
			return
		case payload := <-s.send:
			if err := s.write(websocket.TextMessage, payload); err != nil {
				s.log.Debug("Realtime write failed", "error", err)
				s.Close(websocket.CloseInternalServerErr, "write failed")
				return
			}
		case <-ticker.C:
			if err := s.write(websocket.PingMessage, nil); err != nil {
				s.Close(websocket.CloseGoingAway, "ping failed")
				return
			}
		}
	}
}

func (s *WebsocketSink) write(messageType int, payload []byte) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(messageType, payload)
}
