package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 64 * 1024 // 64 KB
	sendBuffer = 256
)

// Session is a websocket-backed Handle. Outbound events go through a
// buffered channel drained by WritePump so hub callers never block on a
// slow socket.
type Session struct {
	conn *websocket.Conn
	send chan *Event

	mu     sync.Mutex
	closed bool
}

func NewSession(conn *websocket.Conn) *Session {
	return &Session{
		conn: conn,
		send: make(chan *Event, sendBuffer),
	}
}

// Send queues an event for delivery. Returns false if the session is closed
// or the buffer is full (client too slow — event dropped).
func (s *Session) Send(ev *Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.send <- ev:
		return true
	default:
		return false
	}
}

func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.send)
}

// WritePump drains the send buffer onto the socket and keeps the connection
// alive with pings. Runs in its own goroutine; returns when the session is
// closed or a write fails.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump reads inbound frames until the socket fails, invoking handle for
// each frame. Blocks; the caller runs cleanup after it returns.
func (s *Session) ReadPump(handle func(data []byte)) {
	s.conn.SetReadLimit(maxMsgSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		handle(data)
	}
}
