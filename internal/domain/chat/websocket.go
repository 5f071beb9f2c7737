package chat

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"renthome/internal/pkg/jwt"
	"renthome/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for dev; tighten behind CORS_ALLOWED_ORIGINS in prod
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler authenticates websocket handshakes and drives the per-session
// read loop.
type WSHandler struct {
	hub     *realtime.Hub
	jwt     *jwt.Service
	service *Service
}

func NewWSHandler(hub *realtime.Hub, jwtService *jwt.Service, service *Service) *WSHandler {
	return &WSHandler{hub: hub, jwt: jwtService, service: service}
}

// HandleWebSocket upgrades GET /ws?token=JWT into a live session.
// Authentication rides a query parameter because browsers cannot set headers
// on websocket handshakes.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   gin.H{"code": "UNAUTHORIZED", "message": "Token is required. Use ?token=YOUR_JWT_TOKEN"},
		})
		return
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   gin.H{"code": "UNAUTHORIZED", "message": "Invalid or expired token"},
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws_upgrade_failed user_id=%d error=%q", claims.UserID, err)
		return
	}

	sess := realtime.NewSession(conn)
	h.hub.Register(claims.UserID, claims.Role, sess)
	log.Printf("ws_connected user_id=%d role=%s", claims.UserID, claims.Role)

	defer func() {
		h.hub.Unregister(sess)
		sess.Close()
		conn.Close()
		log.Printf("ws_disconnected user_id=%d", claims.UserID)
	}()

	go sess.WritePump()

	// Blocks until the socket fails or the client goes away
	sess.ReadPump(func(data []byte) {
		h.handleFrame(sess, claims.UserID, data)
	})
}

func (h *WSHandler) handleFrame(sess *realtime.Session, userID int64, data []byte) {
	var msg WSClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		sess.Send(NewErrorEvent("INVALID_JSON", "Failed to parse message"))
		return
	}

	// Work started on a frame outlives the socket: a send that began before
	// a disconnect must still persist and fall back to notification.
	ctx := context.Background()

	switch msg.Type {
	case "message":
		h.handleMessage(ctx, sess, userID, msg)
	case "typing":
		if msg.ConversationID != "" {
			h.service.Typing(ctx, userID, msg.ConversationID, msg.IsTyping)
		}
	case "read":
		if msg.ConversationID != "" {
			if err := h.service.MarkRead(ctx, userID, msg.ConversationID); err != nil {
				log.Printf("ws_mark_read_failed user_id=%d conversation_id=%s error=%q", userID, msg.ConversationID, err)
			}
		}
	case "ping":
		sess.Send(NewPongEvent())
	default:
		sess.Send(NewErrorEvent("UNKNOWN_TYPE", "Unknown message type: "+msg.Type))
	}
}

func (h *WSHandler) handleMessage(ctx context.Context, sess *realtime.Session, senderID int64, msg WSClientMessage) {
	if msg.ConversationID == "" {
		sess.Send(NewErrorEvent("INVALID_CONVERSATION", "conversation_id is required"))
		return
	}
	if msg.Text == "" {
		sess.Send(NewErrorEvent("EMPTY_TEXT", "text is required"))
		return
	}

	newMsg, _, err := h.service.SendMessage(ctx, senderID, msg.ConversationID, msg.Text)
	if err != nil {
		sess.Send(NewErrorEvent("SEND_FAILED", err.Error()))
		return
	}

	// Echo to the sender as confirmation; the recipient copy went through
	// the relay inside SendMessage.
	sess.Send(NewMessageEvent(msg.ConversationID, newMsg))
}
