package server

import (
	"chat-rooms/domain"
	"chat-rooms/domain/event"
	"chat-rooms/errors"
	"chat-rooms/services"
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gorilla/websocket"
)

// WebsocketHandler upgrades GET /chats/{id}/connect and bridges the
// socket to the room actor. The joiner's identity comes from the
// user_id query parameter, following the client protocol; the token is
// only proof that the caller is allowed in.
type WebsocketHandler struct {
	log        *slog.Logger
	chat       services.IChatService
	upgrader   websocket.Upgrader
	sendBuffer int
}

func NewWebsocketHandler(log *slog.Logger, chat services.IChatService, sendBuffer int) *WebsocketHandler {
	return &WebsocketHandler{
		log:  log,
		chat: chat,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  maxFrameSize,
			WriteBufferSize: maxFrameSize,
			// Browser clients connect cross-origin in development.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		sendBuffer: sendBuffer,
	}
}

func (h *WebsocketHandler) Connect(w http.ResponseWriter, r *http.Request) {
	room := domain.RoomID(r.PathValue("id"))

	if !websocket.IsWebSocketUpgrade(r) {
		http.Error(w, errors.ErrNotWebsocket.Error(), http.StatusBadRequest)
		return
	}
	identity := r.URL.Query().Get("user_id")
	if identity == "" {
		http.Error(w, errors.ErrMissingIdentity.Error(), http.StatusBadRequest)
		return
	}
	if _, err := h.chat.GetChat(string(room)); err != nil {
		if stderrors.Is(err, errors.ErrChatNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "chat lookup failed", http.StatusInternalServerError)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("Websocket upgrade failed", "room", room, "error", err)
		return
	}

	conn := NewConnection(ws, identity, h.sendBuffer, h.log)
	if err := h.chat.Join(r.Context(), room, conn, identity); err != nil {
		h.log.Error("Join refused", "room", room, "identity", identity, "error", err)
		_ = conn.Close()
		return
	}

	go h.readPump(ws, conn, room, identity)
}

// readPump owns the inbound side of the socket. Only NewMessage frames
// are honored; anything else is logged and dropped without touching
// the room. When the read side dies, however it dies, the connection
// leaves the room.
func (h *WebsocketHandler) readPump(ws *websocket.Conn, conn *Connection, room domain.RoomID, identity string) {
	log := h.log.With("room", room, "identity", identity)
	defer func() {
		// The request context is gone by now, detaching uses its own.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.chat.Leave(ctx, room, conn); err != nil {
			log.Warn("Leave not delivered", "error", err)
		}
		_ = conn.Close()
	}()

	ws.SetReadLimit(maxFrameSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, frame, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("Connection dropped", "error", err)
			}
			return
		}

		if messageType == websocket.BinaryMessage {
			log.Warn("Binary frame dropped", "detected_type", mimetype.Detect(frame).String())
			continue
		}

		msg, ok, err := event.DecodeIncoming(frame)
		if err != nil {
			log.Warn("Undecodable frame dropped", "error", err)
			continue
		}
		if !ok {
			log.Debug("Unsupported inbound frame ignored")
			continue
		}

		author := msg.User
		if author == "" {
			author = identity
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = h.chat.PostMessage(ctx, room, msg.Contents, author)
		cancel()
		if err != nil {
			if stderrors.Is(err, errors.ErrRoomEnded) {
				return
			}
			log.Error("Message refused", "error", err)
		}
	}
}
