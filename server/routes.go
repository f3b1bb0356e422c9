package server

import (
	"log/slog"
	"net/http"
)

// NewRouter wires the public surface. Registration and login are open;
// everything room-scoped requires a valid token.
func NewRouter(log *slog.Logger, authH *AuthHandler, chatH *ChatHandler, wsH *WebsocketHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /register", authH.Register)
	mux.HandleFunc("POST /login", authH.Login)

	protected := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(log, h)
	}

	mux.Handle("POST /chats", protected(chatH.Create))
	mux.Handle("GET /chats", protected(chatH.List))
	mux.Handle("GET /chats/{id}", protected(chatH.Get))
	mux.Handle("DELETE /chats/{id}", protected(chatH.Delete))
	mux.Handle("GET /chats/{id}/messages", protected(chatH.Messages))
	mux.Handle("GET /chats/{id}/search", protected(chatH.Search))
	mux.Handle("GET /chats/{id}/connect", protected(wsH.Connect))

	return mux
}
