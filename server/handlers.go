package server

import (
	"chat-rooms/domain"
	"chat-rooms/errors"
	"chat-rooms/services"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"
)

const (
	defaultListLimit   = 50
	defaultSearchLimit = 20
)

type AuthHandler struct {
	log     *slog.Logger
	service services.IAuthService
}

func NewAuthHandler(log *slog.Logger, service services.IAuthService) *AuthHandler {
	return &AuthHandler{log: log, service: service}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	token, err := h.service.Register(req.Email, req.Password)
	switch {
	case stderrors.Is(err, errors.ErrUserAlreadyExists):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case stderrors.Is(err, errors.ErrInvalidPassword):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		h.log.Error("Registration failed", "error", err)
		http.Error(w, "registration failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{Token: string(token)})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	token, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		http.Error(w, errors.ErrInvalidCredentials.Error(), http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: string(token)})
}

type ChatHandler struct {
	log     *slog.Logger
	service services.IChatService
}

func NewChatHandler(log *slog.Logger, service services.IChatService) *ChatHandler {
	return &ChatHandler{log: log, service: service}
}

type createChatRequest struct {
	Name string `json:"name"`
}

func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "invalid body, expected {\"name\": ...}", http.StatusBadRequest)
		return
	}

	createdBy := ""
	if claims := ClaimsFrom(r.Context()); claims != nil {
		createdBy = claims.UserID
	}

	chat, err := h.service.CreateChat(req.Name, createdBy)
	if err != nil {
		h.log.Error("Chat creation failed", "name", req.Name, "error", err)
		http.Error(w, "chat creation failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, chat)
}

func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultListLimit)
	chats, err := h.service.ListChats(limit)
	if err != nil {
		h.log.Error("Chat listing failed", "error", err)
		http.Error(w, "chat listing failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, chats)
}

func (h *ChatHandler) Get(w http.ResponseWriter, r *http.Request) {
	chat, err := h.service.GetChat(r.PathValue("id"))
	if stderrors.Is(err, errors.ErrChatNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "chat lookup failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteChat(r.PathValue("id")); err != nil {
		h.log.Error("Chat deletion failed", "id", r.PathValue("id"), "error", err)
		http.Error(w, "chat deletion failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Messages reads the room log through the actor, so the read is
// ordered against in-flight posts and counts as activity.
func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	room := domain.RoomID(r.PathValue("id"))
	messages, err := h.service.GetMessages(r.Context(), room)
	if err != nil {
		h.log.Error("History read failed", "room", room, "error", err)
		http.Error(w, "history read failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// Search queries the full-text index directly. It bypasses the actor
// on purpose: searching is not room activity and never extends the
// idle deadline.
func (h *ChatHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "missing q query parameter", http.StatusBadRequest)
		return
	}

	room := domain.RoomID(r.PathValue("id"))
	limit := queryInt(r, "limit", defaultSearchLimit)
	hits, err := h.service.SearchMessages(r.Context(), room, query, limit)
	if err != nil {
		h.log.Error("Search failed", "room", room, "error", err)
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, hits)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
