package server

import (
	"bytes"
	"chat-rooms/repositories"
	"chat-rooms/runtime"
	"chat-rooms/runtime/workers"
	"chat-rooms/search"
	"chat-rooms/services"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	http  *httptest.Server
	token string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := slog.Default()

	opts := badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = blugeWriter.Close() })

	historyRepository := repositories.NewHistoryRepository(db, log)
	rosterRepository := repositories.NewRosterRepository(db, log)
	chatRepository := repositories.NewChatRepository(db, log)
	userRepository := repositories.NewUserRepository(db, log)
	index := search.NewMessageIndex(blugeWriter, log)

	sup := workers.NewSupervisor(log, 10*time.Millisecond)
	directory := runtime.NewDirectory(
		log, sup,
		historyRepository, rosterRepository, chatRepository,
		nil, index,
		time.Hour, 100, 16,
	)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	directory.Start(ctx)

	authService := services.NewAuthService(userRepository, time.Hour)
	chatService := services.NewChatService(directory, chatRepository, index)

	router := NewRouter(
		log,
		NewAuthHandler(log, authService),
		NewChatHandler(log, chatService),
		NewWebsocketHandler(log, chatService, 16),
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{http: srv}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.http.URL+path, reader)
	require.NoError(t, err)
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.http.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (s *testServer) authenticate(t *testing.T) {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/register", credentialsRequest{
		Email:    "alice@example.com",
		Password: "Str0ng&LongPassw0rd",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	s.token = decodeBody[tokenResponse](t, resp).Token
}

func Test_Handlers_RegisterLoginFlow(t *testing.T) {
	req := require.New(t)
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/register", credentialsRequest{
		Email:    "alice@example.com",
		Password: "Str0ng&LongPassw0rd",
	})
	req.Equal(http.StatusCreated, resp.StatusCode)
	req.NotEmpty(decodeBody[tokenResponse](t, resp).Token)

	// Same email twice conflicts.
	resp = s.do(t, http.MethodPost, "/register", credentialsRequest{
		Email:    "alice@example.com",
		Password: "Str0ng&LongPassw0rd",
	})
	req.Equal(http.StatusConflict, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/login", credentialsRequest{
		Email:    "alice@example.com",
		Password: "Str0ng&LongPassw0rd",
	})
	req.Equal(http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/login", credentialsRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	req.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func Test_Handlers_ChatCatalogRequiresAuth(t *testing.T) {
	req := require.New(t)
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/chats", nil)
	req.Equal(http.StatusUnauthorized, resp.StatusCode)

	s.authenticate(t)

	resp = s.do(t, http.MethodPost, "/chats", createChatRequest{Name: "general"})
	req.Equal(http.StatusCreated, resp.StatusCode)
	created := decodeBody[repositories.Chat](t, resp)
	req.NotEmpty(created.ID)
	req.Equal("general", created.Name)

	resp = s.do(t, http.MethodGet, "/chats", nil)
	req.Equal(http.StatusOK, resp.StatusCode)
	chats := decodeBody[[]repositories.Chat](t, resp)
	req.Len(chats, 1)

	resp = s.do(t, http.MethodGet, "/chats/"+created.ID, nil)
	req.Equal(http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/chats/nope", nil)
	req.Equal(http.StatusNotFound, resp.StatusCode)

	resp = s.do(t, http.MethodDelete, "/chats/"+created.ID, nil)
	req.Equal(http.StatusNoContent, resp.StatusCode)
}

type clientFrame struct {
	MessageType string          `json:"messageType"`
	Message     json.RawMessage `json:"message"`
}

func readFrame(t *testing.T, ws *websocket.Conn) clientFrame {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := ws.ReadMessage()
	require.NoError(t, err)
	var frame clientFrame
	require.NoError(t, json.Unmarshal(raw, &frame))
	return frame
}

func (s *testServer) dial(t *testing.T, chatID, identity string) *websocket.Conn {
	t.Helper()
	url := strings.Replace(s.http.URL, "http", "ws", 1) +
		fmt.Sprintf("/chats/%s/connect?user_id=%s&token=%s", chatID, identity, s.token)
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func Test_Handlers_WebsocketExchange(t *testing.T) {
	req := require.New(t)
	s := newTestServer(t)
	s.authenticate(t)

	resp := s.do(t, http.MethodPost, "/chats", createChatRequest{Name: "general"})
	req.Equal(http.StatusCreated, resp.StatusCode)
	chat := decodeBody[repositories.Chat](t, resp)

	// Connecting to an unknown room is refused before the upgrade.
	url := strings.Replace(s.http.URL, "http", "ws", 1) +
		"/chats/nope/connect?user_id=alice&token=" + s.token
	_, wsResp, err := websocket.DefaultDialer.Dial(url, nil)
	req.Error(err)
	req.Equal(http.StatusNotFound, wsResp.StatusCode)

	alice := s.dial(t, chat.ID, "alice")

	frame := readFrame(t, alice)
	req.Equal("MessageHistory", frame.MessageType)
	req.JSONEq(`{"history":[]}`, string(frame.Message))

	frame = readFrame(t, alice)
	req.Equal("ConnectionUpdate", frame.MessageType)
	req.JSONEq(`{"connection_count":1,"online_users":["alice"]}`, string(frame.Message))

	payload := []byte(`{"messageType":"NewMessage","message":{"contents":"hello there","user":"alice"}}`)
	req.NoError(alice.WriteMessage(websocket.TextMessage, payload))

	frame = readFrame(t, alice)
	req.Equal("NewMessage", frame.MessageType)
	req.JSONEq(`{"contents":"hello there","user":"alice"}`, string(frame.Message))

	// A joiner arriving now receives the message in the snapshot.
	bob := s.dial(t, chat.ID, "bob")
	frame = readFrame(t, bob)
	req.Equal("MessageHistory", frame.MessageType)
	req.JSONEq(`{"history":[{"contents":"hello there","user":"alice"}]}`, string(frame.Message))

	// The plain read endpoint agrees with the socket view.
	resp = s.do(t, http.MethodGet, "/chats/"+chat.ID+"/messages", nil)
	req.Equal(http.StatusOK, resp.StatusCode)
	req.JSONEq(`[{"contents":"hello there","user":"alice"}]`,
		string(decodeBody[json.RawMessage](t, resp)))

	// And the message is searchable.
	resp = s.do(t, http.MethodGet, "/chats/"+chat.ID+"/search?q=hello", nil)
	req.Equal(http.StatusOK, resp.StatusCode)
	hits := decodeBody[[]search.Hit](t, resp)
	req.Len(hits, 1)
	req.Equal("alice", hits[0].Author)
}
