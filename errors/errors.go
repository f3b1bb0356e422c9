package errors

import "fmt"

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrRoomEnded          = fmt.Errorf("room has ended")
	ErrChatNotFound       = fmt.Errorf("chat not found")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity rules")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrMissingIdentity    = fmt.Errorf("missing user_id query parameter")
	ErrNotWebsocket       = fmt.Errorf("not a websocket upgrade request")
	ErrSlowConsumer       = fmt.Errorf("connection send buffer full")
	ErrConnClosed         = fmt.Errorf("connection closed")
)
