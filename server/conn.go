package server

import (
	"chat-rooms/errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxFrameSize = 64 * 1024
)

// Connection adapts a gorilla websocket to the room actor's view of a
// socket. Gorilla allows a single concurrent writer, so every outbound
// frame goes through a buffered channel drained by one write pump.
// Send never blocks the room actor: a full buffer fails the send and
// the event is lost for this connection only.
type Connection struct {
	identity string
	ws       *websocket.Conn
	send     chan []byte
	log      *slog.Logger

	closeOnce sync.Once
	closed    chan struct{}
}

func NewConnection(ws *websocket.Conn, identity string, sendBuffer int, log *slog.Logger) *Connection {
	c := &Connection{
		identity: identity,
		ws:       ws,
		send:     make(chan []byte, sendBuffer),
		log:      log.With("identity", identity),
		closed:   make(chan struct{}),
	}
	go c.writePump()
	return c
}

func (c *Connection) Identity() string {
	return c.identity
}

func (c *Connection) Send(frame []byte) error {
	select {
	case <-c.closed:
		return errors.ErrConnClosed
	default:
	}
	select {
	case c.send <- frame:
		return nil
	case <-c.closed:
		return errors.ErrConnClosed
	default:
		return errors.ErrSlowConsumer
	}
}

// Close is idempotent and only signals the write pump, which owns the
// underlying socket and sends the close frame.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.ws.Close(); err != nil {
			c.log.Debug("Websocket close failed", "error", err)
		}
	}()

	for {
		select {
		case frame := <-c.send:
			if err := c.write(websocket.TextMessage, frame); err != nil {
				c.log.Debug("Write failed, dropping connection", "error", err)
				c.Close()
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.closed:
			_ = c.write(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Connection) write(messageType int, payload []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(messageType, payload)
}
