package workers

import "chat-rooms/domain"

// ConnectionRegistry is the live-socket set of one room. It is valid
// only for the lifetime of the current actor instance and is touched
// exclusively from the actor goroutine, so it needs no locking. The
// durable roster is the other source of truth and lives in the Room
// aggregate: the registry is authoritative for delivery, the roster
// for the reported count.
type ConnectionRegistry struct {
	conns map[domain.Conn]struct{}
	order []domain.Conn
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{conns: make(map[domain.Conn]struct{})}
}

func (r *ConnectionRegistry) Add(conn domain.Conn) {
	if _, ok := r.conns[conn]; ok {
		return
	}
	r.conns[conn] = struct{}{}
	r.order = append(r.order, conn)
}

func (r *ConnectionRegistry) Remove(conn domain.Conn) {
	if _, ok := r.conns[conn]; !ok {
		return
	}
	delete(r.conns, conn)
	for i, c := range r.order {
		if c == conn {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Conns returns the live connections in accept order.
func (r *ConnectionRegistry) Conns() []domain.Conn {
	out := make([]domain.Conn, len(r.order))
	copy(out, r.order)
	return out
}

func (r *ConnectionRegistry) Len() int {
	return len(r.conns)
}
