// Package presence отслеживает активные соединения пользователей.
package presence

import "sync"

// Conn — дескриптор соединения, достаточный для доставки события.
// Send не должен блокироваться; возвращает false, если событие
// не удалось поставить в очередь.
type Conn interface {
	Send(data []byte) bool
}

// Registry — карта присутствия: пользователь → активное соединение.
// Записи эфемерны и теряются при перезапуске процесса.
type Registry interface {
	Register(userID int64, conn Conn)
	Unregister(conn Conn)
	Lookup(userID int64) (Conn, bool)
}

type registry struct {
	mu    sync.RWMutex
	conns map[int64]Conn
}

// NewRegistry создает пустой реестр присутствия
func NewRegistry() Registry {
	return &registry{conns: make(map[int64]Conn)}
}

// Register связывает пользователя с соединением. Повторная регистрация
// молча вытесняет предыдущее соединение (последний победил).
func (r *registry) Register(userID int64, conn Conn) {
	r.mu.Lock()
	r.conns[userID] = conn
	r.mu.Unlock()
}

// Unregister удаляет запись по дескриптору соединения. Линейный проход
// приемлем при ожидаемом числе соединений.
func (r *registry) Unregister(conn Conn) {
	r.mu.Lock()
	for userID, c := range r.conns {
		if c == conn {
			delete(r.conns, userID)
			break
		}
	}
	r.mu.Unlock()
}

// Lookup возвращает соединение пользователя, если он онлайн
func (r *registry) Lookup(userID int64) (Conn, bool) {
	r.mu.RLock()
	conn, ok := r.conns[userID]
	r.mu.RUnlock()
	return conn, ok
}
