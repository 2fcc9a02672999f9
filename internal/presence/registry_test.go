package presence

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct{ name string }

func (f *fakeConn) Send([]byte) bool { return true }

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	conn := &fakeConn{name: "a"}

	r.Register(1, conn)

	got, ok := r.Lookup(1)
	require.True(t, ok)
	assert.Same(t, conn, got)

	_, ok = r.Lookup(2)
	assert.False(t, ok)
}

func TestRegister_LastWriterWins(t *testing.T) {
	r := NewRegistry()
	first := &fakeConn{name: "first"}
	second := &fakeConn{name: "second"}

	r.Register(1, first)
	r.Register(1, second)

	got, ok := r.Lookup(1)
	require.True(t, ok)
	assert.Same(t, second, got)
}

func TestUnregister_ByHandle(t *testing.T) {
	r := NewRegistry()
	conn := &fakeConn{name: "a"}

	r.Register(1, conn)
	r.Unregister(conn)

	_, ok := r.Lookup(1)
	assert.False(t, ok)
}

func TestUnregister_StaleHandleKeepsNewEntry(t *testing.T) {
	r := NewRegistry()
	old := &fakeConn{name: "old"}
	fresh := &fakeConn{name: "fresh"}

	r.Register(1, old)
	r.Register(1, fresh)
	// Отключение вытесненного соединения не трогает новую запись
	r.Unregister(old)

	got, ok := r.Lookup(1)
	require.True(t, ok)
	assert.Same(t, fresh, got)
}

func TestConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			conn := &fakeConn{}
			r.Register(id, conn)
			r.Lookup(id)
			r.Unregister(conn)
		}(int64(i % 10))
	}
	wg.Wait()
}
