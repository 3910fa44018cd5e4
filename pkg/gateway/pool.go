package gateway

import (
	"sync"

	"github.com/quickfixgo/quickfix"
)

// MessagePool recycles quickfix.Message instances for the report path so
// per-ack encoding does not rebuild the header/body/trailer field maps.
type MessagePool struct {
	pool sync.Pool
}

func NewMessagePool() *MessagePool {
	return &MessagePool{
		pool: sync.Pool{
			New: func() interface{} {
				m := quickfix.NewMessage()
				resetMessage(m)
				return m
			},
		},
	}
}

func (mp *MessagePool) Get() *quickfix.Message {
	m := mp.pool.Get().(*quickfix.Message)
	resetMessage(m)
	return m
}

func (mp *MessagePool) Put(m *quickfix.Message) {
	resetMessage(m)
	mp.pool.Put(m)
}

func resetMessage(m *quickfix.Message) {
	m.Header.Init()
	m.Body.Init()
	m.Trailer.Init()
	m.Header.Clear()
	m.Body.Clear()
	m.Trailer.Clear()
}

var execReportPool = NewMessagePool()

// Recycle returns an accepted report message to the pool. Transports call
// this after the message has been written out; the core recycles declined
// messages itself.
func Recycle(m *quickfix.Message) {
	execReportPool.Put(m)
}
