package fixgateway

import (
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/gammazero/deque"
	"github.com/quickfixgo/quickfix"
	"go.uber.org/zap"

	"github.com/joripage/fixgateway-dev/pkg/gateway"
)

// deliverer is what the worker drives; gateway.Handler in production,
// scripted stubs in tests.
type deliverer interface {
	Deliver(raw []byte, msgType string, seqNum int) (gateway.Outcome, error)
	OnDisconnect()
}

// sessionWorker serializes one session's inbound stream. A single goroutine
// pops messages off the pending deque and runs the handler; a backpressured
// message stays at the front and is retried after an exponential delay, so
// no mutation or ack is ever reordered or dropped.
type sessionWorker struct {
	sessionID quickfix.SessionID
	handler   deliverer
	transport *sessionTransport
	inbound   chan *inboundMsg
	stopCh    chan struct{}
	stopOnce  sync.Once
	log       *zap.Logger
}

func newSessionWorker(cfgSessionID quickfix.SessionID, cfg *FixGatewayConfig, events gateway.EventSink, log *zap.Logger) *sessionWorker {
	log = log.With(zap.String("session_id", cfgSessionID.String()))
	transport := newSessionTransport(cfgSessionID, cfg.OutboundQueueSize, log)
	w := &sessionWorker{
		sessionID: cfgSessionID,
		handler:   gateway.NewHandler(transport, events, log),
		transport: transport,
		inbound:   make(chan *inboundMsg, cfg.InboundQueueSize),
		stopCh:    make(chan struct{}),
		log:       log,
	}

	go w.run()
	go w.transport.drain(w.stopCh)

	return w
}

// enqueue blocks when the inbound queue is full; the caller is the session's
// own reader goroutine, so blocking preserves arrival order.
func (w *sessionWorker) enqueue(m *inboundMsg) {
	select {
	case w.inbound <- m:
	case <-w.stopCh:
	}
}

func (w *sessionWorker) run() {
	// ledger teardown must happen here: this goroutine is the only one
	// allowed to touch the handler's state
	defer w.handler.OnDisconnect()

	pending := new(deque.Deque[*inboundMsg])
	boff := backoff.NewExponentialBackOff()
	boff.InitialInterval = 5 * time.Millisecond
	boff.MaxInterval = 500 * time.Millisecond
	boff.MaxElapsedTime = 0 // retry until the session goes away

	for {
		if pending.Len() == 0 {
			select {
			case m := <-w.inbound:
				pending.PushBack(m)
			case <-w.stopCh:
				return
			}
		}

		m := pending.Front()
		outcome, err := w.handler.Deliver(m.raw, m.msgType, m.seqNum)
		if err != nil {
			w.log.Error("session worker stopping on fatal send", zap.Error(err))
			w.stop()
			return
		}
		if outcome == gateway.OutcomeRedeliver {
			select {
			case <-time.After(boff.NextBackOff()):
			case <-w.stopCh:
				return
			}
			continue
		}

		pending.PopFront()
		boff.Reset()
	}
}

// stop is safe to call from any goroutine. It only signals; the run
// goroutine clears the handler state on its way out, so the ledger never
// sees a second writer.
func (w *sessionWorker) stop() {
	w.stopOnce.Do(func() {
		w.transport.close()
		close(w.stopCh)
	})
}
