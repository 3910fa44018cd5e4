package fixgateway

import (
	"errors"
	"sync/atomic"

	"github.com/quickfixgo/quickfix"
	"go.uber.org/zap"

	"github.com/joripage/fixgateway-dev/pkg/gateway"
)

var errSessionClosed = errors.New("session transport closed")

// sessionTransport is the outbound half of a session: a bounded queue in
// front of quickfix.SendToTarget. TrySend never blocks; a full queue is the
// backpressure signal the core propagates as a redelivery request.
type sessionTransport struct {
	sessionID quickfix.SessionID
	outbound  chan *quickfix.Message
	closed    atomic.Bool
	log       *zap.Logger
}

func newSessionTransport(sessionID quickfix.SessionID, queueSize int, log *zap.Logger) *sessionTransport {
	if queueSize <= 0 {
		queueSize = defaultOutboundQueueSize
	}
	return &sessionTransport{
		sessionID: sessionID,
		outbound:  make(chan *quickfix.Message, queueSize),
		log:       log,
	}
}

func (t *sessionTransport) TrySend(msg *quickfix.Message) (gateway.SendResult, error) {
	if t.closed.Load() {
		return gateway.SendFatal, errSessionClosed
	}
	select {
	case t.outbound <- msg:
		return gateway.SendAccepted, nil
	default:
		return gateway.SendBackpressured, nil
	}
}

func (t *sessionTransport) drain(stopCh <-chan struct{}) {
	for {
		select {
		case m := <-t.outbound:
			if err := quickfix.SendToTarget(m, t.sessionID); err != nil {
				t.log.Error("send to target failed", zap.Error(err))
			}
			gateway.Recycle(m)
		case <-stopCh:
			return
		}
	}
}

func (t *sessionTransport) close() {
	t.closed.Store(true)
}
