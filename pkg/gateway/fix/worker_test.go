package fixgateway

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	fix44nos "github.com/quickfixgo/fix44/newordersingle"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/joripage/fixgateway-dev/pkg/gateway"
)

type scriptedDeliverer struct {
	mu          sync.Mutex
	script      []gateway.Outcome
	err         error
	calls       []int
	disconnects int
}

func (d *scriptedDeliverer) Deliver(raw []byte, msgType string, seqNum int) (gateway.Outcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, seqNum)
	if d.err != nil {
		err := d.err
		d.err = nil
		return gateway.OutcomeDone, err
	}
	if len(d.script) == 0 {
		return gateway.OutcomeDone, nil
	}
	out := d.script[0]
	d.script = d.script[1:]
	return out, nil
}

func (d *scriptedDeliverer) OnDisconnect() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.disconnects++
}

func (d *scriptedDeliverer) snapshot() ([]int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	calls := make([]int, len(d.calls))
	copy(calls, d.calls)
	return calls, d.disconnects
}

func newTestWorker(d *scriptedDeliverer) *sessionWorker {
	w := &sessionWorker{
		sessionID: testSessionID(),
		handler:   d,
		transport: newSessionTransport(testSessionID(), 8, zap.NewNop()),
		inbound:   make(chan *inboundMsg, 16),
		stopCh:    make(chan struct{}),
		log:       zap.NewNop(),
	}
	go w.run()
	return w
}

func (w *sessionWorker) enqueueSeq(seqNums ...int) {
	for _, n := range seqNums {
		w.enqueue(&inboundMsg{raw: []byte("35=0\x01"), msgType: "0", seqNum: n})
	}
}

func TestWorkerProcessesInOrder(t *testing.T) {
	d := &scriptedDeliverer{}
	w := newTestWorker(d)
	defer w.stop()

	w.enqueueSeq(1, 2, 3, 4, 5)

	require.Eventually(t, func() bool {
		calls, _ := d.snapshot()
		return len(calls) == 5
	}, time.Second, 5*time.Millisecond)

	calls, _ := d.snapshot()
	assert.Equal(t, []int{1, 2, 3, 4, 5}, calls)
}

func TestWorkerRedeliversBackpressuredMessage(t *testing.T) {
	d := &scriptedDeliverer{script: []gateway.Outcome{
		gateway.OutcomeRedeliver,
		gateway.OutcomeRedeliver,
		gateway.OutcomeDone,
	}}
	w := newTestWorker(d)
	defer w.stop()

	w.enqueueSeq(1, 2)

	require.Eventually(t, func() bool {
		calls, _ := d.snapshot()
		return len(calls) == 4
	}, 2*time.Second, 5*time.Millisecond)

	// message 1 retried twice before message 2 is touched
	calls, _ := d.snapshot()
	assert.Equal(t, []int{1, 1, 1, 2}, calls)
}

func TestWorkerStopsOnFatalDeliver(t *testing.T) {
	d := &scriptedDeliverer{err: errors.New("session torn down")}
	w := newTestWorker(d)

	w.enqueueSeq(1, 2)

	require.Eventually(t, func() bool {
		_, disconnects := d.snapshot()
		return disconnects == 1
	}, time.Second, 5*time.Millisecond)

	calls, _ := d.snapshot()
	assert.Equal(t, []int{1}, calls, "no delivery after the fatal one")

	// stopped worker drops further traffic instead of blocking
	w.enqueueSeq(3)
	time.Sleep(20 * time.Millisecond)
	calls, _ = d.snapshot()
	assert.Equal(t, []int{1}, calls)
}

func rawInboundOrder(clOrdID string) []byte {
	order := fix44nos.New(
		field.NewClOrdID(clOrdID),
		field.NewSide(enum.Side_BUY),
		field.NewTransactTime(time.Now()),
		field.NewOrdType(enum.OrdType_LIMIT),
	)
	order.SetSymbol("FOO")
	order.SetOrderQty(decimal.NewFromInt(1), 0)
	order.SetPrice(decimal.NewFromInt(10), 2)
	return []byte(order.ToMessage().String())
}

// Logout while orders are still being delivered: the ledger is owned by
// the run goroutine, so teardown must never touch it from the caller's
// side. Run with -race.
func TestStopWhileOrdersInFlight(t *testing.T) {
	cfg := &FixGatewayConfig{InboundQueueSize: 256, OutboundQueueSize: 32}
	w := newSessionWorker(testSessionID(), cfg, nil, zap.NewNop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			w.enqueue(&inboundMsg{
				raw:     rawInboundOrder(fmt.Sprintf("C%d", i)),
				msgType: "D",
				seqNum:  i + 1,
			})
		}
	}()

	time.Sleep(time.Millisecond)
	w.stop()
	<-done

	// stopped worker sheds traffic without blocking
	enqueued := make(chan struct{})
	go func() {
		w.enqueue(&inboundMsg{raw: rawInboundOrder("CX"), msgType: "D", seqNum: 201})
		close(enqueued)
	}()
	select {
	case <-enqueued:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked after stop")
	}
}
