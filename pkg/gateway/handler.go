package gateway

import (
	"bytes"
	"errors"
	"time"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/tag"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Outcome tells the dispatcher what to do with the inbound message it just
// delivered: OutcomeDone means fully processed (including messages dropped
// by validation), OutcomeRedeliver means the outbound side pushed back and
// the same message must be delivered again later.
type Outcome int

const (
	OutcomeDone Outcome = iota
	OutcomeRedeliver
)

var errTransportFailed = errors.New("transport send failed")

// Handler owns all order state for one logical session: the ledger and both
// id sequences. Exactly one goroutine calls Deliver, in arrival order; the
// effects of message N are fully applied before N+1 is seen.
//
// Ledger mutations are committed only after the transport accepts the ack.
// A backpressured send therefore leaves no partial state behind and the
// redelivered message re-runs from scratch; a retried new order may burn
// order ids, which stay unique and increasing but not dense.
type Handler struct {
	log      *zap.Logger
	ledger   *Ledger
	orderIDs *IDGenerator
	execIDs  *IDGenerator
	sender   *ReportSender
	events   EventSink
}

func NewHandler(transport Transport, events EventSink, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		log:      log,
		ledger:   NewLedger(),
		orderIDs: NewIDGenerator(),
		execIDs:  NewIDGenerator(),
		sender:   NewReportSender(transport),
		events:   events,
	}
}

// Deliver classifies one inbound message by its MsgType code and runs the
// matching lifecycle handler. A non-nil error is a connection-level failure;
// everything recoverable comes back through the Outcome.
func (h *Handler) Deliver(raw []byte, msgType string, seqNum int) (Outcome, error) {
	switch enum.MsgType(msgType) {
	case enum.MsgType_LOGON:
		h.onLogon(raw)
	case enum.MsgType_HEARTBEAT:
		// nothing to do, the session layer answers test requests
	case enum.MsgType_EXECUTION_REPORT:
		h.onExecutionReport(raw)
	case enum.MsgType_ORDER_SINGLE:
		return h.onNewOrderSingle(raw)
	case enum.MsgType_ORDER_CANCEL_REQUEST:
		return h.onOrderCancelRequest(raw)
	case enum.MsgType_ORDER_CANCEL_REPLACE_REQUEST:
		return h.onOrderCancelReplaceRequest(raw)
	default:
		h.log.Debug("ignoring message", zap.String("msg_type", msgType), zap.Int("seq_num", seqNum))
	}
	return OutcomeDone, nil
}

// OnDisconnect resets the session to empty state. Safe to call more than
// once; a reconnect gets a fresh handler and starts from an empty ledger.
func (h *Handler) OnDisconnect() {
	h.ledger.Clear()
	h.log.Info("session disconnected, ledger cleared")
}

func (h *Handler) onLogon(raw []byte) {
	heartBtInt, _ := ExtractField(raw, int(tag.HeartBtInt))
	h.log.Info("logon received", zap.String("heart_bt_int", heartBtInt))
}

func (h *Handler) onExecutionReport(raw []byte) {
	orderID, _ := ExtractField(raw, int(tag.OrderID))
	execID, _ := ExtractField(raw, int(tag.ExecID))
	ordStatus, _ := ExtractField(raw, int(tag.OrdStatus))
	h.log.Info("execution report received",
		zap.String("order_id", orderID),
		zap.String("exec_id", execID),
		zap.String("ord_status", ordStatus))
}

func (h *Handler) onNewOrderSingle(raw []byte) (Outcome, error) {
	msg := quickfix.NewMessage()
	if err := quickfix.ParseMessage(msg, bytes.NewBuffer(raw)); err != nil {
		h.log.Warn("unparseable NewOrderSingle dropped", zap.Error(err))
		return OutcomeDone, nil
	}

	clOrdID, ferr := msg.Body.GetString(tag.ClOrdID)
	if ferr != nil || clOrdID == "" {
		h.log.Warn("NewOrderSingle without ClOrdID dropped")
		return OutcomeDone, nil
	}
	sideCode, _ := msg.Body.GetString(tag.Side)
	side, ok := decodeSide(sideCode)
	if !ok {
		h.log.Warn("NewOrderSingle with unknown side dropped",
			zap.String("cl_ord_id", clOrdID), zap.String("side", sideCode))
		return OutcomeDone, nil
	}
	symbol, _ := msg.Body.GetString(tag.Symbol)

	order := &Order{
		ClOrdID:  clOrdID,
		OrderID:  h.orderIDs.Next(),
		Side:     side,
		Symbol:   symbol,
		Status:   OrderStatusNew,
		Quantity: decimalField(msg, tag.OrderQty),
		Price:    decimalField(msg, tag.Price),
	}
	execID := h.execIDs.Next()

	result, err := h.sender.Send(order, execID, "", "", enum.ExecType_NEW, enum.OrdStatus_NEW)
	if outcome, err := h.checkSend(result, err); outcome != OutcomeDone || err != nil {
		return outcome, err
	}

	// duplicate ClOrdIDs overwrite, last write wins
	h.ledger.Insert(clOrdID, order)
	h.emit(NewOrderEventNewOrder(order, execID, time.Now()))
	h.log.Info("order accepted",
		zap.String("cl_ord_id", clOrdID),
		zap.String("order_id", order.OrderID),
		zap.String("symbol", symbol),
		zap.String("side", string(side)))
	return OutcomeDone, nil
}

func (h *Handler) onOrderCancelRequest(raw []byte) (Outcome, error) {
	origClOrdID, ok := ExtractField(raw, int(tag.OrigClOrdID))
	if !ok {
		h.log.Warn("cancel request without OrigClOrdID dropped")
		return OutcomeDone, nil
	}
	clOrdID, _ := ExtractField(raw, int(tag.ClOrdID))

	order, found := h.ledger.Lookup(origClOrdID)
	if !found {
		h.log.Warn("cancel request for unknown order dropped", zap.String("orig_cl_ord_id", origClOrdID))
		return OutcomeDone, nil
	}
	if order.Status != OrderStatusNew {
		h.log.Warn("cancel request for non-cancelable order dropped",
			zap.String("orig_cl_ord_id", origClOrdID),
			zap.String("status", string(order.Status)))
		return OutcomeDone, nil
	}

	execID := h.execIDs.Next()
	result, err := h.sender.Send(order, execID, clOrdID, origClOrdID, enum.ExecType_CANCELED, enum.OrdStatus_CANCELED)
	if outcome, err := h.checkSend(result, err); outcome != OutcomeDone || err != nil {
		return outcome, err
	}

	order.Status = OrderStatusCanceled
	h.emit(NewOrderEventCancel(order, execID, origClOrdID, time.Now()))
	h.log.Info("order canceled",
		zap.String("orig_cl_ord_id", origClOrdID),
		zap.String("order_id", order.OrderID))
	return OutcomeDone, nil
}

func (h *Handler) onOrderCancelReplaceRequest(raw []byte) (Outcome, error) {
	origClOrdID, ok := ExtractField(raw, int(tag.OrigClOrdID))
	if !ok {
		h.log.Warn("cancel/replace request without OrigClOrdID dropped")
		return OutcomeDone, nil
	}
	clOrdID, ok := ExtractField(raw, int(tag.ClOrdID))
	if !ok {
		h.log.Warn("cancel/replace request without ClOrdID dropped", zap.String("orig_cl_ord_id", origClOrdID))
		return OutcomeDone, nil
	}
	// replacement qty/price are not merged into the record, only logged
	orderQty, _ := ExtractField(raw, int(tag.OrderQty))
	price, _ := ExtractField(raw, int(tag.Price))

	order, found := h.ledger.Lookup(origClOrdID)
	if !found {
		h.log.Warn("cancel/replace request for unknown order dropped", zap.String("orig_cl_ord_id", origClOrdID))
		return OutcomeDone, nil
	}
	if order.Status != OrderStatusNew {
		h.log.Warn("cancel/replace request for non-replaceable order dropped",
			zap.String("orig_cl_ord_id", origClOrdID),
			zap.String("status", string(order.Status)))
		return OutcomeDone, nil
	}

	execID := h.execIDs.Next()
	result, err := h.sender.Send(order, execID, clOrdID, origClOrdID, enum.ExecType_CANCELED, enum.OrdStatus_CANCELED)
	if outcome, err := h.checkSend(result, err); outcome != OutcomeDone || err != nil {
		return outcome, err
	}

	h.ledger.Rekey(origClOrdID, clOrdID)
	order.ClOrdID = clOrdID
	order.Status = OrderStatusCanceled
	h.emit(NewOrderEventCancelReplace(order, execID, origClOrdID, time.Now()))
	h.log.Info("order replaced",
		zap.String("orig_cl_ord_id", origClOrdID),
		zap.String("cl_ord_id", clOrdID),
		zap.String("order_id", order.OrderID),
		zap.String("order_qty", orderQty),
		zap.String("price", price))
	return OutcomeDone, nil
}

func (h *Handler) checkSend(result SendResult, err error) (Outcome, error) {
	switch result {
	case SendBackpressured:
		h.log.Warn("outbound backpressure, message will be redelivered")
		return OutcomeRedeliver, nil
	case SendFatal:
		if err == nil {
			err = errTransportFailed
		}
		return OutcomeDone, err
	}
	return OutcomeDone, nil
}

func (h *Handler) emit(ev *OrderEvent) {
	if h.events != nil {
		h.events.Append(ev)
	}
}

func decodeSide(code string) (OrderSide, bool) {
	switch enum.Side(code) {
	case enum.Side_BUY:
		return OrderSideBuy, true
	case enum.Side_SELL:
		return OrderSideSell, true
	}
	return "", false
}

func decimalField(msg *quickfix.Message, t quickfix.Tag) decimal.Decimal {
	s, err := msg.Body.GetString(t)
	if err != nil {
		return decimal.Zero
	}
	d, convErr := decimal.NewFromString(s)
	if convErr != nil {
		return decimal.Zero
	}
	return d
}
