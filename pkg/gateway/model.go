package gateway

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusNew      OrderStatus = "New"
	OrderStatusCanceled OrderStatus = "Canceled"
	// Replaced is acknowledged as Canceled on the wire; the FIX 4.2 dictionary
	// used by some counterparties has no usable REPLACED status.
	OrderStatusReplaced OrderStatus = "Replaced"
)

type OrderExecType string

const (
	ExecTypeNew      OrderExecType = "New"
	ExecTypeCanceled OrderExecType = "Canceled"
	ExecTypeReplaced OrderExecType = "Replaced"
)

type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// Order is one resting client order known to a single session. OrderID is
// assigned once at acceptance and never changes; ClOrdID changes on a
// cancel/replace when the ledger entry is rekeyed.
type Order struct {
	ClOrdID  string
	OrderID  string
	Side     OrderSide
	Symbol   string
	Status   OrderStatus
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

// OrderEvent is the audit record appended to the journal for every
// acknowledgement the gateway emits.
type OrderEvent struct {
	EventID     string
	OrderID     string
	ClOrdID     string
	OrigClOrdID string
	ExecType    OrderExecType
	Qty         int64
	Price       float64
	Timestamp   time.Time
}

func NewOrderEventNewOrder(order *Order, execID string, ts time.Time) *OrderEvent {
	return &OrderEvent{
		EventID:   NewEventID(order.OrderID, execID),
		OrderID:   order.OrderID,
		ClOrdID:   order.ClOrdID,
		ExecType:  ExecTypeNew,
		Qty:       order.Quantity.IntPart(),
		Price:     order.Price.InexactFloat64(),
		Timestamp: ts,
	}
}

func NewOrderEventCancel(order *Order, execID, origClOrdID string, ts time.Time) *OrderEvent {
	return &OrderEvent{
		EventID:     NewEventID(order.OrderID, execID),
		OrderID:     order.OrderID,
		ClOrdID:     order.ClOrdID,
		OrigClOrdID: origClOrdID,
		ExecType:    ExecTypeCanceled,
		Qty:         order.Quantity.IntPart(),
		Price:       order.Price.InexactFloat64(),
		Timestamp:   ts,
	}
}

func NewOrderEventCancelReplace(order *Order, execID, origClOrdID string, ts time.Time) *OrderEvent {
	return &OrderEvent{
		EventID:     NewEventID(order.OrderID, execID),
		OrderID:     order.OrderID,
		ClOrdID:     order.ClOrdID,
		OrigClOrdID: origClOrdID,
		ExecType:    ExecTypeReplaced,
		Qty:         order.Quantity.IntPart(),
		Price:       order.Price.InexactFloat64(),
		Timestamp:   ts,
	}
}

func NewEventID(orderID, execID string) string {
	return fmt.Sprintf("%s-%s", orderID, execID)
}

// EventSink receives one OrderEvent per emitted acknowledgement.
type EventSink interface {
	Append(ev *OrderEvent)
}
