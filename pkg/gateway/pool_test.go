package gateway

import (
	"testing"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	"github.com/quickfixgo/fix44/executionreport"
	"github.com/quickfixgo/quickfix"
	"github.com/shopspring/decimal"
)

var benchOrder = &Order{
	ClOrdID:  "C1",
	OrderID:  "1",
	Side:     OrderSideBuy,
	Symbol:   "FOO",
	Status:   OrderStatusNew,
	Quantity: decimal.NewFromInt(100),
	Price:    decimal.RequireFromString("10.5"),
}

func buildExecReportNew(order *Order) quickfix.Messagable {
	msg := executionreport.New(
		field.NewOrderID(order.OrderID),
		field.NewExecID("1"),
		field.NewExecType(enum.ExecType_NEW),
		field.NewOrdStatus(enum.OrdStatus_NEW),
		field.NewSide(sideMapping[order.Side]),
		field.NewLeavesQty(order.Quantity, 0),
		field.NewCumQty(decimal.Zero, 0),
		field.NewAvgPx(decimal.Zero, 2),
	)
	msg.SetClOrdID(order.ClOrdID)
	msg.SetSymbol(order.Symbol)
	msg.SetOrderQty(order.Quantity, 0)
	msg.SetPrice(order.Price, 2)
	return msg
}

func buildExecReportPooled(order *Order) *quickfix.Message {
	msg := execReportPool.Get()
	execReport := executionreport.FromMessage(msg)
	execReport.SetMsgType(enum.MsgType_EXECUTION_REPORT)
	execReport.SetOrderID(order.OrderID)
	execReport.SetExecID("1")
	execReport.SetExecType(enum.ExecType_NEW)
	execReport.SetOrdStatus(enum.OrdStatus_NEW)
	execReport.SetSide(sideMapping[order.Side])
	execReport.SetSymbol(order.Symbol)
	execReport.SetClOrdID(order.ClOrdID)
	execReport.SetLeavesQty(order.Quantity, 0)
	execReport.SetCumQty(decimal.Zero, 0)
	execReport.SetAvgPx(decimal.Zero, 2)
	return msg
}

func BenchmarkExecReportNew(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = buildExecReportNew(benchOrder)
	}
}

func BenchmarkExecReportPooled(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		msg := buildExecReportPooled(benchOrder)
		execReportPool.Put(msg)
	}
}
