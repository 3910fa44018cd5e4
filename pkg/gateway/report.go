package gateway

import (
	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/fix44/executionreport"
	"github.com/shopspring/decimal"
)

var sideMapping = map[OrderSide]enum.Side{
	OrderSideBuy:  enum.Side_BUY,
	OrderSideSell: enum.Side_SELL,
}

// ReportSender encodes execution-report acknowledgements and hands them to
// the session transport. It makes exactly one delivery attempt per call;
// redelivery on backpressure is the dispatcher's business.
type ReportSender struct {
	transport Transport
}

func NewReportSender(transport Transport) *ReportSender {
	return &ReportSender{transport: transport}
}

// Send builds the ack from a pooled message and tries the transport once.
// On SendAccepted the transport owns the message and recycles it after the
// write; otherwise it goes straight back to the pool here. clOrdID is the
// id the ack should echo (the request's own ClOrdID on cancel and replace);
// empty means the order's current key.
func (s *ReportSender) Send(order *Order, execID, clOrdID, origClOrdID string, execType enum.ExecType, ordStatus enum.OrdStatus) (SendResult, error) {
	if clOrdID == "" {
		clOrdID = order.ClOrdID
	}

	msg := execReportPool.Get()
	execReport := executionreport.FromMessage(msg)

	execReport.SetMsgType(enum.MsgType_EXECUTION_REPORT)
	execReport.SetOrderID(order.OrderID)
	execReport.SetExecID(execID)
	execReport.SetExecType(execType)
	execReport.SetOrdStatus(ordStatus)
	execReport.SetSide(sideMapping[order.Side])
	execReport.SetSymbol(order.Symbol)
	execReport.SetClOrdID(clOrdID)
	if origClOrdID != "" {
		execReport.SetOrigClOrdID(origClOrdID)
	}
	execReport.SetOrderQty(order.Quantity, 0)
	execReport.SetPrice(order.Price, 2)
	execReport.SetCumQty(decimal.Zero, 0)
	execReport.SetAvgPx(decimal.Zero, 2)
	if ordStatus == enum.OrdStatus_NEW {
		execReport.SetLeavesQty(order.Quantity, 0)
	} else {
		execReport.SetLeavesQty(decimal.Zero, 0)
	}

	result, err := s.transport.TrySend(msg)
	if result != SendAccepted {
		execReportPool.Put(msg)
	}
	return result, err
}
