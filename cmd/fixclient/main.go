package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	fix44nos "github.com/quickfixgo/fix44/newordersingle"
	fix44ocr "github.com/quickfixgo/fix44/ordercancelrequest"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/quickfix/log/file"
	"github.com/quickfixgo/tag"
	"github.com/shopspring/decimal"
)

// Test initiator: logs on, submits one order, cancels it, then repeats the
// cancel to show the gateway silently drops the second attempt.

type InitiatorApp struct {
	sessionID *quickfix.SessionID
}

func (a *InitiatorApp) OnCreate(sessionID quickfix.SessionID) {
	a.sessionID = &sessionID
}

func (a *InitiatorApp) OnLogon(sessionID quickfix.SessionID) {
	log.Println("Logon success", sessionID)
	go runScenario(sessionID)
}

func (a *InitiatorApp) OnLogout(sessionID quickfix.SessionID)                       {}
func (a *InitiatorApp) ToAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) {}
func (a *InitiatorApp) ToApp(msg *quickfix.Message, sessionID quickfix.SessionID) error {
	return nil
}
func (a *InitiatorApp) FromAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	return nil
}
func (a *InitiatorApp) FromApp(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	msgType, _ := msg.Header.GetString(tag.MsgType)
	if enum.MsgType(msgType) == enum.MsgType_EXECUTION_REPORT {
		orderID, _ := msg.Body.GetString(tag.OrderID)
		execID, _ := msg.Body.GetString(tag.ExecID)
		ordStatus, _ := msg.Body.GetString(tag.OrdStatus)
		log.Printf("ExecutionReport: OrderID=%s ExecID=%s OrdStatus=%s", orderID, execID, ordStatus)
	} else {
		log.Printf("received %s: %s", msgType, msg.String())
	}
	return nil
}

func runScenario(sessionID quickfix.SessionID) {
	sendNewOrder(sessionID, "C1", enum.Side_BUY, "FOO", 100, "10.5")
	time.Sleep(500 * time.Millisecond)

	sendCancel(sessionID, "C1", "C2", enum.Side_BUY, "FOO")
	time.Sleep(500 * time.Millisecond)

	// order is no longer cancelable, the gateway drops this one
	sendCancel(sessionID, "C1", "C3", enum.Side_BUY, "FOO")
}

func sendNewOrder(sessionID quickfix.SessionID, clOrdID string, side enum.Side, symbol string, qty int64, price string) {
	order := fix44nos.New(
		field.NewClOrdID(clOrdID),
		field.NewSide(side),
		field.NewTransactTime(time.Now()),
		field.NewOrdType(enum.OrdType_LIMIT),
	)
	order.SetSymbol(symbol)
	order.SetOrderQty(decimal.NewFromInt(qty), 0)
	px, err := decimal.NewFromString(price)
	if err != nil {
		log.Println("bad price", err)
		return
	}
	order.SetPrice(px, 2)

	if err := quickfix.SendToTarget(order, sessionID); err != nil {
		log.Println("send NewOrderSingle err:", err)
	}
}

func sendCancel(sessionID quickfix.SessionID, origClOrdID, clOrdID string, side enum.Side, symbol string) {
	cancel := fix44ocr.New(
		field.NewOrigClOrdID(origClOrdID),
		field.NewClOrdID(clOrdID),
		field.NewSide(side),
		field.NewTransactTime(time.Now()),
	)
	cancel.SetSymbol(symbol)

	if err := quickfix.SendToTarget(cancel, sessionID); err != nil {
		log.Println("send OrderCancelRequest err:", err)
	}
}

func main() {
	cfgFileName := "./config/fixclient.cfg"
	if len(os.Args) > 1 {
		cfgFileName = os.Args[1]
	}

	cfg, err := os.Open(cfgFileName)
	if err != nil {
		log.Fatalf("error opening %v, %v", cfgFileName, err)
	}
	defer cfg.Close() // nolint

	appSettings, err := quickfix.ParseSettings(cfg)
	if err != nil {
		log.Fatalf("error reading cfg: %s", err)
	}

	app := &InitiatorApp{}
	logFactory, _ := file.NewLogFactory(appSettings)
	initiator, err := quickfix.NewInitiator(app, quickfix.NewMemoryStoreFactory(), appSettings, logFactory)
	if err != nil {
		log.Fatalf("unable to create initiator: %s", err)
	}

	if err = initiator.Start(); err != nil {
		log.Fatalf("unable to start initiator: %s", err)
	}

	fmt.Println("FIX client started. Press Ctrl+C to exit.")
	select {}
}
