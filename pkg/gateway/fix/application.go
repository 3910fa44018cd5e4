package fixgateway

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/joripage/go_util/pkg/shardqueue"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/quickfix/log/file"
	"github.com/quickfixgo/tag"
	"go.uber.org/zap"

	"github.com/joripage/fixgateway-dev/pkg/gateway"
)

// Application implements the quickfix.Application interface. It does no
// message interpretation itself: FromApp hands raw bytes plus the MsgType
// code to the owning session's worker, which drives the order-handling core
// one message at a time.
type Application struct {
	cfg        *FixGatewayConfig
	events     gateway.EventSink
	log        *zap.Logger
	quickEvent chan bool
	shardQueue *shardqueue.Shardqueue

	workers sync.Map // quickfix.SessionID -> *sessionWorker
}

type inboundMsg struct {
	raw     []byte
	msgType string
	seqNum  int
}

type delivery struct {
	sessionID quickfix.SessionID
	msg       *inboundMsg
}

const (
	numShards = 16
	queueSize = 1_000_000
)

func newApplication(cfg *FixGatewayConfig, events gateway.EventSink, log *zap.Logger) *Application {
	app := &Application{
		cfg:        cfg,
		events:     events,
		log:        log,
		quickEvent: make(chan bool, 1),
	}

	if cfg.EnableShardQueue {
		// shard by session so per-session ordering survives the fan-out
		app.shardQueue = shardqueue.NewShardQueue(numShards, queueSize)
		app.shardQueue.Start(func(msg interface{}) error {
			if v, ok := msg.(*delivery); ok {
				app.dispatch(v.sessionID, v.msg)
			}
			return nil
		})
	}

	return app
}

func startApp(cfg *FixGatewayConfig, events gateway.EventSink, log *zap.Logger) (*Application, error) {
	cfgFile, err := os.Open(cfg.ConfigFilepath)
	if err != nil {
		return nil, fmt.Errorf("error opening %v, %v", cfg.ConfigFilepath, err)
	}
	defer cfgFile.Close() // nolint

	stringData, readErr := io.ReadAll(cfgFile)
	if readErr != nil {
		return nil, fmt.Errorf("error reading cfg: %s,", readErr)
	}

	appSettings, err := quickfix.ParseSettings(bytes.NewReader(stringData))
	if err != nil {
		return nil, fmt.Errorf("error reading cfg: %s,", err)
	}

	app := newApplication(cfg, events, log)

	logFactory, _ := file.NewLogFactory(appSettings)
	acceptor, err := quickfix.NewAcceptor(app, quickfix.NewMemoryStoreFactory(), appSettings, logFactory)
	if err != nil {
		return nil, fmt.Errorf("unable to create acceptor: %s", err)
	}

	err = acceptor.Start()
	if err != nil {
		return nil, fmt.Errorf("unable to start FIX acceptor: %s", err)
	}

	go func() {
		<-app.quickEvent
		acceptor.Stop()
	}()

	return app, nil
}

func stopApp(a *Application) {
	a.stopWorkers()
	select {
	case a.quickEvent <- true:
	default:
	}
}

// OnCreate implemented as part of Application interface
func (a *Application) OnCreate(sessionID quickfix.SessionID) {}

// OnLogon implemented as part of Application interface. Every logon gets a
// fresh worker: a reconnect starts with an empty ledger and id sequences
// back at 1.
func (a *Application) OnLogon(sessionID quickfix.SessionID) {
	a.log.Info("session logon", zap.String("session_id", sessionID.String()))
	if old, ok := a.workers.LoadAndDelete(sessionID); ok {
		old.(*sessionWorker).stop()
	}
	a.workers.Store(sessionID, newSessionWorker(sessionID, a.cfg, a.events, a.log))
}

// OnLogout implemented as part of Application interface
func (a *Application) OnLogout(sessionID quickfix.SessionID) {
	a.log.Info("session logout", zap.String("session_id", sessionID.String()))
	if w, ok := a.workers.LoadAndDelete(sessionID); ok {
		w.(*sessionWorker).stop()
	}
}

// ToAdmin implemented as part of Application interface
func (a *Application) ToAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) {}

// ToApp implemented as part of Application interface
func (a *Application) ToApp(msg *quickfix.Message, sessionID quickfix.SessionID) error {
	return nil
}

// FromAdmin implemented as part of Application interface. Admin messages
// (logon, heartbeat) are mirrored into the core so it sees the full inbound
// stream; the session layer still owns the admin protocol itself.
func (a *Application) FromAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	a.forward(msg, sessionID)
	return nil
}

// FromApp implemented as part of Application interface
func (a *Application) FromApp(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	a.forward(msg, sessionID)
	return nil
}

func (a *Application) forward(msg *quickfix.Message, sessionID quickfix.SessionID) {
	msgType, err := msg.Header.GetString(tag.MsgType)
	if err != nil {
		a.log.Warn("message without MsgType dropped", zap.String("session_id", sessionID.String()))
		return
	}
	seqNum, _ := msg.Header.GetInt(tag.MsgSeqNum)

	m := &inboundMsg{
		raw:     []byte(msg.String()),
		msgType: msgType,
		seqNum:  seqNum,
	}

	if a.cfg.EnableShardQueue {
		a.shardQueue.Shard(sessionID.String(), &delivery{sessionID, m})
		return
	}
	a.dispatch(sessionID, m)
}

func (a *Application) dispatch(sessionID quickfix.SessionID, m *inboundMsg) {
	w, ok := a.workers.Load(sessionID)
	if !ok {
		// admin traffic can arrive before OnLogon fires
		w, _ = a.workers.LoadOrStore(sessionID, newSessionWorker(sessionID, a.cfg, a.events, a.log))
	}
	w.(*sessionWorker).enqueue(m)
}

func (a *Application) stopWorkers() {
	a.workers.Range(func(key, value interface{}) bool {
		value.(*sessionWorker).stop()
		a.workers.Delete(key)
		return true
	})
}
