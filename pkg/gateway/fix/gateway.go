package fixgateway

import (
	"context"

	"go.uber.org/zap"

	"github.com/joripage/fixgateway-dev/pkg/gateway"
)

const defaultOutboundQueueSize = 1024

// FixGateway runs the FIX acceptor and owns one order-handling core per
// connected session. Session bootstrap, sequence numbers and resend are the
// quickfix engine's job; everything from message classification onward is
// pkg/gateway.
type FixGateway struct {
	cfg    *FixGatewayConfig
	app    *Application
	events gateway.EventSink
	log    *zap.Logger
}

type FixGatewayConfig struct {
	ConfigFilepath    string `yaml:"config_filepath"`
	EnableShardQueue  bool   `yaml:"enable_shard_queue"`
	InboundQueueSize  int    `yaml:"inbound_queue_size"`
	OutboundQueueSize int    `yaml:"outbound_queue_size"`
}

func NewFixGateway(cfg *FixGatewayConfig, events gateway.EventSink, log *zap.Logger) *FixGateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &FixGateway{
		cfg:    cfg,
		events: events,
		log:    log,
	}
}

func (g *FixGateway) Start(ctx context.Context) error {
	app, err := startApp(g.cfg, g.events, g.log)
	if err != nil {
		g.log.Error("start acceptor failed", zap.Error(err))
		return err
	}
	g.app = app
	return nil
}

func (g *FixGateway) Stop() {
	if g.app != nil {
		stopApp(g.app)
	}
}
