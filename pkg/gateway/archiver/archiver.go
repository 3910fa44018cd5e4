package archiver

import (
	"context"
	"encoding/json"
	"time"

	"github.com/joripage/fixgateway-dev/pkg/gateway"
	"github.com/joripage/fixgateway-dev/pkg/gateway/journal"
	"github.com/joripage/fixgateway-dev/pkg/gateway/repo"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultBatchSize     = 500
	defaultFlushInterval = time.Second
)

type Config struct {
	BatchSize     int
	FlushInterval time.Duration
	Stream        string
}

// Archiver drains the journal out-of-band and ships batches to the
// configured sinks. Either sink may be nil; the core never waits on this
// path.
type Archiver struct {
	cfg        *Config
	journal    *journal.Journal
	orderEvent repo.IOrderEvent
	rdb        *redis.Client
	log        *zap.Logger
}

func New(cfg *Config, j *journal.Journal, orderEvent repo.IOrderEvent, rdb *redis.Client, log *zap.Logger) *Archiver {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = defaultFlushInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Archiver{
		cfg:        cfg,
		journal:    j,
		orderEvent: orderEvent,
		rdb:        rdb,
		log:        log,
	}
}

// Run flushes on an interval until ctx is canceled, then makes one final
// pass over whatever is still pending.
func (a *Archiver) Run(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.flush(ctx)
		case <-ctx.Done():
			a.flush(context.Background())
			return
		}
	}
}

func (a *Archiver) flush(ctx context.Context) {
	for {
		events := a.journal.Drain(a.cfg.BatchSize)
		if len(events) == 0 {
			return
		}
		a.archive(ctx, events)
		if len(events) < a.cfg.BatchSize {
			return
		}
	}
}

func (a *Archiver) archive(ctx context.Context, events []*gateway.OrderEvent) {
	if a.orderEvent != nil {
		if _, err := a.orderEvent.BulkCreate(ctx, events); err != nil {
			a.log.Error("archive order events to db failed", zap.Error(err), zap.Int("count", len(events)))
		}
	}

	if a.rdb != nil {
		for _, ev := range events {
			payload, err := json.Marshal(ev)
			if err != nil {
				a.log.Error("marshal order event failed", zap.Error(err), zap.String("event_id", ev.EventID))
				continue
			}
			err = a.rdb.XAdd(ctx, &redis.XAddArgs{
				Stream: a.cfg.Stream,
				Values: map[string]interface{}{"event": payload},
			}).Err()
			if err != nil {
				a.log.Error("publish order event to stream failed", zap.Error(err), zap.String("event_id", ev.EventID))
			}
		}
	}
}
