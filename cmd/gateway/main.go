package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/joripage/fixgateway-dev/config"
	"github.com/joripage/fixgateway-dev/pkg/gateway/archiver"
	fixgateway "github.com/joripage/fixgateway-dev/pkg/gateway/fix"
	"github.com/joripage/fixgateway-dev/pkg/gateway/journal"
	"github.com/joripage/fixgateway-dev/pkg/gateway/repo"
	postgres_wrapper "github.com/joripage/fixgateway-dev/pkg/infra/postgres"
	redis_wrapper "github.com/joripage/fixgateway-dev/pkg/infra/redis"
	"github.com/joripage/fixgateway-dev/pkg/logging"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "./config/gateway.yaml", "Specify config file path")
	flag.Parse()

	go func() {
		http.ListenAndServe("localhost:6060", nil) // nolint
	}()

	log := logging.NewLogger(logging.INFO)
	defer log.Sync() // nolint

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	auditJournal := journal.New()

	var orderEvent repo.IOrderEvent
	if cfg.AuditDB != nil {
		db := postgres_wrapper.InitPostgresWithBackoff(cfg.AuditDB)
		orderEvent = repo.NewRepo(db).OrderEvent()
	}

	var rdb *goredis.Client
	if cfg.Redis != nil {
		rdb, err = redis_wrapper.InitRedis(cfg.Redis)
		if err != nil {
			panic(err)
		}
	}

	arcCfg := &archiver.Config{}
	if cfg.Archiver != nil {
		arcCfg = &archiver.Config{
			BatchSize:     cfg.Archiver.BatchSize,
			FlushInterval: time.Duration(cfg.Archiver.FlushIntervalMS) * time.Millisecond,
			Stream:        cfg.Archiver.Stream,
		}
	}
	go archiver.New(arcCfg, auditJournal, orderEvent, rdb, log.Zap()).Run(ctx)

	gw := fixgateway.NewFixGateway(cfg.Gateway, auditJournal, log.Zap())
	if err := gw.Start(ctx); err != nil {
		panic(err)
	}
	fmt.Println("FIX gateway started. Press Ctrl+C to exit.")

	<-sigs
	fmt.Println("Shutting down...")

	gw.Stop()
	cancel()

	fmt.Println("Exited cleanly.")
}
