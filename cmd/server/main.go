package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"l1feed/codec"
	"l1feed/config"
	"l1feed/domain/book"
	"l1feed/feed"
	"l1feed/infra/kafka"
	"l1feed/infra/outbox"
	"l1feed/infra/sequence"
	"l1feed/jobs/broadcaster"
	"l1feed/pipeline"
	"l1feed/service"
	"l1feed/sink"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	runID := uuid.NewString()
	log = log.With("run_id", runID)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalw("config load failed", "err", err)
	}

	cdc, err := codec.ForName(cfg.Quotes.Encoding)
	if err != nil {
		log.Fatalw("codec init failed", "err", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---------------- Quote sinks ----------------

	var sinks sink.Fanout

	var csvFile *os.File
	var csvSink *sink.CSV
	if cfg.Quotes.CSVPath != "" {
		csvFile, err = os.Create(cfg.Quotes.CSVPath)
		if err != nil {
			log.Fatalw("csv open failed", "path", cfg.Quotes.CSVPath, "err", err)
		}
		defer csvFile.Close()
		csvSink, err = sink.NewCSV(csvFile)
		if err != nil {
			log.Fatalw("csv init failed", "err", err)
		}
		sinks = append(sinks, csvSink)
	}

	if cfg.Quotes.NATS.Enabled() {
		natsSink, err := sink.NewNATS(
			cfg.Quotes.NATS.URL,
			cfg.Quotes.NATS.Subject,
			cfg.Name+"-"+runID,
			cdc,
			log,
		)
		if err != nil {
			log.Fatalw("nats init failed", "err", err)
		}
		defer natsSink.Close()
		sinks = append(sinks, natsSink)
	}

	var bc *broadcaster.Broadcaster
	if cfg.Quotes.Kafka.Enabled() {
		ob, err := outbox.Open(cfg.Quotes.Outbox)
		if err != nil {
			log.Fatalw("outbox open failed", "dir", cfg.Quotes.Outbox, "err", err)
		}
		defer ob.Close()

		lastSeq, err := ob.MaxSeq()
		if err != nil {
			log.Fatalw("outbox scan failed", "err", err)
		}
		sinks = append(sinks, sink.NewOutbox(ob, cdc, sequence.New(lastSeq), log))

		bc, err = broadcaster.New(
			ob,
			cfg.Quotes.Kafka.Brokers,
			cfg.Quotes.Kafka.Topic,
			cfg.Name+"-"+runID,
			cfg.Quotes.Interval.Std(),
			log,
		)
		if err != nil {
			log.Fatalw("broadcaster init failed", "err", err)
		}
		defer bc.Close()
		bc.Start(ctx)
	}

	// ---------------- Pipeline ----------------

	pipe := pipeline.New(cfg.Pipeline.Buffer, sinks, log)
	pipe.Start()

	// ---------------- Trade tape ----------------

	var tape service.TradePublisher
	if cfg.Trades.Kafka.Enabled() {
		tt := kafka.NewTradeTape(cfg.Trades.Kafka.Brokers, cfg.Trades.Kafka.Topic)
		defer tt.Close()
		tape = tt
	}

	// ---------------- Feed ----------------

	var src feed.Source
	switch cfg.Feed.Type {
	case "file":
		src, err = feed.OpenFile(cfg.Feed.Path)
	case "ws":
		src, err = feed.DialWS(cfg.Feed.URL)
	}
	if err != nil {
		log.Fatalw("feed open failed", "err", err)
	}
	defer src.Close()

	// ---------------- Run ----------------

	svc := service.New(book.SinkFunc(pipe.Enqueue), tape, log)
	svc.Seed(cfg.Symbols)

	log.Infow("engine started",
		"name", cfg.Name, "feed", cfg.Feed.Type, "symbols", len(cfg.Symbols),
		"buffer", cfg.Pipeline.Buffer)

	if err := svc.Run(ctx, src); err != nil {
		log.Errorw("feed run aborted", "err", err)
	}

	// Orderly shutdown: stop producing, drain the pipeline, then flush
	// the remaining outbox entries once and stop the broadcaster.
	pipe.Shutdown()
	if csvSink != nil {
		if err := csvSink.Flush(); err != nil {
			log.Errorw("csv flush failed", "err", err)
		}
	}
	if bc != nil {
		bc.FlushOnce()
	}
	cancel()

	log.Infow("engine stopped",
		"applied", svc.Applied(), "skipped", svc.Skipped(),
		"overwritten_quotes", pipe.Overwrites())
}
