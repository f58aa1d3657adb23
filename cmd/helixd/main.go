// Command helixd runs the matching service for a single instrument:
// orders in from a CSV feed, executed trades out through the durable
// outbox to Kafka, top-of-book ticks out over Kafka and websocket.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"helix/api/marketdata"
	"helix/config"
	"helix/domain/book"
	"helix/domain/match"
	"helix/infra/kafka"
	"helix/infra/metrics"
	"helix/infra/tradestore"
	"helix/jobs/broadcaster"
	"helix/service"
)

func main() {
	var (
		cfgPath   = flag.String("config", "", "path to config file")
		ordersCSV = flag.String("orders", "", "CSV order feed to replay on startup")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := tradestore.Open(cfg.StoreDir)
	if err != nil {
		log.Fatal("open trade store", zap.String("dir", cfg.StoreDir), zap.Error(err))
	}
	defer store.Close()

	m := metrics.New("helix")
	hub := marketdata.NewHub(log.Named("marketdata"))
	go hub.Run(ctx)

	var ticks service.TickPublisher
	if cfg.Kafka.Enabled {
		p, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TickTopic)
		if err != nil {
			log.Fatal("tick producer", zap.Error(err))
		}
		defer p.Close()
		ticks = p
	}

	svc := service.New(match.NewEngine(), store, ticks, hub, m, log.Named("service"))

	if cfg.Kafka.Enabled {
		producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, broadcaster.ProducerConfig())
		if err != nil {
			log.Fatal("trade producer", zap.Error(err))
		}
		bc := broadcaster.New(store, producer, cfg.Kafka.TradeTopic, cfg.Broadcast.Interval, log.Named("broadcaster"))
		defer bc.Close()
		if err := bc.RecoverSent(); err != nil {
			log.Warn("recover in-flight trades", zap.Error(err))
		}
		go bc.Run(ctx)
	}

	if *ordersCSV != "" {
		if err := replayCSV(ctx, svc, *ordersCSV, log); err != nil {
			log.Error("order feed", zap.String("file", *ordersCSV), zap.Error(err))
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: cfg.Listen, Handler: mux}

	go func() {
		log.Info("listening", zap.String("addr", cfg.Listen))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// replayCSV feeds orders from a file, one per line:
//
//	limit,bid,100.25,10,1
//	market,ask,,5,2
//	cancel,,,,1
//
// Fields are type, side, price, quantity, id. Bad lines are logged and
// skipped.
func replayCSV(ctx context.Context, svc *service.OrderService, path string, log *zap.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := applyLine(ctx, svc, line); err != nil {
			log.Warn("skipping order line", zap.Int("line", lineNo), zap.Error(err))
		}
	}
	return sc.Err()
}

func applyLine(ctx context.Context, svc *service.OrderService, line string) error {
	parts := strings.Split(line, ",")
	if len(parts) != 5 {
		return fmt.Errorf("want 5 fields, got %d", len(parts))
	}
	id, err := strconv.ParseUint(strings.TrimSpace(parts[4]), 10, 64)
	if err != nil {
		return fmt.Errorf("order id: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(parts[0])) {
	case "cancel":
		svc.CancelOrder(ctx, id)
		return nil
	case "limit":
		return place(ctx, svc, book.Limit, parts, id)
	case "market":
		return place(ctx, svc, book.Market, parts, id)
	default:
		return fmt.Errorf("unknown order type %q", parts[0])
	}
}

func place(ctx context.Context, svc *service.OrderService, typ book.OrderType, parts []string, id uint64) error {
	o := book.Order{ID: id, Type: typ}
	switch strings.ToLower(strings.TrimSpace(parts[1])) {
	case "bid", "buy":
		o.Side = book.Bid
	case "ask", "sell":
		o.Side = book.Ask
	default:
		return fmt.Errorf("unknown side %q", parts[1])
	}
	if typ == book.Limit {
		ticks, err := book.ToTicks(strings.TrimSpace(parts[2]))
		if err != nil {
			return err
		}
		o.Price = ticks
	}
	qty, err := strconv.ParseInt(strings.TrimSpace(parts[3]), 10, 64)
	if err != nil {
		return fmt.Errorf("quantity: %w", err)
	}
	o.Qty = qty

	_, err = svc.PlaceOrder(ctx, o)
	return err
}
