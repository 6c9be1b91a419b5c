package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/betting-companion/internal/betting"
	bhttp "github.com/radieske/betting-companion/internal/betting-service/http"
	"github.com/radieske/betting-companion/internal/betting-service/ws"
	"github.com/radieske/betting-companion/internal/catalog"
	"github.com/radieske/betting-companion/internal/directory"
	"github.com/radieske/betting-companion/internal/external/geocode"
	"github.com/radieske/betting-companion/internal/external/transfers"
	"github.com/radieske/betting-companion/internal/kvstore"
	"github.com/radieske/betting-companion/internal/ledger"
	"github.com/radieske/betting-companion/internal/mirror"
	"github.com/radieske/betting-companion/internal/notifications"
	"github.com/radieske/betting-companion/internal/remote/backend"
	"github.com/radieske/betting-companion/internal/session"
	"github.com/radieske/betting-companion/internal/shared/cache"
	"github.com/radieske/betting-companion/internal/shared/config"
	"github.com/radieske/betting-companion/internal/shared/db"
	"github.com/radieske/betting-companion/internal/shared/logger"
	"github.com/radieske/betting-companion/internal/shared/metrics"
	"github.com/radieske/betting-companion/internal/shared/rabbitmq"
	"github.com/radieske/betting-companion/internal/wallet"
)

// aposta mínima aceita pelo coordenador
var minStake = decimal.NewFromInt(10)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting service",
		zap.String("service", cfg.ServiceName),
		zap.String("env", cfg.Env),
		zap.String("kv", cfg.KVDriver),
		zap.String("remote", cfg.RemoteBackend),
		zap.String("outbox", cfg.OutboxDriver),
	)

	m := metrics.NewCollectors(prometheus.DefaultRegisterer)

	// armazenamento local
	store, rdb, closeKV := openKV(ctx, cfg, log)
	defer closeKV()

	sess, err := session.New(ctx, store)
	if err != nil {
		log.Fatal("session restore", zap.Error(err))
	}

	// backend remoto + outbox
	remoteStore, closeRemote, err := backend.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("remote backend", zap.Error(err))
	}
	defer closeRemote()

	outbox := openOutbox(ctx, cfg, log, m, mirror.NewApplier(remoteStore, log, m, cfg.OutboxMaxAttempts, cfg.OutboxBackoff))
	defer outbox.Close()
	gw := mirror.NewGateway(outbox, remoteStore, log, m)

	health := mirror.NewHealthMonitor(remoteStore, log, m, cfg.RESTHealthTimeout)
	if err := health.Start(cfg.RemoteHealthCron); err != nil {
		log.Fatal("remote health schedule", zap.Error(err), zap.String("schedule", cfg.RemoteHealthCron))
	}
	defer health.Stop()

	// domínio
	dir := directory.New(log, store, sess, gw, directory.Options{
		AuthMode:       directory.AuthMode(cfg.AuthMode),
		DefaultBalance: cfg.DefaultBalance,
		DefaultAvatar:  cfg.DefaultAvatar,
	})
	w := wallet.New(log, dir, m)
	bets := ledger.New(log, store, gw, m)
	notifs := notifications.New(log, store, gw)
	cat := catalog.New(log, store, gw)
	coord := betting.New(log, w, bets, notifs, minStake)

	user, err := dir.EnsureDefaultUser(ctx)
	if err != nil {
		log.Fatal("ensure default user", zap.Error(err))
	}
	if cfg.SeedSampleData {
		seed(ctx, log, user.ID, bets, notifs, cat)
	}

	// APIs externas
	var transfersCache transfers.Cache = cache.NewMemory()
	if rdb != nil {
		transfersCache = cache.NewJSONCache(rdb, cfg.RedisPrefix+"transfers:")
	}
	tr := transfers.New(log, transfersCache, transfers.Options{
		BaseURL:  cfg.TransfersAPIURL,
		APIKey:   cfg.TransfersAPIKey,
		Demo:     cfg.TransfersDemo,
		CacheTTL: cfg.TransfersCacheTTL,
	})
	geo := geocode.New(log, geocode.Options{
		NominatimURL: cfg.GeocodeURL,
		ProxyURL:     cfg.GeocodeProxyURL,
		MinInterval:  cfg.GeocodeInterval,
	})

	// stream de mudanças para o dispositivo
	hub := ws.NewHub(func(r *http.Request) bool { return true })
	var out ws.Broadcaster = hub
	if rdb != nil {
		out = ws.NewRedisFanout(rdb, log)
		ws.StartRedisSubscriber(ctx, rdb, hub, log)
	}
	ws.StartRelay(ctx, ws.Sources{
		User:          sess.Subscribe,
		Bets:          bets.Subscribe,
		Notifications: notifs.SubscribeUnread,
	}, out)

	api := &bhttp.API{
		Log:           log,
		Directory:     dir,
		Wallet:        w,
		Bets:          bets,
		Betting:       coord,
		Catalog:       cat,
		Notifications: notifs,
		Transfers:     tr,
		Geocode:       geo,
		Remote:        gw,
		Health:        health,
		Hub:           hub,

		AllowedOrigins: cfg.CORSAllowedOrigins,
	}
	apiSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	checks := []metrics.Check{{Name: "kv", Fn: func(ctx context.Context) error {
		var raw json.RawMessage
		_, err := store.Get(ctx, kvstore.KeyCurrentUser, &raw)
		return err
	}}}
	if rdb != nil {
		checks = append(checks, metrics.Check{Name: "redis", Fn: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, log, checks...)
	log.Info("metrics/health", zap.String("addr", metricsSrv.Addr))

	go func() {
		log.Info("betting-service listening", zap.String("addr", apiSrv.Addr))
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("api", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = apiSrv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
}

// openKV escolhe o driver do armazenamento local. rdb só é não-nil com driver redis.
func openKV(ctx context.Context, cfg config.Config, log *zap.Logger) (kvstore.Store, *redis.Client, func()) {
	switch cfg.KVDriver {
	case "memory":
		log.Warn("kv store in memory, state is lost on restart")
		return kvstore.NewMemory(), nil, func() {}

	case "redis":
		rdb, err := cache.ConnectRedis(cfg.RedisAddr)
		if err != nil {
			log.Fatal("failed to connect redis", zap.Error(err))
		}
		log.Info("redis connected", zap.String("addr", cfg.RedisAddr))
		return kvstore.NewRedis(rdb, cfg.RedisPrefix), rdb, func() { _ = rdb.Close() }

	default:
		sq, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			log.Fatal("failed to open sqlite", zap.Error(err))
		}
		store, err := kvstore.NewSQLite(ctx, sq)
		if err != nil {
			log.Fatal("sqlite schema", zap.Error(err))
		}
		log.Info("sqlite ready", zap.String("path", cfg.SQLitePath))
		return store, nil, func() { _ = sq.Close() }
	}
}

// openOutbox escolhe o transporte das tarefas de espelhamento.
// Com kafka ou rabbitmq a aplicação fica a cargo do mirror-worker.
func openOutbox(ctx context.Context, cfg config.Config, log *zap.Logger, m *metrics.Collectors, applier *mirror.Applier) mirror.Outbox {
	switch cfg.OutboxDriver {
	case "kafka":
		log.Info("mirror outbox on kafka", zap.String("topic", cfg.TopicMirror))
		return mirror.NewKafkaOutbox(cfg.KafkaBrokers, cfg.TopicMirror, log, m)

	case "rabbitmq":
		p, err := rabbitmq.NewProducer(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatal("failed to connect rabbitmq", zap.Error(err))
		}
		log.Info("mirror outbox on rabbitmq", zap.String("exchange", cfg.AMQPExchange))
		return mirror.NewAMQPOutbox(p)

	default:
		o := mirror.NewMemoryOutbox(applier, log, m, cfg.OutboxBuffer)
		o.Start(ctx)
		return o
	}
}

func seed(ctx context.Context, log *zap.Logger, userID string, bets *ledger.Ledger, notifs *notifications.Ledger, cat *catalog.Catalog) {
	if _, err := cat.GenerateSampleLeagues(ctx); err != nil {
		log.Warn("seed leagues", zap.Error(err))
	}
	if _, err := cat.GenerateSampleTeams(ctx); err != nil {
		log.Warn("seed teams", zap.Error(err))
	}
	if _, err := bets.GenerateSampleBets(ctx, userID); err != nil {
		log.Warn("seed bets", zap.Error(err))
	}
	if _, err := notifs.GenerateSamples(ctx, userID); err != nil {
		log.Warn("seed notifications", zap.Error(err))
	}
	log.Info("sample data seeded", zap.String("user_id", userID))
}
