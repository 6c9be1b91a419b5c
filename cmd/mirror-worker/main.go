package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/betting-companion/internal/mirror"
	"github.com/radieske/betting-companion/internal/remote/backend"
	"github.com/radieske/betting-companion/internal/shared/config"
	"github.com/radieske/betting-companion/internal/shared/kafka"
	"github.com/radieske/betting-companion/internal/shared/logger"
	"github.com/radieske/betting-companion/internal/shared/metrics"
	"github.com/radieske/betting-companion/internal/shared/rabbitmq"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.NewCollectors(prometheus.DefaultRegisterer)

	// backend remoto que recebe as escritas
	remoteStore, closeRemote, err := backend.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("remote backend", zap.Error(err))
	}
	defer closeRemote()

	proc := mirror.NewProcessor(log, mirror.NewApplier(remoteStore, log, m, cfg.OutboxMaxAttempts, cfg.OutboxBackoff), m)

	// Servidor HTTP para métricas Prometheus e healthcheck do backend remoto
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, log, metrics.Check{Name: "remote", Fn: remoteStore.Ping})
	log.Info("metrics/health", zap.String("addr", metricsSrv.Addr))

	log.Info("mirror-worker started",
		zap.String("transport", cfg.OutboxDriver),
		zap.String("remote", remoteStore.Name()),
	)

	switch cfg.OutboxDriver {
	case "rabbitmq":
		err = runAMQP(ctx, cfg, proc)
	default:
		err = runKafka(ctx, cfg, proc)
	}
	if err != nil && ctx.Err() == nil {
		log.Error("consumer stopped", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
	log.Info("mirror-worker stopped")
}

// runKafka consome remote_mirror num consumer group e manda as falhas para a DLQ
func runKafka(ctx context.Context, cfg config.Config, proc *mirror.Processor) error {
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicMirror, "mirror-worker")
	defer reader.Close()

	if cfg.TopicMirrorDLQ != "" {
		dlq := mirror.NewKafkaDeadLetter(cfg.KafkaBrokers, cfg.TopicMirrorDLQ)
		defer dlq.Close()
		proc.DLQ = dlq
	}

	proc.Log.Info("consuming kafka", zap.String("topic", cfg.TopicMirror), zap.String("dlq", cfg.TopicMirrorDLQ))
	return proc.RunKafka(ctx, reader)
}

// runAMQP liga a fila a mirror.# e publica as falhas na mesma exchange com prefixo de DLQ
func runAMQP(ctx context.Context, cfg config.Config, proc *mirror.Processor) error {
	consumer, err := rabbitmq.NewConsumer(cfg.AMQPURL)
	if err != nil {
		return fmt.Errorf("amqp consumer: %w", err)
	}
	defer consumer.Close()

	dlq, err := rabbitmq.NewProducer(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return fmt.Errorf("amqp dlq producer: %w", err)
	}
	defer dlq.Close()
	proc.DLQ = &mirror.AMQPDeadLetter{P: dlq}

	proc.Log.Info("consuming amqp", zap.String("exchange", cfg.AMQPExchange), zap.String("queue", cfg.AMQPQueue))
	return consumer.Consume(ctx, cfg.AMQPExchange, cfg.AMQPQueue, "mirror.#", proc.AMQPHandler(ctx))
}
