// events_worker drains the activity queue: every store mutation published by
// the server is logged and rolled into per-day counters in Redis, so usage
// stats never cost the serving path anything.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/quickfit/quickfit-server/config"
	"github.com/quickfit/quickfit-server/pkg/events"
	"github.com/quickfit/quickfit-server/pkg/helpers"
)

func main() {
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-events", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQEventsQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// Prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	if _, err := ch.QueueDeclare(cfg.RabbitMQEventsQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQEventsQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	logger.Infof("events worker consuming %s", cfg.RabbitMQEventsQueue)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-quit:
			logger.Info("events worker shutting down")
			return
		case d, ok := <-msgs:
			if !ok {
				logger.Warn("delivery channel closed")
				return
			}
			var a events.Activity
			if err := json.Unmarshal(d.Body, &a); err != nil {
				logger.WithError(err).Warn("dropping malformed activity")
				_ = d.Nack(false, false)
				continue
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			day := time.Now().UTC().Format("2006-01-02")
			key := "activity:" + day + ":" + a.Kind
			if err := rdb.Incr(ctx, key).Err(); err != nil {
				logger.WithError(err).Warn("activity counter incr failed")
			} else {
				// counters expire after 90 days
				_ = rdb.Expire(ctx, key, 90*24*time.Hour).Err()
			}
			cancel()

			logger.WithField("kind", a.Kind).WithField("entity_id", a.EntityID).Info("activity")
			_ = d.Ack(false)
		}
	}
}
