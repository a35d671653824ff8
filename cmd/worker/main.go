package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/folioworks/portfolio-api/internal/config"
	"github.com/folioworks/portfolio-api/internal/infra/logger"
	"github.com/folioworks/portfolio-api/internal/infra/queue"
	"github.com/folioworks/portfolio-api/internal/mailer"
	"github.com/folioworks/portfolio-api/internal/modules/service"
	amqp "github.com/rabbitmq/amqp091-go"
)

// The worker drains the contact queue and sends the emails over SMTP. It is
// deployed separately from the API so slow SMTP servers never block requests.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ml, err := mailer.New(cfg, log)
	if err != nil {
		log.Sugar().Fatalw("mailer init failed", "err", err)
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Sugar().Fatalw("rabbitmq dial failed", "err", err)
	}
	defer conn.Close()

	consumer, err := queue.NewConsumer(conn, cfg.RabbitMQ.Queue, cfg.RabbitMQ.Prefetch, log)
	if err != nil {
		log.Sugar().Fatalw("consumer init failed", "err", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Sugar().Infow("mail worker started", "queue", cfg.RabbitMQ.Queue)

	err = consumer.Run(ctx, func(ctx context.Context, body []byte) error {
		var msg service.ContactMessage
		if err := sonic.Unmarshal(body, &msg); err != nil {
			// malformed payloads are dropped, requeueing cannot fix them
			log.Sugar().Errorw("dropping malformed contact message", "err", err)
			return nil
		}
		log.Sugar().Infow("sending contact mail", "from", msg.Email)
		return ml.SendContact(msg.Name, msg.Email, msg.Message)
	})
	if err != nil && err != context.Canceled {
		log.Sugar().Errorw("consumer stopped", "err", err)
	}
	log.Sugar().Info("mail worker exited")
}
