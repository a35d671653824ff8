package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/folioworks/portfolio-api/internal/config"
	"github.com/folioworks/portfolio-api/internal/infra/queue"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ContactMessage is the mail job consumed by the worker binary.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type ContactService interface {
	Submit(ctx context.Context, msg ContactMessage) error
}

type contactService struct {
	mq  *amqp.Connection
	cfg *config.Config
	log *zap.Logger
}

func NewContactService(mq *amqp.Connection, cfg *config.Config, log *zap.Logger) ContactService {
	return &contactService{mq: mq, cfg: cfg, log: log}
}

func (s *contactService) Submit(ctx context.Context, msg ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Message = strings.TrimSpace(msg.Message)

	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		return fmt.Errorf("%w: name, email and message are required", ErrValidation)
	}
	if _, err := mail.ParseAddress(msg.Email); err != nil {
		return fmt.Errorf("%w: invalid email address", ErrValidation)
	}

	p, err := queue.NewPublisher(s.mq, s.cfg.RabbitMQ.Queue, s.log)
	if err != nil {
		return fmt.Errorf("create contact mail publisher: %w", err)
	}
	defer p.Close()

	if err := p.PublishJSON(ctx, msg); err != nil {
		return fmt.Errorf("publish contact mail: %w", err)
	}
	return nil
}
