// Package mailer renders and sends the contact-form emails over SMTP.
package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/folioworks/portfolio-api/internal/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

// Sender abstracts the SMTP dialer so tests can capture outgoing messages.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Mailer struct {
	sender Sender
	cfg    *config.Config
	log    *zap.Logger
	tmpl   *template.Template
}

func New(cfg *config.Config, log *zap.Logger) (*Mailer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	d := gomail.NewDialer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password)
	return &Mailer{sender: d, cfg: cfg, log: log, tmpl: tmpl}, nil
}

// NewWithSender is for tests.
func NewWithSender(cfg *config.Config, log *zap.Logger, s Sender) (*Mailer, error) {
	m, err := New(cfg, log)
	if err != nil {
		return nil, err
	}
	m.sender = s
	return m, nil
}

// SendContact delivers the owner notification and the sender confirmation.
// Confirmation failure is logged but does not fail the operation, the
// notification is the one that matters.
func (m *Mailer) SendContact(name, email, message string) error {
	year := time.Now().Year()

	var notif bytes.Buffer
	err := m.tmpl.ExecuteTemplate(&notif, "notification.html", map[string]any{
		"Name":    name,
		"Email":   email,
		"Message": message,
		"Year":    year,
	})
	if err != nil {
		return fmt.Errorf("render notification: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.Mail.From)
	msg.SetHeader("To", m.cfg.Mail.To)
	msg.SetHeader("Reply-To", email)
	msg.SetHeader("Subject", fmt.Sprintf("New message from %s", name))
	msg.SetBody("text/html", notif.String())

	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	var conf bytes.Buffer
	err = m.tmpl.ExecuteTemplate(&conf, "confirmation.html", map[string]any{
		"Name":    name,
		"ReplyTo": m.cfg.Mail.From,
		"Year":    year,
	})
	if err != nil {
		m.log.Sugar().Warnw("render confirmation failed", "err", err)
		return nil
	}

	confMsg := gomail.NewMessage()
	confMsg.SetHeader("From", m.cfg.Mail.From)
	confMsg.SetHeader("To", email)
	confMsg.SetHeader("Subject", "Your message was received")
	confMsg.SetBody("text/html", conf.String())

	if err := m.sender.DialAndSend(confMsg); err != nil {
		m.log.Sugar().Warnw("send confirmation failed", "to", email, "err", err)
	}
	return nil
}
