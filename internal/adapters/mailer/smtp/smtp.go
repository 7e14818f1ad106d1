// Package smtp implementa el puerto mailer sobre SMTP autenticado.
package smtp

import (
	"context"
	"fmt"
	netsmtp "net/smtp"

	"github.com/jordan-wright/email"

	"pet-adoption-radar/internal/ports/mailer"
)

type Config struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

type Mailer struct {
	cfg Config
}

func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Send(_ context.Context, msg mailer.Message) error {
	e := email.NewEmail()
	e.From = m.cfg.From
	e.To = []string{msg.To}
	e.Subject = msg.Subject
	e.Text = []byte(msg.Text)
	e.HTML = []byte(msg.HTML)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := e.Send(addr, netsmtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)); err != nil {
		return fmt.Errorf("sending email to %s: %w", msg.To, err)
	}
	return nil
}
