package mailer

import (
	"errors"

	"gopkg.in/gomail.v2"

	"carexchange/internal/core/config"
)

// Mailer SMTP 发信（找回密码 / 邮箱验证）
type Mailer struct {
	from   string
	dialer *gomail.Dialer
}

func New(cfg config.SMTP) (*Mailer, error) {
	if cfg.Host == "" || cfg.Port == 0 || cfg.From == "" {
		return nil, errors.New("mailer: incomplete smtp config")
	}
	return &Mailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}, nil
}

func (m *Mailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}
