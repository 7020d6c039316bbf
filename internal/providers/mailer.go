package providers

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
}

// SMTPMailer delivers HTML mail through an authenticated SMTP relay.
type SMTPMailer struct {
	opts   SMTPOptions
	dialer *gomail.Dialer
}

func NewSMTPMailer(o SMTPOptions) *SMTPMailer {
	if o.FromName == "" {
		o.FromName = "Brayn"
	}
	return &SMTPMailer{
		opts:   o,
		dialer: gomail.NewDialer(o.Host, o.Port, o.Username, o.Password),
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, html string) error {
	msg, err := m.message(to, subject, html)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

func (m *SMTPMailer) message(to, subject, html string) (*gomail.Message, error) {
	if to == "" {
		return nil, errors.New("no recipient")
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.opts.Username, m.opts.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)
	return msg, nil
}
