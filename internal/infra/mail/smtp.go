package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPSender delivers through a plain SMTP relay.
type SMTPSender struct {
	Host      string
	Port      int
	User      string
	Password  string
	FromName  string
	FromEmail string
}

func NewSMTPSender(host string, port int, user, password, fromName, fromEmail string) *SMTPSender {
	return &SMTPSender{
		Host:      host,
		Port:      port,
		User:      user,
		Password:  password,
		FromName:  fromName,
		FromEmail: fromEmail,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.FromEmail, s.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("sending via SMTP: %w", err)
	}
	return nil
}
