package transport

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// SMTP delivers reminders as email through an SMTP gateway. Clinics
// without an SMS provider route phone-to-email gateways this way; the
// recipient address is derived from the phone number and the gateway
// domain.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
	domain string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// GatewayDomain maps a phone number to <phone>@<domain>.
	GatewayDomain string
}

func NewSMTP(cfg SMTPConfig) *SMTP {
	return &SMTP{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		domain: cfg.GatewayDomain,
	}
}

func (s *SMTP) Deliver(ctx context.Context, phone, message string) (bool, error) {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", fmt.Sprintf("%s@%s", phone, s.domain))
	m.SetHeader("Subject", "Appointment reminder")
	m.SetBody("text/plain", message)

	if err := s.dialer.DialAndSend(m); err != nil {
		return false, fmt.Errorf("failed to send mail: %w", err)
	}
	return true, nil
}
