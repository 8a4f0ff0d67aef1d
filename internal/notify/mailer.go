// README: Best-effort order emails over SMTP.
package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"quickbite/internal/config"
)

// Mailer sends a single message. Failures are the caller's to log and
// swallow; nothing in the order path depends on delivery.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	cfg config.SMTPConfig
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	if m.cfg.Addr == "" {
		return fmt.Errorf("smtp not configured")
	}
	var auth smtp.Auth
	if m.cfg.User != "" {
		host := m.cfg.Addr
		if i := strings.IndexByte(host, ':'); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, host)
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.From, to, subject, body)
	return smtp.SendMail(m.cfg.Addr, auth, m.cfg.From, []string{to}, []byte(msg))
}
