// Package mail sends transactional email over SMTP. Delivery is best effort:
// callers treat failures as non-fatal so the primary database operation is
// never masked by an outbound email problem.
package mail

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Mailer delivers transactional messages to users.
type Mailer interface {
	Send(to, subject, body string) error
}

// Config holds SMTP settings. Username/Password empty means not configured;
// the mailer then logs instead of sending, which keeps local development
// working without an SMTP account.
type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// smtpMailer implements Mailer over net/smtp with PLAIN auth.
type smtpMailer struct {
	cfg Config
}

// NewSMTPMailer creates a Mailer backed by the configured SMTP relay.
func NewSMTPMailer(cfg Config) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) configured() bool {
	return m.cfg.Username != "" && m.cfg.Password != ""
}

func (m *smtpMailer) Send(to, subject, body string) error {
	if !m.configured() {
		log.Printf("SMTP not configured; would send to %s: %s", to, subject)
		return nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg.String()))
}
