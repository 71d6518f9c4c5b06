package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/rs/zerolog"
)

// Mailer delivers one notification email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Config holds mailer configuration.
type Config struct {
	Type     string `mapstructure:"type"` // "smtp" or "stdout"
	Addr     string `mapstructure:"addr"` // host:port of the SMTP server
	From     string `mapstructure:"from"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// NewMailer creates a Mailer. An empty or unsupported type falls back to
// the stdout mailer with a warning.
func NewMailer(cfg Config, log zerolog.Logger) Mailer {
	switch cfg.Type {
	case "smtp":
		return NewSMTPMailer(cfg)
	case "stdout":
		return &StdoutMailer{log: log}
	default:
		log.Warn().Str("type", cfg.Type).Msg("unsupported or empty mailer type, defaulting to stdout")
		return &StdoutMailer{log: log}
	}
}

// SMTPMailer sends mail through one SMTP relay, authenticating with PLAIN
// when credentials are configured.
type SMTPMailer struct {
	addr     string
	from     string
	username string
	password string
}

// NewSMTPMailer creates an SMTPMailer from config.
func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{
		addr:     cfg.Addr,
		from:     cfg.From,
		username: cfg.Username,
		password: cfg.Password,
	}
}

// Send implements Mailer.
func (m *SMTPMailer) Send(_ context.Context, to, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	var auth sasl.Client
	if m.username != "" {
		auth = sasl.NewPlainClient("", m.username, m.password)
	}

	if err := smtp.SendMail(m.addr, auth, m.from, []string{to}, strings.NewReader(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s via %s: %w", to, m.addr, err)
	}
	return nil
}

// StdoutMailer logs notifications instead of delivering them. Used in
// development and in tests.
type StdoutMailer struct {
	log zerolog.Logger
}

// Send implements Mailer.
func (m *StdoutMailer) Send(_ context.Context, to, subject, body string) error {
	m.log.Info().
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("notification email")
	return nil
}
