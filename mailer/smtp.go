package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

// SMTPConfig holds the connection parameters for an [SMTP] mailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From may be a bare address or "Name <address>" form.
	From string
}

// SMTP sends mail over a per-message SMTP connection. Port 465 uses
// implicit TLS; any other port dials plain and upgrades via STARTTLS when
// the server offers it.
type SMTP struct {
	config SMTPConfig
}

// NewSMTP returns a mailer for the given server.
func NewSMTP(cfg SMTPConfig) *SMTP {
	return &SMTP{config: cfg}
}

func (m *SMTP) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	fromAddr := parseAddress(m.config.From)

	client, err := m.dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	// Authenticate only when the server offers it and credentials are set.
	if ok, _ := client.Extension("AUTH"); ok && m.config.Username != "" {
		auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
	if err := client.Mail(fromAddr); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := writer.Write([]byte(buildMessage(m.config.From, to, subject, body))); err != nil {
		_ = writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func (m *SMTP) dial(addr string) (*smtp.Client, error) {
	if m.config.Port == 465 {
		conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.config.Host})
		if err != nil {
			return nil, err
		}
		return smtp.NewClient(conn, m.config.Host)
	}

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	client, err := smtp.NewClient(conn, m.config.Host)
	if err != nil {
		return nil, err
	}
	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.config.Host}); err != nil {
			_ = client.Close()
			return nil, err
		}
	}
	return client, nil
}

func buildMessage(from, to, subject, body string) string {
	headers := []string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}
	return strings.Join(headers, "\r\n")
}

func parseAddress(from string) string {
	start := strings.Index(from, "<")
	end := strings.Index(from, ">")
	if start >= 0 && end > start {
		return strings.TrimSpace(from[start+1 : end])
	}
	return strings.TrimSpace(from)
}
