package notify

import (
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/ppiankov/quickreview/internal/config"
	"github.com/ppiankov/quickreview/internal/scan"
)

const defaultFromName = "quickreview"

// SMTPConfig holds resolved SMTP delivery settings.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

// ResolveSMTPConfig merges the config file block with QUICKREVIEW_SMTP_*
// and SMTP_* environment variables. File values win; the password only
// comes from the environment.
func ResolveSMTPConfig(file *config.EmailConfig, getenv func(string) string) SMTPConfig {
	env := func(name string) string {
		if v := getenv("QUICKREVIEW_" + name); v != "" {
			return v
		}
		return getenv(name)
	}

	var c SMTPConfig
	if file != nil {
		c = SMTPConfig{
			Host:     file.SMTPHost,
			Port:     file.SMTPPort,
			User:     file.SMTPUser,
			From:     file.From,
			FromName: file.FromName,
		}
	}
	if c.Host == "" {
		c.Host = env("SMTP_HOST")
	}
	if c.Port == 0 {
		if p, err := strconv.Atoi(env("SMTP_PORT")); err == nil && p > 0 {
			c.Port = p
		} else {
			c.Port = config.DefaultSMTPPort
		}
	}
	if c.User == "" {
		c.User = env("SMTP_USER")
	}
	c.Password = env("SMTP_PASSWORD")
	if c.From == "" {
		c.From = env("FROM_EMAIL")
	}
	if c.From == "" {
		c.From = c.User
	}
	if c.FromName == "" {
		c.FromName = defaultFromName
	}
	return c
}

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Sender mails rendered reports.
type Sender struct {
	cfg  SMTPConfig
	send SendFunc
}

// NewSender creates a sender that delivers with smtp.SendMail.
func NewSender(cfg SMTPConfig) *Sender {
	return &Sender{cfg: cfg, send: smtp.SendMail}
}

// Send renders the report with f and mails it to the given address.
func (s *Sender) Send(r *scan.Report, f *Formatter, to string) error {
	if s.cfg.Host == "" || s.cfg.From == "" {
		return fmt.Errorf("smtp configuration not provided")
	}
	if strings.ContainsAny(to, "\r\n") {
		return fmt.Errorf("invalid recipient %q", to)
	}

	body, err := f.HTML(r)
	if err != nil {
		return err
	}
	msg := buildMessage(s.cfg, to, f.Subject(r), body)

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	}
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))

	if err := s.send(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail via %s: %w", addr, err)
	}
	slog.Info("report emailed", "to", to)
	return nil
}

func buildMessage(cfg SMTPConfig, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", cfg.FromName), cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
