package auth

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/vscarantav/parallelscriptures/internal/config"
)

// Mailer sends account emails. With no SMTP host configured it logs the
// message instead and reports it as unsent, so pages can surface a dev
// link for local setups.
type Mailer struct {
	cfg config.SMTPConfig
}

// NewMailer creates a mailer from SMTP settings.
func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) message(to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.Sender)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// Send delivers one message. sent is false when SMTP is unconfigured;
// a configured transport failure returns an error.
func (m *Mailer) Send(to, subject, body string) (sent bool, err error) {
	msg := m.message(to, subject, body)

	if m.cfg.Host == "" || m.cfg.User == "" || m.cfg.Pass == "" {
		log.Printf("auth: SMTP not configured; would send email to %s:\n%s", to, msg)
		return false, nil
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	a := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)

	// Implicit TLS when requested or on the SMTPS port; STARTTLS
	// otherwise (net/smtp negotiates it when the server offers).
	if m.cfg.UseSSL || m.cfg.Port == 465 {
		err = m.sendImplicitTLS(addr, a, to, msg)
	} else {
		err = smtp.SendMail(addr, a, m.cfg.Sender, []string{to}, msg)
	}
	if err != nil {
		return false, fmt.Errorf("sending mail to %s: %w", to, err)
	}
	return true, nil
}

func (m *Mailer) sendImplicitTLS(addr string, a smtp.Auth, to string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.cfg.Host})
	if err != nil {
		return err
	}
	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if err := c.Auth(a); err != nil {
		return err
	}
	if err := c.Mail(m.cfg.Sender); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}
