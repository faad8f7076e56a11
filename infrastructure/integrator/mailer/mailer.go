package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-monitor-api/internal/config"
)

type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	cfg config.SMTP
}

// New cria o cliente SMTP de envio de alertas por e-mail.
func New(cfg config.SMTP) Mailer {
	return &SMTPMailer{
		cfg: cfg,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	if !m.cfg.Enabled {
		logrus.Warn("Envio de e-mail desabilitado na configuração, ignorando mensagem")
		return nil
	}

	// Monta a mensagem no formato RFC 5322 com corpo em texto puro.
	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("erro ao enviar e-mail para %s: %w", to, err)
	}

	logrus.Debugf("E-mail enviado para %s", to)

	return nil
}
