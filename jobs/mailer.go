package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/hibiken/asynq"
)

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	Host   string
	Port   int
	From   string
	Logger *slog.Logger

	// send is swappable in tests.
	send func(addr string, from string, to []string, msg []byte) error
}

// NewMailer constructs a Mailer. Auth-less SMTP matches the local relay
// (Mailpit) used in development; production relays sit behind the same host.
func NewMailer(host string, port int, from string, logger *slog.Logger) *Mailer {
	m := &Mailer{Host: host, Port: port, From: from, Logger: logger}
	m.send = func(addr string, from string, to []string, msg []byte) error {
		return smtp.SendMail(addr, nil, from, to, msg)
	}
	return m
}

// HandleSendEmail processes TaskTypeSendEmail tasks.
func (m *Mailer) HandleSendEmail(ctx context.Context, t *asynq.Task) error {
	if m == nil {
		return errors.New("mailer: not configured")
	}
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.To == "" {
		return asynq.SkipRetry
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.From)
	fmt.Fprintf(&msg, "To: %s\r\n", payload.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", payload.Subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(payload.Body)

	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	if err := m.send(addr, m.From, []string{payload.To}, []byte(msg.String())); err != nil {
		m.logger().Error("send email", slog.String("to", payload.To), slog.Any("error", err))
		return err
	}
	m.logger().Info("email sent", slog.String("to", payload.To), slog.String("subject", payload.Subject))
	return nil
}

func (m *Mailer) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger.With(slog.String("job", TaskTypeSendEmail))
	}
	return slog.Default().With(slog.String("job", TaskTypeSendEmail))
}
