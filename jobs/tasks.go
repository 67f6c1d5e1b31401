package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// Mailer delivers notification emails over plain SMTP. Development setups
// point it at Mailpit.
type Mailer struct {
	Addr string // host:port
	From string
}

// Send delivers one message. A nil mailer drops the message.
func (m *Mailer) Send(payload SendEmailPayload) error {
	if m == nil || m.Addr == "" {
		return nil
	}
	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + payload.To,
		"Subject: " + payload.Subject,
		"",
		payload.Body,
	}, "\r\n")
	return smtp.SendMail(m.Addr, nil, m.From, []string{payload.To}, []byte(msg))
}

// NewSendEmailHandler returns the handler for TaskTypeSendEmail tasks.
func NewSendEmailHandler(mailer *Mailer, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SendEmailPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if err := mailer.Send(payload); err != nil {
			return fmt.Errorf("send email to %s: %w", payload.To, err)
		}
		logger.Info("email sent", slog.String("to", payload.To), slog.String("subject", payload.Subject))
		return nil
	}
}
