package mail

import (
	"context"
	"errors"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
	"p2p-lending.backend/pkg/logger"
)

// Sender delivers one rendered mail
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// ResendSender delivers through the Resend API
type ResendSender struct {
	send func(req *resend.SendEmailRequest) (string, error)
	from string
}

func NewResendSender(apiKey, from string) *ResendSender {
	client := resend.NewClient(apiKey)
	return &ResendSender{
		from: from,
		send: func(req *resend.SendEmailRequest) (string, error) {
			resp, err := client.Emails.Send(req)
			if err != nil {
				return "", err
			}
			return resp.Id, nil
		},
	}
}

func (s *ResendSender) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, err := s.send(&resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return err
	}
	if id == "" {
		return errors.New("resend returned no message id")
	}
	logger.Debug(ctx, "Mail accepted by resend", zap.String("id", id), zap.String("to", to))
	return nil
}

// LogSender only logs. It is used when no API key is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, to, subject, html string) error {
	logger.Info(ctx, "Mail delivery disabled, logging instead",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("bytes", len(html)),
	)
	return nil
}

// NewSender picks Resend when apiKey is set
func NewSender(apiKey, from string) Sender {
	if apiKey == "" {
		return LogSender{}
	}
	return NewResendSender(apiKey, from)
}
