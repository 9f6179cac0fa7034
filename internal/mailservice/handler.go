package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/inkwellapp/inkwell/internal/common"
	"golang.org/x/exp/rand"
)

func NewMailService(mb MessageBus, host, username, password string, port int, logger *slog.Logger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:     mb,
		m:      NewMailer(host, port, username, password),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Dispatch enqueues one unit of work onto the mail queue. It returns as
// soon as the broker accepts the message; delivery happens later on the
// worker, unordered relative to the caller.
func (s *MailService) Dispatch(ctx context.Context, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return s.mb.Publish(ctx, body, common.MailSendKey, common.MailExchange)
}

// Run consumes the mail queue and delivers each message over SMTP.
// Delivery is at-least-once, best-effort: failed sends are retried with
// jittered exponential backoff and acked after the last attempt either
// way, so a poisoned message cannot wedge the queue.
func (s *MailService) Run() {
	msgs, err := s.mb.Consume(common.MailSendKey, common.MailExchange, common.MailSendQueue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("error", err.Error()))
		return
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				var message Message
				err := json.Unmarshal(msg.Body, &message)
				if err != nil {
					s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
					msg.Ack(false)
					continue
				}

				// using exponential backoff with jitter
				const maxRetries = 5
				const baseDelay = 500 * time.Millisecond

				var attempt int
				for attempt = 0; attempt < maxRetries; attempt++ {
					err = s.m.send(&message)
					if err == nil {
						s.logger.Info("email sent", slog.String("subject", message.Subject), slog.Int("recipients", len(message.To)))
						msg.Ack(false)
						break
					}

					delay := time.Duration(rand.Int63n(int64(baseDelay) << uint(attempt)))
					s.logger.Info("delaying email", slog.String("subject", message.Subject), slog.Int("attempt", attempt), slog.Duration("delay", delay))
					time.Sleep(delay)
				}

				if attempt == maxRetries {
					s.logger.Error("could not send email", slog.String("subject", message.Subject))
					msg.Ack(false)
				}

			case <-s.ctx.Done():
				s.logger.Info("stopping mail worker due to context cancellation")
				return
			}
		}
	}()
}

func (s *MailService) Close() {
	s.cancel()
}
