package network

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/st4cksup/server/internal/shared/config"
)

const defaultSendTimeout = 15 * time.Second

// Mailer dispatches invitation notifications to email addresses.
type Mailer interface {
	SendInvite(ctx context.Context, to, inviterName, startupName string) error
}

// SMTPMailer sends invitation emails via SMTP.
type SMTPMailer struct {
	config *config.MailConfig
	logger *zap.Logger
}

// NewSMTPMailer creates an SMTP invitation mailer.
func NewSMTPMailer(cfg *config.MailConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{config: cfg, logger: logger}
}

// SendInvite sends a single invitation email.
func (m *SMTPMailer) SendInvite(ctx context.Context, to, inviterName, startupName string) error {
	subject := fmt.Sprintf("%s invited you to St4cksUP", inviterName)
	body := fmt.Sprintf("Hi!\r\n\r\n%s invited you to join St4cksUP.", inviterName)
	if startupName != "" {
		subject = fmt.Sprintf("%s invited you to join %s on St4cksUP", inviterName, startupName)
		body = fmt.Sprintf("Hi!\r\n\r\n%s invited you to join the startup %s on St4cksUP.", inviterName, startupName)
	}

	from := m.config.FromAddress
	if m.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.config.FromName, m.config.FromAddress)
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		from, to, subject, body)

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	var auth smtp.Auth
	if m.config.User != "" && m.config.Password != "" {
		auth = smtp.PlainAuth("", m.config.User, m.config.Password, m.config.Host)
	}

	if err := m.send(ctx, addr, auth, to, msg); err != nil {
		m.logger.Error("failed to send invite email",
			zap.String("to", to),
			zap.Error(err),
		)
		return fmt.Errorf("send invite email: %w", err)
	}

	m.logger.Info("invite email sent", zap.String("to", to))
	return nil
}

// send runs a full SMTP session against a wall-clock deadline so a
// stalled relay cannot pin a batch goroutine. The deadline is the
// configured send timeout, tightened to the context deadline when that
// comes sooner.
func (m *SMTPMailer) send(ctx context.Context, addr string, auth smtp.Auth, to, msg string) error {
	timeout := m.config.SendTimeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	conn, err := net.DialTimeout("tcp", addr, time.Until(deadline))
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.SetDeadline(deadline); err != nil {
		return err
	}

	client, err := smtp.NewClient(conn, m.config.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}
	if err := client.Mail(m.config.FromAddress); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

// BreakerMailer wraps a mailer with a circuit breaker so that a dead
// SMTP relay fails fast instead of stalling every invitation batch.
type BreakerMailer struct {
	inner   Mailer
	breaker *gobreaker.CircuitBreaker[any]
}

// NewBreakerMailer creates a circuit-breaking mailer.
func NewBreakerMailer(inner Mailer, cfg *config.NetworkConfig, logger *zap.Logger) *BreakerMailer {
	threshold := cfg.BreakerThreshold
	if threshold == 0 {
		threshold = 5
	}
	settings := gobreaker.Settings{
		Name:        "invite-mailer",
		MaxRequests: 1,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("invite mailer breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &BreakerMailer{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
	}
}

// SendInvite dispatches through the breaker.
func (b *BreakerMailer) SendInvite(ctx context.Context, to, inviterName, startupName string) error {
	_, err := b.breaker.Execute(func() (any, error) {
		return nil, b.inner.SendInvite(ctx, to, inviterName, startupName)
	})
	return err
}

// NopMailer discards invitations. Used when no SMTP relay is configured.
type NopMailer struct{}

// SendInvite does nothing.
func (NopMailer) SendInvite(context.Context, string, string, string) error {
	return nil
}
