package network

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/st4cksup/server/internal/shared/config"
)

// stalledRelay accepts connections but never sends an SMTP greeting.
func stalledRelay(t *testing.T) *config.MailConfig {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		var conns []net.Conn
		defer func() {
			for _, c := range conns {
				c.Close()
			}
		}()
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conns = append(conns, conn)
		}
	}()

	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	return &config.MailConfig{
		Host:        host,
		Port:        port,
		FromAddress: "noreply@st4cksup.io",
	}
}

func TestSMTPMailer_SendInvite_Timeout(t *testing.T) {
	t.Run("stalled relay fails within the send timeout", func(t *testing.T) {
		cfg := stalledRelay(t)
		cfg.SendTimeout = 200 * time.Millisecond
		mailer := NewSMTPMailer(cfg, zap.NewNop())

		start := time.Now()
		err := mailer.SendInvite(context.Background(), "grace@st4cksup.io", "Ada", "")
		elapsed := time.Since(start)

		assert.Error(t, err)
		assert.Less(t, elapsed, 2*time.Second)
	})

	t.Run("earlier context deadline wins", func(t *testing.T) {
		cfg := stalledRelay(t)
		cfg.SendTimeout = 30 * time.Second
		mailer := NewSMTPMailer(cfg, zap.NewNop())

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		start := time.Now()
		err := mailer.SendInvite(ctx, "grace@st4cksup.io", "Ada", "")
		elapsed := time.Since(start)

		assert.Error(t, err)
		assert.Less(t, elapsed, 2*time.Second)
	})

	t.Run("unreachable relay fails fast", func(t *testing.T) {
		cfg := &config.MailConfig{
			Host:        "127.0.0.1",
			Port:        1, // nothing listens here
			FromAddress: "noreply@st4cksup.io",
			SendTimeout: 200 * time.Millisecond,
		}
		mailer := NewSMTPMailer(cfg, zap.NewNop())

		err := mailer.SendInvite(context.Background(), "grace@st4cksup.io", "Ada", "")
		assert.Error(t, err)
	})
}
