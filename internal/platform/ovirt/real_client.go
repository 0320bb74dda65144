package ovirt

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	ovirtsdk4 "github.com/ovirt/go-ovirt"

	"github.com/imamik/vmpool/internal/config"
	"github.com/imamik/vmpool/internal/util/retry"
)

// RealClient implements Client using the oVirt engine API.
type RealClient struct {
	conn     *ovirtsdk4.Connection
	timeouts *config.Timeouts
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *RealClient) {
		c.timeouts = t
	}
}

// Connect opens an authenticated connection to the engine and verifies it
// with a test request.
func Connect(ctx context.Context, auth *config.AuthConfig, opts ...ClientOption) (*RealClient, error) {
	c := &RealClient{
		timeouts: config.LoadTimeouts(),
	}
	for _, opt := range opts {
		opt(c)
	}

	builder := ovirtsdk4.NewConnectionBuilder().
		URL(auth.URL).
		Username(auth.Username).
		Password(auth.Password).
		Insecure(auth.Insecure).
		Timeout(c.timeouts.Request)
	if auth.CAFile != "" {
		builder = builder.CAFile(auth.CAFile)
	}

	conn, err := builder.Build()
	if err != nil {
		return nil, wrap("connect", fmt.Errorf("failed to build connection: %w", err))
	}
	c.conn = conn

	if err := c.read(ctx, "connect", conn.Test); err != nil {
		_ = conn.CloseIfRevokeSSOToken(false)
		return nil, err
	}

	logr.FromContextOrDiscard(ctx).V(1).Info("connected to engine", "url", auth.URL, "user", auth.Username)
	return c, nil
}

// Close releases the connection. With logout the SSO token is revoked.
func (c *RealClient) Close(logout bool) error {
	if c.conn == nil {
		return nil
	}
	return wrap("close", c.conn.CloseIfRevokeSSOToken(logout))
}

// read runs an idempotent engine call with exponential backoff.
func (c *RealClient) read(ctx context.Context, op string, fn func() error) error {
	logger := logr.FromContextOrDiscard(ctx)

	err := retry.WithExponentialBackoff(ctx, func() error {
		if err := ctx.Err(); err != nil {
			return retry.Fatal(err)
		}
		err := fn()
		if err != nil && !isRetryable(err) {
			return retry.Fatal(err)
		}
		return err
	},
		retry.WithMaxRetries(c.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(c.timeouts.RetryInitialDelay),
		retry.WithOnRetry(func(attempt int, err error) {
			logger.V(1).Info("retrying engine read", "op", op, "attempt", attempt, "error", err.Error())
		}),
	)
	return wrap(op, err)
}

// write runs a mutating engine call exactly once.
func (c *RealClient) write(ctx context.Context, op string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return wrap(op, err)
	}
	return wrap(op, fn())
}
