package printer

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

// ESC/POS command sequences understood by networked receipt printers.
var (
	cmdInit      = []byte{0x1B, 0x40}
	cmdAlignLeft = []byte{0x1B, 0x61, 0x00}
	cmdFeed      = []byte{0x1B, 0x64, 0x04}
	cmdCut       = []byte{0x1D, 0x56, 0x42, 0x00}
)

var errAddressRequired = errors.New("printer address is required")

// DialFunc opens the raw connection to the printer; swapped in tests.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Client streams print jobs to a networked ESC/POS receipt printer. One
// short-lived connection is opened per job and closed after the cut command.
type Client struct {
	addr    string
	timeout time.Duration
	dial    DialFunc
}

// Option configures optional client behavior.
type Option func(*Client)

// WithDialer overrides the TCP dialer.
func WithDialer(dial DialFunc) Option {
	return func(c *Client) {
		if dial != nil {
			c.dial = dial
		}
	}
}

// NewClient builds a printer client for the given host:port address.
func NewClient(addr string, timeout time.Duration, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		return nil, errAddressRequired
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	client := &Client{addr: trimmed, timeout: timeout}
	client.dial = func(ctx context.Context, network, address string) (net.Conn, error) {
		d := net.Dialer{Timeout: client.timeout}
		return d.DialContext(ctx, network, address)
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// Print sends the rendered receipt text followed by feed and cut commands.
func (c *Client) Print(ctx context.Context, text string) error {
	if c == nil {
		return errors.New("printer client not configured")
	}

	conn, err := c.dial(ctx, "tcp", c.addr)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(c.timeout))
	}

	payload := make([]byte, 0, len(text)+16)
	payload = append(payload, cmdInit...)
	payload = append(payload, cmdAlignLeft...)
	payload = append(payload, []byte(text)...)
	if !strings.HasSuffix(text, "\n") {
		payload = append(payload, '\n')
	}
	payload = append(payload, cmdFeed...)
	payload = append(payload, cmdCut...)

	_, err = conn.Write(payload)
	return err
}
