package printer

import (
	"bytes"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresAddress(t *testing.T) {
	_, err := NewClient(" ", time.Second)
	require.Error(t, err)
}

func TestPrintWritesInitTextAndCut(t *testing.T) {
	conn := &fakeConn{}
	client, err := NewClient("printer.local:9100", time.Second, WithDialer(func(ctx context.Context, network, address string) (net.Conn, error) {
		assert.Equal(t, "tcp", network)
		assert.Equal(t, "printer.local:9100", address)
		return conn, nil
	}))
	require.NoError(t, err)

	require.NoError(t, client.Print(context.Background(), "KITCHEN RECEIPT\nReceipt #: 101"))

	written := conn.buf.Bytes()
	assert.True(t, bytes.HasPrefix(written, cmdInit))
	assert.Contains(t, string(written), "Receipt #: 101")
	assert.True(t, bytes.HasSuffix(written, cmdCut))
	assert.True(t, conn.closed)
}

func TestPrintPropagatesDialFailure(t *testing.T) {
	client, err := NewClient("printer.local:9100", time.Second, WithDialer(func(ctx context.Context, network, address string) (net.Conn, error) {
		return nil, errors.New("printer offline")
	}))
	require.NoError(t, err)

	err = client.Print(context.Background(), "hello")
	require.Error(t, err)
}

type fakeConn struct {
	buf    bytes.Buffer
	closed bool
}

func (f *fakeConn) Read(b []byte) (int, error)  { return 0, nil }
func (f *fakeConn) Write(b []byte) (int, error) { return f.buf.Write(b) }
func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}
func (f *fakeConn) LocalAddr() net.Addr                { return nil }
func (f *fakeConn) RemoteAddr() net.Addr               { return nil }
func (f *fakeConn) SetDeadline(t time.Time) error      { return nil }
func (f *fakeConn) SetReadDeadline(t time.Time) error  { return nil }
func (f *fakeConn) SetWriteDeadline(t time.Time) error { return nil }
