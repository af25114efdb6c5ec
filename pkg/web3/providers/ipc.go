package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// IPCTransport speaks JSON-RPC over a local unix socket and supports subscriptions.
type IPCTransport struct {
	*streamTransport
	path string
}

var _ SubscribableTransport = (*IPCTransport)(nil)

// NewIPCTransport creates a transport for the socket at path. The socket is dialled on first use
// through the configured Dialer.
func NewIPCTransport(path string, opts ...Option) (*IPCTransport, error) {
	target, err := ParseDescriptor(path)
	if err != nil {
		return nil, err
	}
	if target.Kind != KindIPC {
		return nil, fmt.Errorf("%q is not a socket path", path)
	}

	o := newOptions(opts)
	dialer := o.dialer
	dial := func(ctx context.Context) (frameConn, error) {
		conn, err := dialer.DialContext(ctx, "unix", target.Address)
		if err != nil {
			return nil, err
		}
		return newIPCConn(conn), nil
	}

	return &IPCTransport{
		streamTransport: newStreamTransport(KindIPC, target.Address, o, dial),
		path:            target.Address,
	}, nil
}

// Path returns the socket path.
func (t *IPCTransport) Path() string {
	return t.path
}

// ipcConn frames a byte stream by decoding consecutive JSON values.
type ipcConn struct {
	conn net.Conn
	dec  *jsoniter.Decoder
}

func newIPCConn(conn net.Conn) *ipcConn {
	return &ipcConn{conn: conn, dec: codec.NewDecoder(conn)}
}

func (c *ipcConn) WriteFrame(ctx context.Context, data []byte) error {
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
	} else {
		_ = c.conn.SetWriteDeadline(time.Time{})
	}
	_, err := c.conn.Write(data)
	return err
}

func (c *ipcConn) ReadFrame() ([]byte, error) {
	var raw json.RawMessage
	if err := c.dec.Decode(&raw); err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return raw, nil
}

func (c *ipcConn) Close() error {
	return c.conn.Close()
}
