package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 10 * time.Second

// WebsocketTransport speaks JSON-RPC over a single WebSocket connection and supports subscriptions.
type WebsocketTransport struct {
	*streamTransport
	endpoint string
}

var _ SubscribableTransport = (*WebsocketTransport)(nil)

// NewWebsocketTransport creates a WebSocket transport for rawURL. The connection is opened on first use.
func NewWebsocketTransport(rawURL string, opts ...Option) (*WebsocketTransport, error) {
	target, err := ParseDescriptor(rawURL)
	if err != nil {
		return nil, err
	}
	if target.Kind != KindWebsocket {
		return nil, fmt.Errorf("%q is not a ws(s) endpoint", rawURL)
	}

	o := newOptions(opts)
	headers := o.headers.Clone()
	dialer := &websocket.Dialer{
		Proxy:            websocket.DefaultDialer.Proxy,
		HandshakeTimeout: defaultDialTimeout,
	}

	dial := func(ctx context.Context) (frameConn, error) {
		conn, resp, err := dialer.DialContext(ctx, target.Address, headers)
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		if err != nil {
			return nil, err
		}
		return &wsConn{conn: conn}, nil
	}

	return &WebsocketTransport{
		streamTransport: newStreamTransport(KindWebsocket, target.Address, o, dial),
		endpoint:        target.Address,
	}, nil
}

// Endpoint returns the WebSocket URL.
func (t *WebsocketTransport) Endpoint() string {
	return t.endpoint
}

type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) WriteFrame(ctx context.Context, data []byte) error {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(wsWriteTimeout)
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConn) ReadFrame() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	return data, err
}

func (c *wsConn) Close() error {
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return c.conn.Close()
}
