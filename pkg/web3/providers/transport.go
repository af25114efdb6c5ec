//go:generate go run go.uber.org/mock/mockgen -destination=transport_mock.go -package=providers -source=transport.go
package providers

import (
	"context"
	"errors"
	"net"
)

var (
	// ErrMissingTransport is returned when no transport descriptor was given.
	ErrMissingTransport = errors.New("no transport given")

	// ErrInvalidTransport is returned when a descriptor does not resolve to a usable transport.
	ErrInvalidTransport = errors.New("invalid transport")

	// ErrSubscriptionsNotSupported is returned when subscribing over a request/response only transport.
	ErrSubscriptionsNotSupported = errors.New("transport does not support subscriptions")

	// ErrTransportClosed is returned by a transport after Close.
	ErrTransportClosed = errors.New("transport closed")
)

// Transport carries JSON-RPC requests to a node.
type Transport interface {
	// Send issues req and blocks until the matching response arrives or ctx is done.
	Send(ctx context.Context, req *Request) (*Response, error)
}

// SubscribableTransport is a Transport that can hold live subscriptions.
type SubscribableTransport interface {
	Transport

	// Subscribe calls <namespace>_subscribe with params and returns the live subscription.
	Subscribe(ctx context.Context, namespace string, params ...interface{}) (*Subscription, error)

	// ClearSubscriptions drops every live subscription held by the transport.
	ClearSubscriptions() error
}

// Dialer opens the low-level connection used by socket based transports.
// *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Kind names a constructible transport implementation.
type Kind string

const (
	KindHTTP      Kind = "http"
	KindWebsocket Kind = "ws"
	KindIPC       Kind = "ipc"
	KindGRPC      Kind = "grpc"
)

// Kinds lists the transports Resolve can construct.
func Kinds() []Kind {
	return []Kind{KindHTTP, KindWebsocket, KindIPC, KindGRPC}
}

// KindOf names the kind of t for logs and metrics. Transports built outside this
// package report "custom".
func KindOf(t Transport) string {
	switch t.(type) {
	case nil:
		return "none"
	case *HTTPTransport:
		return string(KindHTTP)
	case *WebsocketTransport:
		return string(KindWebsocket)
	case *IPCTransport:
		return string(KindIPC)
	case *GRPCTransport:
		return string(KindGRPC)
	default:
		return "custom"
	}
}
