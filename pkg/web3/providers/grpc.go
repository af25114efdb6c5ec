package providers

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// grpcCallMethod carries one raw JSON-RPC envelope per unary call.
	grpcCallMethod         = "/web3.rpc.JSONRPC/Call"
	connectionReadyTimeout = 10 * time.Second
)

// GRPCTransport tunnels JSON-RPC envelopes through a unary gRPC method. It does not support subscriptions.
type GRPCTransport struct {
	conn    *grpc.ClientConn
	address string
	opts    *options
}

var _ Transport = (*GRPCTransport)(nil)

// NewGRPCTransport creates a gRPC transport. It chooses TLS when the descriptor implies
// grpcs or port 443; otherwise it uses insecure (h2c) credentials. The connection is not
// established until the first call.
func NewGRPCTransport(rawAddr string, opts ...Option) (*GRPCTransport, error) {
	target, err := ParseDescriptor(rawAddr)
	if err != nil {
		return nil, err
	}
	if target.Kind != KindGRPC {
		return nil, fmt.Errorf("%q is not a grpc(s) endpoint", rawAddr)
	}

	var creds credentials.TransportCredentials
	if target.TLS {
		creds = credentials.NewClientTLSFromCert(nil, target.ServerName)
	} else {
		creds = insecure.NewCredentials()
	}

	conn, err := createGRPCConnection(target.Address, creds)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC client for %s: %w", target.Address, err)
	}

	return &GRPCTransport{conn: conn, address: target.Address, opts: newOptions(opts)}, nil
}

// createGRPCConnection creates a gRPC client with a retry policy for transient failures.
func createGRPCConnection(hostPort string, creds credentials.TransportCredentials) (*grpc.ClientConn, error) {
	const serviceConfig = `{
        "methodConfig": [{
            "name": [{"service": ""}],
            "retryPolicy": {
                "MaxAttempts": 3,
                "InitialBackoff": "0.1s",
                "MaxBackoff": "1s",
                "BackoffMultiplier": 2.0,
                "RetryableStatusCodes": ["UNAVAILABLE", "DEADLINE_EXCEEDED"]
            }
        }]
    }`

	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithDefaultServiceConfig(serviceConfig),
	}
	// NewClient does not block; WaitReady is available for callers that want to.
	return grpc.NewClient(hostPort, opts...)
}

// Address returns the host:port being dialled.
func (t *GRPCTransport) Address() string {
	return t.address
}

// Send marshals req, invokes the tunnel method and decodes the reply.
func (t *GRPCTransport) Send(ctx context.Context, req *Request) (resp *Response, err error) {
	start := time.Now()
	defer func() { observe(t.opts.metrics, KindGRPC, req.Method, start, resp, err) }()

	ctx, cancel := withDefaultTimeout(ctx, t.opts.requestTimeout)
	defer cancel()

	body, err := codec.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	out := &wrapperspb.BytesValue{}
	if err := t.conn.Invoke(ctx, grpcCallMethod, wrapperspb.Bytes(body), out); err != nil {
		return nil, fmt.Errorf("grpc %s: %w", req.Method, err)
	}

	var decoded Response
	if err := codec.Unmarshal(out.GetValue(), &decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &decoded, nil
}

// WaitReady blocks until the connection is READY or the timeout expires.
func (t *GRPCTransport) WaitReady(ctx context.Context) error {
	t.conn.Connect()
	readyCtx, cancel := context.WithTimeout(ctx, connectionReadyTimeout)
	defer cancel()
	for {
		state := t.conn.GetState()
		if state == connectivity.Ready {
			return nil
		}
		if !t.conn.WaitForStateChange(readyCtx, state) {
			if readyCtx.Err() != nil {
				return fmt.Errorf("timeout waiting (%s) for gRPC node at %s", connectionReadyTimeout, t.address)
			}
			return fmt.Errorf("failed waiting for gRPC node at %s", t.address)
		}
	}
}

// Close closes the gRPC connection.
func (t *GRPCTransport) Close() error {
	if t.conn != nil {
		return t.conn.Close()
	}
	return nil
}
