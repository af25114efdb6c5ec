package base

import (
	"context"
	"fmt"
	"sync"

	"github.com/LumeraProtocol/web3go/pkg/logtrace"
	"github.com/LumeraProtocol/web3go/pkg/net"
	"github.com/LumeraProtocol/web3go/pkg/web3/providers"
)

// Binding is the rebinding surface every module exposes to the facade.
type Binding interface {
	// Transport returns the currently bound transport.
	Transport() providers.Transport
	// SetTransport rebinds the module. Subsequent requests use t.
	SetTransport(t providers.Transport)
}

var _ Binding = (*Client)(nil)

// Client is the transport binding shared by every protocol module. A module issues all of
// its requests through Call/Subscribe so a rebind takes effect for the very next request.
type Client struct {
	module string

	mu         sync.RWMutex
	transport  providers.Transport
	generation uint64
}

// New binds module to t.
func New(module string, t providers.Transport) (*Client, error) {
	if t == nil {
		return nil, fmt.Errorf("transport cannot be nil")
	}
	return &Client{module: module, transport: t}, nil
}

// SetTransport replaces the bound transport and bumps the generation. It does not migrate
// subscriptions opened on the previous transport. A nil transport is ignored.
func (c *Client) SetTransport(t providers.Transport) {
	if t == nil {
		return
	}
	c.mu.Lock()
	c.transport = t
	c.generation++
	c.mu.Unlock()
}

// Transport returns the currently bound transport.
func (c *Client) Transport() providers.Transport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.transport
}

// Generation counts rebinds. Caches keyed on it never outlive a transport swap.
func (c *Client) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// Module returns the module name used in logs.
func (c *Client) Module() string {
	return c.module
}

// Call sends method with params over the bound transport and decodes the result into result.
// A nil result only checks for an error reply.
func (c *Client) Call(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	ctx = net.AddCorrelationID(ctx)

	req, err := providers.NewRequest(method, params...)
	if err != nil {
		return err
	}

	fields := logtrace.Fields{
		logtrace.FieldModule:    c.module,
		logtrace.FieldMethod:    method,
		logtrace.FieldRequestID: req.ID,
	}
	logtrace.Debug(ctx, "sending request", fields)

	resp, err := c.Transport().Send(ctx, req)
	if err != nil {
		logtrace.Debug(ctx, "request failed", logtrace.WithFields(fields, logtrace.Fields{logtrace.FieldError: err.Error()}))
		return fmt.Errorf("%s: %w", method, err)
	}
	if err := resp.Decode(result); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

// Subscribe opens a subscription in namespace. It fails with ErrSubscriptionsNotSupported
// when the bound transport cannot hold subscriptions.
func (c *Client) Subscribe(ctx context.Context, namespace string, params ...interface{}) (*providers.Subscription, error) {
	ctx = net.AddCorrelationID(ctx)

	st, ok := c.Transport().(providers.SubscribableTransport)
	if !ok {
		return nil, fmt.Errorf("%s_subscribe: %w", namespace, providers.ErrSubscriptionsNotSupported)
	}

	sub, err := st.Subscribe(ctx, namespace, params...)
	if err != nil {
		return nil, fmt.Errorf("%s_subscribe: %w", namespace, err)
	}
	logtrace.Debug(ctx, "subscription opened", logtrace.Fields{
		logtrace.FieldModule:       c.module,
		logtrace.FieldSubscription: sub.ID(),
	})
	return sub, nil
}
