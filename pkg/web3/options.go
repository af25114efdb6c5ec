package web3

import (
	"github.com/LumeraProtocol/web3go/pkg/observability"
	"github.com/LumeraProtocol/web3go/pkg/web3/providers"
)

// TransportChangedHook runs after a swap has rebound every module. Subscriptions opened on
// old are gone at that point; the hook is where callers open them again on current.
// Hooks run one at a time in swap order, before SetTransport returns, and must not call
// SetTransport themselves.
type TransportChangedHook func(old, current providers.Transport)

type options struct {
	hint          providers.Dialer
	hook          TransportChangedHook
	metrics       *observability.Metrics
	transportOpts []providers.Option
}

// Option configures a Web3 facade.
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.metrics == nil {
		o.metrics = observability.Default()
	}
	return o
}

// WithDialer passes the low-level dialer used when the construction descriptor names an IPC
// socket. It is not used by SetTransport.
func WithDialer(d providers.Dialer) Option {
	return func(o *options) { o.hint = d }
}

// WithTransportChangedHook registers fn to run after every completed swap.
func WithTransportChangedHook(fn TransportChangedHook) Option {
	return func(o *options) { o.hook = fn }
}

// WithMetrics records swaps, cleanup failures and transport requests on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTransportOptions configures transports the facade constructs from string descriptors.
func WithTransportOptions(opts ...providers.Option) Option {
	return func(o *options) { o.transportOpts = append(o.transportOpts, opts...) }
}

// resolveOpts are the options handed to the resolver. Metrics go last so the facade's
// instance wins.
func (o *options) resolveOpts() []providers.Option {
	out := make([]providers.Option, 0, len(o.transportOpts)+1)
	out = append(out, o.transportOpts...)
	return append(out, providers.WithMetrics(o.metrics))
}
