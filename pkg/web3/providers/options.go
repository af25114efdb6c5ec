package providers

import (
	"net/http"
	"time"

	"github.com/LumeraProtocol/web3go/pkg/observability"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultDialTimeout    = 10 * time.Second
)

type options struct {
	httpClient     *http.Client
	headers        http.Header
	maxRetries     uint64
	rateLimit      int
	gzip           bool
	dialer         Dialer
	requestTimeout time.Duration
	metrics        *observability.Metrics
}

// Option configures a transport. Options that do not apply to a kind are ignored.
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{
		headers:        http.Header{},
		requestTimeout: defaultRequestTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.dialer == nil {
		o.dialer = defaultIPCDialer()
	}
	if o.metrics == nil {
		o.metrics = observability.Default()
	}
	return o
}

// WithHTTPClient sets the client used by the HTTP transport.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithHeader adds a header sent with every HTTP request and on the WebSocket handshake.
func WithHeader(key, value string) Option {
	return func(o *options) { o.headers.Add(key, value) }
}

// WithMaxRetries sets how many times the HTTP transport retries a transient failure.
func WithMaxRetries(n uint64) Option {
	return func(o *options) { o.maxRetries = n }
}

// WithRateLimit caps HTTP requests per second. Zero disables the limiter.
func WithRateLimit(perSecond int) Option {
	return func(o *options) { o.rateLimit = perSecond }
}

// WithGzip compresses HTTP request bodies and asks for compressed responses.
func WithGzip() Option {
	return func(o *options) { o.gzip = true }
}

// WithDialer sets the dialer used for IPC sockets.
func WithDialer(d Dialer) Option {
	return func(o *options) {
		if d != nil {
			o.dialer = d
		}
	}
}

// WithRequestTimeout bounds a single request when the caller's ctx has no deadline.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.requestTimeout = d
		}
	}
}

// WithMetrics records transport metrics on m instead of the process default.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}
