package providers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/LumeraProtocol/web3go/pkg/logtrace"
	"github.com/cenkalti/backoff/v4"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/ratelimit"
)

const maxResponseSize = 32 << 20

// HTTPTransport posts each request to a JSON-RPC HTTP endpoint.
type HTTPTransport struct {
	endpoint string
	client   *http.Client
	headers  http.Header
	limiter  ratelimit.Limiter
	opts     *options
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport creates an HTTP transport for rawURL. No connection is made until the first Send.
func NewHTTPTransport(rawURL string, opts ...Option) (*HTTPTransport, error) {
	target, err := ParseDescriptor(rawURL)
	if err != nil {
		return nil, err
	}
	if target.Kind != KindHTTP {
		return nil, fmt.Errorf("%q is not an http(s) endpoint", rawURL)
	}

	o := newOptions(opts)
	client := o.httpClient
	if client == nil {
		client = &http.Client{Timeout: o.requestTimeout}
	}

	t := &HTTPTransport{
		endpoint: target.Address,
		client:   client,
		headers:  o.headers.Clone(),
		opts:     o,
	}
	if o.rateLimit > 0 {
		t.limiter = ratelimit.New(o.rateLimit)
	}
	return t, nil
}

// Endpoint returns the URL requests are posted to.
func (t *HTTPTransport) Endpoint() string {
	return t.endpoint
}

// Send posts req and decodes the response. Connection errors, 429 and 5xx replies are retried
// with exponential backoff up to the configured retry count.
func (t *HTTPTransport) Send(ctx context.Context, req *Request) (resp *Response, err error) {
	start := time.Now()
	defer func() { observe(t.opts.metrics, KindHTTP, req.Method, start, resp, err) }()

	body, err := codec.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	if t.opts.gzip {
		if body, err = gzipBytes(body); err != nil {
			return nil, err
		}
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	policy := backoff.WithContext(backoff.WithMaxRetries(b, t.opts.maxRetries), ctx)

	attempt := 0
	err = backoff.Retry(func() error {
		attempt++
		if t.limiter != nil {
			t.limiter.Take()
		}
		r, postErr := t.post(ctx, body)
		if postErr != nil {
			logtrace.Debug(ctx, "http request attempt failed", logtrace.Fields{
				logtrace.FieldModule:    logtrace.ValueTransport,
				logtrace.FieldTransport: KindHTTP,
				logtrace.FieldMethod:    req.Method,
				logtrace.FieldAttempt:   attempt,
				logtrace.FieldError:     postErr.Error(),
			})
			return postErr
		}
		resp = r
		return nil
	}, policy)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (t *HTTPTransport) post(ctx context.Context, body []byte) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("build http request: %w", err))
	}
	for k, vs := range t.headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if t.opts.gzip {
		httpReq.Header.Set("Content-Encoding", "gzip")
		httpReq.Header.Set("Accept-Encoding", "gzip")
	}

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, fmt.Errorf("post %s: %w", t.endpoint, err)
	}
	defer httpResp.Body.Close()

	var reader io.Reader = httpResp.Body
	if httpResp.Header.Get("Content-Encoding") == "gzip" {
		zr, err := gzip.NewReader(httpResp.Body)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("open gzip response: %w", err))
		}
		defer zr.Close()
		reader = zr
	}

	data, err := io.ReadAll(io.LimitReader(reader, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		statusErr := fmt.Errorf("http %d from %s: %s", httpResp.StatusCode, t.endpoint, bytes.TrimSpace(data))
		if httpResp.StatusCode == http.StatusTooManyRequests || httpResp.StatusCode >= 500 {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}

	var resp Response
	if err := codec.Unmarshal(data, &resp); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	return &resp, nil
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		_ = zw.Close()
		return nil, fmt.Errorf("gzip request: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip request: %w", err)
	}
	return buf.Bytes(), nil
}
