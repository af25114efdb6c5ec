package providers

import (
	"context"
	"time"

	"github.com/LumeraProtocol/web3go/pkg/observability"
)

func observe(m *observability.Metrics, kind Kind, method string, start time.Time, resp *Response, err error) {
	if m == nil {
		return
	}
	if err == nil && resp != nil && resp.Error != nil {
		err = resp.Error
	}
	status := "ok"
	if err != nil {
		status = "error"
		if _, ok := err.(*RPCError); ok {
			status = "rpc_error"
		}
	}
	m.RequestTotal.WithLabelValues(string(kind), status).Inc()
	m.RequestDuration.WithLabelValues(string(kind), method).Observe(time.Since(start).Seconds())
}

// withDefaultTimeout applies d when ctx carries no deadline of its own.
func withDefaultTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
