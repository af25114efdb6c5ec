package web3

import (
	"context"
	"sync"

	"github.com/LumeraProtocol/web3go/pkg/errors"
	"github.com/LumeraProtocol/web3go/pkg/logtrace"
	"github.com/LumeraProtocol/web3go/pkg/observability"
	"github.com/LumeraProtocol/web3go/pkg/web3/base"
	"github.com/LumeraProtocol/web3go/pkg/web3/providers"
)

// Rebindable is a module the registry keeps on the current transport.
type Rebindable = base.Binding

// registry owns the current transport and the ordered set of modules bound to it.
type registry struct {
	swapMu sync.Mutex // serialises SetTransport

	mu      sync.RWMutex
	current providers.Transport

	bindings []Rebindable
	resolve  func(descriptor interface{}) (providers.Transport, error)
	hook     TransportChangedHook
	metrics  *observability.Metrics
}

func newRegistry(t providers.Transport, bindings []Rebindable, o *options) *registry {
	opts := o.resolveOpts()
	return &registry{
		current:  t,
		bindings: bindings,
		resolve: func(d interface{}) (providers.Transport, error) {
			return resolveTransport(d, nil, opts...)
		},
		hook:    o.hook,
		metrics: o.metrics,
	}
}

func (r *registry) get() providers.Transport {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// set swaps to the transport descriptor resolves to. Resolution runs first, so a descriptor
// that does not resolve leaves the current transport and its subscriptions untouched.
// The hook runs before swapMu is released, so hooks observe swaps in order.
func (r *registry) set(descriptor interface{}) error {
	r.swapMu.Lock()
	defer r.swapMu.Unlock()

	next, err := r.resolve(descriptor)
	if err != nil {
		return err
	}

	old := r.get()
	r.clearSubscriptions(old)

	r.mu.Lock()
	r.current = next
	for _, b := range r.bindings {
		b.SetTransport(next)
	}
	r.mu.Unlock()

	r.metrics.TransportSwaps.Inc()
	logtrace.Info(context.Background(), "transport changed", logtrace.Fields{
		logtrace.FieldModule:    logtrace.ValueFacade,
		logtrace.FieldTransport: providers.KindOf(next),
	})

	if r.hook != nil {
		r.hook(old, next)
	}
	return nil
}

// clearSubscriptions is best effort. A failure is reported to logs and metrics and never
// stops the swap.
func (r *registry) clearSubscriptions(t providers.Transport) {
	st, ok := t.(providers.SubscribableTransport)
	if !ok {
		return
	}

	err := func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = errors.Errorf("clear subscriptions panicked: %v", p)
			}
		}()
		return st.ClearSubscriptions()
	}()
	if err == nil {
		return
	}

	err = errors.Wrap(err)
	kind := providers.KindOf(t)
	r.metrics.CleanupFailures.WithLabelValues(kind).Inc()
	logtrace.Warn(context.Background(), "clearing subscriptions on outgoing transport failed", logtrace.Fields{
		logtrace.FieldModule:     logtrace.ValueFacade,
		logtrace.FieldTransport:  kind,
		logtrace.FieldError:      err.Error(),
		logtrace.FieldStackTrace: errors.ErrorStack(err),
	})
}
