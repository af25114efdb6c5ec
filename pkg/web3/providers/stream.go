package providers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/LumeraProtocol/web3go/pkg/logtrace"
	"go.uber.org/multierr"
)

const unsubscribeTimeout = 2 * time.Second

// frameConn is one JSON message per frame, in both directions.
type frameConn interface {
	WriteFrame(ctx context.Context, data []byte) error
	ReadFrame() ([]byte, error)
	Close() error
}

type pendingCall struct {
	ch        chan *Response
	namespace string // set for <namespace>_subscribe calls
	abandoned bool   // caller gave up; a late subscription is cancelled on arrival
}

// streamTransport multiplexes requests and subscription notifications over one
// persistent connection. The connection is dialled on first use and redialled
// after a failure; subscriptions do not survive a redial.
type streamTransport struct {
	kind   Kind
	target string
	dial   func(ctx context.Context) (frameConn, error)
	opts   *options

	writeMu sync.Mutex

	mu      sync.Mutex
	conn    frameConn
	pending map[uint64]*pendingCall
	subs    map[string]*Subscription
	closed  bool
}

func newStreamTransport(kind Kind, target string, o *options, dial func(ctx context.Context) (frameConn, error)) *streamTransport {
	return &streamTransport{
		kind:    kind,
		target:  target,
		dial:    dial,
		opts:    o,
		pending: make(map[uint64]*pendingCall),
		subs:    make(map[string]*Subscription),
	}
}

// connection returns the live connection, dialling one if needed. The dial runs
// without s.mu held; when two callers race, the first stored connection wins.
func (s *streamTransport) connection(ctx context.Context) (frameConn, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrTransportClosed
	}
	if conn := s.conn; conn != nil {
		s.mu.Unlock()
		return conn, nil
	}
	s.mu.Unlock()

	conn, err := s.dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("dial %s %s: %w", s.kind, s.target, err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = conn.Close()
		return nil, ErrTransportClosed
	}
	if winner := s.conn; winner != nil {
		s.mu.Unlock()
		_ = conn.Close()
		return winner, nil
	}
	s.conn = conn
	s.mu.Unlock()
	go s.readLoop(conn)

	logtrace.Debug(ctx, "stream transport connected", logtrace.Fields{
		logtrace.FieldModule:    logtrace.ValueTransport,
		logtrace.FieldTransport: s.kind,
		logtrace.FieldTarget:    s.target,
	})
	return conn, nil
}

// Send writes req and waits for the response with the same id.
func (s *streamTransport) Send(ctx context.Context, req *Request) (resp *Response, err error) {
	start := time.Now()
	defer func() { observe(s.opts.metrics, s.kind, req.Method, start, resp, err) }()
	return s.call(ctx, req, "")
}

func (s *streamTransport) call(ctx context.Context, req *Request, namespace string) (*Response, error) {
	ctx, cancel := withDefaultTimeout(ctx, s.opts.requestTimeout)
	defer cancel()

	conn, err := s.connection(ctx)
	if err != nil {
		return nil, err
	}

	data, err := codec.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	pc := &pendingCall{ch: make(chan *Response, 1), namespace: namespace}
	s.mu.Lock()
	s.pending[req.ID] = pc
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		if !pc.abandoned {
			delete(s.pending, req.ID)
		}
		s.mu.Unlock()
	}()

	s.writeMu.Lock()
	err = conn.WriteFrame(ctx, data)
	s.writeMu.Unlock()
	if err != nil {
		s.fail(conn, err)
		return nil, fmt.Errorf("write %s: %w", req.Method, err)
	}

	select {
	case resp, ok := <-pc.ch:
		if !ok || resp == nil {
			return nil, fmt.Errorf("%s connection lost while waiting for %s", s.kind, req.Method)
		}
		return resp, nil
	case <-ctx.Done():
		s.abandon(pc)
		return nil, ctx.Err()
	}
}

// abandon settles a subscribe call whose caller stopped waiting. A subscription the
// node already granted is dropped and cancelled; one granted later is cancelled by
// dispatch when the reply arrives.
func (s *streamTransport) abandon(pc *pendingCall) {
	if pc.namespace == "" {
		return
	}

	s.mu.Lock()
	var granted *Subscription
	select {
	case resp := <-pc.ch:
		if resp != nil && resp.Error == nil {
			if sub, ok := s.subs[subscriptionID(resp)]; ok {
				delete(s.subs, sub.id)
				sub.close(nil)
				s.trackSubscriptions(-1)
				granted = sub
			}
		}
	default:
		pc.abandoned = true
	}
	s.mu.Unlock()

	if granted != nil {
		s.unsubscribeRemoteAsync([]*Subscription{granted})
	}
}

// Subscribe opens <namespace>_subscribe. The subscription is registered by the read
// loop before the response is handed back, so no early notification is lost.
func (s *streamTransport) Subscribe(ctx context.Context, namespace string, params ...interface{}) (*Subscription, error) {
	req, err := NewRequest(namespace+"_subscribe", params...)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := s.call(ctx, req, namespace)
	observe(s.opts.metrics, s.kind, req.Method, start, resp, err)
	if err != nil {
		return nil, err
	}

	var id string
	if err := resp.Decode(&id); err != nil {
		return nil, fmt.Errorf("%s: %w", req.Method, err)
	}

	s.mu.Lock()
	sub, ok := s.subs[id]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("subscription %s ended before it was returned", id)
	}
	return sub, nil
}

// ClearSubscriptions closes every live subscription and returns without waiting on the
// node. The matching <namespace>_unsubscribe calls run in the background and their
// failures are only logged, so the returned error is always nil.
func (s *streamTransport) ClearSubscriptions() error {
	s.mu.Lock()
	subs := make([]*Subscription, 0, len(s.subs))
	for id, sub := range s.subs {
		subs = append(subs, sub)
		delete(s.subs, id)
		sub.close(nil)
	}
	s.trackSubscriptions(-len(subs))
	s.mu.Unlock()

	s.unsubscribeRemoteAsync(subs)
	return nil
}

// unsubscribeRemoteAsync cancels subs on the node in the background, one call per
// subscription so a silent node costs one timeout in total.
func (s *streamTransport) unsubscribeRemoteAsync(subs []*Subscription) {
	if len(subs) == 0 {
		return
	}
	go func() {
		results := make([]error, len(subs))
		var wg sync.WaitGroup
		for i, sub := range subs {
			i, sub := i, sub
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = s.unsubscribeRemote(sub)
			}()
		}
		wg.Wait()

		errs := multierr.Combine(results...)
		if errs == nil {
			return
		}
		logtrace.Warn(context.Background(), "remote unsubscribe failed", logtrace.Fields{
			logtrace.FieldModule:    logtrace.ValueTransport,
			logtrace.FieldTransport: s.kind,
			logtrace.FieldTarget:    s.target,
			logtrace.FieldError:     errs.Error(),
			"failed":                len(multierr.Errors(errs)),
		})
	}()
}

func (s *streamTransport) unsubscribe(sub *Subscription) error {
	s.mu.Lock()
	_, live := s.subs[sub.id]
	if live {
		delete(s.subs, sub.id)
		s.trackSubscriptions(-1)
	}
	sub.close(nil)
	s.mu.Unlock()

	if !live {
		return nil
	}
	return s.unsubscribeRemote(sub)
}

func (s *streamTransport) unsubscribeRemote(sub *Subscription) error {
	s.mu.Lock()
	connected := s.conn != nil && !s.closed
	s.mu.Unlock()
	if !connected {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), unsubscribeTimeout)
	defer cancel()

	req, err := NewRequest(sub.namespace+"_unsubscribe", sub.id)
	if err != nil {
		return err
	}
	resp, err := s.call(ctx, req, "")
	if err != nil {
		return fmt.Errorf("unsubscribe %s: %w", sub.id, err)
	}
	if err := resp.Decode(nil); err != nil {
		return fmt.Errorf("unsubscribe %s: %w", sub.id, err)
	}
	return nil
}

// Close tears down the connection. Pending calls fail and subscriptions end with ErrTransportClosed.
func (s *streamTransport) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	conn := s.conn
	s.conn = nil
	s.dropLocked(ErrTransportClosed)
	s.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (s *streamTransport) readLoop(conn frameConn) {
	for {
		data, err := conn.ReadFrame()
		if err != nil {
			s.fail(conn, err)
			return
		}
		s.dispatch(data)
	}
}

func (s *streamTransport) dispatch(data []byte) {
	var msg inbound
	if err := codec.Unmarshal(data, &msg); err != nil {
		logtrace.Warn(context.Background(), "dropping undecodable frame", logtrace.Fields{
			logtrace.FieldModule:    logtrace.ValueTransport,
			logtrace.FieldTransport: s.kind,
			logtrace.FieldError:     err.Error(),
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.isNotification() {
		var n notification
		if err := codec.Unmarshal(msg.Params, &n); err != nil {
			return
		}
		sub, ok := s.subs[n.Subscription]
		if !ok {
			return
		}
		if !sub.deliver(n.Result) {
			delete(s.subs, sub.id)
			sub.close(ErrSubscriptionQueueOverflow)
			s.trackSubscriptions(-1)
		}
		return
	}

	if msg.ID == nil {
		return
	}
	pc, ok := s.pending[*msg.ID]
	if !ok {
		return
	}
	delete(s.pending, *msg.ID)

	resp := msg.response()
	if pc.namespace != "" && resp.Error == nil {
		if id := subscriptionID(resp); id != "" {
			sub := newSubscription(id, pc.namespace, s.unsubscribe)
			if pc.abandoned {
				sub.close(nil)
				s.unsubscribeRemoteAsync([]*Subscription{sub})
				return
			}
			s.subs[id] = sub
			s.trackSubscriptions(1)
		}
	}
	pc.ch <- resp
}

func subscriptionID(resp *Response) string {
	var id string
	if err := codec.Unmarshal(resp.Result, &id); err != nil {
		return ""
	}
	return id
}

// fail drops conn after a read or write error so the next call redials.
func (s *streamTransport) fail(conn frameConn, err error) {
	s.mu.Lock()
	if s.conn != conn {
		s.mu.Unlock()
		return
	}
	s.conn = nil
	s.dropLocked(fmt.Errorf("%s connection lost: %w", s.kind, err))
	s.mu.Unlock()

	_ = conn.Close()
	logtrace.Warn(context.Background(), "stream transport connection lost", logtrace.Fields{
		logtrace.FieldModule:    logtrace.ValueTransport,
		logtrace.FieldTransport: s.kind,
		logtrace.FieldTarget:    s.target,
		logtrace.FieldError:     err.Error(),
	})
}

func (s *streamTransport) dropLocked(reason error) {
	for id, pc := range s.pending {
		close(pc.ch)
		delete(s.pending, id)
	}
	s.trackSubscriptions(-len(s.subs))
	for id, sub := range s.subs {
		sub.close(reason)
		delete(s.subs, id)
	}
}

func (s *streamTransport) trackSubscriptions(delta int) {
	if s.opts.metrics == nil || delta == 0 {
		return
	}
	s.opts.metrics.ActiveSubscriptions.WithLabelValues(string(s.kind)).Add(float64(delta))
}
