package providers

import (
	"encoding/json"
	"errors"
	"sync"
)

const (
	subscriptionSuffix     = "_subscription"
	subscriptionBufferSize = 128
)

// ErrSubscriptionQueueOverflow is delivered on Err when a consumer falls too far behind.
var ErrSubscriptionQueueOverflow = errors.New("subscription queue overflow")

// Subscription is a live server-side subscription held by a streaming transport.
type Subscription struct {
	id        string
	namespace string
	ch        chan json.RawMessage
	errCh     chan error
	once      sync.Once
	unsub     func(*Subscription) error
}

func newSubscription(id, namespace string, unsub func(*Subscription) error) *Subscription {
	return &Subscription{
		id:        id,
		namespace: namespace,
		ch:        make(chan json.RawMessage, subscriptionBufferSize),
		errCh:     make(chan error, 1),
		unsub:     unsub,
	}
}

// ID returns the node-assigned subscription id.
func (s *Subscription) ID() string { return s.id }

// Namespace returns the RPC namespace the subscription was opened in, e.g. "eth".
func (s *Subscription) Namespace() string { return s.namespace }

// Notifications delivers each pushed result. It is closed when the subscription ends.
func (s *Subscription) Notifications() <-chan json.RawMessage { return s.ch }

// Err delivers at most one error explaining why the subscription ended. It is closed afterwards.
func (s *Subscription) Err() <-chan error { return s.errCh }

// Unsubscribe cancels the subscription on the node and closes the local channels.
func (s *Subscription) Unsubscribe() error {
	if s.unsub == nil {
		s.close(nil)
		return nil
	}
	return s.unsub(s)
}

// deliver must only be called from the transport's read loop.
func (s *Subscription) deliver(msg json.RawMessage) bool {
	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}

func (s *Subscription) close(err error) {
	s.once.Do(func() {
		if err != nil {
			s.errCh <- err
		}
		close(s.errCh)
		close(s.ch)
	})
}
