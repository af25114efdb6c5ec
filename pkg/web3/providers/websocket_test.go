package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWSNode(t *testing.T) (*fakeNode, string) {
	t.Helper()
	node := &fakeNode{}
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := node.handle(data, func(out []byte) error {
				return conn.WriteMessage(websocket.TextMessage, out)
			}); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	return node, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWebsocketTransportSendAndSubscribe(t *testing.T) {
	node, url := newWSNode(t)

	tr, err := NewWebsocketTransport(url)
	require.NoError(t, err)
	defer tr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := NewRequest("eth_blockNumber")
	resp, err := tr.Send(ctx, req)
	require.NoError(t, err)
	var head string
	require.NoError(t, resp.Decode(&head))
	assert.Equal(t, "0x2a", head)

	sub, err := tr.Subscribe(ctx, "eth", "newHeads")
	require.NoError(t, err)
	assert.Equal(t, "eth", sub.Namespace())

	select {
	case msg := <-sub.Notifications():
		assert.JSONEq(t, `{"number":"0x1"}`, string(msg))
	case <-ctx.Done():
		t.Fatal("no notification received")
	}

	require.NoError(t, tr.ClearSubscriptions())
	_, open := <-sub.Notifications()
	assert.False(t, open)
	assert.Eventually(t, func() bool {
		ids := node.unsubscribedIDs()
		return len(ids) == 1 && ids[0] == sub.ID()
	}, 2*time.Second, 10*time.Millisecond)
}

func TestClearSubscriptionsDoesNotWaitForTheNode(t *testing.T) {
	node, url := newWSNode(t)
	node.mu.Lock()
	node.muteUnsubscribe = true
	node.mu.Unlock()

	tr, err := NewWebsocketTransport(url)
	require.NoError(t, err)
	defer tr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	subs := make([]*Subscription, 3)
	for i := range subs {
		subs[i], err = tr.Subscribe(ctx, "eth", "newHeads")
		require.NoError(t, err)
	}

	start := time.Now()
	require.NoError(t, tr.ClearSubscriptions())
	assert.Less(t, time.Since(start), unsubscribeTimeout/4)

	for _, sub := range subs {
		_, open := <-sub.Err()
		assert.False(t, open)
	}
	assert.Eventually(t, func() bool {
		return len(node.unsubscribedIDs()) == len(subs)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSubscribeAbandonedByCallerIsCancelled(t *testing.T) {
	node, url := newWSNode(t)
	node.mu.Lock()
	node.subscribeDelay = 200 * time.Millisecond
	node.mu.Unlock()

	tr, err := NewWebsocketTransport(url)
	require.NoError(t, err)
	defer tr.Close()

	// Dial first so the short deadline only covers the subscribe round trip.
	req, _ := NewRequest("eth_blockNumber")
	_, err = tr.Send(context.Background(), req)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = tr.Subscribe(ctx, "eth", "newHeads")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// The late grant is cancelled on the node and never tracked locally.
	assert.Eventually(t, func() bool {
		tr.mu.Lock()
		defer tr.mu.Unlock()
		return len(node.unsubscribedIDs()) == 1 && len(tr.subs) == 0 && len(tr.pending) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCloseIsNotHeldUpByADial(t *testing.T) {
	release := make(chan struct{})
	dialing := make(chan struct{})
	st := newStreamTransport(KindWebsocket, "ws://stalled", newOptions(nil), func(ctx context.Context) (frameConn, error) {
		close(dialing)
		<-release
		return nil, errors.New("unreachable")
	})

	done := make(chan error, 1)
	go func() {
		req, _ := NewRequest("eth_blockNumber")
		_, err := st.Send(context.Background(), req)
		done <- err
	}()
	<-dialing

	closed := make(chan struct{})
	go func() {
		_ = st.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close waited on an in-flight dial")
	}

	close(release)
	assert.Error(t, <-done)
}

func TestDialRacingCloseDiscardsTheConnection(t *testing.T) {
	release := make(chan struct{})
	dialing := make(chan struct{})
	conn := &closeRecorder{}
	st := newStreamTransport(KindWebsocket, "ws://late", newOptions(nil), func(ctx context.Context) (frameConn, error) {
		close(dialing)
		<-release
		return conn, nil
	})

	done := make(chan error, 1)
	go func() {
		req, _ := NewRequest("eth_blockNumber")
		_, err := st.Send(context.Background(), req)
		done <- err
	}()
	<-dialing
	require.NoError(t, st.Close())
	close(release)

	assert.ErrorIs(t, <-done, ErrTransportClosed)
	assert.True(t, conn.isClosed())
}

// closeRecorder is a frameConn that only records Close.
type closeRecorder struct {
	mu     sync.Mutex
	closed bool
}

func (c *closeRecorder) WriteFrame(context.Context, []byte) error { return nil }

func (c *closeRecorder) ReadFrame() ([]byte, error) { return nil, errors.New("unused") }

func (c *closeRecorder) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *closeRecorder) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func TestWebsocketTransportUnknownMethod(t *testing.T) {
	_, url := newWSNode(t)

	tr, err := NewWebsocketTransport(url)
	require.NoError(t, err)
	defer tr.Close()

	req, _ := NewRequest("eth_nope")
	resp, err := tr.Send(context.Background(), req)
	require.NoError(t, err)
	assert.Error(t, resp.Decode(nil))
}

func TestWebsocketTransportClosed(t *testing.T) {
	_, url := newWSNode(t)

	tr, err := NewWebsocketTransport(url)
	require.NoError(t, err)

	sub, err := tr.Subscribe(context.Background(), "eth", "newHeads")
	require.NoError(t, err)

	require.NoError(t, tr.Close())
	assert.ErrorIs(t, <-sub.Err(), ErrTransportClosed)

	req, _ := NewRequest("eth_blockNumber")
	_, err = tr.Send(context.Background(), req)
	assert.ErrorIs(t, err, ErrTransportClosed)
}
