package providers

import (
	"fmt"
	"sync"
	"time"
)

// fakeNode answers a handful of JSON-RPC methods and pushes one notification per subscription.
type fakeNode struct {
	mu           sync.Mutex
	unsubscribed []string
	nextSub      int

	subscribeDelay  time.Duration // held before answering eth_subscribe
	muteUnsubscribe bool          // record eth_unsubscribe but never answer it
}

func (n *fakeNode) handle(data []byte, write func([]byte) error) error {
	var req Request
	if err := codec.Unmarshal(data, &req); err != nil {
		return err
	}

	reply := func(result interface{}) error {
		raw, _ := codec.Marshal(result)
		out, _ := codec.Marshal(Response{JSONRPC: "2.0", ID: req.ID, Result: raw})
		return write(out)
	}

	switch req.Method {
	case "eth_blockNumber":
		return reply("0x2a")
	case "eth_subscribe":
		n.mu.Lock()
		n.nextSub++
		id := fmt.Sprintf("0x%x", n.nextSub)
		delay := n.subscribeDelay
		n.mu.Unlock()
		time.Sleep(delay)
		if err := reply(id); err != nil {
			return err
		}
		note := fmt.Sprintf(`{"jsonrpc":"2.0","method":"eth_subscription","params":{"subscription":%q,"result":{"number":"0x1"}}}`, id)
		return write([]byte(note))
	case "eth_unsubscribe":
		var params []string
		_ = codec.Unmarshal(req.Params, &params)
		n.mu.Lock()
		n.unsubscribed = append(n.unsubscribed, params...)
		mute := n.muteUnsubscribe
		n.mu.Unlock()
		if mute {
			return nil
		}
		return reply(true)
	default:
		out, _ := codec.Marshal(Response{JSONRPC: "2.0", ID: req.ID, Error: &RPCError{Code: -32601, Message: "method not found"}})
		return write(out)
	}
}

func (n *fakeNode) unsubscribedIDs() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.unsubscribed...)
}
