package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/LumeraProtocol/web3go/pkg/web3/config"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const account = "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"

type rpcRequest struct {
	ID     uint64            `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// fakeNode answers JSON-RPC over plain HTTP on / and over WebSocket on /ws.
type fakeNode struct {
	mu      sync.Mutex
	results map[string]string
	calls   map[string][]rpcRequest
}

func newFakeNode(t *testing.T, results map[string]string) (*fakeNode, *httptest.Server) {
	t.Helper()
	n := &fakeNode{results: results, calls: map[string][]rpcRequest{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/", n.serveHTTP)
	mux.HandleFunc("/ws", n.serveWS)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return n, srv
}

func (n *fakeNode) record(req rpcRequest) (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls[req.Method] = append(n.calls[req.Method], req)
	res, ok := n.results[req.Method]
	return res, ok
}

func (n *fakeNode) callsTo(method string) []rpcRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]rpcRequest(nil), n.calls[method]...)
}

func reply(id uint64, result string, ok bool) []byte {
	if !ok {
		return []byte(fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"error":{"code":-32601,"message":"method not found"}}`, id))
	}
	return []byte(fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"result":%s}`, id, result))
}

func (n *fakeNode) serveHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var req rpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, ok := n.record(req)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(reply(req.ID, res, ok))
}

func (n *fakeNode) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := (&websocket.Upgrader{}).Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req rpcRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return
		}
		if req.Method == "eth_subscribe" {
			n.record(req)
			_ = conn.WriteMessage(websocket.TextMessage, reply(req.ID, `"0xs1"`, true))
			for i := 1; i <= 2; i++ {
				note := fmt.Sprintf(`{"jsonrpc":"2.0","method":"eth_subscription","params":{"subscription":"0xs1","result":{"number":"0x%d","hash":"0xh%d"}}}`, i, i)
				_ = conn.WriteMessage(websocket.TextMessage, []byte(note))
			}
			continue
		}
		res, ok := n.record(req)
		_ = conn.WriteMessage(websocket.TextMessage, reply(req.ID, res, ok))
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cfgFile, watchStream, watchCount = "", "", 0
	balanceBlock, balanceUnit = "latest", "ether"
	configInitForce, configInitOut = false, ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "web3go v")
	assert.Contains(t, out, "transports: [http ws ipc grpc]")
}

func TestBlockNumberCommand(t *testing.T) {
	_, srv := newFakeNode(t, map[string]string{"eth_blockNumber": `"0x2a"`})

	out, err := run(t, "block-number", "--provider", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)
}

func TestBalanceCommand(t *testing.T) {
	node, srv := newFakeNode(t, map[string]string{"eth_getBalance": `"0x14d1120d7b160000"`})

	out, err := run(t, "balance", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", "--provider", srv.URL, "--unit", "ether", "--block", "latest")
	require.NoError(t, err)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed 1.5 ether\n", out)

	calls := node.callsTo("eth_getBalance")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `"`+account+`"`, string(calls[0].Params[0]))

	_, err = run(t, "balance", "0x1234", "--provider", srv.URL)
	assert.Error(t, err)
}

func TestNetVersionCommand(t *testing.T) {
	_, srv := newFakeNode(t, map[string]string{
		"net_version":   `"5"`,
		"net_listening": `true`,
		"net_peerCount": `"0x3"`,
	})

	out, err := run(t, "net-version", "--provider", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "network: 5\nlistening: true\npeers: 3\n", out)
}

func TestAccountsAndUnlockCommands(t *testing.T) {
	node, srv := newFakeNode(t, map[string]string{
		"personal_listAccounts":  `["` + account + `"]`,
		"personal_unlockAccount": `true`,
	})
	orig := askPassphrase
	askPassphrase = func(string) (string, error) { return "hunter2", nil }
	t.Cleanup(func() { askPassphrase = orig })

	out, err := run(t, "accounts", "--provider", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed\n", out)

	out, err = run(t, "unlock", account, "--provider", srv.URL, "--duration", "1m")
	require.NoError(t, err)
	assert.Equal(t, "unlocked "+account+"\n", out)

	calls := node.callsTo("personal_unlockAccount")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `"hunter2"`, string(calls[0].Params[1]))
	assert.JSONEq(t, `60`, string(calls[0].Params[2]))
}

func TestWatchHeadsNeedsStreamingTransport(t *testing.T) {
	_, srv := newFakeNode(t, nil)

	_, err := run(t, "watch-heads", "--provider", srv.URL, "--stream", "", "--count", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support subscriptions")
}

func TestWatchHeadsSwitchesToStream(t *testing.T) {
	node, srv := newFakeNode(t, map[string]string{"eth_unsubscribe": `true`})
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	out, err := run(t, "watch-heads", "--provider", srv.URL, "--stream", wsURL, "--count", "2")
	require.NoError(t, err)
	assert.Equal(t, "0x1 0xh1\n0x2 0xh2\n", out)
	assert.Len(t, node.callsTo("eth_subscribe"), 1)
}

func TestConfigInitAndShow(t *testing.T) {
	orig := askInit
	askInit = func(cfg *config.Config) error {
		cfg.Provider = "ws://127.0.0.1:8546"
		cfg.Log.Format = "json"
		return nil
	}
	t.Cleanup(func() { askInit = orig })

	path := filepath.Join(t.TempDir(), "web3.yaml")
	out, err := run(t, "config", "init", "--provider", "http://127.0.0.1:8545", "--out", path, "--force")
	require.NoError(t, err)
	assert.Equal(t, "wrote "+path+"\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "provider: ws://127.0.0.1:8546")

	out, err = run(t, "config", "show", "--config", path, "--provider", "ws://127.0.0.1:8546")
	require.NoError(t, err)
	assert.Contains(t, out, "format: json")
}
