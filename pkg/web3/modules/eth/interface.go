//go:generate go run go.uber.org/mock/mockgen -destination=eth_mock.go -package=eth -source=interface.go
package eth

import (
	"context"
	"encoding/json"

	sdkmath "cosmossdk.io/math"
	"github.com/LumeraProtocol/web3go/pkg/web3/base"
	"github.com/LumeraProtocol/web3go/pkg/web3/providers"
	jsoniter "github.com/json-iterator/go"
)

// Block tags accepted wherever a block parameter is expected.
const (
	Latest   = "latest"
	Pending  = "pending"
	Earliest = "earliest"
)

// Header is the subset of a block header the client decodes.
type Header struct {
	Number     string `json:"number"`
	Hash       string `json:"hash"`
	ParentHash string `json:"parentHash"`
	Timestamp  string `json:"timestamp"`
	Miner      string `json:"miner"`
	GasLimit   string `json:"gasLimit"`
	GasUsed    string `json:"gasUsed"`
}

// Block is a header plus its transactions, either hashes or full objects.
type Block struct {
	Header
	Transactions []json.RawMessage `json:"transactions"`
}

// CallMsg is a message call executed without creating a transaction.
type CallMsg struct {
	From     string `json:"from,omitempty"`
	To       string `json:"to"`
	Gas      string `json:"gas,omitempty"`
	GasPrice string `json:"gasPrice,omitempty"`
	Value    string `json:"value,omitempty"`
	Data     string `json:"data,omitempty"`
}

type Module interface {
	base.Binding

	// BlockNumber returns the number of the most recent block.
	BlockNumber(ctx context.Context) (uint64, error)
	// ChainID returns the chain id used for replay protected signing.
	ChainID(ctx context.Context) (uint64, error)
	// GetBalance returns the wei balance of addr at block.
	GetBalance(ctx context.Context, addr, block string) (sdkmath.Int, error)
	// GetTransactionCount returns the nonce of addr at block.
	GetTransactionCount(ctx context.Context, addr, block string) (uint64, error)
	// GetBlockByNumber returns the block, or nil when the node does not know it.
	GetBlockByNumber(ctx context.Context, block string, fullTx bool) (*Block, error)
	// SendRawTransaction submits a signed transaction and returns its hash.
	SendRawTransaction(ctx context.Context, raw []byte) (string, error)
	// Call executes msg against the state at block and returns the return data.
	Call(ctx context.Context, msg CallMsg, block string) ([]byte, error)
	// SubscribeNewHeads streams new block headers. Needs a subscribable transport.
	SubscribeNewHeads(ctx context.Context) (*providers.Subscription, error)
}

// NewModule creates a new Eth module client
func NewModule(t providers.Transport) (Module, error) {
	return newModule(t)
}

// DecodeHeader decodes one newHeads notification.
func DecodeHeader(raw json.RawMessage) (*Header, error) {
	var h Header
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, &h); err != nil {
		return nil, err
	}
	return &h, nil
}
