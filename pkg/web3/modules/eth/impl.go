package eth

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/LumeraProtocol/web3go/pkg/utils"
	"github.com/LumeraProtocol/web3go/pkg/web3/base"
	"github.com/LumeraProtocol/web3go/pkg/web3/providers"
)

// module implements the Module interface
type module struct {
	*base.Client
}

func newModule(t providers.Transport) (Module, error) {
	c, err := base.New("eth", t)
	if err != nil {
		return nil, err
	}
	return &module{Client: c}, nil
}

func blockOrLatest(block string) string {
	if block == "" {
		return Latest
	}
	return block
}

func (m *module) quantity(ctx context.Context, method string, params ...interface{}) (uint64, error) {
	var hex string
	if err := m.Client.Call(ctx, &hex, method, params...); err != nil {
		return 0, err
	}
	n, err := utils.DecodeUint64(hex)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", method, err)
	}
	return n, nil
}

func (m *module) BlockNumber(ctx context.Context) (uint64, error) {
	return m.quantity(ctx, "eth_blockNumber")
}

func (m *module) ChainID(ctx context.Context) (uint64, error) {
	return m.quantity(ctx, "eth_chainId")
}

func (m *module) GetBalance(ctx context.Context, addr, block string) (sdkmath.Int, error) {
	if !utils.IsHexAddress(addr) {
		return sdkmath.Int{}, fmt.Errorf("invalid address %q", addr)
	}
	var hex string
	if err := m.Client.Call(ctx, &hex, "eth_getBalance", addr, blockOrLatest(block)); err != nil {
		return sdkmath.Int{}, err
	}
	bal, err := utils.DecodeBig(hex)
	if err != nil {
		return sdkmath.Int{}, fmt.Errorf("eth_getBalance: %w", err)
	}
	return bal, nil
}

func (m *module) GetTransactionCount(ctx context.Context, addr, block string) (uint64, error) {
	if !utils.IsHexAddress(addr) {
		return 0, fmt.Errorf("invalid address %q", addr)
	}
	return m.quantity(ctx, "eth_getTransactionCount", addr, blockOrLatest(block))
}

func (m *module) GetBlockByNumber(ctx context.Context, block string, fullTx bool) (*Block, error) {
	var b *Block
	if err := m.Client.Call(ctx, &b, "eth_getBlockByNumber", blockOrLatest(block), fullTx); err != nil {
		return nil, err
	}
	return b, nil
}

func (m *module) SendRawTransaction(ctx context.Context, raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("transaction cannot be empty")
	}
	var hash string
	if err := m.Client.Call(ctx, &hash, "eth_sendRawTransaction", utils.ToHex(raw)); err != nil {
		return "", err
	}
	return hash, nil
}

func (m *module) Call(ctx context.Context, msg CallMsg, block string) ([]byte, error) {
	if msg.To == "" {
		return nil, fmt.Errorf("call target cannot be empty")
	}
	var out string
	if err := m.Client.Call(ctx, &out, "eth_call", msg, blockOrLatest(block)); err != nil {
		return nil, err
	}
	return utils.HexToBytes(out)
}

func (m *module) SubscribeNewHeads(ctx context.Context) (*providers.Subscription, error) {
	return m.Client.Subscribe(ctx, "eth", "newHeads")
}
