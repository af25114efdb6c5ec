package personal

import (
	"context"
	"fmt"
	"time"

	"github.com/LumeraProtocol/web3go/pkg/utils"
	"github.com/LumeraProtocol/web3go/pkg/web3/base"
	"github.com/LumeraProtocol/web3go/pkg/web3/providers"
)

// module implements the Module interface
type module struct {
	*base.Client
}

func newModule(t providers.Transport) (Module, error) {
	c, err := base.New("personal", t)
	if err != nil {
		return nil, err
	}
	return &module{Client: c}, nil
}

func validAddress(addr string) error {
	if !utils.IsHexAddress(addr) {
		return fmt.Errorf("invalid address %q", addr)
	}
	return nil
}

func (m *module) ListAccounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := m.Call(ctx, &accounts, "personal_listAccounts"); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (m *module) NewAccount(ctx context.Context, passphrase string) (string, error) {
	var addr string
	if err := m.Call(ctx, &addr, "personal_newAccount", passphrase); err != nil {
		return "", err
	}
	return addr, nil
}

func (m *module) UnlockAccount(ctx context.Context, addr, passphrase string, duration time.Duration) (bool, error) {
	if err := validAddress(addr); err != nil {
		return false, err
	}
	if duration < 0 {
		return false, fmt.Errorf("unlock duration cannot be negative")
	}
	var ok bool
	if err := m.Call(ctx, &ok, "personal_unlockAccount", addr, passphrase, uint64(duration/time.Second)); err != nil {
		return false, err
	}
	return ok, nil
}

func (m *module) LockAccount(ctx context.Context, addr string) (bool, error) {
	if err := validAddress(addr); err != nil {
		return false, err
	}
	var ok bool
	if err := m.Call(ctx, &ok, "personal_lockAccount", addr); err != nil {
		return false, err
	}
	return ok, nil
}

func (m *module) Sign(ctx context.Context, data []byte, addr, passphrase string) ([]byte, error) {
	if err := validAddress(addr); err != nil {
		return nil, err
	}
	var sig string
	if err := m.Call(ctx, &sig, "personal_sign", utils.ToHex(data), addr, passphrase); err != nil {
		return nil, err
	}
	return utils.HexToBytes(sig)
}

func (m *module) EcRecover(ctx context.Context, data, sig []byte) (string, error) {
	if len(sig) != 65 {
		return "", fmt.Errorf("signature must be 65 bytes, got %d", len(sig))
	}
	var addr string
	if err := m.Call(ctx, &addr, "personal_ecRecover", utils.ToHex(data), utils.ToHex(sig)); err != nil {
		return "", err
	}
	return addr, nil
}
