//go:generate go run go.uber.org/mock/mockgen -destination=personal_mock.go -package=personal -source=interface.go
package personal

import (
	"context"
	"time"

	"github.com/LumeraProtocol/web3go/pkg/web3/base"
	"github.com/LumeraProtocol/web3go/pkg/web3/providers"
)

type Module interface {
	base.Binding

	// ListAccounts returns the addresses of the keys held by the node.
	ListAccounts(ctx context.Context) ([]string, error)
	// NewAccount creates a key protected by passphrase and returns its address.
	NewAccount(ctx context.Context, passphrase string) (string, error)
	// UnlockAccount unlocks addr for duration. Zero keeps it unlocked until LockAccount.
	UnlockAccount(ctx context.Context, addr, passphrase string, duration time.Duration) (bool, error)
	// LockAccount removes the unlocked key of addr from memory.
	LockAccount(ctx context.Context, addr string) (bool, error)
	// Sign signs data with the key of addr using the node prefixed message format.
	Sign(ctx context.Context, data []byte, addr, passphrase string) ([]byte, error)
	// EcRecover returns the address that produced sig over data.
	EcRecover(ctx context.Context, data, sig []byte) (string, error)
}

// NewModule creates a new Personal module client
func NewModule(t providers.Transport) (Module, error) {
	return newModule(t)
}
