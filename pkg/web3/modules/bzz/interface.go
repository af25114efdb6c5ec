//go:generate go run go.uber.org/mock/mockgen -destination=bzz_mock.go -package=bzz -source=interface.go
package bzz

import (
	"context"
	"encoding/json"

	"github.com/LumeraProtocol/web3go/pkg/web3/base"
	"github.com/LumeraProtocol/web3go/pkg/web3/providers"
)

// Info is the swarm node configuration.
type Info struct {
	BzzAccount  string `json:"BzzAccount"`
	BzzKey      string `json:"BzzKey"`
	Port        string `json:"Port"`
	ListenAddr  string `json:"ListenAddr"`
	NetworkID   uint64 `json:"NetworkID"`
	SyncEnabled bool   `json:"SyncEnabled"`
}

// Upload is the content handed to the node for storage.
type Upload struct {
	Data        []byte
	ContentType string
	// Encrypt stores the content encrypted; the returned reference then carries the key.
	Encrypt bool
}

type Module interface {
	base.Binding

	// Info returns the node configuration.
	Info(ctx context.Context) (*Info, error)
	// Hive returns the node's kademlia table, as reported by the node.
	Hive(ctx context.Context) (json.RawMessage, error)
	// Upload stores u and returns its swarm reference.
	Upload(ctx context.Context, u Upload) (string, error)
	// Download fetches the content stored under ref.
	Download(ctx context.Context, ref string) ([]byte, error)
}

// NewModule creates a new Bzz module client
func NewModule(t providers.Transport) (Module, error) {
	return newModule(t)
}
