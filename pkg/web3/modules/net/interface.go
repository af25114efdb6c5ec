//go:generate go run go.uber.org/mock/mockgen -destination=net_mock.go -package=net -source=interface.go
package net

import (
	"context"

	"github.com/LumeraProtocol/web3go/pkg/web3/base"
	"github.com/LumeraProtocol/web3go/pkg/web3/providers"
)

type Module interface {
	base.Binding

	// Version returns the network id. The value is cached until the transport changes.
	Version(ctx context.Context) (string, error)
	// Listening reports whether the node accepts peer connections.
	Listening(ctx context.Context) (bool, error)
	// PeerCount returns the number of connected peers.
	PeerCount(ctx context.Context) (uint64, error)
}

// NewModule creates a new Net module client
func NewModule(t providers.Transport) (Module, error) {
	return newModule(t)
}
