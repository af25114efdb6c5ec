package web3

import (
	"sync"

	"github.com/LumeraProtocol/web3go/pkg/web3/providers"
)

var (
	givenOnce      sync.Once
	givenTransport providers.Transport
)

// GivenTransport returns the transport the host environment provides through WEB3_PROVIDER,
// or nil. It is detected on first call and never changes afterwards.
func GivenTransport() providers.Transport {
	givenOnce.Do(func() {
		givenTransport = providers.Detect()
	})
	return givenTransport
}

// TransportKinds lists the transports a string descriptor can select.
func TransportKinds() []providers.Kind {
	return providers.Kinds()
}
