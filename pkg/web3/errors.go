package web3

import "github.com/LumeraProtocol/web3go/pkg/web3/providers"

var (
	// ErrMissingTransport is returned when New or SetTransport get no descriptor.
	ErrMissingTransport = providers.ErrMissingTransport

	// ErrInvalidTransport is returned when a descriptor does not resolve to a usable transport.
	ErrInvalidTransport = providers.ErrInvalidTransport

	// ErrSubscriptionsNotSupported is returned when subscribing over a request/response only transport.
	ErrSubscriptionsNotSupported = providers.ErrSubscriptionsNotSupported
)
