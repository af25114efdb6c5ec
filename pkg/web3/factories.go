package web3

import (
	"github.com/LumeraProtocol/web3go/pkg/web3/modules/bzz"
	"github.com/LumeraProtocol/web3go/pkg/web3/modules/eth"
	"github.com/LumeraProtocol/web3go/pkg/web3/modules/net"
	"github.com/LumeraProtocol/web3go/pkg/web3/modules/personal"
	"github.com/LumeraProtocol/web3go/pkg/web3/modules/shh"
	"github.com/LumeraProtocol/web3go/pkg/web3/providers"
)

// The factories below build one standalone module on its own transport. The module is not
// part of any Web3 facade, so facade swaps never reach it.

func NewEth(descriptor interface{}, hint providers.Dialer, opts ...providers.Option) (eth.Module, error) {
	t, err := resolveTransport(descriptor, hint, opts...)
	if err != nil {
		return nil, err
	}
	return eth.NewModule(t)
}

func NewShh(descriptor interface{}, hint providers.Dialer, opts ...providers.Option) (shh.Module, error) {
	t, err := resolveTransport(descriptor, hint, opts...)
	if err != nil {
		return nil, err
	}
	return shh.NewModule(t)
}

func NewBzz(descriptor interface{}, hint providers.Dialer, opts ...providers.Option) (bzz.Module, error) {
	t, err := resolveTransport(descriptor, hint, opts...)
	if err != nil {
		return nil, err
	}
	return bzz.NewModule(t)
}

func NewNet(descriptor interface{}, hint providers.Dialer, opts ...providers.Option) (net.Module, error) {
	t, err := resolveTransport(descriptor, hint, opts...)
	if err != nil {
		return nil, err
	}
	return net.NewModule(t)
}

func NewPersonal(descriptor interface{}, hint providers.Dialer, opts ...providers.Option) (personal.Module, error) {
	t, err := resolveTransport(descriptor, hint, opts...)
	if err != nil {
		return nil, err
	}
	return personal.NewModule(t)
}
