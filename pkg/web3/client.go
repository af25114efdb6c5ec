package web3

import (
	"github.com/LumeraProtocol/web3go/pkg/web3/modules/bzz"
	"github.com/LumeraProtocol/web3go/pkg/web3/modules/eth"
	"github.com/LumeraProtocol/web3go/pkg/web3/modules/net"
	"github.com/LumeraProtocol/web3go/pkg/web3/modules/personal"
	"github.com/LumeraProtocol/web3go/pkg/web3/modules/shh"
	"github.com/LumeraProtocol/web3go/pkg/web3/providers"
)

// resolveTransport is swapped out by tests that script which transport a descriptor yields.
var resolveTransport = providers.Resolve

// Web3 groups the protocol modules behind one handle and keeps them on a shared transport.
type Web3 struct {
	ethMod      eth.Module
	shhMod      shh.Module
	bzzMod      bzz.Module
	netMod      net.Module
	personalMod personal.Module

	reg *registry
}

// New resolves descriptor and binds every module to the resulting transport.
//
// descriptor is a providers.Transport (used as is), a URI string or a *url.URL. A nil
// descriptor fails with ErrMissingTransport, one that does not resolve with an error
// wrapping ErrInvalidTransport. No facade is returned on failure.
func New(descriptor interface{}, opts ...Option) (*Web3, error) {
	o := newOptions(opts)

	t, err := resolveTransport(descriptor, o.hint, o.resolveOpts()...)
	if err != nil {
		return nil, err
	}

	ethModule, err := eth.NewModule(t)
	if err != nil {
		return nil, err
	}
	shhModule, err := shh.NewModule(t)
	if err != nil {
		return nil, err
	}
	bzzModule, err := bzz.NewModule(t)
	if err != nil {
		return nil, err
	}
	netModule, err := net.NewModule(t)
	if err != nil {
		return nil, err
	}
	personalModule, err := personal.NewModule(t)
	if err != nil {
		return nil, err
	}

	w := &Web3{
		ethMod:      ethModule,
		shhMod:      shhModule,
		bzzMod:      bzzModule,
		netMod:      netModule,
		personalMod: personalModule,
	}
	// Swap order: eth, shh, bzz, net, personal.
	w.reg = newRegistry(t, []Rebindable{ethModule, shhModule, bzzModule, netModule, personalModule}, o)
	return w, nil
}

func (w *Web3) Eth() eth.Module {
	return w.ethMod
}

func (w *Web3) Shh() shh.Module {
	return w.shhMod
}

func (w *Web3) Bzz() bzz.Module {
	return w.bzzMod
}

func (w *Web3) Net() net.Module {
	return w.netMod
}

func (w *Web3) Personal() personal.Module {
	return w.personalMod
}

// GetTransport returns the current transport.
func (w *Web3) GetTransport() providers.Transport {
	return w.reg.get()
}

// SetTransport resolves descriptor and switches the facade to it.
//
// Live subscriptions on the outgoing transport are cleared, best effort, and are not
// reopened on the new one; use WithTransportChangedHook to do that. When SetTransport
// returns nil every module sends its next request over the new transport. Requests
// already in flight finish on the transport they started on.
//
// descriptor is resolved before the outgoing transport's subscriptions are cleared, not
// after. A descriptor that does not resolve therefore returns its error with the current
// transport and its subscriptions left intact. Clearing does not wait for the node to
// acknowledge the unsubscribe calls.
func (w *Web3) SetTransport(descriptor interface{}) error {
	return w.reg.set(descriptor)
}
