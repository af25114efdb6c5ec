package shh

import (
	"context"
	"fmt"

	"github.com/LumeraProtocol/web3go/pkg/web3/base"
	"github.com/LumeraProtocol/web3go/pkg/web3/providers"
)

// module implements the Module interface
type module struct {
	*base.Client
}

func newModule(t providers.Transport) (Module, error) {
	c, err := base.New("shh", t)
	if err != nil {
		return nil, err
	}
	return &module{Client: c}, nil
}

func (m *module) Version(ctx context.Context) (string, error) {
	var v string
	if err := m.Call(ctx, &v, "shh_version"); err != nil {
		return "", err
	}
	return v, nil
}

func (m *module) Info(ctx context.Context) (*Info, error) {
	var info Info
	if err := m.Call(ctx, &info, "shh_info"); err != nil {
		return nil, err
	}
	return &info, nil
}

func (m *module) NewKeyPair(ctx context.Context) (string, error) {
	var id string
	if err := m.Call(ctx, &id, "shh_newKeyPair"); err != nil {
		return "", err
	}
	return id, nil
}

func (m *module) NewSymKey(ctx context.Context) (string, error) {
	var id string
	if err := m.Call(ctx, &id, "shh_newSymKey"); err != nil {
		return "", err
	}
	return id, nil
}

func (m *module) Post(ctx context.Context, msg Message) (string, error) {
	if (msg.SymKeyID == "") == (msg.PubKey == "") {
		return "", fmt.Errorf("exactly one of symKeyID or pubKey must be set")
	}
	if msg.SymKeyID != "" && msg.Topic == "" {
		return "", fmt.Errorf("topic is required for symmetric messages")
	}
	var hash string
	if err := m.Call(ctx, &hash, "shh_post", msg); err != nil {
		return "", err
	}
	return hash, nil
}

func (m *module) Subscribe(ctx context.Context, c Criteria) (*providers.Subscription, error) {
	if (c.SymKeyID == "") == (c.PrivateKeyID == "") {
		return nil, fmt.Errorf("exactly one of symKeyID or privateKeyID must be set")
	}
	return m.Client.Subscribe(ctx, "shh", "messages", c)
}
