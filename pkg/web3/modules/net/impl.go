package net

import (
	"context"
	"fmt"
	"time"

	"github.com/LumeraProtocol/web3go/pkg/utils"
	"github.com/LumeraProtocol/web3go/pkg/web3/base"
	"github.com/LumeraProtocol/web3go/pkg/web3/providers"
	ristretto "github.com/dgraph-io/ristretto/v2"
	"golang.org/x/sync/singleflight"
)

const (
	// One live key per transport generation; old generations age out.
	cacheNumCounters = 100
	cacheMaxCost     = 10
	cacheBufferItems = 64
	cacheItemCost    = 1
	cacheTTL         = 10 * time.Minute
)

// module implements the Module interface
type module struct {
	*base.Client

	versions *ristretto.Cache[string, string]
	sf       singleflight.Group
}

func newModule(t providers.Transport) (Module, error) {
	c, err := base.New("net", t)
	if err != nil {
		return nil, err
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters: cacheNumCounters,
		MaxCost:     cacheMaxCost,
		BufferItems: cacheBufferItems,
	})
	if err != nil {
		return nil, fmt.Errorf("create version cache: %w", err)
	}
	return &module{Client: c, versions: cache}, nil
}

func (m *module) Version(ctx context.Context) (string, error) {
	key := fmt.Sprintf("net_version:%d", m.Generation())
	if v, ok := m.versions.Get(key); ok {
		return v, nil
	}

	// Deduplicate concurrent fetches for the same generation
	res, err, _ := m.sf.Do(key, func() (any, error) {
		if v, ok := m.versions.Get(key); ok {
			return v, nil
		}
		var v string
		if err := m.Call(ctx, &v, "net_version"); err != nil {
			return nil, err
		}
		m.versions.SetWithTTL(key, v, cacheItemCost, cacheTTL)
		m.versions.Wait()
		return v, nil
	})
	if err != nil {
		return "", err
	}
	v, _ := res.(string)
	return v, nil
}

func (m *module) Listening(ctx context.Context) (bool, error) {
	var ok bool
	if err := m.Call(ctx, &ok, "net_listening"); err != nil {
		return false, err
	}
	return ok, nil
}

func (m *module) PeerCount(ctx context.Context) (uint64, error) {
	var hex string
	if err := m.Call(ctx, &hex, "net_peerCount"); err != nil {
		return 0, err
	}
	n, err := utils.DecodeUint64(hex)
	if err != nil {
		return 0, fmt.Errorf("net_peerCount: %w", err)
	}
	return n, nil
}
