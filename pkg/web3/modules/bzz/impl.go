package bzz

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/LumeraProtocol/web3go/pkg/utils"
	"github.com/LumeraProtocol/web3go/pkg/web3/base"
	"github.com/LumeraProtocol/web3go/pkg/web3/providers"
)

const defaultContentType = "application/octet-stream"

// module implements the Module interface
type module struct {
	*base.Client
}

func newModule(t providers.Transport) (Module, error) {
	c, err := base.New("bzz", t)
	if err != nil {
		return nil, err
	}
	return &module{Client: c}, nil
}

func (m *module) Info(ctx context.Context) (*Info, error) {
	var info Info
	if err := m.Call(ctx, &info, "bzz_info"); err != nil {
		return nil, err
	}
	return &info, nil
}

func (m *module) Hive(ctx context.Context) (json.RawMessage, error) {
	var hive json.RawMessage
	if err := m.Call(ctx, &hive, "bzz_hive"); err != nil {
		return nil, err
	}
	return hive, nil
}

type uploadParams struct {
	Data        string `json:"data"`
	ContentType string `json:"contentType"`
	Encrypt     bool   `json:"encrypt,omitempty"`
}

func (m *module) Upload(ctx context.Context, u Upload) (string, error) {
	if len(u.Data) == 0 {
		return "", fmt.Errorf("upload cannot be empty")
	}
	ct := u.ContentType
	if ct == "" {
		ct = defaultContentType
	}
	var ref string
	if err := m.Call(ctx, &ref, "bzz_upload", uploadParams{Data: utils.ToHex(u.Data), ContentType: ct, Encrypt: u.Encrypt}); err != nil {
		return "", err
	}
	if !validReference(ref) {
		return "", fmt.Errorf("bzz_upload: node returned malformed reference %q", ref)
	}
	return ref, nil
}

func (m *module) Download(ctx context.Context, ref string) ([]byte, error) {
	if !validReference(ref) {
		return nil, fmt.Errorf("invalid swarm reference %q", ref)
	}
	var data string
	if err := m.Call(ctx, &data, "bzz_download", ref); err != nil {
		return nil, err
	}
	return utils.HexToBytes(data)
}

// validReference accepts plain (32 byte) and encrypted (64 byte) references.
func validReference(ref string) bool {
	b, err := utils.HexToBytes(ref)
	if err != nil {
		return false
	}
	return len(b) == 32 || len(b) == 64
}
