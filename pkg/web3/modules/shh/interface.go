//go:generate go run go.uber.org/mock/mockgen -destination=shh_mock.go -package=shh -source=interface.go
package shh

import (
	"context"

	"github.com/LumeraProtocol/web3go/pkg/web3/base"
	"github.com/LumeraProtocol/web3go/pkg/web3/providers"
)

// Info describes the whisper node limits.
type Info struct {
	MinPow         float64 `json:"minPow"`
	MaxMessageSize uint32  `json:"maxMessageSize"`
	Memory         int     `json:"memory"`
	Messages       int     `json:"messages"`
}

// Message is an envelope posted to the whisper network.
// Exactly one of SymKeyID and PubKey selects the encryption.
type Message struct {
	SymKeyID   string  `json:"symKeyID,omitempty"`
	PubKey     string  `json:"pubKey,omitempty"`
	Sig        string  `json:"sig,omitempty"`
	TTL        uint32  `json:"ttl"`
	Topic      string  `json:"topic,omitempty"`
	Payload    string  `json:"payload"`
	PowTime    uint32  `json:"powTime"`
	PowTarget  float64 `json:"powTarget"`
	TargetPeer string  `json:"targetPeer,omitempty"`
}

// Criteria filters the messages a subscription delivers.
type Criteria struct {
	SymKeyID     string   `json:"symKeyID,omitempty"`
	PrivateKeyID string   `json:"privateKeyID,omitempty"`
	Sig          string   `json:"sig,omitempty"`
	MinPow       float64  `json:"minPow,omitempty"`
	Topics       []string `json:"topics,omitempty"`
	AllowP2P     bool     `json:"allowP2P,omitempty"`
}

type Module interface {
	base.Binding

	// Version returns the whisper protocol version.
	Version(ctx context.Context) (string, error)
	// Info returns the node limits.
	Info(ctx context.Context) (*Info, error)
	// NewKeyPair generates a key pair and returns its id.
	NewKeyPair(ctx context.Context) (string, error)
	// NewSymKey generates a symmetric key and returns its id.
	NewSymKey(ctx context.Context) (string, error)
	// Post sends msg and returns the envelope hash.
	Post(ctx context.Context, msg Message) (string, error)
	// Subscribe streams messages matching c. Needs a subscribable transport.
	Subscribe(ctx context.Context, c Criteria) (*providers.Subscription, error)
}

// NewModule creates a new Shh module client
func NewModule(t providers.Transport) (Module, error) {
	return newModule(t)
}
