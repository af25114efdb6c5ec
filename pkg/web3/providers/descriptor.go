package providers

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

const (
	defaultGRPCPort = "9090"
	defaultTLSPort  = "443"
)

// Target is a parsed string descriptor.
type Target struct {
	Kind Kind
	// Address is the URL for HTTP/WebSocket, the socket path for IPC and host:port for gRPC.
	Address    string
	TLS        bool
	ServerName string
}

// ParseDescriptor maps a descriptor string onto a transport kind and dial target.
// Accepts all of these:
//
//	http://localhost:8545            → HTTP
//	wss://mainnet.node.io/ws         → WebSocket
//	ipc:///home/me/.ethereum/geth.ipc → IPC, path = /home/me/.ethereum/geth.ipc
//	/home/me/.ethereum/geth.ipc      → IPC
//	grpcs://rpc.node9x.com           → gRPC TLS, host = rpc.node9x.com:443
//	grpc://rpc.node9x.com            → gRPC h2c, host = rpc.node9x.com:9090
func ParseDescriptor(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Target{}, fmt.Errorf("empty descriptor")
	}

	if !strings.Contains(raw, "://") {
		if strings.HasSuffix(raw, ".ipc") || strings.ContainsAny(raw, `/\`) {
			return Target{Kind: KindIPC, Address: raw}, nil
		}
		return Target{}, fmt.Errorf("descriptor %q has no scheme and is not a socket path", raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, fmt.Errorf("parse descriptor %q: %w", raw, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return Target{}, fmt.Errorf("descriptor %q has no host", raw)
		}
		return Target{Kind: KindHTTP, Address: raw, TLS: u.Scheme == "https", ServerName: u.Hostname()}, nil
	case "ws", "wss":
		if u.Host == "" {
			return Target{}, fmt.Errorf("descriptor %q has no host", raw)
		}
		return Target{Kind: KindWebsocket, Address: raw, TLS: u.Scheme == "wss", ServerName: u.Hostname()}, nil
	case "ipc":
		path := u.Host + u.Path
		if path == "" {
			return Target{}, fmt.Errorf("descriptor %q has no socket path", raw)
		}
		return Target{Kind: KindIPC, Address: path}, nil
	case "grpc", "grpcs":
		host := u.Hostname()
		if host == "" {
			return Target{}, fmt.Errorf("descriptor %q has no host", raw)
		}
		useTLS := u.Scheme == "grpcs"
		port := u.Port()
		if port == "" {
			port = defaultGRPCPort
			if useTLS {
				port = defaultTLSPort
			}
		}
		if port == defaultTLSPort {
			useTLS = true
		}
		return Target{Kind: KindGRPC, Address: net.JoinHostPort(host, port), TLS: useTLS, ServerName: host}, nil
	default:
		return Target{}, fmt.Errorf("unsupported scheme %q in %q", u.Scheme, raw)
	}
}
