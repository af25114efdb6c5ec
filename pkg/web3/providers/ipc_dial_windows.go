//go:build windows

package providers

import (
	"context"
	"net"

	"github.com/Microsoft/go-winio"
)

// pipeDialer dials named pipes such as \\.\pipe\geth.ipc. The network argument is ignored.
type pipeDialer struct{}

func (pipeDialer) DialContext(ctx context.Context, _ string, address string) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultDialTimeout)
	defer cancel()
	return winio.DialPipeContext(ctx, address)
}

func defaultIPCDialer() Dialer {
	return pipeDialer{}
}
