//go:build !windows

package providers

import "net"

func defaultIPCDialer() Dialer {
	return &net.Dialer{Timeout: defaultDialTimeout}
}
