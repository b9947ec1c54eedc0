// Package tnet contains small networking helpers shared by the SDK tests and
// the bundled mock backend.
package tnet

import (
	"context"
	"net"
	"strings"

	"github.com/ridge/must/v2"
	"time"
)

var lc = net.ListenConfig{
	KeepAlive: 3 * time.Minute,
}

// Listen installs a TCP listener on the specified [address]:port with
// keep-alive enabled. An optional "tcp:" prefix is accepted and stripped.
func Listen(address string) (net.Listener, error) {
	address = strings.TrimPrefix(address, "tcp:")
	return lc.Listen(context.Background(), "tcp", address)
}

// ListenOnRandomPort selects a random local TCP port and installs a listener
// on it
func ListenOnRandomPort() net.Listener {
	return must.OK1(Listen("localhost:"))
}
