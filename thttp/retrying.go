package thttp

import (
	"context"
	"errors"
	"net"
	"net/http"

	"time"

	"github.com/sunxu/malladmin/retry"
)

var (
	defaultDialer               = net.Dialer{}
	retryingDialerBackoffConfig = retry.ExpConfig{
		Min:   10 * time.Millisecond,
		Max:   5 * time.Second,
		Scale: 1.5,
	}
)

// retryingDialer is a dialer for http.Transport that retries dialing if the
// DNS record for the given address does not exist yet. Useful when the CLI
// starts together with the backend in a fresh environment.
func retryingDialer(ctx context.Context, network, address string) (net.Conn, error) {
	backoff := retry.NewExpBackoff(retryingDialerBackoffConfig)

	for ctx.Err() == nil {
		conn, err := defaultDialer.DialContext(ctx, network, address)
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			// DNS "not found" errors take some time to be rectified
			t := time.NewTimer(backoff.Backoff())
			select {
			case <-t.C:
			case <-ctx.Done():
				t.Stop()
			}
			continue
		}
		return conn, err
	}
	return nil, ctx.Err()
}

// RetryingDNSTransport is an http.RoundTripper that retries in case of DNS
// "not found" errors
var RetryingDNSTransport = &http.Transport{
	DialContext: retryingDialer,
}
