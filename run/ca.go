package run

import (
	//
	// Bundled CA certificates for TLS connections, so binaries work in
	// scratch containers without a ca-certificates package.
	//
	// Lives here because every binary imports this package anyway.
	//
	_ "golang.org/x/crypto/x509roots/fallback"
)
