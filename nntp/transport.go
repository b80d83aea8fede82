package nntp

import (
	"context"
	"crypto/tls"
	"net"
)

// dial opens the byte stream a connection runs over. With a TLS config
// the TCP handshake is immediately followed by a TLS handshake, exactly
// as with tls.Dial; otherwise a plain TCP stream is returned. Both paths
// yield a net.Conn, so nothing above this point distinguishes them.
func dial(ctx context.Context, addr string, cfg ConnectionConfig) (net.Conn, error) {
	d := &net.Dialer{Timeout: cfg.ConnectTimeout}

	if cfg.TLSConfig != nil {
		tlsConfig := cfg.TLSConfig
		if tlsConfig.ServerName == "" {
			host, _, err := net.SplitHostPort(addr)
			if err == nil {
				tlsConfig = tlsConfig.Clone()
				tlsConfig.ServerName = host
			}
		}
		td := &tls.Dialer{NetDialer: d, Config: tlsConfig}
		return td.DialContext(ctx, "tcp", addr)
	}

	return d.DialContext(ctx, "tcp", addr)
}
