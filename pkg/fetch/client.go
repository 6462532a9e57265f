// Package fetch retrieves the directory resources (test config and server
// listing) with host failover, through an optionally proxied transport.
package fetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/Jigsaw-Code/outline-sdk/x/configurl"
)

// NewHTTPClient builds an HTTP client whose TCP streams go through the
// dialer described by the transport config string. An empty string yields a
// direct connection. The client carries no global timeout; callers bound
// individual requests with a context.
func NewHTTPClient(transport string) (*http.Client, error) {
	dialer, err := configurl.NewDefaultConfigToDialer().NewStreamDialer(transport)
	if err != nil {
		return nil, fmt.Errorf("could not create dialer: %w", err)
	}

	dialContext := func(ctx context.Context, network, addr string) (net.Conn, error) {
		if !strings.HasPrefix(network, "tcp") {
			return nil, fmt.Errorf("protocol not supported: %v", network)
		}
		return dialer.DialStream(ctx, addr)
	}

	return &http.Client{
		Transport: &http.Transport{DialContext: dialContext},
	}, nil
}
