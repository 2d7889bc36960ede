// Package network provides the HTTP client used to drive a running control server.
package network

import (
	"net/http"
	"time"
)

// Client is the HTTP client shared by every Remote.
// Control calls are small and local, so it keeps a short timeout and a modest pool.
var Client = &http.Client{
	Timeout:   10 * time.Second,
	Transport: newTransport(),
}

// newTransport initializes a tuned http.Transport with optimized pool and timeout parameters.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 4
	t.MaxIdleConnsPerHost = 4
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 5 * time.Second
	return t
}
