package customHttpClient

import (
	"net/http"

	"github.com/akolanti/ragassistant/internal/config"
)

var customTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// NewPooledClient returns a client sharing one transport, so the embedding,
// vision and generation SDKs reuse connections to the model APIs.
// No overall timeout is set; callers bound requests with their context.
func NewPooledClient() *http.Client {
	return &http.Client{Transport: customTransport}
}
