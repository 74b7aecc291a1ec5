package utils

import (
	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around resty.Client shared by the remote store
// adapter and the connectivity probe.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns an HTTPClient with a default-configured
// resty.Client. Each call returns an independent instance.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{Client: resty.New()}
}
