package httpclient

import (
	"net/http"
	"time"
)

// NewDefaultHTTPClient creates a simple HTTP client with a timeout
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

// NewPooledHTTPClient creates an HTTP client that relies on the default
// transport's connection pool and takes its deadlines from request
// contexts rather than a client-level timeout. One such client is shared
// for the lifetime of the component that owns it.
func NewPooledHTTPClient() *http.Client {
	return &http.Client{}
}
