package authsdk

import (
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// SDKClient talks to one authlab server.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
}

// Option customises a client built by NewSDKClient.
type Option func(*SDKClient)

// WithHTTPClient replaces the default client, which times out after 30s.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *SDKClient) { c.HTTPClient = hc }
}

func WithUserAgent(ua string) Option {
	return func(c *SDKClient) { c.UserAgent = ua }
}

func NewSDKClient(baseURL string, opts ...Option) *SDKClient {
	c := &SDKClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: defaultTimeout},
		UserAgent:  "authsdk",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
