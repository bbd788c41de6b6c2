package utils

import (
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly.
//
// Example usage:
//
//	client := utils.NewHTTPClient("https://api.mailgun.net", 10*time.Second)
//	resp, err := client.R().Get("/v3/domains")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates a client bound to baseURL. A non-positive timeout
// leaves the resty default in place.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	cli := resty.New().SetBaseURL(strings.TrimRight(baseURL, "/"))
	if timeout > 0 {
		cli.SetTimeout(timeout)
	}
	return &HTTPClient{Client: cli}
}
