package client

import (
	"net/http"
	"time"
)

// Option configures a Client in NewClient.
type Option func(*Client)

// WithHTTPClient replaces the transport client. Its Timeout bounds each
// attempt, not the whole retry sequence.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout sets the per-attempt timeout on a private copy of the
// current http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			return
		}
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

func WithLogger(logger Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRetryMax bounds the retries after the first attempt. Negative values
// are ignored; 0 disables retrying.
func WithRetryMax(retryMax int) Option {
	return func(c *Client) {
		if retryMax >= 0 {
			c.retryMax = retryMax
		}
	}
}

// WithRetryWait sets the backoff window. A non-positive min is ignored, and
// max is only taken when it is at least min.
func WithRetryWait(min, max time.Duration) Option {
	return func(c *Client) {
		if min <= 0 {
			return
		}
		c.retryWaitMin = min
		if max >= min {
			c.retryWaitMax = max
		}
	}
}

// WithUserAgent overrides the User-Agent header; empty keeps the default.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

//Personal.AI order the ending
