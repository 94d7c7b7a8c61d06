package provider

import (
	"net/http"
	"time"
)

type Option func(*Client)

func Timeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

func HTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.http = client
	}
}
