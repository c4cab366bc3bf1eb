// Package scorefeed is a client for the external NFL stats provider.
package scorefeed

import (
	"github.com/mcdev12/gridiron/go/clients"
)

type Client struct {
	*clients.BaseClient
}

func NewClient(baseURL, apiKey string) *Client {
	client := &Client{
		BaseClient: clients.NewBaseClient(baseURL),
	}

	client.SetHeader(JsonHeader, JsonContentType)
	if apiKey != "" {
		client.SetHeader(APIKeyHeader, apiKey)
	}

	return client
}
