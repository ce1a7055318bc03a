// Package kodi is a minimal JSON-RPC client for the Kodi media center,
// covering the single PVR.GetChannels call the sync needs.
package kodi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultHTTPTimeout = 30 * time.Second

// Client talks to one Kodi instance over its JSON-RPC HTTP endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a client for the Kodi instance at host:port.
func NewClient(host, port string) *Client {
	return &Client{
		endpoint: fmt.Sprintf("http://%s:%s/jsonrpc", host, port),
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
	}
}

// Channel is one entry of the PVR channel list.
type Channel struct {
	ChannelID int    `json:"channelid"`
	Label     string `json:"label"`
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      int    `json:"id"`
}

type pvrParams struct {
	ChannelGroupID string `json:"channelgroupid"`
}

type rpcResponse struct {
	Result *struct {
		Channels []Channel `json:"channels"`
	} `json:"result"`
}

// GetChannels fetches the full "alltv" PVR channel list. Any transport
// failure, non-2xx status, or a response without result.channels is a hard
// error; the caller aborts its reconciliation on it.
func (c *Client) GetChannels(ctx context.Context) ([]Channel, error) {
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		Method:  "PVR.GetChannels",
		Params:  pvrParams{ChannelGroupID: "alltv"},
		ID:      1,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("NewRequest: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kodi request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("kodi API error: HTTP %d", resp.StatusCode)
	}

	var parsed rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if parsed.Result == nil || parsed.Result.Channels == nil {
		return nil, fmt.Errorf("no channels returned from Kodi")
	}
	return parsed.Result.Channels, nil
}
