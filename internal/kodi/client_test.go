package kodi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(srv *httptest.Server) *Client {
	return &Client{endpoint: srv.URL, httpClient: srv.Client()}
}

func TestGetChannels(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":1,"jsonrpc":"2.0","result":{"channels":[
			{"channelid":41,"label":"CNN"},
			{"channelid":12,"label":"BBC One"}
		]}}`))
	}))
	defer srv.Close()

	chs, err := testClient(srv).GetChannels(context.Background())
	require.NoError(t, err)

	require.Len(t, chs, 2)
	assert.Equal(t, Channel{ChannelID: 41, Label: "CNN"}, chs[0])
	assert.Equal(t, Channel{ChannelID: 12, Label: "BBC One"}, chs[1])

	assert.Equal(t, "2.0", gotBody["jsonrpc"])
	assert.Equal(t, "PVR.GetChannels", gotBody["method"])
	assert.Equal(t, float64(1), gotBody["id"])
	params, ok := gotBody["params"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alltv", params["channelgroupid"])
}

func TestGetChannelsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv).GetChannels(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestGetChannelsMissingResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"id":1,"jsonrpc":"2.0","error":{"code":-32601,"message":"Method not found"}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv).GetChannels(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no channels returned")
}

func TestNewClientEndpoint(t *testing.T) {
	c := NewClient("192.168.1.50", "8080")
	assert.Equal(t, "http://192.168.1.50:8080/jsonrpc", c.endpoint)
}
