package client

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithHTTPClient(t *testing.T) {
	custom := &http.Client{Timeout: 3 * time.Second}
	c, err := NewClient("http://api.example.com", WithHTTPClient(custom))
	require.NoError(t, err)
	assert.Same(t, custom, c.httpClient)
}

func TestWithRetryMax(t *testing.T) {
	c, err := NewClient("http://api.example.com", WithRetryMax(7))
	require.NoError(t, err)
	assert.Equal(t, 7, c.retryMax)

	// Negative values keep the default.
	c, err = NewClient("http://api.example.com", WithRetryMax(-1))
	require.NoError(t, err)
	assert.Equal(t, 3, c.retryMax)
}

func TestWithRetryWait(t *testing.T) {
	c, err := NewClient("http://api.example.com", WithRetryWait(time.Second, 10*time.Second))
	require.NoError(t, err)
	assert.Equal(t, time.Second, c.retryWaitMin)
	assert.Equal(t, 10*time.Second, c.retryWaitMax)

	// max below min leaves max unchanged.
	c, err = NewClient("http://api.example.com", WithRetryWait(2*time.Second, time.Second))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, c.retryWaitMin)
	assert.Equal(t, 5*time.Second, c.retryWaitMax)
}

func TestWithUserAgent(t *testing.T) {
	c, err := NewClient("http://api.example.com", WithUserAgent("acme/2.0"))
	require.NoError(t, err)
	assert.Equal(t, "acme/2.0", c.userAgent)

	c, err = NewClient("http://api.example.com", WithUserAgent(""))
	require.NoError(t, err)
	assert.Contains(t, c.userAgent, "sentencia-go-sdk/")
}
