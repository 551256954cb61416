package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		opts            ClientOptions
		expectedPerHost int
	}{
		{name: "default per-host pool", opts: ClientOptions{Timeout: 3 * time.Second}, expectedPerHost: defaultMaxIdleConnsPerHost},
		{name: "negative falls back to default", opts: ClientOptions{Timeout: time.Second, MaxIdleConnsPerHost: -1}, expectedPerHost: defaultMaxIdleConnsPerHost},
		{name: "configured per-host pool", opts: ClientOptions{Timeout: time.Second, MaxIdleConnsPerHost: 16}, expectedPerHost: 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewHTTPClient(tt.opts)
			assert.Equal(t, tt.opts.Timeout, c.Timeout)

			tr, ok := c.Transport.(*http.Transport)
			require.True(t, ok)
			assert.Equal(t, tt.expectedPerHost, tr.MaxIdleConnsPerHost)
			assert.Equal(t, tt.expectedPerHost*4, tr.MaxIdleConns)
			assert.Equal(t, tt.opts.Timeout, tr.ResponseHeaderTimeout)
		})
	}
}
