package storefront

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pricelens/backend/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchPage = `<html><body>
<div class="product-card">
  <h3>Arroz Tio João Tipo 1 5kg</h3>
  <span class="price">R$ 27,90</span>
</div>
<div class="product-card">
  <h3>Feijão Carioca Camil 1kg</h3>
  <span class="price">R$ 8,49</span>
</div>
</body></html>`

func newTestClient(retries int) *Client {
	client := NewClient(ClientConfig{
		Timeout:           2 * time.Second,
		RequestsPerSecond: 1000,
		Burst:             100,
		MaxRetries:        retries,
	}, zerolog.Nop())
	client.backoff = func(int) time.Duration { return time.Millisecond }
	return client
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(ClientConfig{}, zerolog.Nop())

	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
	assert.Equal(t, defaultTimeout, client.httpClient.Timeout)
	assert.Equal(t, defaultMaxRetries, client.maxRetries)
	assert.Equal(t, defaultUserAgent, client.userAgent)
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1000 * time.Millisecond},
		{3, 2000 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt %d", tt.attempt), func(t *testing.T) {
			assert.Equal(t, tt.expected, exponentialBackoff(tt.attempt))
		})
	}
}

func TestSearchURL(t *testing.T) {
	assert.Equal(t, "https://loja.example/busca?ft=arroz+5kg", SearchURL("https://loja.example/", "arroz 5kg"))
	assert.Equal(t, "https://loja.example/busca?ft=caf%C3%A9", SearchURL("https://loja.example", "café"))
}

func TestSearch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/busca", r.URL.Path)
		assert.Equal(t, "arroz tipo 1 5kg", r.URL.Query().Get("ft"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, searchPage)
	}))
	defer server.Close()

	client := newTestClient(3)
	cards, err := client.Search(context.Background(), server.URL, "arroz tipo 1 5kg")

	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "Arroz Tio João Tipo 1 5kg", cards[0].Name)
	assert.InDelta(t, 27.90, cards[0].Price, 0.001)
	assert.Equal(t, "Feijão Carioca Camil 1kg", cards[1].Name)
	assert.InDelta(t, 8.49, cards[1].Price, 0.001)
}

func TestSearch_NotFound(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(3)
	cards, err := client.Search(context.Background(), server.URL, "nada")

	require.NoError(t, err)
	assert.Empty(t, cards)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSearch_RetryThenSuccess(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, searchPage)
	}))
	defer server.Close()

	client := newTestClient(3)
	cards, err := client.Search(context.Background(), server.URL, "arroz")

	require.NoError(t, err)
	assert.Len(t, cards, 2)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestSearch_AllRetriesFail(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(3)
	_, err := client.Search(context.Background(), server.URL, "arroz")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorefrontFailure)
	assert.Contains(t, err.Error(), "status 500")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestSearch_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, searchPage)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(3)
	_, err := client.Search(ctx, server.URL, "arroz")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearch_UnreachableHost(t *testing.T) {
	client := newTestClient(2)
	_, err := client.Search(context.Background(), "http://127.0.0.1:1", "arroz")

	assert.ErrorIs(t, err, domain.ErrStorefrontFailure)
}
