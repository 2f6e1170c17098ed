package sheet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Fetch(t *testing.T) {
	tests := []struct {
		name           string
		handler        http.HandlerFunc
		wantBody       string
		wantStatusCode int
		wantErr        bool
	}{
		{
			name: "returns body text",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
				w.Header().Set("Content-Type", "text/csv")
				_, _ = w.Write([]byte("A1,Greetings,Hello\n"))
			},
			wantBody: "A1,Greetings,Hello\n",
		},
		{
			name: "non-2xx is a fetch error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "<html>gone</html>", http.StatusNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantErr:        true,
		},
		{
			name: "server error is a fetch error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantStatusCode: http.StatusBadGateway,
			wantErr:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(server.URL)
			got, err := client.Fetch(context.Background())
			if tt.wantErr {
				var fe *FetchError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tt.wantStatusCode, fe.StatusCode)
				assert.Equal(t, server.URL, fe.URL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBody, got)
		})
	}
}

func TestClient_Fetch_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(url).Fetch(context.Background())
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Zero(t, fe.StatusCode)
	assert.Error(t, fe.Unwrap())
}

func TestClient_Fetch_NoRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Fetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := NewClient(server.URL, WithTimeout(50*time.Millisecond)).Fetch(context.Background())
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Zero(t, fe.StatusCode)
}
