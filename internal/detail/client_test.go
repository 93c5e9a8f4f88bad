package detail

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/airmap/internal/airport"
)

func TestNewClient(t *testing.T) {
	c := NewClient("http://192.168.1.20:8080/")

	assert.Equal(t, "http://192.168.1.20:8080", c.BaseURL)
	require.NotNil(t, c.HTTPClient)
	assert.Equal(t, DefaultTimeout, c.HTTPClient.Timeout)

	c.SetTimeout(time.Second)
	assert.Equal(t, time.Second, c.HTTPClient.Timeout)
}

func TestClient_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/airports/SFO/info", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"San Francisco International Airport","city":"San Francisco","country":"United States"}`))
	}))
	defer server.Close()

	info, err := NewClient(server.URL).Fetch(context.Background(), sfo)

	require.NoError(t, err)
	assert.Equal(t, sfo.Info(), info)
}

func TestClient_FetchNameless(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"city":"Nowhere","country":"Atlantis"}`))
	}))
	defer server.Close()

	nameless := airport.Airport{Code: "NOW", City: "Nowhere", Country: "Atlantis"}
	require.NoError(t, nameless.Validate())

	info, err := NewClient(server.URL).Fetch(context.Background(), nameless)

	require.NoError(t, err)
	assert.Equal(t, nameless.Info(), info)
}

func TestClient_FetchErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantType  ErrorType
		retryable bool
	}{
		{"not found", http.StatusNotFound, `{"error":"unknown airport"}`, ErrTypeNotFound, false},
		{"server error", http.StatusInternalServerError, "", ErrTypeHTTP, true},
		{"bad request", http.StatusBadRequest, "", ErrTypeHTTP, false},
		{"malformed body", http.StatusOK, `{"name":`, ErrTypeParse, false},
		{"array body", http.StatusOK, `[]`, ErrTypeParse, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL).Fetch(context.Background(), sfo)

			var fe *FetchError
			require.True(t, errors.As(err, &fe), "got %T: %v", err, err)
			assert.Equal(t, tt.wantType, fe.Type)
			assert.Equal(t, tt.retryable, IsRetryable(err))
			assert.Equal(t, "SFO", fe.Code)
		})
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = NewClient("http://"+addr).Fetch(context.Background(), sfo)

	assert.True(t, IsNetworkError(err), "got %v", err)
	assert.True(t, IsRetryable(err))
}

func TestClient_Cancelled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewClient(server.URL).Fetch(ctx, sfo)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, IsRetryable(err))
}

func TestClient_EscapesCode(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	odd := airport.Airport{Code: "A/B"}
	_, err := NewClient(server.URL).Fetch(context.Background(), odd)

	assert.True(t, IsNotFound(err))
	assert.Equal(t, "/api/airports/A%2FB/info", gotPath)
}
