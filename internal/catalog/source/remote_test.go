package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlas/internal/catalog/models"
)

func TestHTTPSource_Fetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`[
			{"name":"Alpha","region":"R","code":"A1","capital":"FirstCity"},
			{"name":"Beta","region":"R","code":"B2","capital":"SecondCity"}
		]`))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, time.Second)
	countries, err := src.Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, countries, 2)
	assert.Equal(t, models.NewCountry("Alpha", "R", "A1", "FirstCity"), countries[0])
	assert.Equal(t, models.NewCountry("Beta", "R", "B2", "SecondCity"), countries[1])
}

func TestHTTPSource_Fetch_AcceptsAliasedCodeField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":"France","region":"Europe","alpha2Code":"FR","capital":"Paris"}]`))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, time.Second)
	countries, err := src.Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, countries, 1)
	assert.Equal(t, "FR", countries[0].Code)
}

func TestHTTPSource_Fetch_EmptyArrayIsValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, time.Second)
	countries, err := src.Fetch(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, countries)
	assert.Empty(t, countries)
}

func TestHTTPSource_Fetch_HTTPStatusIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, time.Second)
	_, err := src.Fetch(context.Background())

	require.Error(t, err)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, ErrorHTTPStatus, fe.Category)
	assert.Equal(t, http.StatusInternalServerError, fe.StatusCode)
	assert.True(t, IsRetryable(err))
}

func TestHTTPSource_Fetch_EmptyBodyIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 200 with zero bytes
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, time.Second)
	_, err := src.Fetch(context.Background())

	require.Error(t, err)
	assert.Equal(t, ErrorEmptyBody, GetCategory(err))
	assert.True(t, IsRetryable(err))
}

func TestHTTPSource_Fetch_DecodeFailureIsPermanent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"service degraded"}`))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, time.Second)
	_, err := src.Fetch(context.Background())

	require.Error(t, err)
	assert.Equal(t, ErrorDecode, GetCategory(err))
	assert.False(t, IsRetryable(err))
}

func TestHTTPSource_Fetch_InvalidEndpointIsPermanent(t *testing.T) {
	src := NewHTTPSource("not a url", time.Second)
	_, err := src.Fetch(context.Background())

	require.Error(t, err)
	assert.Equal(t, ErrorInvalidEndpoint, GetCategory(err))
	assert.False(t, IsRetryable(err))
}

func TestHTTPSource_Fetch_TransportErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	src := NewHTTPSource(srv.URL, time.Second)
	_, err := src.Fetch(context.Background())

	require.Error(t, err)
	assert.Equal(t, ErrorTransport, GetCategory(err))
	assert.True(t, IsRetryable(err))
}
