package http

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rankline/live-poll-service/internal/domain/model"
)

func TestMiddlewareMintsCookieOnFirstContact(t *testing.T) {
	ident := NewIdentifier("lps_session", false)

	var seen model.Requester
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, ok := RequesterFrom(r.Context())
		require.True(t, ok)
		seen = req
	})

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.7:4242"
	ident.Middleware(next).ServeHTTP(rec, r)

	require.Len(t, seen.SessionToken, sessionTokenLength)
	assert.Equal(t, netip.MustParseAddr("192.0.2.7"), seen.Addr)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "lps_session", cookies[0].Name)
	assert.Equal(t, seen.SessionToken, cookies[0].Value)
}

func TestMiddlewareReusesExistingCookie(t *testing.T) {
	ident := NewIdentifier("lps_session", false)

	var seen model.Requester
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = RequesterFrom(r.Context())
	})

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.7:4242"
	r.AddCookie(&http.Cookie{Name: "lps_session", Value: "existing-token"})
	ident.Middleware(next).ServeHTTP(rec, r)

	assert.Equal(t, "existing-token", seen.SessionToken)
	assert.Empty(t, rec.Result().Cookies())
}

func TestClientAddrIgnoresForwardedForByDefault(t *testing.T) {
	ident := NewIdentifier("lps_session", false)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.7:4242"
	r.Header.Set("X-Forwarded-For", "198.51.100.1, 203.0.113.9")

	assert.Equal(t, netip.MustParseAddr("192.0.2.7"), ident.clientAddr(r))
}

func TestClientAddrHonorsForwardedForWhenTrusted(t *testing.T) {
	ident := NewIdentifier("lps_session", true)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.7:4242"
	r.Header.Set("X-Forwarded-For", "198.51.100.1, 203.0.113.9")

	// Left-most entry is the original client.
	assert.Equal(t, netip.MustParseAddr("198.51.100.1"), ident.clientAddr(r))
}

func TestClientAddrFallsBackOnGarbageForwardedFor(t *testing.T) {
	ident := NewIdentifier("lps_session", true)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.7:4242"
	r.Header.Set("X-Forwarded-For", "not-an-address")

	assert.Equal(t, netip.MustParseAddr("192.0.2.7"), ident.clientAddr(r))
}

func TestNewSessionTokenIsAlphanumeric(t *testing.T) {
	token := newSessionToken()
	require.Len(t, token, sessionTokenLength)
	for _, c := range token {
		assert.Contains(t, sessionTokenAlphabet, string(c))
	}
	assert.NotEqual(t, token, newSessionToken())
}

func TestNewSessionTokenAlwaysFullLength(t *testing.T) {
	// Redrawn bytes must be replaced, not skipped.
	for i := 0; i < 100; i++ {
		require.Len(t, newSessionToken(), sessionTokenLength)
	}
}
