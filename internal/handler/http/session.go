package http

import (
	"context"
	"crypto/rand"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/rankline/live-poll-service/internal/domain/model"
)

type contextKey string

const requesterContextKey contextKey = "requester"

const (
	sessionTokenLength   = 96
	sessionTokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	sessionCookieMaxAge  = 52 * 7 * 24 * time.Hour
)

// Identifier attaches a model.Requester to every request: the session
// token from a long-lived cookie (minted on first contact) and the
// caller's network address.
type Identifier struct {
	cookieName     string
	trustForwarded bool
}

func NewIdentifier(cookieName string, trustForwarded bool) *Identifier {
	return &Identifier{cookieName: cookieName, trustForwarded: trustForwarded}
}

func (i *Identifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if c, err := r.Cookie(i.cookieName); err == nil {
			token = c.Value
		}
		if token == "" {
			token = newSessionToken()
			http.SetCookie(w, &http.Cookie{
				Name:     i.cookieName,
				Value:    token,
				Path:     "/",
				MaxAge:   int(sessionCookieMaxAge.Seconds()),
				SameSite: http.SameSiteLaxMode,
			})
		}

		req := model.Requester{
			SessionToken: token,
			Addr:         i.clientAddr(r),
		}
		next.ServeHTTP(w, r.WithContext(withRequester(r.Context(), req)))
	})
}

// clientAddr resolves the caller's address, honouring X-Forwarded-For
// only when the config says there is a trusted proxy in front of us.
func (i *Identifier) clientAddr(r *http.Request) netip.Addr {
	if i.trustForwarded {
		if h := r.Header.Get("X-Forwarded-For"); h != "" {
			first, _, _ := strings.Cut(h, ",")
			if addr, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
				return addr
			}
		}
	}
	if ap, err := netip.ParseAddrPort(r.RemoteAddr); err == nil {
		return ap.Addr()
	}
	return netip.Addr{}
}

func newSessionToken() string {
	// Rejection sampling: bytes at or above the largest multiple of the
	// alphabet size are redrawn, keeping every character equally likely.
	const limit = byte(256 - 256%len(sessionTokenAlphabet))
	out := make([]byte, 0, sessionTokenLength)
	buf := make([]byte, sessionTokenLength)
	for len(out) < sessionTokenLength {
		if _, err := rand.Read(buf); err != nil {
			panic(err) // crypto/rand failures are not recoverable
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, sessionTokenAlphabet[int(b)%len(sessionTokenAlphabet)])
			if len(out) == sessionTokenLength {
				break
			}
		}
	}
	return string(out)
}

func withRequester(ctx context.Context, req model.Requester) context.Context {
	return context.WithValue(ctx, requesterContextKey, req)
}

// RequesterFrom extracts the identity attached by the middleware.
func RequesterFrom(ctx context.Context) (model.Requester, bool) {
	req, ok := ctx.Value(requesterContextKey).(model.Requester)
	return req, ok
}
