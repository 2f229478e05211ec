package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/gaana/internal/shared"
	"github.com/desertthunder/gaana/internal/store"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries a per-request identifier for correlating client and server logs.
const RequestIDHeader = "X-Request-ID"

type sentTokenKey struct{}

// withSentToken gives the transport a slot to report the token it attached.
func withSentToken(ctx context.Context, slot *string) context.Context {
	return context.WithValue(ctx, sentTokenKey{}, slot)
}

func recordSentToken(ctx context.Context, token string) {
	if slot, ok := ctx.Value(sentTokenKey{}).(*string); ok {
		*slot = token
	}
}

// AuthTransport is an [http.RoundTripper] that attaches the stored session token to every request.
//
// Requests made without a stored session proceed unauthenticated.
type AuthTransport struct {
	Tokens  store.TokenStore
	Base    http.RoundTripper
	Limiter *rate.Limiter // optional
}

// NewAuthTransport wraps base (or [http.DefaultTransport] when nil).
func NewAuthTransport(tokens store.TokenStore, base http.RoundTripper, limiter *rate.Limiter) *AuthTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &AuthTransport{Tokens: tokens, Base: base, Limiter: limiter}
}

// RoundTrip clones req, decorates the clone and hands it to the base transport.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Limiter != nil {
		if err := t.Limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	out := req.Clone(req.Context())
	if out.Header.Get(RequestIDHeader) == "" {
		out.Header.Set(RequestIDHeader, shared.GenerateID())
	}

	if t.Tokens != nil {
		session, err := t.Tokens.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
		if session.Token != "" {
			tok := &oauth2.Token{AccessToken: session.Token, TokenType: "Bearer"}
			tok.SetAuthHeader(out)
			recordSentToken(req.Context(), session.Token)
		}
	}

	return t.Base.RoundTrip(out)
}

// NewClient returns an [http.Client] whose requests go through an [AuthTransport].
//
// A zero rps disables rate limiting.
func NewClient(tokens store.TokenStore, rps float64, burst int) *http.Client {
	var limiter *rate.Limiter
	if rps > 0 {
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return &http.Client{Transport: NewAuthTransport(tokens, nil, limiter)}
}
