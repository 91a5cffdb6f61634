package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleUserinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
	googleRevokeURL   = "https://oauth2.googleapis.com/revoke"
)

// GoogleConfig holds the OAuth2 client settings for Google sign-in.
type GoogleConfig struct {
	ClientID     string `env:"RESOLVEIT_GOOGLE_CLIENT_ID,required"`
	ClientSecret string `env:"RESOLVEIT_GOOGLE_CLIENT_SECRET,required"`
	RedirectURL  string `env:"RESOLVEIT_GOOGLE_REDIRECT_URL,required"`
}

// GoogleProvider implements Provider over Google's OAuth2 flow. The host
// application sends the user to AuthURL and feeds the callback code to
// HandleCallback, which emits a sign-in event on the stream.
type GoogleProvider struct {
	oauth  oauth2.Config
	http   *http.Client
	events chan Event

	mu    sync.Mutex
	token *oauth2.Token
}

// GoogleOption is a functional option for configuring the GoogleProvider
type GoogleOption func(*GoogleProvider)

// WithHTTPClient sets the client used for userinfo and revocation calls.
func WithHTTPClient(hc *http.Client) GoogleOption {
	return func(p *GoogleProvider) {
		if hc != nil {
			p.http = hc
		}
	}
}

// NewGoogleProvider creates a provider from OAuth2 client settings.
func NewGoogleProvider(cfg GoogleConfig, opts ...GoogleOption) *GoogleProvider {
	p := &GoogleProvider{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		http:   http.DefaultClient,
		events: make(chan Event, 8),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AuthURL builds the provider authorization URL for the given state token.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// HandleCallback exchanges the authorization code, fetches the user's
// profile and emits a sign-in event carrying the identity assertion.
func (p *GoogleProvider) HandleCallback(ctx context.Context, code string) error {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return errors.Join(ErrExchangeFailed, err)
	}

	p.mu.Lock()
	p.token = token
	p.mu.Unlock()

	info, err := p.userinfo(ctx, token)
	if err != nil {
		return err
	}

	p.emit(Event{
		Kind:        EventSignIn,
		Assertion:   assertionFromToken(token),
		Email:       info.Email,
		DisplayName: info.Name,
		PictureRef:  info.Picture,
	})
	return nil
}

// Events returns the provider's event stream.
func (p *GoogleProvider) Events() <-chan Event {
	return p.events
}

// CurrentAssertion exchanges the live Google session for a fresh assertion,
// refreshing the underlying token if it has expired.
func (p *GoogleProvider) CurrentAssertion(ctx context.Context) (string, error) {
	p.mu.Lock()
	token := p.token
	p.mu.Unlock()
	if token == nil {
		return "", ErrNotSignedIn
	}

	fresh, err := p.oauth.TokenSource(ctx, token).Token()
	if err != nil {
		return "", errors.Join(ErrExchangeFailed, err)
	}

	p.mu.Lock()
	p.token = fresh
	p.mu.Unlock()

	return assertionFromToken(fresh), nil
}

// SignOut revokes the Google token (best-effort) and emits a sign-out
// event on the stream.
func (p *GoogleProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	token := p.token
	p.token = nil
	p.mu.Unlock()

	if token != nil {
		form := url.Values{"token": {token.AccessToken}}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleRevokeURL, strings.NewReader(form.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if resp, err := p.http.Do(req); err == nil {
				_ = resp.Body.Close()
			}
		}
	}

	p.emit(Event{Kind: EventSignOut})
	return nil
}

type googleUserinfo struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (p *GoogleProvider) userinfo(ctx context.Context, token *oauth2.Token) (googleUserinfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserinfoURL, nil)
	if err != nil {
		return googleUserinfo{}, errors.Join(ErrProfileFetch, err)
	}
	token.SetAuthHeader(req)

	resp, err := p.http.Do(req)
	if err != nil {
		return googleUserinfo{}, errors.Join(ErrProfileFetch, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return googleUserinfo{}, errors.Join(ErrProfileFetch, fmt.Errorf("userinfo status %d", resp.StatusCode))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return googleUserinfo{}, errors.Join(ErrProfileFetch, err)
	}

	var info googleUserinfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return googleUserinfo{}, errors.Join(ErrProfileFetch, err)
	}
	return info, nil
}

// assertionFromToken prefers the OpenID Connect id_token; the backend
// verifies its signature. Falls back to the access token for providers
// configured without the openid scope.
func assertionFromToken(token *oauth2.Token) string {
	if idToken, ok := token.Extra("id_token").(string); ok && idToken != "" {
		return idToken
	}
	return token.AccessToken
}

func (p *GoogleProvider) emit(ev Event) {
	select {
	case p.events <- ev:
	default:
		// A stalled consumer loses the oldest event; sign-in freshness
		// matters more than completeness here.
		select {
		case <-p.events:
		default:
		}
		select {
		case p.events <- ev:
		default:
		}
	}
}
