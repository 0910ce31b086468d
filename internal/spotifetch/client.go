// Package spotifetch wraps the Spotify Web API as two collaborators: a
// catalog source (paginated track lists for playlists and discographies) and
// a playlist mutator (batched add/remove). Transient server errors are
// retried and page fetches are rate limited.
package spotifetch

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

// Client wraps an authenticated Spotify API client with a page-fetch rate
// limiter shared across all calls.
type Client struct {
	api     *spotify.Client
	limiter *rate.Limiter
}

// New wraps an authenticated API client.
func New(api *spotify.Client) *Client {
	return &Client{
		api:     api,
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}
}

// NewReadOnly builds a client with app-only credentials, enough for reading
// public playlists and catalogs.
func NewReadOnly(ctx context.Context, clientID, clientSecret string) *Client {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	return New(spotify.New(config.Client(ctx)))
}

// Authorize runs the authorization-code flow for operations that need user
// scopes (private playlist reads, playlist mutation). It prints the
// authorization URL, serves the redirect callback locally, and blocks until
// the user completes login or ctx is done.
func Authorize(ctx context.Context, clientID, clientSecret, redirectURL string, scopes ...string) (*Client, error) {
	auth := spotifyauth.New(
		spotifyauth.WithClientID(clientID),
		spotifyauth.WithClientSecret(clientSecret),
		spotifyauth.WithRedirectURL(redirectURL),
		spotifyauth.WithScopes(scopes...),
	)

	redirect, err := url.Parse(redirectURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redirect URL: %w", err)
	}

	state, err := randomState()
	if err != nil {
		return nil, err
	}

	tokens := make(chan *oauth2.Token, 1)
	authErrs := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(redirect.Path, func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.Token(r.Context(), state, r)
		if err != nil {
			http.Error(w, "Couldn't get token", http.StatusForbidden)
			authErrs <- err
			return
		}
		fmt.Fprintln(w, "Login complete. You can close this window.")
		tokens <- token
	})

	serverErrs := make(chan error, 1)
	server := &http.Server{Addr: redirect.Host, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrs <- err
		}
	}()
	defer server.Shutdown(context.Background())

	fmt.Println("Open this URL in your browser to authorize:")
	fmt.Println(auth.AuthURL(state))

	select {
	case token := <-tokens:
		return New(spotify.New(auth.Client(ctx, token))), nil
	case err := <-authErrs:
		return nil, fmt.Errorf("completing authorization: %w", err)
	case err := <-serverErrs:
		return nil, fmt.Errorf("serving auth callback: %w", err)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// isTransient reports whether an API error is worth retrying. Only server
// errors qualify; auth and not-found errors propagate immediately.
func isTransient(err error) bool {
	var serr spotify.Error
	if errors.As(err, &serr) {
		return serr.Status/100 == 5
	}
	return false
}
