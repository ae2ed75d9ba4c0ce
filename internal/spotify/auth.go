package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// OAuth endpoints and parameters
const (
	DefaultAuthorizeURL = "https://accounts.spotify.com/authorize"
	DefaultTokenURL     = "https://accounts.spotify.com/api/token"

	// OAuthScopes is the scope set needed for private playlist access
	OAuthScopes = "playlist-read-private playlist-read-collaborative user-read-private user-read-email"

	exchangeTimeout = 15 * time.Second
)

// Credentials holds an exchanged Spotify access token for one user
type Credentials struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Valid reports whether the credentials can still be used for catalog calls
func (c *Credentials) Valid() bool {
	if c == nil || c.AccessToken == "" {
		return false
	}
	return c.ExpiresAt.IsZero() || time.Now().Before(c.ExpiresAt)
}

// Authenticator implements the OAuth authorization-code flow
type Authenticator struct {
	clientID     string
	clientSecret string
	redirectURI  string
	authorizeURL string
	tokenURL     string
	httpClient   *http.Client
}

// NewAuthenticator creates an authenticator for the given application credentials
func NewAuthenticator(clientID, clientSecret, redirectURI string) *Authenticator {
	return &Authenticator{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		authorizeURL: DefaultAuthorizeURL,
		tokenURL:     DefaultTokenURL,
		httpClient:   &http.Client{Timeout: exchangeTimeout},
	}
}

// SetEndpoints overrides the OAuth endpoints (used in tests)
func (a *Authenticator) SetEndpoints(authorizeURL, tokenURL string) {
	a.authorizeURL = authorizeURL
	a.tokenURL = tokenURL
}

// AuthURL builds the authorization URL the user must visit. The state value
// ties the resulting code back to the pending handshake.
func (a *Authenticator) AuthURL(state string) string {
	params := url.Values{}
	params.Set("client_id", a.clientID)
	params.Set("response_type", "code")
	params.Set("redirect_uri", a.redirectURI)
	params.Set("scope", OAuthScopes)
	params.Set("state", state)
	return a.authorizeURL + "?" + params.Encode()
}

// Exchange trades an authorization code for access credentials
func (a *Authenticator) Exchange(ctx context.Context, code string) (*Credentials, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", a.redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(a.clientID, a.clientSecret)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		desc := gjson.GetBytes(body, "error_description").String()
		if desc == "" {
			desc = gjson.GetBytes(body, "error").String()
		}
		return nil, fmt.Errorf("code exchange rejected (%d): %s", resp.StatusCode, desc)
	}

	token := gjson.GetBytes(body, "access_token").String()
	if token == "" {
		return nil, fmt.Errorf("code exchange returned no access token")
	}

	creds := &Credentials{
		AccessToken:  token,
		RefreshToken: gjson.GetBytes(body, "refresh_token").String(),
	}
	if expiresIn := gjson.GetBytes(body, "expires_in").Int(); expiresIn > 0 {
		creds.ExpiresAt = time.Now().Add(time.Duration(expiresIn) * time.Second)
	}
	return creds, nil
}
