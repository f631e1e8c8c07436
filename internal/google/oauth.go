package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// getOAuthConfig returns the OAuth2 configuration for all Google services.
// Client credentials come from the environment so deployments can use
// their own OAuth app.
func getOAuthConfig() *oauth2.Config {
	const oob = "urn:ietf:wg:oauth:2.0:oob"
	return &oauth2.Config{
		ClientID:     os.Getenv("INBOXPILOT_GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("INBOXPILOT_GOOGLE_CLIENT_SECRET"),
		Endpoint:     google.Endpoint,
		RedirectURL:  oob,
		Scopes:       DefaultOAuthScopes,
	}
}

// GetAuthURL returns the OAuth URL for user authorization.
func GetAuthURL() string {
	return getOAuthConfig().AuthCodeURL("state", oauth2.AccessTypeOffline)
}

// SaveTokenForAccount exchanges an authorization code for tokens and
// caches them on disk for the given account.
func SaveTokenForAccount(ctx context.Context, account, authCode string) error {
	conf := getOAuthConfig()

	t, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	if err := os.MkdirAll(cacheDir(), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(tokenFile(account), data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// HasTokenForAccount checks if a cached token exists for the account.
func HasTokenForAccount(account string) bool {
	_, err := os.Stat(tokenFile(account))
	return err == nil
}

// GetTokenSourceForAccount returns an OAuth2 token source backed by the
// account's cached token. Refreshed tokens are served transparently by
// the source; the cache keeps the refresh token.
func GetTokenSourceForAccount(ctx context.Context, account string) (oauth2.TokenSource, error) {
	conf := getOAuthConfig()

	data, err := os.ReadFile(tokenFile(account))
	if err != nil {
		return nil, fmt.Errorf("no Google OAuth token for account %s", account)
	}

	var t oauth2.Token
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("invalid token file for account %s: %w", account, err)
	}

	return conf.TokenSource(ctx, &t), nil
}

// GetHTTPClientForAccount returns an HTTP client authenticated as the
// account. The client is configured to use HTTP/1.1 to avoid HTTP/2
// protocol errors against the Google APIs.
func GetHTTPClientForAccount(ctx context.Context, account string) (*http.Client, error) {
	ts, err := GetTokenSourceForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, ts)

	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		ForceAttemptHTTP2: false,
	}

	return client, nil
}

// tokenFile maps an account email to its on-disk token path. The local
// part and domain are kept readable; path separators cannot appear in a
// valid address.
func tokenFile(account string) string {
	name := strings.ToLower(strings.TrimSpace(account))
	return filepath.Join(cacheDir(), name+".token")
}

func cacheDir() string {
	return filepath.Join(userCacheDir(), "inboxpilot")
}

func userCacheDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches")
	case "windows":
		for _, ev := range []string{"TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return v
			}
		}
		panic("No Windows TEMP or TMP environment variables found")
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}
