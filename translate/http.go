package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// userAgent is sent to the public endpoints, some of which reject requests
// without a browser-like agent.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// maxResponseBytes caps how much of a provider response is read.
const maxResponseBytes = 1 << 20

// ---------------------------------------------------------------------------
// Provider configuration
// ---------------------------------------------------------------------------

// Provider holds the configuration for a remote translation service.
type Provider struct {
	// ID is the strategy identifier (mymemory, google, libre).
	ID string
	// Name is the display name.
	Name string
	// BaseURL is the API base URL.
	BaseURL string
	// APIKey is the authentication key, if the service takes one.
	APIKey string
	// Email is sent to MyMemory to raise the anonymous daily quota.
	Email string
	// Proxy is an optional HTTP/HTTPS proxy URL.
	Proxy string
	// Timeout bounds a single call (0 = no limit beyond the caller's context).
	Timeout time.Duration
	// Client replaces the HTTP client built from Proxy and Timeout.
	Client *http.Client
}

// GoogleTimeout bounds Google Translate calls by default.
const GoogleTimeout = 5 * time.Second

// DefaultProviders returns the pre-configured remote providers.
func DefaultProviders() map[string]Provider {
	return map[string]Provider{
		StrategyMyMemory: {
			ID:      StrategyMyMemory,
			Name:    "MyMemory",
			BaseURL: "https://api.mymemory.translated.net",
		},
		StrategyGoogle: {
			ID:      StrategyGoogle,
			Name:    "Google Translate",
			BaseURL: "https://translate.googleapis.com",
			Timeout: GoogleTimeout,
		},
		StrategyLibre: {
			ID:      StrategyLibre,
			Name:    "LibreTranslate",
			BaseURL: "https://libretranslate.de",
		},
		StrategyDictionary: {
			ID:   StrategyDictionary,
			Name: "Local dictionary",
		},
	}
}

// mergeProvider overlays the non-zero fields of override onto base.
func mergeProvider(base, override Provider) Provider {
	if override.Name != "" {
		base.Name = override.Name
	}
	if override.BaseURL != "" {
		base.BaseURL = override.BaseURL
	}
	if override.APIKey != "" {
		base.APIKey = override.APIKey
	}
	if override.Email != "" {
		base.Email = override.Email
	}
	if override.Proxy != "" {
		base.Proxy = override.Proxy
	}
	if override.Timeout > 0 {
		base.Timeout = override.Timeout
	}
	if override.Client != nil {
		base.Client = override.Client
	}
	return base
}

// ---------------------------------------------------------------------------
// HTTP client with real proxy support
// ---------------------------------------------------------------------------

func makeHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	// Support both an explicit proxy and HTTP_PROXY/HTTPS_PROXY env vars
	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(parsed)
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

func (p Provider) httpClient() *http.Client {
	if p.Client != nil {
		return p.Client
	}
	return makeHTTPClient(p.Proxy, p.Timeout)
}

// ---------------------------------------------------------------------------
// Request helpers
// ---------------------------------------------------------------------------

// doRequest sends req and returns the body of a 200 response.
func doRequest(client *http.Client, req *http.Request) ([]byte, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

func getBody(ctx context.Context, client *http.Client, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	return doRequest(client, req)
}

func postJSON(ctx context.Context, client *http.Client, endpoint string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return doRequest(client, req)
}
