package plex

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/recordarr/recordarr/internal/config"
	"github.com/sirupsen/logrus"
)

const defaultPrefsPath = "/config/Library/Application Support/Plex Media Server/Preferences.xml"

// Client handles communication with the Plex Media Server API. It is
// stateless and safe for concurrent use; every outbound call passes through
// a shared in-flight request limiter.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limit      limiter
	logger     *logrus.Logger
}

// NewClient creates a new Plex API client. The access token comes from
// configuration directly, or is read from the server's Preferences.xml when
// no explicit token is set.
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	token := cfg.PlexToken
	if token == "" {
		prefsPath := cfg.PlexPrefsPath
		if prefsPath == "" {
			prefsPath = defaultPrefsPath
		}

		var err error
		token, err = tokenFromPreferences(prefsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load Plex token: %w", err)
		}
	}

	return &Client{
		baseURL:    cfg.PlexURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limit:      newLimiter(cfg.MaxInflightRequests),
		logger:     logger,
	}, nil
}

// preferences is the root element of the Plex server's Preferences.xml
type preferences struct {
	XMLName         xml.Name `xml:"Preferences"`
	PlexOnlineToken string   `xml:"PlexOnlineToken,attr"`
}

// tokenFromPreferences reads the access token out of Preferences.xml
func tokenFromPreferences(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read preferences file: %w", err)
	}

	var prefs preferences
	if err := xml.Unmarshal(data, &prefs); err != nil {
		return "", fmt.Errorf("failed to parse preferences file: %w", err)
	}

	if prefs.PlexOnlineToken == "" {
		return "", fmt.Errorf("preferences file %s has no PlexOnlineToken", path)
	}

	return prefs.PlexOnlineToken, nil
}

// getJSON performs a rate-limited GET against a Plex resource and decodes
// the JSON response into result
func (c *Client) getJSON(ctx context.Context, resource string, query url.Values, result interface{}) error {
	release, err := c.limit.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	c.logger.WithFields(logrus.Fields{
		"method":   http.MethodGet,
		"resource": resource,
	}).Debug("Making Plex API request")

	req, err := c.newRequest(ctx, http.MethodGet, resource, query)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("plex API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// postForm performs a rate-limited POST against a Plex resource with all
// values carried in the query string, the way the DVR endpoints expect
func (c *Client) postForm(ctx context.Context, resource string, query url.Values) error {
	release, err := c.limit.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	c.logger.WithFields(logrus.Fields{
		"method":   http.MethodPost,
		"resource": resource,
	}).Debug("Making Plex API request")

	req, err := c.newRequest(ctx, http.MethodPost, resource, query)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("plex API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	return nil
}

func (c *Client) newRequest(ctx context.Context, method, resource string, query url.Values) (*http.Request, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("X-Plex-Token", c.token)

	fullURL := fmt.Sprintf("%s/%s?%s", c.baseURL, resource, query.Encode())
	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	return req, nil
}
