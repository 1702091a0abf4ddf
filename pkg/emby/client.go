// Package emby provides a developer-friendly Go client for Emby-compatible servers
package emby

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is the main Emby API client
type Client struct {
	config *Config
	http   *http.Client

	// API modules
	Auth      *AuthAPI
	Libraries *LibrariesAPI
	Items     *ItemsAPI
	Search    *SearchAPI
	Sessions  *SessionsAPI
	Playback  *PlaybackAPI
	Images    *ImagesAPI
}

// Config holds the client configuration
type Config struct {
	ServerURL   string
	AccessToken string
	UserID      string
	DeviceID    string
	ClientName  string
	Version     string
	Timeout     time.Duration
}

// NewClient creates a new Emby client with the given configuration
func NewClient(config *Config) *Client {
	if config.ClientName == "" {
		config.ClientName = "etui"
	}
	if config.Version == "" {
		config.Version = "1.0.0"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	config.ServerURL = strings.TrimRight(config.ServerURL, "/")

	// Optimized HTTP client with enhanced connection pooling
	transport := &http.Transport{
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       0,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		DisableKeepAlives:     false,
		ForceAttemptHTTP2:     true,
	}

	httpClient := &http.Client{
		Timeout:   config.Timeout,
		Transport: transport,
	}

	client := &Client{
		config: config,
		http:   httpClient,
	}

	// Initialize API modules
	client.Auth = &AuthAPI{client: client}
	client.Libraries = &LibrariesAPI{client: client}
	client.Items = &ItemsAPI{client: client}
	client.Search = &SearchAPI{client: client}
	client.Sessions = &SessionsAPI{client: client}
	client.Playback = &PlaybackAPI{client: client}
	client.Images = &ImagesAPI{client: client}

	return client
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() *Config {
	return c.config
}

// GetHTTPClient returns the underlying HTTP client
func (c *Client) GetHTTPClient() *http.Client {
	return c.http
}

// SetAccessToken updates the access token
func (c *Client) SetAccessToken(token string) {
	c.config.AccessToken = token
}

// SetUserID updates the user ID
func (c *Client) SetUserID(userID string) {
	c.config.UserID = userID
}

// SetDeviceID updates the device ID
func (c *Client) SetDeviceID(deviceID string) {
	c.config.DeviceID = deviceID
}

// IsAuthenticated checks if the client has authentication credentials
func (c *Client) IsAuthenticated() bool {
	return c.config.AccessToken != "" && c.config.UserID != ""
}

// GetAuthHeader returns the MediaBrowser authorization header
func (c *Client) GetAuthHeader() string {
	return fmt.Sprintf(`MediaBrowser Client="%s", Device="CLI", DeviceId="%s", Version="%s", Token="%s"`,
		c.config.ClientName, c.config.DeviceID, c.config.Version, c.config.AccessToken)
}

// do performs an authenticated request against the server and enforces a
// successful status code. The returned response body is open; callers own it.
func (c *Client) do(method, url string, payload any) (*http.Response, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", c.GetAuthHeader())
	req.Header.Set("X-Emby-Token", c.config.AccessToken)
	req.Header.Set("User-Agent", fmt.Sprintf("%s/%s", c.config.ClientName, c.config.Version))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("API returned %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}

// getJSON performs an authenticated GET and decodes the JSON response into dst.
func (c *Client) getJSON(url string, dst any) error {
	resp, err := c.do("GET", url, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// postJSON performs an authenticated POST with a JSON body, discarding the response.
func (c *Client) postJSON(url string, payload any) error {
	resp, err := c.do("POST", url, payload)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
