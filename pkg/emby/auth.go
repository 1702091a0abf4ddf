package emby

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// AuthAPI handles authentication-related operations
type AuthAPI struct {
	client *Client
}

// TestConnection tests basic connectivity to the server
func (a *AuthAPI) TestConnection() error {
	resp, err := a.client.http.Get(a.client.config.ServerURL + "/System/Info/Public")
	if err != nil {
		return fmt.Errorf("basic HTTP test failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusUnauthorized {
		return fmt.Errorf("server returned HTTP %d", resp.StatusCode)
	}

	return nil
}

// AuthenticateByName authenticates with the server using username and password
// and stores the resulting access token and user ID on the client.
func (a *AuthAPI) AuthenticateByName(username, password string) error {
	// Generate deviceId if not set
	if a.client.config.DeviceID == "" {
		a.client.config.DeviceID = fmt.Sprintf("%s-%d", a.client.config.ClientName, time.Now().Unix())
	}

	url := fmt.Sprintf("%s/Users/AuthenticateByName", a.client.config.ServerURL)

	payload := map[string]string{
		"Username": username,
		"Pw":       password,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", a.client.GetAuthHeader())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", fmt.Sprintf("%s/%s", a.client.config.ClientName, a.client.config.Version))

	resp, err := a.client.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("authentication failed with HTTP %d: %s", resp.StatusCode, string(body))
	}

	var result AuthenticationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if result.AccessToken == "" || result.User.ID == "" {
		return fmt.Errorf("server returned empty credentials")
	}

	a.client.config.AccessToken = result.AccessToken
	a.client.config.UserID = result.User.ID

	return nil
}

// ValidateSession verifies that the stored credentials are still accepted.
func (a *AuthAPI) ValidateSession() error {
	if !a.client.IsAuthenticated() {
		return fmt.Errorf("client is not authenticated")
	}

	url := fmt.Sprintf("%s/Users/%s", a.client.config.ServerURL, a.client.config.UserID)

	var user UserInfo
	if err := a.client.getJSON(url, &user); err != nil {
		return fmt.Errorf("session validation failed: %w", err)
	}

	return nil
}

func sessionFilePath() (string, error) {
	dir := filepath.Join(xdg.StateHome, "etui")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}
	return filepath.Join(dir, "session.json"), nil
}

// LoadSession restores a previously saved session from the XDG state directory.
func (a *AuthAPI) LoadSession() error {
	path, err := sessionFilePath()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("no saved session: %w", err)
	}

	var session SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return fmt.Errorf("failed to parse saved session: %w", err)
	}

	a.client.config.AccessToken = session.AccessToken
	a.client.config.UserID = session.UserID
	if session.DeviceID != "" {
		a.client.config.DeviceID = session.DeviceID
	}

	return nil
}

// SaveSession persists the current session to the XDG state directory.
func (a *AuthAPI) SaveSession() error {
	path, err := sessionFilePath()
	if err != nil {
		return err
	}

	session := SessionData{
		AccessToken: a.client.config.AccessToken,
		UserID:      a.client.config.UserID,
		DeviceID:    a.client.config.DeviceID,
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}
