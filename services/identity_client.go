// services/identity_client.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"scoreboard-system/models"
)

// IdentityClient talks to the external user-identity service. This service
// never provisions accounts itself — it exchanges OAuth codes for session
// tokens and validates tokens into profiles, keeping only a local snapshot.
type IdentityClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewIdentityClient(baseURL, apiKey string) *IdentityClient {
	return &IdentityClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type redirectURLResponse struct {
	RedirectURL string `json:"redirect_url"`
}

// GetOAuthRedirectURL asks the identity service where to send the browser
// for the given provider (e.g. "google").
func (c *IdentityClient) GetOAuthRedirectURL(provider string) (string, error) {
	var out redirectURLResponse
	if err := c.do("GET", fmt.Sprintf("/oauth/%s/redirect_url", provider), nil, "", &out); err != nil {
		return "", err
	}
	return out.RedirectURL, nil
}

type sessionExchangeResponse struct {
	SessionToken string `json:"session_token"`
}

// ExchangeCodeForSessionToken trades an OAuth authorization code for a
// session token the dashboard stores in its cookie.
func (c *IdentityClient) ExchangeCodeForSessionToken(code string) (string, error) {
	body := map[string]string{"code": code}
	var out sessionExchangeResponse
	if err := c.do("POST", "/sessions", body, "", &out); err != nil {
		return "", err
	}
	return out.SessionToken, nil
}

// GetUserBySessionToken validates a session token and returns the profile
// behind it.
func (c *IdentityClient) GetUserBySessionToken(sessionToken string) (*models.RemoteProfile, error) {
	var out models.RemoteProfile
	if err := c.do("GET", "/users/me", nil, sessionToken, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSession invalidates a session token on logout.
func (c *IdentityClient) DeleteSession(sessionToken string) error {
	return c.do("DELETE", "/sessions/current", nil, sessionToken, nil)
}

// ListChangedProfiles returns profiles updated since the given time. Used by
// the sync worker to keep local user snapshots fresh.
func (c *IdentityClient) ListChangedProfiles(since time.Time) ([]models.RemoteProfile, error) {
	var out struct {
		Profiles []models.RemoteProfile `json:"profiles"`
	}
	path := fmt.Sprintf("/profiles?since=%s", since.UTC().Format(time.RFC3339))
	if err := c.do("GET", path, nil, "", &out); err != nil {
		return nil, err
	}
	return out.Profiles, nil
}

func (c *IdentityClient) do(method, path string, body interface{}, sessionToken string, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.APIKey)
	if sessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+sessionToken)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("IdentityService %s %s returned %d: %s", method, path, resp.StatusCode, string(respBody))
		return fmt.Errorf("identity service request failed: %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}
