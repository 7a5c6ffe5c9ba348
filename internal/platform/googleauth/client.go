// Package googleauth verifies Google ID tokens against the tokeninfo
// endpoint.
package googleauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var ErrInvalidToken = errors.New("invalid google id token")

// Identity is the subset of token claims the application uses.
type Identity struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: "https://oauth2.googleapis.com",
	}
}

// Verify resolves an ID token into the identity it asserts. A non-200
// response means the token is invalid or expired.
func (c *Client) Verify(ctx context.Context, idToken string) (Identity, error) {
	u := fmt.Sprintf("%s/tokeninfo?id_token=%s", c.baseURL, url.QueryEscape(idToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Identity{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Identity{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, ErrInvalidToken
	}

	var id Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return Identity{}, err
	}
	if id.Subject == "" || id.Email == "" {
		return Identity{}, ErrInvalidToken
	}
	return id, nil
}
