// Package wechat is a thin client for the WeChat auth provider: code-for-
// token exchange and user info lookup. The provider is an external
// collaborator; only the wire shapes live here.
package wechat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/quickfit/quickfit-server/internal/domain"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// TokenResponse is the provider's code-exchange result.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	OpenID       string `json:"openid"`
	Scope        string `json:"scope"`
}

// UserInfo is the provider's profile record. Sex is 1 male, 2 female, 0
// unknown, per the provider contract.
type UserInfo struct {
	OpenID    string `json:"openid"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"headimgurl"`
	Sex       int    `json:"sex"`
}

// Login exchanges an auth code for tokens.
func (c *Client) Login(ctx context.Context, code string) (*TokenResponse, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: empty auth code", domain.ErrInvalidInput)
	}
	body, _ := json.Marshal(map[string]string{"code": code})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/auth/wechat/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, domain.ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", domain.ErrNetworkFailure, resp.StatusCode)
	}
	var out TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecodingFailure, err)
	}
	if out.AccessToken == "" || out.OpenID == "" {
		return nil, fmt.Errorf("%w: missing access_token or openid", domain.ErrDecodingFailure)
	}
	return &out, nil
}

// FetchUserInfo loads the provider profile for an access token.
func (c *Client) FetchUserInfo(ctx context.Context, accessToken, openID string) (*UserInfo, error) {
	if accessToken == "" || openID == "" {
		return nil, fmt.Errorf("%w: access token and openid are required", domain.ErrInvalidInput)
	}
	q := url.Values{}
	q.Set("access_token", accessToken)
	q.Set("openid", openID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/auth/wechat/userinfo?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, domain.ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", domain.ErrNetworkFailure, resp.StatusCode)
	}
	var out UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecodingFailure, err)
	}
	return &out, nil
}
