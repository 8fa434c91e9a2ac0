// internal/common/auth/keycloak.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"roi-navigator/internal/common/errors"
)

// KeycloakClient provides admin-API access to the identity provider for
// user management operations.
type KeycloakClient struct {
	baseURL      string
	realm        string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// User represents a user record in the identity provider. Application
// level flags (role, blocked) live in the attributes map.
type User struct {
	ID            string              `json:"id,omitempty"`
	Email         string              `json:"email"`
	FirstName     string              `json:"firstName"`
	LastName      string              `json:"lastName"`
	Username      string              `json:"username"`
	Enabled       bool                `json:"enabled"`
	EmailVerified bool                `json:"emailVerified"`
	Attributes    map[string][]string `json:"attributes,omitempty"`
}

// Role returns the application role attribute, defaulting to "user".
func (u *User) Role() string {
	if vals, ok := u.Attributes["role"]; ok && len(vals) > 0 && vals[0] != "" {
		return vals[0]
	}
	return "user"
}

// Blocked reports whether the user carries the blocked attribute.
func (u *User) Blocked() bool {
	if vals, ok := u.Attributes["blocked"]; ok && len(vals) > 0 {
		return vals[0] == "true"
	}
	return false
}

// TokenResponse holds the response from the token endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
}

// credentialRepresentation is the admin-API payload for password resets.
type credentialRepresentation struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

// NewKeycloakClient creates a new instance of KeycloakClient.
func NewKeycloakClient(baseURL, realm, clientID, clientSecret string) *KeycloakClient {
	return &KeycloakClient{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		realm:        realm,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// getAccessToken fetches a new access token using the client credentials flow.
// It caches the token until expiry.
func (k *KeycloakClient) getAccessToken(ctx context.Context) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.tokenExpiry.After(time.Now()) && k.accessToken != "" {
		return k.accessToken, nil
	}

	tokenURL := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", k.baseURL, k.realm)

	data := url.Values{}
	data.Set("grant_type", "client_credentials")
	data.Set("client_id", k.clientID)
	data.Set("client_secret", k.clientSecret)

	req, err := http.NewRequestWithContext(ctx, "POST", tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	k.accessToken = tokenResp.AccessToken
	// Refresh 30 seconds early so in-flight requests never carry an
	// expired token.
	k.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn-30) * time.Second)

	return k.accessToken, nil
}

// doAdminRequest executes an authenticated admin-API request and returns
// the response body for any of the accepted status codes.
func (k *KeycloakClient) doAdminRequest(ctx context.Context, method, reqURL string, body io.Reader, wantStatus ...int) ([]byte, error) {
	token, err := k.getAccessToken(ctx)
	if err != nil {
		return nil, errors.NewIdentityProviderError("authenticate", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, errors.NewIdentityProviderError("build request", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewIdentityProviderError(method+" "+reqURL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewIdentityProviderError("read response", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.NewUserNotFoundError(fmt.Sprintf("%s %s returned 404", method, reqURL))
	}

	for _, want := range wantStatus {
		if resp.StatusCode == want {
			return respBody, nil
		}
	}

	return nil, errors.NewIdentityProviderError(
		method+" "+reqURL,
		fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody)),
	)
}

// ListUsers retrieves a page of users from the realm.
func (k *KeycloakClient) ListUsers(ctx context.Context, first, max int) ([]User, error) {
	listURL := fmt.Sprintf("%s/admin/realms/%s/users?first=%d&max=%d", k.baseURL, k.realm, first, max)

	body, err := k.doAdminRequest(ctx, "GET", listURL, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var users []User
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, errors.NewIdentityProviderError("decode user list", err)
	}

	return users, nil
}

// GetUser retrieves a user by their unique ID.
func (k *KeycloakClient) GetUser(ctx context.Context, userID string) (*User, error) {
	userURL := fmt.Sprintf("%s/admin/realms/%s/users/%s", k.baseURL, k.realm, url.PathEscape(userID))

	body, err := k.doAdminRequest(ctx, "GET", userURL, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, errors.NewIdentityProviderError("decode user", err)
	}

	return &user, nil
}

// GetUserByEmail retrieves a user by their email address using an exact
// search.
func (k *KeycloakClient) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	searchURL := fmt.Sprintf("%s/admin/realms/%s/users?email=%s&exact=true", k.baseURL, k.realm, url.QueryEscape(email))

	body, err := k.doAdminRequest(ctx, "GET", searchURL, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var users []User
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, errors.NewIdentityProviderError("decode user search", err)
	}

	if len(users) == 0 {
		return nil, errors.NewUserNotFoundError(fmt.Sprintf("no user with email: %s", email))
	}

	return &users[0], nil
}

// UpdateUser replaces the stored user representation.
func (k *KeycloakClient) UpdateUser(ctx context.Context, user *User) error {
	userURL := fmt.Sprintf("%s/admin/realms/%s/users/%s", k.baseURL, k.realm, url.PathEscape(user.ID))

	jsonData, err := json.Marshal(user)
	if err != nil {
		return errors.NewIdentityProviderError("serialize user", err)
	}

	_, err = k.doAdminRequest(ctx, "PUT", userURL, strings.NewReader(string(jsonData)), http.StatusNoContent, http.StatusOK)
	return err
}

// SetBlocked toggles the user's blocked attribute and disables or
// re-enables the account to match.
func (k *KeycloakClient) SetBlocked(ctx context.Context, userID string, blocked bool) (*User, error) {
	user, err := k.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Attributes == nil {
		user.Attributes = make(map[string][]string)
	}
	user.Attributes["blocked"] = []string{fmt.Sprintf("%t", blocked)}
	user.Enabled = !blocked

	if err := k.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ResetPassword sets a temporary password for the user. The account is
// disabled until an administrator re-enables it; the credential is
// delivered out of band and never returned to API callers.
func (k *KeycloakClient) ResetPassword(ctx context.Context, userID, tempPassword string) error {
	user, err := k.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/admin/realms/%s/users/%s/reset-password", k.baseURL, k.realm, url.PathEscape(userID))

	cred := credentialRepresentation{
		Type:      "password",
		Value:     tempPassword,
		Temporary: true,
	}

	jsonData, err := json.Marshal(cred)
	if err != nil {
		return errors.NewIdentityProviderError("serialize credential", err)
	}

	if _, err := k.doAdminRequest(ctx, "PUT", resetURL, strings.NewReader(string(jsonData)), http.StatusNoContent, http.StatusOK); err != nil {
		return err
	}

	user.Enabled = false
	return k.UpdateUser(ctx, user)
}
