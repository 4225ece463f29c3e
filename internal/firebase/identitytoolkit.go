// File: internal/firebase/identitytoolkit.go
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"quran_app_backend/internal/config"
)

// Provider error codes returned by the Identity Toolkit API. Unlisted codes
// are passed through verbatim for the gateway to classify as unknown.
const (
	CodeInvalidEmail            = "INVALID_EMAIL"
	CodeEmailNotFound           = "EMAIL_NOT_FOUND"
	CodeInvalidPassword         = "INVALID_PASSWORD"
	CodeInvalidLoginCredentials = "INVALID_LOGIN_CREDENTIALS"
	CodeUserDisabled            = "USER_DISABLED"
	CodeTooManyAttempts         = "TOO_MANY_ATTEMPTS_TRY_LATER"
	CodeEmailExists             = "EMAIL_EXISTS"
	CodeWeakPassword            = "WEAK_PASSWORD"
	CodeNetworkRequestFailed    = "NETWORK_REQUEST_FAILED"
)

// ProviderError is a classified rejection from the identity provider.
type ProviderError struct {
	Code    string
	Message string
	Status  int
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider error: code=%s status=%d message=%s", e.Code, e.Status, e.Message)
}

// Credential is the outcome of a successful credential operation: tokens for
// the new session plus the basic account fields the response carries.
type Credential struct {
	UID          string
	Email        string
	DisplayName  string
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// IdentityToolkitClient performs the credential-side operations of the
// identity provider over its REST API: password sign-in, account creation,
// out-of-band emails, account lookup and refresh-token exchange. The Admin
// SDK does not offer these; they belong to the client surface of Firebase
// Auth.
type IdentityToolkitClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string // identitytoolkit endpoint, overridable for tests
	tokenURL   string // securetoken endpoint, overridable for tests
	logger     *zap.Logger
}

// NewIdentityToolkitClient creates a REST client for the configured project.
func NewIdentityToolkitClient(cfg *config.Config, logger *zap.Logger) *IdentityToolkitClient {
	return &IdentityToolkitClient{
		httpClient: &http.Client{Timeout: cfg.ProviderTimeout},
		apiKey:     cfg.FirebaseWebAPIKey,
		baseURL:    strings.TrimRight(cfg.IdentityToolkitBaseURL, "/"),
		tokenURL:   strings.TrimRight(cfg.SecureTokenBaseURL, "/"),
		logger:     logger.Named("IdentityToolkit"),
	}
}

type credentialResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

func (r *credentialResponse) toCredential() *Credential {
	seconds, err := strconv.Atoi(r.ExpiresIn)
	if err != nil || seconds <= 0 {
		seconds = 3600
	}
	return &Credential{
		UID:          r.LocalID,
		Email:        r.Email,
		DisplayName:  r.DisplayName,
		IDToken:      r.IDToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(seconds) * time.Second),
	}
}

// SignInWithPassword exchanges email and password for a session credential.
func (c *IdentityToolkitClient) SignInWithPassword(ctx context.Context, email, password string) (*Credential, error) {
	var resp credentialResponse
	err := c.post(ctx, "accounts:signInWithPassword", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.toCredential(), nil
}

// SignUp creates a new email/password account and returns its first session
// credential.
func (c *IdentityToolkitClient) SignUp(ctx context.Context, email, password string) (*Credential, error) {
	var resp credentialResponse
	err := c.post(ctx, "accounts:signUp", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.toCredential(), nil
}

// SendEmailVerification asks the provider to send a verification email to the
// account owning the ID token.
func (c *IdentityToolkitClient) SendEmailVerification(ctx context.Context, idToken string) error {
	return c.post(ctx, "accounts:sendOobCode", map[string]interface{}{
		"requestType": "VERIFY_EMAIL",
		"idToken":     idToken,
	}, nil)
}

// SendPasswordReset asks the provider to send a password reset email.
func (c *IdentityToolkitClient) SendPasswordReset(ctx context.Context, email string) error {
	return c.post(ctx, "accounts:sendOobCode", map[string]interface{}{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}, nil)
}

// LookupAccount fetches the account behind an ID token, including its
// email-verification state.
func (c *IdentityToolkitClient) LookupAccount(ctx context.Context, idToken string) (*Account, error) {
	var resp struct {
		Users []struct {
			LocalID       string `json:"localId"`
			Email         string `json:"email"`
			DisplayName   string `json:"displayName"`
			EmailVerified bool   `json:"emailVerified"`
			Disabled      bool   `json:"disabled"`
		} `json:"users"`
	}
	err := c.post(ctx, "accounts:lookup", map[string]interface{}{"idToken": idToken}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Users) == 0 {
		return nil, &ProviderError{Code: "USER_NOT_FOUND", Message: "account lookup returned no users", Status: http.StatusOK}
	}
	u := resp.Users[0]
	return &Account{
		UID:           u.LocalID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		EmailVerified: u.EmailVerified,
		Disabled:      u.Disabled,
	}, nil
}

// RefreshCredential exchanges a refresh token for a fresh session credential.
func (c *IdentityToolkitClient) RefreshCredential(ctx context.Context, refreshToken string) (*Credential, error) {
	endpoint := fmt.Sprintf("%s/token?key=%s", c.tokenURL, url.QueryEscape(c.apiKey))

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("could not build token refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Token refresh transport failure", zap.Error(err))
		return nil, &ProviderError{Code: CodeNetworkRequestFailed, Message: err.Error()}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, c.decodeError(httpResp)
	}

	var resp struct {
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
		UserID       string `json:"user_id"`
		ExpiresIn    string `json:"expires_in"`
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("could not decode token refresh response: %w", err)
	}

	cred := (&credentialResponse{
		LocalID:      resp.UserID,
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}).toCredential()
	return cred, nil
}

// post sends a JSON request to an identitytoolkit endpoint and decodes the
// response into out (which may be nil when the body is irrelevant).
func (c *IdentityToolkitClient) post(ctx context.Context, action string, body map[string]interface{}, out interface{}) error {
	endpoint := fmt.Sprintf("%s/%s?key=%s", c.baseURL, action, url.QueryEscape(c.apiKey))

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("could not encode %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("could not build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Identity provider transport failure", zap.String("action", action), zap.Error(err))
		return &ProviderError{Code: CodeNetworkRequestFailed, Message: err.Error()}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return c.decodeError(httpResp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not decode %s response: %w", action, err)
	}
	return nil
}

// decodeError parses the provider's error envelope. The message field carries
// the error code, sometimes followed by " : detail".
func (c *IdentityToolkitClient) decodeError(resp *http.Response) error {
	var envelope struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Error.Message == "" {
		return &ProviderError{
			Code:    "UNPARSEABLE_RESPONSE",
			Message: fmt.Sprintf("provider returned status %d with unparseable body", resp.StatusCode),
			Status:  resp.StatusCode,
		}
	}

	code := envelope.Error.Message
	if idx := strings.IndexAny(code, " :"); idx > 0 {
		code = code[:idx]
	}
	return &ProviderError{
		Code:    code,
		Message: envelope.Error.Message,
		Status:  resp.StatusCode,
	}
}
