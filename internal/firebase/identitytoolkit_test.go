package firebase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quran_app_backend/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*IdentityToolkitClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		FirebaseWebAPIKey:      "test-key",
		IdentityToolkitBaseURL: server.URL,
		SecureTokenBaseURL:     server.URL,
		ProviderTimeout:        5 * time.Second,
	}
	return NewIdentityToolkitClient(cfg, zap.NewNop()), server
}

func writeProviderError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{"code": status, "message": message},
	})
}

func TestSignInWithPasswordSuccess(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:signInWithPassword", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.com", body["email"])
		assert.Equal(t, true, body["returnSecureToken"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"localId":      "uid-1",
			"email":        "a@b.com",
			"displayName":  "Test User",
			"idToken":      "id-token",
			"refreshToken": "refresh-token",
			"expiresIn":    "3600",
		})
	}))

	cred, err := client.SignInWithPassword(context.Background(), "a@b.com", "Password1")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", cred.UID)
	assert.Equal(t, "id-token", cred.IDToken)
	assert.Equal(t, "refresh-token", cred.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), cred.ExpiresAt, time.Minute)
}

func TestSignInWithPasswordErrorCodes(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		wantCode string
	}{
		{"plain code", "EMAIL_NOT_FOUND", CodeEmailNotFound},
		{"code with detail", "TOO_MANY_ATTEMPTS_TRY_LATER : Try again later.", CodeTooManyAttempts},
		{"invalid password", "INVALID_PASSWORD", CodeInvalidPassword},
		{"consolidated credential error", "INVALID_LOGIN_CREDENTIALS", CodeInvalidLoginCredentials},
		{"disabled account", "USER_DISABLED", CodeUserDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeProviderError(w, http.StatusBadRequest, tt.message)
			}))

			_, err := client.SignInWithPassword(context.Background(), "a@b.com", "wrong")
			require.Error(t, err)

			var provErr *ProviderError
			require.True(t, errors.As(err, &provErr))
			assert.Equal(t, tt.wantCode, provErr.Code)
			assert.Equal(t, http.StatusBadRequest, provErr.Status)
		})
	}
}

func TestSignUpMapsEmailExists(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:signUp", r.URL.Path)
		writeProviderError(w, http.StatusBadRequest, "EMAIL_EXISTS")
	}))

	_, err := client.SignUp(context.Background(), "a@b.com", "Password1")
	var provErr *ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, CodeEmailExists, provErr.Code)
}

func TestSendOobCodeRequests(t *testing.T) {
	var got map[string]interface{}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:sendOobCode", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{"email": "a@b.com"})
	}))

	require.NoError(t, client.SendEmailVerification(context.Background(), "id-token"))
	assert.Equal(t, "VERIFY_EMAIL", got["requestType"])
	assert.Equal(t, "id-token", got["idToken"])

	require.NoError(t, client.SendPasswordReset(context.Background(), "a@b.com"))
	assert.Equal(t, "PASSWORD_RESET", got["requestType"])
	assert.Equal(t, "a@b.com", got["email"])
}

func TestLookupAccount(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:lookup", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"users": []map[string]interface{}{{
				"localId":       "uid-1",
				"email":         "a@b.com",
				"displayName":   "Test User",
				"emailVerified": true,
			}},
		})
	}))

	acct, err := client.LookupAccount(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", acct.UID)
	assert.True(t, acct.EmailVerified)
}

func TestRefreshCredential(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostFormValue("grant_type"))
		assert.Equal(t, "old-refresh", r.PostFormValue("refresh_token"))

		_ = json.NewEncoder(w).Encode(map[string]string{
			"id_token":      "new-id",
			"refresh_token": "new-refresh",
			"user_id":       "uid-1",
			"expires_in":    "3600",
		})
	}))

	cred, err := client.RefreshCredential(context.Background(), "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, "new-id", cred.IDToken)
	assert.Equal(t, "new-refresh", cred.RefreshToken)
	assert.Equal(t, "uid-1", cred.UID)
}

func TestTransportFailureMapsToNetworkCode(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Force a connection error.

	_, err := client.SignInWithPassword(context.Background(), "a@b.com", "Password1")
	var provErr *ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, CodeNetworkRequestFailed, provErr.Code)
}
