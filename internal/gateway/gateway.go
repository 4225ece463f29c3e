// File: internal/gateway/gateway.go
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quran_app_backend/internal/common"
	"quran_app_backend/internal/firebase"
	"quran_app_backend/internal/profile"
	"quran_app_backend/internal/session"
)

// CredentialService is the credential-side surface of the identity provider,
// implemented by firebase.IdentityToolkitClient.
type CredentialService interface {
	SignInWithPassword(ctx context.Context, email, password string) (*firebase.Credential, error)
	SignUp(ctx context.Context, email, password string) (*firebase.Credential, error)
	SendEmailVerification(ctx context.Context, idToken string) error
	SendPasswordReset(ctx context.Context, email string) error
	LookupAccount(ctx context.Context, idToken string) (*firebase.Account, error)
	RefreshCredential(ctx context.Context, refreshToken string) (*firebase.Credential, error)
}

// AdminService is the server-side surface of the identity provider,
// implemented by firebase.Service.
type AdminService interface {
	GetUser(ctx context.Context, uid string) (*firebase.Account, error)
	UpdateDisplayName(ctx context.Context, uid, displayName string) error
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// Gateway wraps the identity provider and document store behind the small set
// of operations the screens consume, classifies provider errors into the
// application taxonomy, and is the single writer of the session store.
type Gateway struct {
	creds    CredentialService
	admin    AdminService
	profiles profile.Repository
	store    *session.Store
	tokens   session.TokenStore
	logger   *zap.Logger
}

func New(
	creds CredentialService,
	admin AdminService,
	profiles profile.Repository,
	store *session.Store,
	tokens session.TokenStore,
	logger *zap.Logger,
) *Gateway {
	return &Gateway{
		creds:    creds,
		admin:    admin,
		profiles: profiles,
		store:    store,
		tokens:   tokens,
		logger:   logger.Named("AuthGateway"),
	}
}

// Resolve performs the startup session restoration check: it exchanges the
// persisted refresh token for a fresh credential and promotes the resulting
// identity into the session store, but only when the provider reports the
// email as verified. Any failure resolves to "no session"; the store always
// leaves its resolving state exactly once.
func (g *Gateway) Resolve(ctx context.Context) {
	opID := uuid.NewString()
	log := g.logger.With(zap.String("opID", opID))

	rec, err := g.tokens.Load()
	if err != nil {
		log.Warn("Could not load persisted session, resolving to signed-out", zap.Error(err))
		g.store.SetIdentity(nil)
		return
	}
	if rec == nil {
		log.Info("No persisted session found")
		g.store.SetIdentity(nil)
		return
	}

	cred, err := g.creds.RefreshCredential(ctx, rec.RefreshToken)
	if err != nil {
		if common.KindOf(g.classify(err, log)) == common.KindNetwork {
			// The provider was unreachable; keep the persisted record so the
			// next start can retry, but resolve to signed-out for this run.
			log.Warn("Session restoration unreachable, resolving to signed-out", zap.Error(err))
		} else {
			log.Info("Persisted session rejected by provider, discarding", zap.Error(err))
			g.discardTokens(log)
		}
		g.store.SetIdentity(nil)
		return
	}

	acct, err := g.creds.LookupAccount(ctx, cred.IDToken)
	if err != nil {
		log.Warn("Account lookup failed during session restoration", zap.Error(err))
		g.discardTokens(log)
		g.store.SetIdentity(nil)
		return
	}

	// Subscription-side half of the unverified guard: never promote an
	// unverified or disabled account into the store.
	if !acct.EmailVerified || acct.Disabled {
		log.Info("Persisted session belongs to an unusable account, discarding",
			zap.Bool("emailVerified", acct.EmailVerified),
			zap.Bool("disabled", acct.Disabled),
		)
		g.discardTokens(log)
		g.store.SetIdentity(nil)
		return
	}

	g.persistCredential(cred, log)
	g.store.SetIdentity(&session.Identity{
		UID:           acct.UID,
		Email:         acct.Email,
		DisplayName:   acct.DisplayName,
		EmailVerified: acct.EmailVerified,
	})
	log.Info("Session restored", zap.String("uid", acct.UID))
}

// SignIn authenticates with email and password. After a successful credential
// check it re-fetches the account from the admin surface and rejects an
// unverified email with a forced local sign-out. This re-check is kept on top
// of the subscription-side guard in Resolve: the direct call returns before
// any session-change notification fires, and both paths must agree.
func (g *Gateway) SignIn(ctx context.Context, email, password string) error {
	opID := uuid.NewString()
	log := g.logger.With(zap.String("opID", opID))

	cred, err := g.creds.SignInWithPassword(ctx, email, password)
	if err != nil {
		return g.classify(err, log)
	}

	acct, err := g.admin.GetUser(ctx, cred.UID)
	if err != nil {
		log.Error("Post-sign-in account fetch failed", zap.Error(err), zap.String("uid", cred.UID))
		return common.ErrUnknown.WithDetails(err.Error())
	}

	if !acct.EmailVerified {
		// Sign the unverified user out: server-side revoke is best-effort,
		// the local teardown is not.
		if revokeErr := g.admin.RevokeRefreshTokens(ctx, cred.UID); revokeErr != nil {
			log.Warn("Could not revoke tokens for unverified account", zap.Error(revokeErr), zap.String("uid", cred.UID))
		}
		g.discardTokens(log)
		g.store.Clear()
		log.Info("Sign-in rejected: email not verified", zap.String("uid", cred.UID))
		return common.ErrUnverifiedSession
	}

	g.persistCredential(cred, log)
	g.store.SetIdentity(&session.Identity{
		UID:           acct.UID,
		Email:         acct.Email,
		DisplayName:   acct.DisplayName,
		EmailVerified: true,
	})
	log.Info("User signed in", zap.String("uid", acct.UID))
	return nil
}

// SignUp creates an account, sets its display name, writes the profile
// document, requests a verification email and immediately signs the new
// (unverified) session out. The session store is never touched: the user must
// verify their email and sign in explicitly.
func (g *Gateway) SignUp(ctx context.Context, email, password, firstName, lastName string) error {
	opID := uuid.NewString()
	log := g.logger.With(zap.String("opID", opID))

	cred, err := g.creds.SignUp(ctx, email, password)
	if err != nil {
		return g.classify(err, log)
	}

	displayName := fmt.Sprintf("%s %s", firstName, lastName)
	if err := g.admin.UpdateDisplayName(ctx, cred.UID, displayName); err != nil {
		log.Error("Could not set display name for new account", zap.Error(err), zap.String("uid", cred.UID))
		return common.ErrUnknown.WithDetails(err.Error())
	}

	if err := g.profiles.Save(ctx, cred.UID, profile.Profile{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		log.Error("Could not write profile document for new account", zap.Error(err), zap.String("uid", cred.UID))
		return common.ErrUnknown.WithDetails(err.Error())
	}

	if err := g.creds.SendEmailVerification(ctx, cred.IDToken); err != nil {
		return g.classify(err, log)
	}

	// The credential is discarded, never persisted: the equivalent of the
	// immediate sign-out after registration.
	log.Info("Account registered, verification email sent", zap.String("uid", cred.UID))
	return nil
}

// RequestPasswordReset asks the provider to send a reset email.
func (g *Gateway) RequestPasswordReset(ctx context.Context, email string) error {
	opID := uuid.NewString()
	log := g.logger.With(zap.String("opID", opID))

	if err := g.creds.SendPasswordReset(ctx, email); err != nil {
		return g.classify(err, log)
	}
	log.Info("Password reset email requested")
	return nil
}

// SignOut revokes the provider session (best-effort) and clears local state.
func (g *Gateway) SignOut(ctx context.Context) error {
	state := g.store.Snapshot()
	if state.Identity != nil {
		if err := g.admin.RevokeRefreshTokens(ctx, state.Identity.UID); err != nil {
			g.logger.Warn("Server-side revoke failed during sign-out", zap.Error(err), zap.String("uid", state.Identity.UID))
		}
	}
	g.discardTokens(g.logger)
	g.store.Clear()
	g.logger.Info("User signed out")
	return nil
}

// RefreshSession exchanges the persisted refresh token for a fresh credential
// while a session is active. A provider rejection is treated as a
// session-change event reporting an invalid identity: local session torn
// down. Network failures leave the session untouched.
func (g *Gateway) RefreshSession(ctx context.Context) error {
	state := g.store.Snapshot()
	if state.Identity == nil {
		return nil
	}

	rec, err := g.tokens.Load()
	if err != nil || rec == nil {
		g.logger.Warn("Active session has no persisted token record, signing out")
		g.store.Clear()
		return nil
	}

	cred, err := g.creds.RefreshCredential(ctx, rec.RefreshToken)
	if err != nil {
		classified := g.classify(err, g.logger)
		if common.KindOf(classified) == common.KindNetwork {
			g.logger.Warn("Session refresh unreachable, keeping session", zap.Error(err))
			return classified
		}
		g.logger.Info("Session refresh rejected by provider, signing out", zap.Error(err))
		g.discardTokens(g.logger)
		g.store.Clear()
		return classified
	}

	g.persistCredential(cred, g.logger)
	return nil
}

func (g *Gateway) persistCredential(cred *firebase.Credential, log *zap.Logger) {
	err := g.tokens.Save(&session.TokenRecord{
		UID:          cred.UID,
		RefreshToken: cred.RefreshToken,
		IDToken:      cred.IDToken,
		ExpiresAt:    cred.ExpiresAt,
	})
	if err != nil {
		// The session still works for this run; it just won't survive a restart.
		log.Warn("Could not persist session tokens", zap.Error(err))
	}
}

func (g *Gateway) discardTokens(log *zap.Logger) {
	if err := g.tokens.Clear(); err != nil {
		log.Warn("Could not clear persisted session tokens", zap.Error(err))
	}
}

// classify maps provider-specific error identifiers onto the application
// taxonomy. Unrecognized identifiers map to unknown and are logged with the
// full provider diagnostic, never silently swallowed.
func (g *Gateway) classify(err error, log *zap.Logger) error {
	var provErr *firebase.ProviderError
	if !errors.As(err, &provErr) {
		log.Error("Unclassifiable provider failure", zap.Error(err))
		return common.ErrUnknown.WithDetails(err.Error())
	}

	switch provErr.Code {
	case firebase.CodeInvalidEmail:
		return common.ErrInvalidEmail
	case firebase.CodeEmailNotFound, "USER_NOT_FOUND":
		return common.ErrUserNotFound
	case firebase.CodeInvalidPassword:
		return common.ErrWrongPassword
	case firebase.CodeInvalidLoginCredentials, "INVALID_ID_TOKEN", "INVALID_REFRESH_TOKEN", "TOKEN_EXPIRED", "CREDENTIAL_TOO_OLD_LOGIN_AGAIN":
		return common.ErrInvalidCredential
	case firebase.CodeUserDisabled:
		return common.ErrUserDisabled
	case firebase.CodeTooManyAttempts:
		return common.ErrTooManyRequests
	case firebase.CodeEmailExists:
		return common.ErrEmailInUse
	case firebase.CodeWeakPassword:
		return common.ErrWeakPassword
	case firebase.CodeNetworkRequestFailed:
		return common.ErrNetwork
	default:
		log.Error("Unrecognized provider error code",
			zap.String("code", provErr.Code),
			zap.String("providerMessage", provErr.Message),
			zap.Int("status", provErr.Status),
		)
		return common.ErrUnknown.WithDetails(provErr.Message)
	}
}
