package session

import (
	"context"
	"log/slog"

	"github.com/tradedesk/tradedesk-go/internal/model"
)

// AuthAPI is the slice of the REST client the authenticator needs.
type AuthAPI interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
}

// Authenticator runs the login and registration flows and installs the
// resulting session in the Store.
type Authenticator struct {
	api    AuthAPI
	store  *Store
	logger *slog.Logger
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(api AuthAPI, store *Store, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		api:    api,
		store:  store,
		logger: logger,
	}
}

// Login authenticates and, on success, establishes the session. Failures
// pass through with their API classification intact.
func (a *Authenticator) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	resp, err := a.api.Login(ctx, req)
	if err != nil {
		a.logger.Debug("login failed", "user", req.UsernameOrEmail, "err", err)
		return nil, err
	}

	a.store.CompleteAuth(resp)
	return resp, nil
}

// Register creates an account and, on success, establishes the session.
func (a *Authenticator) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	resp, err := a.api.Register(ctx, req)
	if err != nil {
		a.logger.Debug("registration failed", "user", req.Username, "err", err)
		return nil, err
	}

	a.store.CompleteAuth(resp)
	return resp, nil
}
