package session

import (
	"context"
	"errors"
	"testing"

	"github.com/tradedesk/tradedesk-go/internal/kvstore"
	"github.com/tradedesk/tradedesk-go/internal/model"
)

// stubAuthAPI returns canned responses.
type stubAuthAPI struct {
	resp *model.AuthResponse
	err  error
}

func (s *stubAuthAPI) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	return s.resp, s.err
}

func (s *stubAuthAPI) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	return s.resp, s.err
}

func TestAuthenticatorLogin(t *testing.T) {
	t.Run("success establishes session", func(t *testing.T) {
		store := NewStore(kvstore.NewMemory())
		a := NewAuthenticator(&stubAuthAPI{
			resp: &model.AuthResponse{Token: "cred-1", UserID: 5, Username: "dave"},
		}, store, nil)

		resp, err := a.Login(context.Background(), model.LoginRequest{UsernameOrEmail: "dave"})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if resp.UserID != 5 {
			t.Errorf("resp.UserID = %d, want 5", resp.UserID)
		}
		if got := store.Current(); got == nil || got.ID != 5 {
			t.Errorf("store.Current() = %+v, want dave", got)
		}
	})

	t.Run("failure leaves session untouched", func(t *testing.T) {
		store := NewStore(kvstore.NewMemory())
		wantErr := errors.New("bad credentials")
		a := NewAuthenticator(&stubAuthAPI{err: wantErr}, store, nil)

		if _, err := a.Login(context.Background(), model.LoginRequest{}); !errors.Is(err, wantErr) {
			t.Errorf("Login() error = %v, want %v", err, wantErr)
		}
		if store.Current() != nil {
			t.Error("session established despite login failure")
		}
	})
}

func TestAuthenticatorRegister(t *testing.T) {
	store := NewStore(kvstore.NewMemory())
	a := NewAuthenticator(&stubAuthAPI{
		resp: &model.AuthResponse{Token: "cred-2", UserID: 6, Username: "erin"},
	}, store, nil)

	if _, err := a.Register(context.Background(), model.RegisterRequest{Username: "erin"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if got := store.Current(); got == nil || got.ID != 6 {
		t.Errorf("store.Current() = %+v, want erin", got)
	}
}
