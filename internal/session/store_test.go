package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tradedesk/tradedesk-go/internal/kvstore"
	"github.com/tradedesk/tradedesk-go/internal/model"
)

// fakeNav records navigation requests.
type fakeNav struct {
	toLogin int
}

func (n *fakeNav) NavigateToLogin() { n.toLogin++ }

func mintToken(t *testing.T, expiry time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expiry),
	})
	signed, err := tok.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func persistSession(t *testing.T, kv kvstore.Store, credential string, user *model.User) {
	t.Helper()
	if err := kv.Save(credentialKey, credential); err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(user)
	if err != nil {
		t.Fatal(err)
	}
	if err := kv.Save(identityKey, string(data)); err != nil {
		t.Fatal(err)
	}
}

func TestRestore(t *testing.T) {
	alice := &model.User{ID: 1, Username: "alice", Email: "alice@example.com", Role: "ROLE_BASIC"}

	t.Run("restores persisted session", func(t *testing.T) {
		kv := kvstore.NewMemory()
		persistSession(t, kv, "cred-1", alice)

		s := NewStore(kv)
		s.Restore()

		got := s.Current()
		if got == nil || got.ID != 1 || got.Username != "alice" {
			t.Errorf("Current() = %+v, want alice", got)
		}
		if credential, ok := s.Token(); !ok || credential != "cred-1" {
			t.Errorf("Token() = (%q, %v), want (cred-1, true)", credential, ok)
		}
	})

	t.Run("nothing persisted leaves session empty", func(t *testing.T) {
		nav := &fakeNav{}
		s := NewStore(kvstore.NewMemory(), WithNavigator(nav))
		s.Restore()

		if s.Current() != nil {
			t.Errorf("Current() = %+v, want nil", s.Current())
		}
		if nav.toLogin != 0 {
			t.Error("restore of empty state should not navigate")
		}
	})

	t.Run("partial state self-heals like logout", func(t *testing.T) {
		kv := kvstore.NewMemory()
		if err := kv.Save(credentialKey, "cred-only"); err != nil {
			t.Fatal(err)
		}

		nav := &fakeNav{}
		s := NewStore(kv, WithNavigator(nav))
		s.Restore()

		if s.Current() != nil {
			t.Errorf("Current() = %+v, want nil", s.Current())
		}
		if _, ok, _ := kv.Load(credentialKey); ok {
			t.Error("credential still persisted after self-heal")
		}
		if nav.toLogin != 1 {
			t.Errorf("navigator called %d times, want 1", nav.toLogin)
		}
	})

	t.Run("corrupt identity self-heals like logout", func(t *testing.T) {
		kv := kvstore.NewMemory()
		if err := kv.Save(credentialKey, "cred-1"); err != nil {
			t.Fatal(err)
		}
		if err := kv.Save(identityKey, "{corrupt"); err != nil {
			t.Fatal(err)
		}

		s := NewStore(kv)
		s.Restore()

		if s.Current() != nil {
			t.Errorf("Current() = %+v, want nil", s.Current())
		}
		if _, ok, _ := kv.Load(credentialKey); ok {
			t.Error("credential still persisted after self-heal")
		}
		if _, ok, _ := kv.Load(identityKey); ok {
			t.Error("identity still persisted after self-heal")
		}
	})

	t.Run("second restore is a no-op", func(t *testing.T) {
		kv := kvstore.NewMemory()
		s := NewStore(kv)
		s.Restore()

		// State persisted after the first restore must not be picked up.
		persistSession(t, kv, "cred-late", alice)
		s.Restore()

		if s.Current() != nil {
			t.Errorf("Current() = %+v, want nil", s.Current())
		}
	})

	t.Run("restore never clobbers a live session", func(t *testing.T) {
		kv := kvstore.NewMemory()
		s := NewStore(kv)

		s.CompleteAuth(&model.AuthResponse{
			Token: "fresh", UserID: 9, Username: "bob", Email: "b@x", Role: "ROLE_BASIC",
		})
		s.Restore()

		got := s.Current()
		if got == nil || got.ID != 9 {
			t.Errorf("Current() = %+v, want bob", got)
		}
	})
}

func TestCompleteAuth(t *testing.T) {
	t.Run("persists and publishes", func(t *testing.T) {
		kv := kvstore.NewMemory()
		s := NewStore(kv)

		ch, cancel := s.Subscribe()
		defer cancel()

		s.CompleteAuth(&model.AuthResponse{
			Token: "cred-1", UserID: 3, Username: "carol", Email: "c@x", Role: "ROLE_BASIC",
		})

		select {
		case got := <-ch:
			if got == nil || got.ID != 3 {
				t.Errorf("published identity = %+v, want carol", got)
			}
		case <-time.After(time.Second):
			t.Fatal("no identity published")
		}

		if v, ok, _ := kv.Load(credentialKey); !ok || v != "cred-1" {
			t.Errorf("persisted credential = (%q, %v)", v, ok)
		}
		if _, ok, _ := kv.Load(identityKey); !ok {
			t.Error("identity not persisted")
		}
	})

	t.Run("response without credential is rejected", func(t *testing.T) {
		kv := kvstore.NewMemory()
		s := NewStore(kv)

		s.CompleteAuth(&model.AuthResponse{UserID: 3, Username: "carol"})

		if s.Current() != nil {
			t.Error("identity published without a credential backing it")
		}
		if _, ok, _ := kv.Load(identityKey); ok {
			t.Error("identity persisted without a credential backing it")
		}
	})
}

func TestLogout(t *testing.T) {
	kv := kvstore.NewMemory()
	nav := &fakeNav{}
	s := NewStore(kv, WithNavigator(nav))

	s.CompleteAuth(&model.AuthResponse{Token: "cred-1", UserID: 1, Username: "alice"})

	ch, cancel := s.Subscribe()
	defer cancel()
	<-ch // drain the replayed identity

	s.Logout()

	select {
	case got := <-ch:
		if got != nil {
			t.Errorf("published identity after logout = %+v, want nil", got)
		}
	case <-time.After(time.Second):
		t.Fatal("no empty identity published")
	}

	if s.Current() != nil {
		t.Error("Current() non-nil after logout")
	}
	if _, ok := s.Token(); ok {
		t.Error("Token() still available after logout")
	}
	if _, ok, _ := kv.Load(credentialKey); ok {
		t.Error("credential still persisted after logout")
	}
	if nav.toLogin != 1 {
		t.Errorf("navigator called %d times, want 1", nav.toLogin)
	}
}

func TestIsAuthenticated(t *testing.T) {
	expiry := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	newAuthedStore := func(t *testing.T, credential string, now time.Time) *Store {
		s := NewStore(kvstore.NewMemory(), WithClock(func() time.Time { return now }))
		s.CompleteAuth(&model.AuthResponse{Token: credential, UserID: 1, Username: "alice"})
		return s
	}

	t.Run("no credential", func(t *testing.T) {
		s := NewStore(kvstore.NewMemory())
		if s.IsAuthenticated() {
			t.Error("IsAuthenticated() = true with no credential")
		}
	})

	t.Run("unexpired credential", func(t *testing.T) {
		s := newAuthedStore(t, mintToken(t, expiry), expiry.Add(-time.Minute))
		if !s.IsAuthenticated() {
			t.Error("IsAuthenticated() = false before expiry")
		}
	})

	t.Run("expired credential", func(t *testing.T) {
		s := newAuthedStore(t, mintToken(t, expiry), expiry)
		if s.IsAuthenticated() {
			t.Error("IsAuthenticated() = true at expiry instant")
		}
	})

	t.Run("malformed credential fails closed", func(t *testing.T) {
		s := newAuthedStore(t, "garbage", expiry.Add(-time.Hour))
		if s.IsAuthenticated() {
			t.Error("IsAuthenticated() = true for malformed credential")
		}
	})

	t.Run("recomputed as the clock advances", func(t *testing.T) {
		now := expiry.Add(-time.Minute)
		s := NewStore(kvstore.NewMemory(), WithClock(func() time.Time { return now }))
		s.CompleteAuth(&model.AuthResponse{Token: mintToken(t, expiry), UserID: 1})

		if !s.IsAuthenticated() {
			t.Fatal("IsAuthenticated() = false before expiry")
		}

		now = expiry.Add(time.Minute)
		if s.IsAuthenticated() {
			t.Error("IsAuthenticated() = true after the clock passed expiry")
		}
	})
}

func TestIdentityStreamOrder(t *testing.T) {
	s := NewStore(kvstore.NewMemory())

	s.CompleteAuth(&model.AuthResponse{Token: "cred-1", UserID: 1, Username: "alice"})

	// Late subscriber replays the latest identity.
	ch, cancel := s.Subscribe()
	defer cancel()

	select {
	case got := <-ch:
		if got == nil || got.ID != 1 {
			t.Errorf("replayed identity = %+v, want alice", got)
		}
	case <-time.After(time.Second):
		t.Fatal("no replayed identity")
	}
}
