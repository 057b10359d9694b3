package kvstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")

		s, err := OpenFile(path)
		if err != nil {
			t.Fatalf("OpenFile() error = %v", err)
		}

		if err := s.Save("token", "abc123"); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		v, ok, err := s.Load("token")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !ok || v != "abc123" {
			t.Errorf("Load() = (%q, %v), want (%q, true)", v, ok, "abc123")
		}
	})

	t.Run("missing key", func(t *testing.T) {
		s, err := OpenFile(filepath.Join(t.TempDir(), "state.json"))
		if err != nil {
			t.Fatalf("OpenFile() error = %v", err)
		}

		if _, ok, _ := s.Load("nope"); ok {
			t.Error("Load() for missing key reported ok")
		}
	})

	t.Run("survives reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")

		s, err := OpenFile(path)
		if err != nil {
			t.Fatalf("OpenFile() error = %v", err)
		}
		if err := s.Save("user", `{"id":1}`); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		reopened, err := OpenFile(path)
		if err != nil {
			t.Fatalf("OpenFile() after save error = %v", err)
		}
		v, ok, _ := reopened.Load("user")
		if !ok || v != `{"id":1}` {
			t.Errorf("Load() after reopen = (%q, %v), want persisted value", v, ok)
		}
	})

	t.Run("remove", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")

		s, err := OpenFile(path)
		if err != nil {
			t.Fatalf("OpenFile() error = %v", err)
		}
		if err := s.Save("token", "abc"); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if err := s.Remove("token"); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if _, ok, _ := s.Load("token"); ok {
			t.Error("Load() after Remove() reported ok")
		}

		// Removing an absent key is a no-op.
		if err := s.Remove("token"); err != nil {
			t.Errorf("Remove() of absent key error = %v", err)
		}
	})

	t.Run("corrupt file fails to open", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
			t.Fatal(err)
		}

		if _, err := OpenFile(path); err == nil {
			t.Error("OpenFile() on corrupt file succeeded, want error")
		}
	})
}
