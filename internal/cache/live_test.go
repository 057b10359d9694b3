package cache

import (
	"testing"
	"time"
)

func TestLiveCurrent(t *testing.T) {
	t.Run("zero value before any publish", func(t *testing.T) {
		l := NewLive[int]()
		if got := l.Current(); got != 0 {
			t.Errorf("Current() = %d, want 0", got)
		}
	})

	t.Run("round trip returns exact value", func(t *testing.T) {
		l := NewLive[string]()
		l.Set("hello")
		if got := l.Current(); got != "hello" {
			t.Errorf("Current() = %q, want %q", got, "hello")
		}
	})

	t.Run("latest value wins", func(t *testing.T) {
		l := NewLive[int]()
		l.Set(1)
		l.Set(2)
		l.Set(3)
		if got := l.Current(); got != 3 {
			t.Errorf("Current() = %d, want 3", got)
		}
	})
}

func TestLiveSubscribe(t *testing.T) {
	recv := func(t *testing.T, ch <-chan int) int {
		t.Helper()
		select {
		case v := <-ch:
			return v
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for value")
			return 0
		}
	}

	t.Run("subscriber registered before set observes value", func(t *testing.T) {
		l := NewLive[int]()
		ch, cancel := l.Subscribe()
		defer cancel()

		l.Set(42)
		if got := recv(t, ch); got != 42 {
			t.Errorf("received %d, want 42", got)
		}
	})

	t.Run("late subscriber replays latest value", func(t *testing.T) {
		l := NewLive[int]()
		l.Set(7)

		ch, cancel := l.Subscribe()
		defer cancel()

		if got := recv(t, ch); got != 7 {
			t.Errorf("received %d, want 7", got)
		}
	})

	t.Run("no replay before first publish", func(t *testing.T) {
		l := NewLive[int]()
		ch, cancel := l.Subscribe()
		defer cancel()

		select {
		case v := <-ch:
			t.Errorf("received %d before any publish", v)
		default:
		}
	})

	t.Run("slow subscriber sees latest, not every intermediate", func(t *testing.T) {
		l := NewLive[int]()
		ch, cancel := l.Subscribe()
		defer cancel()

		l.Set(1)
		l.Set(2)
		l.Set(3)

		if got := recv(t, ch); got != 3 {
			t.Errorf("received %d, want latest value 3", got)
		}
	})

	t.Run("multicast to multiple subscribers", func(t *testing.T) {
		l := NewLive[int]()
		ch1, cancel1 := l.Subscribe()
		defer cancel1()
		ch2, cancel2 := l.Subscribe()
		defer cancel2()

		l.Set(9)
		if got := recv(t, ch1); got != 9 {
			t.Errorf("subscriber 1 received %d, want 9", got)
		}
		if got := recv(t, ch2); got != 9 {
			t.Errorf("subscriber 2 received %d, want 9", got)
		}
	})

	t.Run("cancel closes channel and stops delivery", func(t *testing.T) {
		l := NewLive[int]()
		ch, cancel := l.Subscribe()

		cancel()
		l.Set(5)

		if _, open := <-ch; open {
			t.Error("channel still open after cancel")
		}
	})

	t.Run("cancel is idempotent", func(t *testing.T) {
		l := NewLive[int]()
		_, cancel := l.Subscribe()
		cancel()
		cancel()
	})
}
