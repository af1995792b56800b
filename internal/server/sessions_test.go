package server

import (
	"testing"
	"time"

	"github.com/desertthunder/igreview/internal/services"
)

func TestSessionStore(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		store := NewSessionStore(0)

		sess := store.Create()
		if sess.ID == "" {
			t.Fatal("expected session ID to be assigned")
		}
		if sess.Connected() {
			t.Error("new session should not be connected")
		}
		if store.Len() != 1 {
			t.Errorf("expected 1 session, got %d", store.Len())
		}

		other := store.Create()
		if other.ID == sess.ID {
			t.Error("expected unique session IDs")
		}
	})

	t.Run("Get", func(t *testing.T) {
		store := NewSessionStore(0)
		created := store.Create()

		got, ok := store.Get(created.ID)
		if !ok {
			t.Fatal("expected session to be found")
		}
		if got.ID != created.ID {
			t.Errorf("expected ID %s, got %s", created.ID, got.ID)
		}

		if _, ok := store.Get("unknown"); ok {
			t.Error("expected unknown ID to miss")
		}
	})

	t.Run("Update", func(t *testing.T) {
		store := NewSessionStore(0)
		created := store.Create()

		err := store.Update(created.ID, func(sess *Session) {
			sess.AccessToken = "tok"
			sess.Profile = &services.Profile{ID: "178414", Username: "reviewer"}
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, _ := store.Get(created.ID)
		if !got.Connected() {
			t.Error("expected session to be connected after update")
		}
		if got.Profile.Username != "reviewer" {
			t.Errorf("expected profile to be stored, got %+v", got.Profile)
		}

		if err := store.Update("unknown", func(*Session) {}); err == nil {
			t.Error("expected error for unknown session")
		}
	})

	t.Run("snapshots do not share memory", func(t *testing.T) {
		store := NewSessionStore(0)
		created := store.Create()
		store.Update(created.ID, func(sess *Session) {
			sess.AccessToken = "tok"
			sess.Profile = &services.Profile{ID: "178414", Username: "reviewer"}
		})

		got, _ := store.Get(created.ID)
		got.Profile.Username = "tampered"
		got.AccessToken = "tampered"

		fresh, _ := store.Get(created.ID)
		if fresh.Profile.Username != "reviewer" || fresh.AccessToken != "tok" {
			t.Error("mutating a snapshot must not affect the stored session")
		}
	})

	t.Run("Connected", func(t *testing.T) {
		cases := []struct {
			name string
			sess Session
			want bool
		}{
			{"empty", Session{}, false},
			{"token only", Session{AccessToken: "tok"}, false},
			{"profile only", Session{Profile: &services.Profile{ID: "1"}}, false},
			{"both", Session{AccessToken: "tok", Profile: &services.Profile{ID: "1"}}, true},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if got := tc.sess.Connected(); got != tc.want {
					t.Errorf("Connected() = %v, want %v", got, tc.want)
				}
			})
		}
	})

	t.Run("Sweep", func(t *testing.T) {
		store := NewSessionStore(time.Minute)
		stale := store.Create()
		store.Create()

		// Age the first session past the idle cutoff.
		store.mu.Lock()
		store.sessions[stale.ID].LastSeen = time.Now().Add(-2 * time.Minute)
		store.mu.Unlock()

		if removed := store.Sweep(); removed != 1 {
			t.Errorf("expected 1 swept session, got %d", removed)
		}
		if _, ok := store.Get(stale.ID); ok {
			t.Error("expected stale session to be gone")
		}
		if store.Len() != 1 {
			t.Errorf("expected 1 surviving session, got %d", store.Len())
		}
	})
}
