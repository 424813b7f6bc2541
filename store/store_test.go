package store

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"), true)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func intPtr(v int) *int          { return &v }
func strPtr(s string) *string    { return &s }
func boolPtr(b bool) *bool       { return &b }
func tagsPtr(t []string) *[]string { return &t }

func TestCreateAndGetItem(t *testing.T) {
	s := newTestStore(t)

	item, err := s.CreateItem("user-1", ItemInput{
		Title:     "Hades",
		MediaType: "game",
		Status:    "completed",
		Rating:    intPtr(9),
		Genre:     "Roguelike",
	})
	if err != nil {
		t.Fatalf("CreateItem error: %v", err)
	}

	if item.ID == "" {
		t.Error("Expected a generated ID")
	}
	if item.Tags == nil {
		t.Error("Expected tags to default to an empty slice")
	}
	if item.CreatedAt.IsZero() || item.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set")
	}

	got, err := s.GetItem("user-1", item.ID)
	if err != nil {
		t.Fatalf("GetItem error: %v", err)
	}
	if got.Title != "Hades" || got.MediaType != TypeGame || *got.Rating != 9 {
		t.Errorf("Unexpected item: %+v", got)
	}
}

func TestCreateItem_Validation(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name  string
		input ItemInput
	}{
		{"missing title", ItemInput{MediaType: "game", Status: "owned"}},
		{"bad media type", ItemInput{Title: "X", MediaType: "podcast", Status: "owned"}},
		{"bad status", ItemInput{Title: "X", MediaType: "game", Status: "paused"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.CreateItem("user-1", tt.input); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestGetItem_WrongUser(t *testing.T) {
	s := newTestStore(t)

	item, _ := s.CreateItem("user-1", ItemInput{Title: "Hades", MediaType: "game", Status: "owned"})

	if _, err := s.GetItem("user-2", item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for another user's item, got %v", err)
	}
}

func TestListItems_Filters(t *testing.T) {
	s := newTestStore(t)

	s.CreateItem("user-1", ItemInput{Title: "Hades", MediaType: "game", Status: "completed", Genre: "Roguelike"})
	s.CreateItem("user-1", ItemInput{Title: "Severance", MediaType: "series", Status: "watching"})
	s.CreateItem("user-1", ItemInput{Title: "Dune", MediaType: "movie", Status: "wishlist"})
	s.CreateItem("user-2", ItemInput{Title: "Elden Ring", MediaType: "game", Status: "owned"})

	all, err := s.ListItems("user-1", Filters{})
	if err != nil {
		t.Fatalf("ListItems error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 items for user-1, got %d", len(all))
	}

	games, _ := s.ListItems("user-1", Filters{MediaType: "game"})
	if len(games) != 1 || games[0].Title != "Hades" {
		t.Errorf("Unexpected type filter result: %+v", games)
	}

	watching, _ := s.ListItems("user-1", Filters{Status: "watching"})
	if len(watching) != 1 || watching[0].Title != "Severance" {
		t.Errorf("Unexpected status filter result: %+v", watching)
	}

	search, _ := s.ListItems("user-1", Filters{Q: "rogue"})
	if len(search) != 1 || search[0].Title != "Hades" {
		t.Errorf("Expected search to match genre, got %+v", search)
	}

	none, _ := s.ListItems("user-1", Filters{Q: "nothing matches"})
	if len(none) != 0 {
		t.Errorf("Expected no matches, got %d", len(none))
	}
}

func TestListItems_EmptyUser(t *testing.T) {
	s := newTestStore(t)

	items, err := s.ListItems("nobody", Filters{})
	if err != nil {
		t.Fatalf("ListItems error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected empty list, got %d", len(items))
	}
}

func TestUpdateItem(t *testing.T) {
	s := newTestStore(t)

	item, _ := s.CreateItem("user-1", ItemInput{Title: "Hades", MediaType: "game", Status: "owned"})
	created := item.UpdatedAt

	time.Sleep(5 * time.Millisecond)

	updated, err := s.UpdateItem("user-1", item.ID, ItemUpdate{
		Status: strPtr("completed"),
		Rating: intPtr(10),
		Tags:   tagsPtr([]string{"favorites"}),
	})
	if err != nil {
		t.Fatalf("UpdateItem error: %v", err)
	}

	if updated.Status != StatusCompleted || *updated.Rating != 10 {
		t.Errorf("Unexpected updated item: %+v", updated)
	}
	if updated.Title != "Hades" {
		t.Error("Expected untouched fields to survive")
	}
	if len(updated.Tags) != 1 || updated.Tags[0] != "favorites" {
		t.Errorf("Unexpected tags: %v", updated.Tags)
	}
	if !updated.UpdatedAt.After(created) {
		t.Error("Expected UpdatedAt to advance")
	}
}

func TestUpdateItem_Validation(t *testing.T) {
	s := newTestStore(t)
	item, _ := s.CreateItem("user-1", ItemInput{Title: "Hades", MediaType: "game", Status: "owned"})

	if _, err := s.UpdateItem("user-1", item.ID, ItemUpdate{Status: strPtr("paused")}); err == nil {
		t.Error("Expected validation error for bad status")
	}
	if _, err := s.UpdateItem("user-1", item.ID, ItemUpdate{Title: strPtr("")}); err == nil {
		t.Error("Expected validation error for empty title")
	}
}

func TestUpdateItem_NotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.UpdateItem("user-1", "missing", ItemUpdate{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeleteItem(t *testing.T) {
	s := newTestStore(t)
	item, _ := s.CreateItem("user-1", ItemInput{Title: "Hades", MediaType: "game", Status: "owned"})

	if err := s.DeleteItem("user-1", item.ID); err != nil {
		t.Fatalf("DeleteItem error: %v", err)
	}
	if _, err := s.GetItem("user-1", item.ID); !errors.Is(err, ErrNotFound) {
		t.Error("Expected item to be gone")
	}
	if err := s.DeleteItem("user-1", item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on double delete, got %v", err)
	}
}

func TestFindItemByTitleAndType(t *testing.T) {
	s := newTestStore(t)
	s.CreateItem("user-1", ItemInput{Title: "The Dark Knight", MediaType: "movie", Status: "completed"})

	found, err := s.FindItemByTitleAndType("user-1", "  the dark knight ", "movie")
	if err != nil {
		t.Fatalf("FindItemByTitleAndType error: %v", err)
	}
	if found.Title != "The Dark Knight" {
		t.Errorf("Unexpected item: %+v", found)
	}

	if _, err := s.FindItemByTitleAndType("user-1", "the dark knight", "game"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for wrong type, got %v", err)
	}
}

func TestUsers_RegisterAuthenticate(t *testing.T) {
	s := newTestStore(t)

	user, err := s.CreateUser("Alex@Example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if user.Email != "alex@example.com" {
		t.Errorf("Expected lowercased email, got %q", user.Email)
	}
	if user.PasswordHash == "hunter2hunter2" {
		t.Error("Expected password to be hashed")
	}

	if _, err := s.CreateUser("alex@example.com", "different-pass"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Expected ErrEmailTaken, got %v", err)
	}

	authed, err := s.Authenticate("ALEX@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if authed.ID != user.ID {
		t.Error("Expected the same user back")
	}

	if _, err := s.Authenticate("alex@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := s.Authenticate("nobody@example.com", "hunter2hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestCreateUser_Validation(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreateUser("not-an-email", "longenoughpass"); err == nil {
		t.Error("Expected error for invalid email")
	}
	if _, err := s.CreateUser("a@b.com", "short"); err == nil {
		t.Error("Expected error for short password")
	}
}

func TestSessions(t *testing.T) {
	s := newTestStore(t)
	user, _ := s.CreateUser("a@b.com", "longenoughpass")

	token, err := s.CreateSession(user.ID, time.Hour)
	if err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}

	userID, ok := s.UserForSession(token)
	if !ok || userID != user.ID {
		t.Errorf("Expected session to resolve to %s, got %q (%v)", user.ID, userID, ok)
	}

	if _, ok := s.UserForSession("bogus-token"); ok {
		t.Error("Expected unknown token to fail")
	}

	if err := s.DeleteSession(token); err != nil {
		t.Fatalf("DeleteSession error: %v", err)
	}
	if _, ok := s.UserForSession(token); ok {
		t.Error("Expected deleted session to fail")
	}

	// Deleting twice is fine
	if err := s.DeleteSession(token); err != nil {
		t.Errorf("Expected idempotent delete, got %v", err)
	}
}

func TestSessions_Expiry(t *testing.T) {
	s := newTestStore(t)
	user, _ := s.CreateUser("a@b.com", "longenoughpass")

	token, _ := s.CreateSession(user.ID, -time.Minute)

	if _, ok := s.UserForSession(token); ok {
		t.Error("Expected expired session to fail")
	}
}

func TestEnsureProfile(t *testing.T) {
	s := newTestStore(t)
	user, _ := s.CreateUser("alex.smith@example.com", "longenoughpass")

	profile, err := s.EnsureProfile(user.ID, user.Email)
	if err != nil {
		t.Fatalf("EnsureProfile error: %v", err)
	}

	if profile.ID != user.ID {
		t.Errorf("Expected profile ID %s, got %s", user.ID, profile.ID)
	}
	if !strings.HasPrefix(profile.Username, "alex_smith_") {
		t.Errorf("Unexpected username %q", profile.Username)
	}
	if profile.IsPublic {
		t.Error("Expected profiles to default to private")
	}

	// Second call returns the existing profile
	again, err := s.EnsureProfile(user.ID, user.Email)
	if err != nil {
		t.Fatalf("EnsureProfile error on repeat: %v", err)
	}
	if again.Username != profile.Username {
		t.Error("Expected a stable username")
	}
}

func TestProfileByUsername(t *testing.T) {
	s := newTestStore(t)
	user, _ := s.CreateUser("a@b.com", "longenoughpass")
	profile, _ := s.EnsureProfile(user.ID, user.Email)

	found, err := s.ProfileByUsername(profile.Username)
	if err != nil {
		t.Fatalf("ProfileByUsername error: %v", err)
	}
	if found.ID != user.ID {
		t.Error("Expected lookup to resolve to the same user")
	}

	if _, err := s.ProfileByUsername("nobody_9999"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestUpdateProfile_VisibilityChange(t *testing.T) {
	s := newTestStore(t)
	user, _ := s.CreateUser("a@b.com", "longenoughpass")
	s.EnsureProfile(user.ID, user.Email)

	// Flipping to public reports a visibility change
	profile, changed, err := s.UpdateProfile(user.ID, ProfileUpdate{IsPublic: boolPtr(true)})
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if !changed {
		t.Error("Expected visibility change to be reported")
	}
	if !profile.IsPublic {
		t.Error("Expected profile to be public")
	}

	// Setting the same value reports no change
	_, changed, _ = s.UpdateProfile(user.ID, ProfileUpdate{IsPublic: boolPtr(true)})
	if changed {
		t.Error("Expected no visibility change when value is unchanged")
	}

	// Updating other fields reports no visibility change
	updated, changed, _ := s.UpdateProfile(user.ID, ProfileUpdate{DisplayName: strPtr("Alex")})
	if changed {
		t.Error("Expected no visibility change for display name update")
	}
	if updated.DisplayName != "Alex" {
		t.Errorf("Expected display name update, got %q", updated.DisplayName)
	}
}

func TestStoreStats(t *testing.T) {
	s := newTestStore(t)
	s.CreateUser("a@b.com", "longenoughpass")
	s.CreateItem("user-1", ItemInput{Title: "Hades", MediaType: "game", Status: "owned"})

	numKeys, _ := s.Stats()
	if numKeys < 2 {
		t.Errorf("Expected at least 2 keys, got %d", numKeys)
	}
}

func TestStoreCompressionRoundTrip(t *testing.T) {
	// Same data readable with compression enabled and disabled stores
	compressed := newTestStore(t)
	item, err := compressed.CreateItem("user-1", ItemInput{Title: "Hades", MediaType: "game", Status: "owned"})
	if err != nil {
		t.Fatalf("CreateItem error: %v", err)
	}
	got, err := compressed.GetItem("user-1", item.ID)
	if err != nil || got.Title != "Hades" {
		t.Fatalf("Round trip failed: %v %+v", err, got)
	}

	plain, err := New(filepath.Join(t.TempDir(), "plain.db"), false)
	if err != nil {
		t.Fatalf("Failed to open plain store: %v", err)
	}
	defer plain.Close()
	item2, err := plain.CreateItem("user-1", ItemInput{Title: "Dune", MediaType: "movie", Status: "wishlist"})
	if err != nil {
		t.Fatalf("CreateItem error: %v", err)
	}
	got2, err := plain.GetItem("user-1", item2.ID)
	if err != nil || got2.Title != "Dune" {
		t.Fatalf("Round trip failed: %v %+v", err, got2)
	}
}
