package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/gaana/internal/shared"
)

func TestUser(t *testing.T) {
	t.Run("Decodes Numeric And String IDs", func(t *testing.T) {
		var u User
		if err := json.Unmarshal([]byte(`{"id": 42, "email": "a@b.c", "name": "Asha", "role": "ADMIN"}`), &u); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if u.ID != "42" {
			t.Errorf("expected id 42, got %q", u.ID)
		}

		if err := json.Unmarshal([]byte(`{"id": "64f0c2", "role": "USER"}`), &u); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if u.ID != "64f0c2" {
			t.Errorf("expected id 64f0c2, got %q", u.ID)
		}
	})

	t.Run("Rejects Non-Scalar IDs", func(t *testing.T) {
		var u User
		if err := json.Unmarshal([]byte(`{"id": {"oid": 1}}`), &u); err == nil {
			t.Error("expected error for object id")
		}
	})

	t.Run("HasRole", func(t *testing.T) {
		if !(User{Role: "ADMIN"}).HasRole(DefaultAdminRole) {
			t.Error("expected ADMIN to match")
		}
		if (User{Role: "admin"}).HasRole(DefaultAdminRole) {
			t.Error("role comparison must be exact")
		}
		if (User{}).HasRole("") {
			t.Error("empty role must never match")
		}
	})

	t.Run("Display Fallbacks", func(t *testing.T) {
		u := User{Email: "ops@gaana.tree"}
		if u.DisplayName() != "Admin" {
			t.Errorf("expected name fallback, got %q", u.DisplayName())
		}
		if u.DisplayRole() != "Admin" {
			t.Errorf("expected role fallback, got %q", u.DisplayRole())
		}
	})
}

func TestParseSingers(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "comma separated", input: "Arijit Singh, Shreya Ghoshal", want: []string{"Arijit Singh", "Shreya Ghoshal"}},
		{name: "drops empty entries", input: " , Lata,, ,Kishore ,", want: []string{"Lata", "Kishore"}},
		{name: "empty input", input: "", want: []string{}},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSingers(tt.input)
			if got == nil {
				t.Fatal("expected non-nil slice")
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("ParseSingers(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseReleaseDate(t *testing.T) {
	t.Run("Empty Is Absent", func(t *testing.T) {
		got, err := ParseReleaseDate("  ")
		if err != nil || got != nil {
			t.Errorf("expected nil, nil; got %v, %v", got, err)
		}
	})

	t.Run("Date Only", func(t *testing.T) {
		got, err := ParseReleaseDate("2024-03-15")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *got != "2024-03-15T00:00:00.000Z" {
			t.Errorf("unexpected timestamp %s", *got)
		}
	})

	t.Run("RFC3339 Is Normalized To UTC", func(t *testing.T) {
		got, err := ParseReleaseDate("2024-03-15T10:30:00+05:30")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *got != "2024-03-15T05:00:00.000Z" {
			t.Errorf("unexpected timestamp %s", *got)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		if _, err := ParseReleaseDate("15/03/2024"); err == nil {
			t.Error("expected error")
		}
	})
}

func TestSongForm(t *testing.T) {
	t.Run("Builds Request", func(t *testing.T) {
		req, err := SongForm{
			Name:    " Tum Hi Ho ",
			Singers: "Arijit Singh, ",
			Genre:   "Romantic",
		}.Request()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.Name != "Tum Hi Ho" {
			t.Errorf("expected trimmed name, got %q", req.Name)
		}
		if req.Album != NoAlbum {
			t.Errorf("expected album %q, got %q", NoAlbum, req.Album)
		}
		if req.ReleasedDate != nil {
			t.Error("expected no release date")
		}

		data, _ := json.Marshal(req)
		if !strings.Contains(string(data), `"releasedDate":null`) {
			t.Errorf("expected null releasedDate in payload, got %s", data)
		}
		if !strings.Contains(string(data), `"singers":["Arijit Singh"]`) {
			t.Errorf("expected singers in payload, got %s", data)
		}
	})

	t.Run("Missing Name", func(t *testing.T) {
		_, err := SongForm{Genre: "Pop"}.Request()
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
		if !strings.Contains(err.Error(), "name is required") {
			t.Errorf("expected field name in message, got %v", err)
		}
	})

	t.Run("Bad Date", func(t *testing.T) {
		_, err := SongForm{Name: "x", ReleasedDate: "yesterday"}.Request()
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestAlbumRequest(t *testing.T) {
	t.Run("Defaults Plan To Free", func(t *testing.T) {
		req, err := NewAlbumRequest("Rockstar", "", "#1DB954", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.SubscriptionPlan != PlanFree {
			t.Errorf("expected FREE, got %s", req.SubscriptionPlan)
		}
	})

	t.Run("Normalizes Plan Case", func(t *testing.T) {
		req, err := NewAlbumRequest("Rockstar", "", "", "gold")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.SubscriptionPlan != PlanGold {
			t.Errorf("expected GOLD, got %s", req.SubscriptionPlan)
		}
	})

	t.Run("Unknown Plan", func(t *testing.T) {
		if _, err := NewAlbumRequest("Rockstar", "", "", "DIAMOND"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Bad Colour", func(t *testing.T) {
		_, err := NewAlbumRequest("Rockstar", "", "purple", "FREE")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
		if !strings.Contains(err.Error(), "bgColor") {
			t.Errorf("expected json field name in message, got %v", err)
		}
	})

	t.Run("Subscription Update Validation", func(t *testing.T) {
		if err := Validate(SubscriptionUpdate{Plan: PlanPlatinum}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if err := Validate(SubscriptionUpdate{Plan: "BRONZE"}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}
