package models

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCardRoundTrip(t *testing.T) {
	cards := []TaskCard{
		{
			ID:          "c1",
			Title:       "Edit Intro",
			Description: "Cut the opening sequence",
			MediaFiles: []MediaFile{
				{URL: "https://cdn.example.com/ref.png", Type: MediaImage, Name: "ref.png"},
				{URL: "https://cdn.example.com/take1.mp4", Type: MediaVideo},
			},
			AssignedEmails: []string{"a@x.com", "b@x.com"},
			CreatedAt:      1700000000000,
			StartDate:      "2026-08-01",
			EndDate:        "2026-08-15",
			CreatedBy:      "a@x.com",
			Updates: []CardUpdate{
				{Text: "first pass done", Timestamp: 1700000001000, Author: "b@x.com"},
				{Timestamp: 1700000002000, Author: "a@x.com", MediaURL: "https://cdn.example.com/v2.mp4", MediaType: MediaVideo},
			},
			Status: StatusDoing,
		},
		{
			ID:             "c2",
			Title:          "Color Grade",
			MediaFiles:     []MediaFile{},
			AssignedEmails: []string{"a@x.com"},
			CreatedAt:      1700000003000,
			CreatedBy:      "a@x.com",
			Updates:        []CardUpdate{},
			Status:         StatusTodo,
		},
	}

	data, err := json.Marshal(cards)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var got []TaskCard
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if diff := cmp.Diff(cards, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusTodo, StatusDoing, StatusDone} {
		if !ValidStatus(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range []Status{"", "archived", "TODO"} {
		if ValidStatus(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestCardAccess(t *testing.T) {
	card := TaskCard{
		CreatedBy:      "creator@x.com",
		AssignedEmails: []string{"assignee@x.com"},
	}

	tests := []struct {
		email     string
		canModify bool
	}{
		{"creator@x.com", true},
		{"assignee@x.com", true},
		{"stranger@x.com", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := card.CanModify(tt.email); got != tt.canModify {
			t.Errorf("CanModify(%q) = %v, want %v", tt.email, got, tt.canModify)
		}
	}

	if !card.IsCreator("creator@x.com") || card.IsCreator("assignee@x.com") {
		t.Error("IsCreator should match only the creator")
	}
}
