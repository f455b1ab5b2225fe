package views

import (
	"reflect"
	"testing"

	"github.com/dvieira/videoboard/internal/models"
)

func TestMediaTypeForURL(t *testing.T) {
	tests := []struct {
		url  string
		want models.MediaType
	}{
		{"https://cdn.example.com/ref.png", models.MediaImage},
		{"https://cdn.example.com/take1.MP4", models.MediaVideo},
		{"https://cdn.example.com/clip.webm", models.MediaVideo},
		{"https://cdn.example.com/file", models.MediaImage},
	}
	for _, tt := range tests {
		if got := mediaTypeForURL(tt.url); got != tt.want {
			t.Errorf("mediaTypeForURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestNextStatus(t *testing.T) {
	if got := nextStatus(models.StatusTodo); got != models.StatusDoing {
		t.Errorf("todo should cycle to doing, got %q", got)
	}
	if got := nextStatus(models.StatusDoing); got != models.StatusDone {
		t.Errorf("doing should cycle to done, got %q", got)
	}
	if got := nextStatus(models.StatusDone); got != models.StatusTodo {
		t.Errorf("done should cycle back to todo, got %q", got)
	}
}

func TestParseAssignees(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a@x.com", []string{"a@x.com"}},
		{"a@x.com, b@x.com", []string{"a@x.com", "b@x.com"}},
		{" a@x.com ,not-an-email, b@x.com", []string{"a@x.com", "b@x.com"}},
		{"", nil},
		{"nope", nil},
	}
	for _, tt := range tests {
		if got := parseAssignees(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseAssignees(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLocalPart(t *testing.T) {
	if got := localPart("ana@x.com"); got != "ana" {
		t.Errorf("expected ana, got %s", got)
	}
	if got := localPart("no-at-sign"); got != "no-at-sign" {
		t.Errorf("expected passthrough, got %s", got)
	}
}
