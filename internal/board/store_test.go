package board

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dvieira/videoboard/internal/models"
	"github.com/dvieira/videoboard/internal/storage"
)

func newTestStore(t *testing.T) (*Store, storage.Store) {
	t.Helper()
	st := storage.NewMemory()
	s, err := Open(st, zap.NewNop())
	require.NoError(t, err)

	// Deterministic ids and clock.
	var seq int
	s.newID = func() string {
		seq++
		return fmt.Sprintf("card-%03d", seq)
	}
	now := time.UnixMilli(1700000000000)
	s.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	return s, st
}

func TestCreateDefaultsAssigneesToCreator(t *testing.T) {
	s, _ := newTestStore(t)

	card, err := s.Create(CreateInput{
		Title:     "Edit Intro",
		CreatedBy: "a@x.com",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a@x.com"}, card.AssignedEmails)
	assert.Equal(t, models.StatusTodo, card.Status)
	assert.Empty(t, card.Updates)
	assert.NotEmpty(t, card.ID)
}

func TestCreateRequiresTitle(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Create(CreateInput{Title: "   ", CreatedBy: "a@x.com"})
	assert.ErrorIs(t, err, ErrTitleRequired)
	assert.Empty(t, s.List("a@x.com", ""))
}

func TestListVisibility(t *testing.T) {
	s, _ := newTestStore(t)

	mine, err := s.Create(CreateInput{Title: "Mine", CreatedBy: "a@x.com"})
	require.NoError(t, err)
	shared, err := s.Create(CreateInput{
		Title:          "Shared",
		CreatedBy:      "b@x.com",
		AssignedEmails: []string{"a@x.com", "b@x.com"},
	})
	require.NoError(t, err)
	_, err = s.Create(CreateInput{Title: "Theirs", CreatedBy: "c@x.com"})
	require.NoError(t, err)

	got := s.List("a@x.com", "")
	require.Len(t, got, 2)
	for _, c := range got {
		assert.True(t, Visible(&c, "a@x.com"),
			"List returned a card not visible to the viewer: %s", c.Title)
	}

	// Newest first.
	assert.Equal(t, shared.ID, got[0].ID)
	assert.Equal(t, mine.ID, got[1].ID)
}

func TestListSearch(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Create(CreateInput{Title: "Edit Intro", CreatedBy: "a@x.com"})
	require.NoError(t, err)
	_, err = s.Create(CreateInput{Title: "Color Grade", CreatedBy: "a@x.com"})
	require.NoError(t, err)

	got := s.List("a@x.com", "intro")
	require.Len(t, got, 1)
	assert.Equal(t, "Edit Intro", got[0].Title)

	// Description matches too, and the empty query matches everything.
	_, err = s.Create(CreateInput{
		Title:       "Sound Mix",
		Description: "Intro music bed",
		CreatedBy:   "a@x.com",
	})
	require.NoError(t, err)
	assert.Len(t, s.List("a@x.com", "INTRO"), 2)
	assert.Len(t, s.List("a@x.com", ""), 3)
}

func TestDeleteCreatorOnly(t *testing.T) {
	s, _ := newTestStore(t)

	card, err := s.Create(CreateInput{
		Title:          "Edit Intro",
		CreatedBy:      "a@x.com",
		AssignedEmails: []string{"a@x.com", "b@x.com"},
	})
	require.NoError(t, err)

	// An assignee is still not allowed to delete.
	err = s.Delete(card.ID, "b@x.com")
	assert.ErrorIs(t, err, ErrNotCreator)
	assert.Len(t, s.List("a@x.com", ""), 1)

	require.NoError(t, s.Delete(card.ID, "a@x.com"))
	assert.Empty(t, s.List("a@x.com", ""))

	// Deleting a missing id is a no-op.
	assert.NoError(t, s.Delete("missing", "a@x.com"))
}

func TestUpdateStatusAuthorization(t *testing.T) {
	s, _ := newTestStore(t)

	card, err := s.Create(CreateInput{
		Title:          "Edit Intro",
		CreatedBy:      "a@x.com",
		AssignedEmails: []string{"a@x.com", "b@x.com"},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, s.UpdateStatus(card.ID, "c@x.com", models.StatusDoing), ErrNotAssigned)
	assert.ErrorIs(t, s.UpdateStatus(card.ID, "a@x.com", "archived"), ErrBadStatus)

	require.NoError(t, s.UpdateStatus(card.ID, "b@x.com", models.StatusDoing))
	got, ok := s.Get(card.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusDoing, got.Status)

	// Missing id is a no-op.
	assert.NoError(t, s.UpdateStatus("missing", "a@x.com", models.StatusDone))
}

func TestAppendUpdate(t *testing.T) {
	s, _ := newTestStore(t)

	card, err := s.Create(CreateInput{Title: "Edit Intro", CreatedBy: "a@x.com"})
	require.NoError(t, err)

	// Empty text with no media is rejected and leaves the log unchanged.
	err = s.AppendUpdate(card.ID, "a@x.com", "   ", nil)
	assert.ErrorIs(t, err, ErrEmptyUpdate)
	got, _ := s.Get(card.ID)
	assert.Empty(t, got.Updates)

	// Non-assignee is rejected.
	err = s.AppendUpdate(card.ID, "b@x.com", "hello", nil)
	assert.ErrorIs(t, err, ErrNotAssigned)

	require.NoError(t, s.AppendUpdate(card.ID, "a@x.com", "first pass done", nil))
	require.NoError(t, s.AppendUpdate(card.ID, "a@x.com", "",
		&models.MediaFile{URL: "https://cdn.example.com/v2.mp4", Type: models.MediaVideo}))

	got, _ = s.Get(card.ID)
	require.Len(t, got.Updates, 2)
	assert.Equal(t, "first pass done", got.Updates[0].Text)
	assert.Equal(t, "a@x.com", got.Updates[0].Author)
	assert.Equal(t, "https://cdn.example.com/v2.mp4", got.Updates[1].MediaURL)
	assert.Equal(t, models.MediaVideo, got.Updates[1].MediaType)
	assert.Greater(t, got.Updates[1].Timestamp, got.Updates[0].Timestamp)
}

func TestMutationsPersistAcrossReopen(t *testing.T) {
	s, st := newTestStore(t)

	card, err := s.Create(CreateInput{Title: "Edit Intro", CreatedBy: "a@x.com"})
	require.NoError(t, err)
	require.NoError(t, s.UpdateStatus(card.ID, "a@x.com", models.StatusDone))
	require.NoError(t, s.AppendUpdate(card.ID, "a@x.com", "shipped", nil))

	reopened, err := Open(st, zap.NewNop())
	require.NoError(t, err)

	got, ok := reopened.Get(card.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusDone, got.Status)
	require.Len(t, got.Updates, 1)
	assert.Equal(t, "shipped", got.Updates[0].Text)
}
