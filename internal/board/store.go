// Package board holds the card collection and its mutation rules: who can
// see a card, who can move it, who can comment on it, and who can delete it.
package board

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dvieira/videoboard/internal/models"
	"github.com/dvieira/videoboard/internal/storage"
)

var (
	// ErrTitleRequired rejects card creation without a title.
	ErrTitleRequired = errors.New("board: title is required")
	// ErrEmptyUpdate rejects updates with neither text nor media.
	ErrEmptyUpdate = errors.New("board: update needs text or media")
	// ErrNotCreator rejects deletion by anyone but the card's creator.
	ErrNotCreator = errors.New("board: only the creator can delete this card")
	// ErrNotAssigned rejects status changes and updates from users who are
	// neither creator nor assignee.
	ErrNotAssigned = errors.New("board: not assigned to this card")
	// ErrBadStatus rejects unknown status values.
	ErrBadStatus = errors.New("board: invalid status")
)

// Store owns the in-memory card collection and writes it back in full to
// the blob store after every mutation.
type Store struct {
	storage storage.Store
	log     *zap.Logger
	cards   []models.TaskCard

	now   func() time.Time
	newID func() string
}

// Open loads the card collection from st. A missing cards key starts an
// empty board; a corrupt one is an error rather than silent data loss.
func Open(st storage.Store, log *zap.Logger) (*Store, error) {
	s := &Store{
		storage: st,
		log:     log,
		now:     time.Now,
		newID:   uuid.NewString,
	}

	data, err := st.Load(storage.KeyCards)
	if errors.Is(err, storage.ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.cards); err != nil {
			return nil, fmt.Errorf("failed to parse cards: %w", err)
		}
	}
	return s, nil
}

// CreateInput carries the caller-supplied fields for a new card.
type CreateInput struct {
	Title          string
	Description    string
	MediaFiles     []models.MediaFile
	AssignedEmails []string
	StartDate      string
	EndDate        string
	CreatedBy      string
}

// Create adds a new card in the todo column. An empty assignee list
// defaults to the creator so every card has at least one assignee.
func (s *Store) Create(in CreateInput) (*models.TaskCard, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}

	assigned := in.AssignedEmails
	if len(assigned) == 0 {
		assigned = []string{in.CreatedBy}
	}

	card := models.TaskCard{
		ID:             s.newID(),
		Title:          in.Title,
		Description:    in.Description,
		MediaFiles:     in.MediaFiles,
		AssignedEmails: assigned,
		CreatedAt:      s.now().UnixMilli(),
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		CreatedBy:      in.CreatedBy,
		Updates:        []models.CardUpdate{},
		Status:         models.StatusTodo,
	}

	s.cards = append(s.cards, card)
	if err := s.persist(); err != nil {
		return nil, err
	}

	s.log.Info("card created",
		zap.String("id", card.ID),
		zap.String("created_by", card.CreatedBy))
	return &card, nil
}

// Visible reports whether viewer may see the card: its creator and its
// assignees, nobody else.
func Visible(c *models.TaskCard, viewer string) bool {
	return c.IsCreator(viewer) || c.IsAssigned(viewer)
}

// List returns the cards visible to viewer whose title or description
// contains query (case-insensitive; empty query matches everything),
// newest first. The sort is stable, so equal timestamps keep insertion
// order.
func (s *Store) List(viewer, query string) []models.TaskCard {
	q := strings.ToLower(query)

	var out []models.TaskCard
	for i := range s.cards {
		c := &s.cards[i]
		if !Visible(c, viewer) {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(c.Title), q) &&
			!strings.Contains(strings.ToLower(c.Description), q) {
			continue
		}
		out = append(out, *c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}

// Get returns a copy of the card with the given id.
func (s *Store) Get(id string) (*models.TaskCard, bool) {
	c := s.find(id)
	if c == nil {
		return nil, false
	}
	out := *c
	return &out, true
}

// Delete removes the card with the given id. Only the creator may delete;
// a missing id is a no-op.
func (s *Store) Delete(id, requester string) error {
	idx := -1
	for i := range s.cards {
		if s.cards[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}
	if !s.cards[idx].IsCreator(requester) {
		return ErrNotCreator
	}

	s.cards = append(s.cards[:idx], s.cards[idx+1:]...)
	if err := s.persist(); err != nil {
		return err
	}

	s.log.Info("card deleted", zap.String("id", id), zap.String("by", requester))
	return nil
}

// UpdateStatus moves a card to another column. Permitted for the creator
// and assignees only; the UI disables the control for everyone else, but
// the store enforces it regardless. A missing id is a no-op.
func (s *Store) UpdateStatus(id, requester string, status models.Status) error {
	if !models.ValidStatus(status) {
		return ErrBadStatus
	}
	c := s.find(id)
	if c == nil {
		return nil
	}
	if !c.CanModify(requester) {
		return ErrNotAssigned
	}

	c.Status = status
	return s.persist()
}

// AppendUpdate adds a note to a card's history. Permitted for the creator
// and assignees; requires text or a media attachment. A missing id is a
// no-op.
func (s *Store) AppendUpdate(id, author, text string, media *models.MediaFile) error {
	if strings.TrimSpace(text) == "" && media == nil {
		return ErrEmptyUpdate
	}
	c := s.find(id)
	if c == nil {
		return nil
	}
	if !c.CanModify(author) {
		return ErrNotAssigned
	}

	update := models.CardUpdate{
		Text:      text,
		Timestamp: s.now().UnixMilli(),
		Author:    author,
	}
	if media != nil {
		update.MediaURL = media.URL
		update.MediaType = media.Type
	}

	c.Updates = append(c.Updates, update)
	return s.persist()
}

func (s *Store) find(id string) *models.TaskCard {
	for i := range s.cards {
		if s.cards[i].ID == id {
			return &s.cards[i]
		}
	}
	return nil
}

// persist writes the full collection back to the blob store. No diffing;
// last writer wins across processes.
func (s *Store) persist() error {
	data, err := json.Marshal(s.cards)
	if err != nil {
		return fmt.Errorf("failed to serialize cards: %w", err)
	}
	if err := s.storage.Save(storage.KeyCards, data); err != nil {
		s.log.Error("failed to persist cards", zap.Error(err))
		return fmt.Errorf("failed to persist cards: %w", err)
	}
	return nil
}
