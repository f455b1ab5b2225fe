package models

// Status tracks where a card sits on the board.
type Status string

const (
	StatusTodo  Status = "todo"
	StatusDoing Status = "doing"
	StatusDone  Status = "done"
)

// ValidStatus reports whether s is one of the three board columns.
func ValidStatus(s Status) bool {
	switch s {
	case StatusTodo, StatusDoing, StatusDone:
		return true
	}
	return false
}

// Label returns the human-readable column name for a status.
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "to do"
	case StatusDoing:
		return "doing"
	case StatusDone:
		return "done"
	}
	return string(s)
}

// MediaType distinguishes the two supported attachment kinds.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// MediaFile is a reference attachment on a card.
type MediaFile struct {
	URL  string    `json:"url"`
	Type MediaType `json:"type"`
	Name string    `json:"name,omitempty"`
}

// CardUpdate is a timestamped note appended to a card's history.
// Updates are immutable once appended and the sequence never shrinks.
type CardUpdate struct {
	Text      string    `json:"text"`
	Timestamp int64     `json:"timestamp"` // epoch milliseconds
	Author    string    `json:"author"`
	MediaURL  string    `json:"mediaUrl,omitempty"`
	MediaType MediaType `json:"mediaType,omitempty"`
}

// TaskCard is a unit of work on the board.
type TaskCard struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	MediaFiles     []MediaFile  `json:"mediaFiles"`
	AssignedEmails []string     `json:"assignedEmails"`
	CreatedAt      int64        `json:"createdAt"` // epoch milliseconds, sole sort key
	StartDate      string       `json:"startDate,omitempty"` // YYYY-MM-DD; end may precede start
	EndDate        string       `json:"endDate,omitempty"`
	CreatedBy      string       `json:"createdBy"`
	Updates        []CardUpdate `json:"updates"`
	Status         Status       `json:"status"`
}

// IsCreator reports whether email created the card.
func (c *TaskCard) IsCreator(email string) bool {
	return c.CreatedBy == email
}

// IsAssigned reports whether email appears in the card's assignee list.
func (c *TaskCard) IsAssigned(email string) bool {
	for _, e := range c.AssignedEmails {
		if e == email {
			return true
		}
	}
	return false
}

// CanModify reports whether email may change the card's status or append
// updates. Deletion is stricter and reserved for the creator.
func (c *TaskCard) CanModify(email string) bool {
	return c.IsCreator(email) || c.IsAssigned(email)
}

// AccessLevel separates the seeded admin from regular members.
type AccessLevel int

const (
	AccessAdmin  AccessLevel = 1
	AccessMember AccessLevel = 2
)

// User is a record in the local user directory. Passwords are stored in
// plain text, matching the app this replaces.
type User struct {
	Email         string      `json:"email"`
	Password      string      `json:"password"`
	AccessLevel   AccessLevel `json:"accessLevel"`
	AccessGranted bool        `json:"accessGranted"`
	RequestedAt   int64       `json:"requestedAt"` // epoch milliseconds
}
