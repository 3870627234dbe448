package assistant

import (
	"time"

	"github.com/google/uuid"
)

// Author identifies who wrote a chat message
type Author string

const (
	AuthorUser      Author = "user"
	AuthorAssistant Author = "assistant"
)

// Message is a single entry in a session's history
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsFromUser reports whether the message was written by the user
func (m Message) IsFromUser() bool {
	return m.Author == AuthorUser
}

// newMessageID returns a time-ordered identifier. UUIDv7 is used so that ids
// sort in creation order; it falls back to a random UUID if the clock read fails.
func newMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
