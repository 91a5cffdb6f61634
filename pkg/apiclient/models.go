package apiclient

import (
	"time"

	"github.com/google/uuid"
)

// User is the authenticated user's profile as owned by the backend. The
// client treats it as an immutable snapshot refreshed wholesale.
type User struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
}

// Issue is a geotagged community report.
type Issue struct {
	ID          uuid.UUID `json:"id"`
	AuthorID    uuid.UUID `json:"authorId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	MediaURL    string    `json:"mediaUrl,omitempty"`
	Votes       int       `json:"votes"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Comment is a user comment on an issue.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	IssueID   uuid.UUID `json:"issueId"`
	AuthorID  uuid.UUID `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repost is a user's share of another user's issue.
type Repost struct {
	ID        uuid.UUID `json:"id"`
	IssueID   uuid.UUID `json:"issueId"`
	Issue     *Issue    `json:"issue,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterParams carries the registration form fields.
type RegisterParams struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}
