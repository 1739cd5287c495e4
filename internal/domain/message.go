package domain

import "time"

// MessagePost is the slice of a tutor post embedded in a message listing.
type MessagePost struct {
	ID         int64
	HourlyRate float64
	Subjects   []Subject
}

// Message is a direct message about a tutor post. ReadAt is nil while unread;
// nothing transitions it yet.
type Message struct {
	ID          int64
	SenderID    int64
	RecipientID int64
	TutorPostID int64
	Body        string
	CreatedAt   time.Time
	ReadAt      *time.Time

	SenderEmail    string
	RecipientEmail string
	Post           MessagePost
}
