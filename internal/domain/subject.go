package domain

// Subject is shared reference data a tutor post can be linked to.
type Subject struct {
	ID   int64
	Name string
}

// ActiveSubject is a subject with at least one linked tutor post.
type ActiveSubject struct {
	Subject
	TutorCount int64
}
