package repository

import "context"

// Store bundles the repositories backed by one database handle.
type Store interface {
	Users() UserRepository
	Subjects() SubjectRepository
	TutorPosts() TutorPostRepository
	Messages() MessageRepository
	Drafts() DraftRepository
	Migrate(ctx context.Context) error
	Close() error
}
