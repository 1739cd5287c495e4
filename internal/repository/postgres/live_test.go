package postgres

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutorhub/internal/domain"
)

const testDSNEnv = "TUTORHUB_TEST_POSTGRES_DSN"

func newLiveStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv(testDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", testDSNEnv)
	}

	store, err := NewStore(dsn, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.db.Exec(`TRUNCATE pending_drafts, messages, tutor_subjects, tutor_posts, subjects, users RESTART IDENTITY CASCADE`).Error)
	return store
}

func TestLive_PostLifecycle(t *testing.T) {
	store := newLiveStore(t)
	ctx := context.Background()

	ana := &domain.User{Email: "ana@sfsu.edu", Username: "ana", PasswordHash: "h"}
	_, err := store.Users().Create(ctx, ana)
	require.NoError(t, err)
	ben := &domain.User{Email: "ben@sfsu.edu", Username: "ben", PasswordHash: "h"}
	_, err = store.Users().Create(ctx, ben)
	require.NoError(t, err)

	_, err = store.Users().Create(ctx, &domain.User{Email: "ana@sfsu.edu", PasswordHash: "h"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	added, err := store.Subjects().EnsureNames(ctx, []string{"Math", "Mathematics", "Math"})
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	subjects, err := store.Subjects().List(ctx)
	require.NoError(t, err)
	require.Len(t, subjects, 2)

	postID, err := store.TutorPosts().Create(ctx, &domain.NewTutorPost{
		UserID:       ana.ID,
		SubjectID:    subjects[0].ID,
		Bio:          strings.Repeat("a", 60),
		HourlyRate:   25,
		ContactInfo:  "ana@sfsu.edu",
		Availability: domain.Availability{"friday": true},
	})
	require.NoError(t, err)

	_, err = store.TutorPosts().Create(ctx, &domain.NewTutorPost{UserID: ana.ID, SubjectID: 9999, Bio: "x", ContactInfo: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	posts, err := store.TutorPosts().Search(ctx, domain.TutorPostFilter{Subject: "Math"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "ana", posts[0].Owner.Username)
	assert.Equal(t, domain.Availability{"friday": true}, posts[0].Availability)

	none, err := store.TutorPosts().Count(ctx, domain.TutorPostFilter{Subject: "Mathematics"})
	require.NoError(t, err)
	assert.Zero(t, none)

	_, err = store.Messages().Create(ctx, &domain.Message{SenderID: ben.ID, RecipientID: ana.ID, TutorPostID: postID, Body: "hi"})
	require.NoError(t, err)
	msgs, err := store.Messages().ListForUser(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "ben@sfsu.edu", msgs[0].SenderEmail)
	assert.Nil(t, msgs[0].ReadAt)

	assert.ErrorIs(t, store.TutorPosts().Delete(ctx, postID, ben.ID), domain.ErrNotFound)
	require.NoError(t, store.TutorPosts().Delete(ctx, postID, ana.ID))

	msgs, err = store.Messages().ListForUser(ctx, ana.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
