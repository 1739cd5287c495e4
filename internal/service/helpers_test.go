package service_test

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository/sqlite"
	"tutorhub/internal/service"
)

const testSecret = "test-secret"

type testEnv struct {
	store    *sqlite.Store
	sessions *service.SessionManager
	auth     service.AuthService
	subjects service.SubjectService
	posts    service.TutorPostService
	messages service.MessageService
	drafts   service.DraftService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store, err := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	sessions := service.NewSessionManager(testSecret, time.Hour)
	return &testEnv{
		store:    store,
		sessions: sessions,
		auth: service.NewAuthService(store.Users(), sessions, service.AuthOptions{
			EmailDomain: "@sfsu.edu",
			BcryptCost:  bcrypt.MinCost,
		}, logger),
		subjects: service.NewSubjectService(store.Subjects(), logger),
		posts:    service.NewTutorPostService(store.TutorPosts(), logger),
		messages: service.NewMessageService(store.Messages()),
		drafts:   service.NewDraftService(store.Drafts(), 30*time.Minute),
	}
}

func (e *testEnv) register(t *testing.T, email string) *domain.User {
	t.Helper()
	res, err := e.auth.Register(context.Background(), service.RegisterInput{
		Email:           email,
		Password:        "password123",
		ConfirmPassword: "password123",
		AcceptTerms:     true,
	})
	require.NoError(t, err)
	return res.User
}

func (e *testEnv) subjectID(t *testing.T, name string) int64 {
	t.Helper()
	ctx := context.Background()
	_, err := e.subjects.Seed(ctx, []string{name})
	require.NoError(t, err)
	all, err := e.subjects.All(ctx)
	require.NoError(t, err)
	for _, s := range all {
		if s.Name == name {
			return s.ID
		}
	}
	t.Fatalf("subject %q not seeded", name)
	return 0
}

func (e *testEnv) createPost(t *testing.T, owner *domain.User, subjectID int64, rate float64) *domain.TutorPost {
	t.Helper()
	post, err := e.posts.Create(context.Background(), domain.NewTutorPost{
		UserID:      owner.ID,
		SubjectID:   subjectID,
		Bio:         strings.Repeat("b", 60),
		HourlyRate:  rate,
		ContactInfo: owner.Email,
	})
	require.NoError(t, err)
	return post
}
