// Package postgres is the gorm-backed store used when the service runs
// against PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository"
)

type Store struct {
	db *gorm.DB

	users      repository.UserRepository
	subjects   repository.SubjectRepository
	tutorPosts repository.TutorPostRepository
	messages   repository.MessageRepository
	drafts     repository.DraftRepository
}

// NewStore connects to PostgreSQL using dsn.
func NewStore(dsn string, logger logrus.FieldLogger) (*Store, error) {
	return open(postgres.Open(dsn), logger)
}

func open(dialector gorm.Dialector, logger logrus.FieldLogger) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 newGormLogger(logger),
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return newStore(db), nil
}

func newStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		users:      &UserRepository{db: db},
		subjects:   &SubjectRepository{db: db},
		tutorPosts: &TutorPostRepository{db: db},
		messages:   &MessageRepository{db: db},
		drafts:     &DraftRepository{db: db},
	}
}

func (s *Store) Users() repository.UserRepository           { return s.users }
func (s *Store) Subjects() repository.SubjectRepository     { return s.subjects }
func (s *Store) TutorPosts() repository.TutorPostRepository { return s.tutorPosts }
func (s *Store) Messages() repository.MessageRepository     { return s.messages }
func (s *Store) Drafts() repository.DraftRepository         { return s.drafts }

// Migrate brings the schema up to date with AutoMigrate.
func (s *Store) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&userModel{},
		&subjectModel{},
		&tutorPostModel{},
		&tutorSubjectModel{},
		&messageModel{},
		&draftModel{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("postgres handle: %w", err)
	}
	return sqlDB.Close()
}

var _ repository.Store = (*Store)(nil)

func newGormLogger(logger logrus.FieldLogger) gormlogger.Interface {
	return gormlogger.New(logger, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func requireAffected(tx *gorm.DB, what string) error {
	if tx.Error != nil {
		return fmt.Errorf("%s: %w", what, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}
