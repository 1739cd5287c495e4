package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"tutorhub/internal/repository"

	msqlite "modernc.org/sqlite"
)

func init() {
	// LOWER() only folds ASCII; search compares against strings.ToLower.
	msqlite.MustRegisterDeterministicScalarFunction("utf8_lower", 1, utf8Lower)
}

func utf8Lower(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// dsnPragmas are applied by the driver to every new connection.
const dsnPragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

//go:embed migrations/*.sql
var migrations embed.FS

// Store vends sqlite-backed repositories that share one *sql.DB.
type Store struct {
	db     *sql.DB
	logger logrus.FieldLogger

	users      repository.UserRepository
	subjects   repository.SubjectRepository
	tutorPosts repository.TutorPostRepository
	messages   repository.MessageRepository
	drafts     repository.DraftRepository
}

// NewStore opens the database at path and wires the repositories.
func NewStore(path string, logger logrus.FieldLogger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one connection serializes writers and keeps transactions on the same handle
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	var fk int
	if err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk); err != nil {
		db.Close()
		return nil, fmt.Errorf("check foreign keys: %w", err)
	}
	if fk != 1 {
		db.Close()
		return nil, fmt.Errorf("foreign keys are disabled for %s", path)
	}
	return newStore(db, logger), nil
}

func newStore(db *sql.DB, logger logrus.FieldLogger) *Store {
	return &Store{
		db:         db,
		logger:     logger,
		users:      NewUserRepository(db),
		subjects:   NewSubjectRepository(db),
		tutorPosts: NewTutorPostRepository(db),
		messages:   NewMessageRepository(db),
		drafts:     NewDraftRepository(db),
	}
}

func (s *Store) Users() repository.UserRepository           { return s.users }
func (s *Store) Subjects() repository.SubjectRepository     { return s.subjects }
func (s *Store) TutorPosts() repository.TutorPostRepository { return s.tutorPosts }
func (s *Store) Messages() repository.MessageRepository     { return s.messages }
func (s *Store) Drafts() repository.DraftRepository         { return s.drafts }

// DB exposes the underlying handle for tests and tooling.
func (s *Store) DB() *sql.DB { return s.db }

// Migrate applies the embedded goose migrations.
func (s *Store) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(s.logger)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

var _ repository.Store = (*Store)(nil)
