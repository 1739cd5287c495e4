// Package app assembles the process-wide dependencies shared by the server
// and the operator CLI.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"tutorhub/internal/config"
	"tutorhub/internal/repository"
	"tutorhub/internal/repository/postgres"
	"tutorhub/internal/repository/sqlite"
	"tutorhub/internal/service"
	"tutorhub/internal/storage"
)

// NewLogger returns a logrus logger configured from cfg.
func NewLogger(cfg config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if cfg.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// OpenStore opens and migrates the configured database.
func OpenStore(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (repository.Store, error) {
	var (
		store repository.Store
		err   error
	)
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		store, err = sqlite.NewStore(cfg.Database.Path, logger)
	case config.DriverPostgres:
		store, err = postgres.NewStore(cfg.Database.DSN, logger)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Database.Driver, err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logger.WithField("driver", cfg.Database.Driver).Info("database ready")
	return store, nil
}

// Services holds the domain services built over one store.
type Services struct {
	Sessions *service.SessionManager
	Auth     service.AuthService
	Subjects service.SubjectService
	Posts    service.TutorPostService
	Messages service.MessageService
	Drafts   service.DraftService
}

func NewServices(store repository.Store, cfg config.Config, logger logrus.FieldLogger) Services {
	sessions := service.NewSessionManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	return Services{
		Sessions: sessions,
		Auth: service.NewAuthService(store.Users(), sessions, service.AuthOptions{
			EmailDomain: cfg.Auth.EmailDomain,
			BcryptCost:  cfg.Auth.BcryptCost,
		}, logger),
		Subjects: service.NewSubjectService(store.Subjects(), logger),
		Posts:    service.NewTutorPostService(store.TutorPosts(), logger),
		Messages: service.NewMessageService(store.Messages()),
		Drafts:   service.NewDraftService(store.Drafts(), cfg.Drafts.TTL),
	}
}

// BuildStorage returns the upload backend. The LocalStore is non-nil only
// for the local driver so the caller can serve it.
func BuildStorage(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (storage.Service, *storage.LocalStore, error) {
	if cfg.Storage.Driver == config.StorageLocal {
		local, err := storage.NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.PublicPrefix)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof("storing uploads in %s", local.Dir())
		return local, local, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	svc, err := storage.NewS3Service(client, storage.S3Options{
		Bucket:        cfg.Storage.Bucket,
		KeyPrefix:     cfg.Storage.KeyPrefix,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return svc, nil, nil
}
