package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	StorageLocal = "local"
	StorageS3    = "s3"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr           string
		Environment    string
		AllowedOrigins []string
	}
	Log struct {
		Level string
	}
	Database struct {
		Driver string
		Path   string
		DSN    string
	}
	Auth struct {
		JWTSecret   string
		TokenTTL    time.Duration
		EmailDomain string
		BcryptCost  int
	}
	Storage struct {
		Driver        string
		LocalDir      string
		PublicPrefix  string
		Bucket        string
		KeyPrefix     string
		Region        string
		Endpoint      string
		PublicBaseURL string
	}
	AWS struct {
		Profile string
	}
	Upload struct {
		MaxBytes int64
	}
	Drafts struct {
		TTL time.Duration
	}
	Subjects struct {
		Defaults []string
	}
}

// IsProduction reports whether cookies should be marked Secure.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("auth jwt secret is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth token ttl must be positive"))
	}
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			errs = append(errs, errors.New("database path is required for sqlite"))
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("database dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.Database.Driver))
	}
	switch c.Storage.Driver {
	case StorageLocal:
	case StorageS3:
		if c.Storage.Bucket == "" {
			errs = append(errs, errors.New("storage bucket is required for s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, errors.New("upload max bytes must be positive"))
	}
	return errors.Join(errs...)
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	// existing environment wins over .env
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("TUTORHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowedorigins", []string{"http://localhost:3000"})
	v.SetDefault("log.level", "info")
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "data/tutorhub.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.tokenttl", 7*24*time.Hour)
	v.SetDefault("auth.emaildomain", "@sfsu.edu")
	v.SetDefault("auth.bcryptcost", 10)
	v.SetDefault("storage.driver", StorageLocal)
	v.SetDefault("storage.localdir", "data/uploads")
	v.SetDefault("storage.publicprefix", "/uploads")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.publicbaseurl", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("upload.maxbytes", 25<<20)
	v.SetDefault("drafts.ttl", 30*time.Minute)
	v.SetDefault("subjects.defaults", []string{
		"Mathematics",
		"Computer Science",
		"Physics",
		"Chemistry",
		"Biology",
		"English",
		"History",
		"Economics",
		"Psychology",
		"Spanish",
	})

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}
