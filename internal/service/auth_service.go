package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository"
)

// RegisterInput is the raw registration form.
type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	AcceptTerms     bool
}

// AuthResult is a signed-in user with a fresh session token.
type AuthResult struct {
	User  *domain.User
	Token string
}

// AuthService describes account registration and sign-in.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

// AuthOptions tune registration rules.
type AuthOptions struct {
	EmailDomain string
	BcryptCost  int
}

type authService struct {
	users    repository.UserRepository
	sessions *SessionManager
	opts     AuthOptions
	logger   logrus.FieldLogger
}

func NewAuthService(users repository.UserRepository, sessions *SessionManager, opts AuthOptions, logger logrus.FieldLogger) AuthService {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	opts.EmailDomain = strings.ToLower(strings.TrimSpace(opts.EmailDomain))
	return &authService{
		users:    users,
		sessions: sessions,
		opts:     opts,
		logger:   logger,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if in.Password == "" {
		missing = append(missing, "password")
	}
	if in.ConfirmPassword == "" {
		missing = append(missing, "confirmPassword")
	}
	if len(missing) > 0 {
		return nil, domain.Invalid("Missing required fields", missing...)
	}
	if s.opts.EmailDomain != "" && !strings.HasSuffix(email, s.opts.EmailDomain) {
		return nil, domain.Invalid(fmt.Sprintf("Email must be an %s email address", institutionName(s.opts.EmailDomain)), "email")
	}
	if in.Password != in.ConfirmPassword {
		return nil, domain.Invalid("Passwords do not match", "confirmPassword")
	}
	if !in.AcceptTerms {
		return nil, domain.Invalid("You must accept the terms and conditions", "acceptTerms")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		Username:     usernameFromEmail(email),
		PasswordHash: string(hash),
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.WithField("user_id", user.ID).Info("user registered")

	return s.issue(user)
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	username := user.Username
	if username == "" {
		username = usernameFromEmail(email)
	}
	if err := s.users.RecordLogin(ctx, user.ID, now, username); err != nil {
		return nil, err
	}
	user.LastLogin = &now
	user.Username = username

	return s.issue(user)
}

func (s *authService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *authService) issue(user *domain.User) (*AuthResult, error) {
	token, err := s.sessions.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: sanitizeUser(user), Token: token}, nil
}

func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// institutionName turns "@sfsu.edu" into "SFSU".
func institutionName(suffix string) string {
	host := strings.TrimPrefix(suffix, "@")
	name, _, _ := strings.Cut(host, ".")
	return strings.ToUpper(name)
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		LastLogin: user.LastLogin,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
