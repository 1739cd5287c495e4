package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository"
)

// MaxDraftBytes caps a stored draft payload.
const MaxDraftBytes = 64 << 10

var draftKindPattern = regexp.MustCompile(`^[a-z0-9-]{1,32}$`)

// DraftService parks form payloads across an authentication round trip.
type DraftService interface {
	Save(ctx context.Context, kind string, payload []byte) (*domain.Draft, error)
	Take(ctx context.Context, token, kind string) (*domain.Draft, error)
}

type draftService struct {
	drafts repository.DraftRepository
	ttl    time.Duration
	now    func() time.Time
}

func NewDraftService(drafts repository.DraftRepository, ttl time.Duration) DraftService {
	return &draftService{drafts: drafts, ttl: ttl, now: time.Now}
}

func (s *draftService) Save(ctx context.Context, kind string, payload []byte) (*domain.Draft, error) {
	if !draftKindPattern.MatchString(kind) {
		return nil, domain.Invalid("Invalid draft kind", "kind")
	}
	if len(payload) > MaxDraftBytes {
		return nil, domain.Invalid("Draft is too large")
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(payload, &obj); err != nil || obj == nil {
		return nil, domain.Invalid("Draft must be a JSON object")
	}

	now := s.now().UTC()
	if _, err := s.drafts.PurgeExpired(ctx, now); err != nil {
		return nil, err
	}

	token, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("draft token: %w", err)
	}
	draft := &domain.Draft{
		Token:     token,
		Kind:      kind,
		Payload:   payload,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Take consumes the draft; an expired draft is reported as not found.
func (s *draftService) Take(ctx context.Context, token, kind string) (*domain.Draft, error) {
	if token == "" {
		return nil, domain.ErrNotFound
	}
	draft, err := s.drafts.Take(ctx, token, kind)
	if err != nil {
		return nil, err
	}
	if draft.Expired(s.now()) {
		return nil, errors.Join(domain.ErrNotFound, fmt.Errorf("draft expired at %s", draft.ExpiresAt))
	}
	return draft, nil
}

// GenerateSecureToken returns length random bytes as URL-safe base64.
func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
