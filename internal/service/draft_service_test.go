package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutorhub/internal/domain"
)

type memDrafts struct {
	items  map[string]domain.Draft
	purged int
}

func (m *memDrafts) Save(_ context.Context, d *domain.Draft) error {
	m.items[d.Token] = *d
	return nil
}

func (m *memDrafts) Take(_ context.Context, token, kind string) (*domain.Draft, error) {
	d, ok := m.items[token]
	if !ok || d.Kind != kind {
		return nil, domain.ErrNotFound
	}
	delete(m.items, token)
	return &d, nil
}

func (m *memDrafts) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for k, d := range m.items {
		if d.Expired(now) {
			delete(m.items, k)
			n++
		}
	}
	m.purged++
	return n, nil
}

func newDraftServiceForTest() (*draftService, *memDrafts) {
	repo := &memDrafts{items: map[string]domain.Draft{}}
	svc := NewDraftService(repo, 30*time.Minute).(*draftService)
	return svc, repo
}

func TestDraftService_SaveValidates(t *testing.T) {
	svc, _ := newDraftServiceForTest()
	ctx := context.Background()

	_, err := svc.Save(ctx, "Bad Kind!", []byte(`{}`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Save(ctx, "tutor-post", []byte(`[1,2]`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Save(ctx, "tutor-post", []byte(`null`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	big := `{"bio":"` + strings.Repeat("x", MaxDraftBytes) + `"}`
	_, err = svc.Save(ctx, "tutor-post", []byte(big))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDraftService_ConsumeOnce(t *testing.T) {
	svc, repo := newDraftServiceForTest()
	ctx := context.Background()

	d, err := svc.Save(ctx, "tutor-post", []byte(`{"bio":"hello"}`))
	require.NoError(t, err)
	assert.Len(t, d.Token, 43)
	assert.Equal(t, 1, repo.purged)

	got, err := svc.Take(ctx, d.Token, "tutor-post")
	require.NoError(t, err)
	assert.JSONEq(t, `{"bio":"hello"}`, string(got.Payload))

	_, err = svc.Take(ctx, d.Token, "tutor-post")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDraftService_Expired(t *testing.T) {
	svc, _ := newDraftServiceForTest()
	ctx := context.Background()
	start := time.Now()
	svc.now = func() time.Time { return start }

	d, err := svc.Save(ctx, "tutor-post", []byte(`{}`))
	require.NoError(t, err)

	svc.now = func() time.Time { return start.Add(31 * time.Minute) }
	_, err = svc.Take(ctx, d.Token, "tutor-post")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGenerateSecureToken(t *testing.T) {
	a, err := GenerateSecureToken(32)
	require.NoError(t, err)
	b, err := GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "=")
}
