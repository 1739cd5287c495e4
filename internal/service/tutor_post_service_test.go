package service_test

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutorhub/internal/domain"
)

func TestTutorPostService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.register(t, "ana@sfsu.edu")
	math := env.subjectID(t, "Math")

	valid := domain.NewTutorPost{
		UserID:      owner.ID,
		SubjectID:   math,
		Bio:         strings.Repeat("a", 50),
		HourlyRate:  0,
		ContactInfo: "ana@sfsu.edu",
	}

	cases := map[string]func(p *domain.NewTutorPost){
		"short bio":     func(p *domain.NewTutorPost) { p.Bio = "too short" },
		"long bio":      func(p *domain.NewTutorPost) { p.Bio = strings.Repeat("a", 1001) },
		"negative rate": func(p *domain.NewTutorPost) { p.HourlyRate = -1 },
		"rate too high": func(p *domain.NewTutorPost) { p.HourlyRate = 1000.01 },
		"no contact":    func(p *domain.NewTutorPost) { p.ContactInfo = "  " },
		"no subject":    func(p *domain.NewTutorPost) { p.SubjectID = 0 },
		"bad subject":   func(p *domain.NewTutorPost) { p.SubjectID = 9999 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := valid
			mutate(&p)
			_, err := env.posts.Create(ctx, p)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	post, err := env.posts.Create(ctx, valid)
	require.NoError(t, err)
	assert.Equal(t, "math", post.SubjectsText)
	assert.NotNil(t, post.Availability)
}

func TestTutorPostService_SearchPaginationAndFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.register(t, "ana@sfsu.edu")
	math := env.subjectID(t, "Math")
	bio := env.subjectID(t, "Biology")

	for i := 0; i < 12; i++ {
		env.createPost(t, ana, math, float64(10+i))
	}
	env.createPost(t, ana, bio, 50)

	page, err := env.posts.Search(ctx, domain.TutorPostFilter{Subject: "Math"}, 2)
	require.NoError(t, err)
	assert.Len(t, page.Posts, 2)
	assert.Equal(t, domain.Pagination{TotalPages: 2, CurrentPage: 2, TotalCount: 12}, page.Pagination)

	page, err = env.posts.Search(ctx, domain.TutorPostFilter{}, 0)
	require.NoError(t, err)
	assert.Len(t, page.Posts, 10)
	assert.Equal(t, 1, page.Pagination.CurrentPage)
	assert.Equal(t, int64(13), page.Pagination.TotalCount)

	lo, hi := 10.0, 11.0
	page, err = env.posts.Search(ctx, domain.TutorPostFilter{MinPrice: &lo, MaxPrice: &hi}, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Pagination.TotalCount)

	page, err = env.posts.Search(ctx, domain.TutorPostFilter{MinPrice: &hi, MaxPrice: &lo}, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.Zero(t, page.Pagination.TotalCount)

	neg := -5.0
	_, err = env.posts.Search(ctx, domain.TutorPostFilter{MinPrice: &neg}, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTutorPostService_SearchHugePage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.register(t, "ana@sfsu.edu")
	env.createPost(t, ana, env.subjectID(t, "Math"), 25)

	for _, p := range []int{math.MaxInt/domain.TutorPostPageSize + 2, math.MaxInt} {
		page, err := env.posts.Search(ctx, domain.TutorPostFilter{}, p)
		require.NoError(t, err)
		assert.Empty(t, page.Posts)
		assert.NotNil(t, page.Posts)
		assert.Equal(t, p, page.Pagination.CurrentPage)
		assert.Equal(t, 1, page.Pagination.TotalPages)
		assert.Equal(t, int64(1), page.Pagination.TotalCount)
	}
}

func TestTutorPostService_DeleteOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.register(t, "ana@sfsu.edu")
	ben := env.register(t, "ben@sfsu.edu")
	post := env.createPost(t, ana, env.subjectID(t, "Math"), 20)

	err := env.posts.Delete(ctx, ben.ID, post.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = env.posts.Get(ctx, post.ID)
	require.NoError(t, err)

	require.NoError(t, env.posts.Delete(ctx, ana.ID, post.ID))
	_, err = env.posts.Get(ctx, post.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, env.posts.Delete(ctx, ana.ID, post.ID), domain.ErrNotFound)
}

func TestTutorPostService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.register(t, "ana@sfsu.edu")
	ben := env.register(t, "ben@sfsu.edu")
	post := env.createPost(t, ana, env.subjectID(t, "Math"), 20)

	_, err := env.posts.Update(ctx, ana.ID, post.ID, domain.TutorPostUpdate{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	rate := 45.0
	_, err = env.posts.Update(ctx, ben.ID, post.ID, domain.TutorPostUpdate{HourlyRate: &rate})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	tooHigh := 2000.0
	_, err = env.posts.Update(ctx, ana.ID, post.ID, domain.TutorPostUpdate{HourlyRate: &tooHigh})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	updated, err := env.posts.Update(ctx, ana.ID, post.ID, domain.TutorPostUpdate{HourlyRate: &rate})
	require.NoError(t, err)
	assert.Equal(t, 45.0, updated.HourlyRate)

	_, err = env.posts.Update(ctx, ana.ID, 999, domain.TutorPostUpdate{HourlyRate: &rate})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTutorPostService_ListByUserAndPriceRange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.register(t, "ana@sfsu.edu")
	ben := env.register(t, "ben@sfsu.edu")
	math := env.subjectID(t, "Math")

	mine, err := env.posts.ListByUser(ctx, ana.ID)
	require.NoError(t, err)
	assert.NotNil(t, mine)
	assert.Empty(t, mine)

	env.createPost(t, ana, math, 15)
	env.createPost(t, ben, math, 90)

	mine, err = env.posts.ListByUser(ctx, ana.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	pr, err := env.posts.PriceRange(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PriceRange{Min: 15, Max: 90, Count: 2}, pr)

	active, err := env.subjects.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, int64(2), active[0].TutorCount)
}
