package service

import (
	"context"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"tutorhub/internal/domain"
	"tutorhub/internal/repository"
)

const (
	minBioLength  = 50
	maxBioLength  = 1000
	maxHourlyRate = 1000
)

// TutorPostService covers listing, lookup and owner mutations of tutor posts.
type TutorPostService interface {
	Search(ctx context.Context, filter domain.TutorPostFilter, page int) (*domain.TutorPostPage, error)
	Get(ctx context.Context, id int64) (*domain.TutorPost, error)
	PriceRange(ctx context.Context) (domain.PriceRange, error)
	Create(ctx context.Context, post domain.NewTutorPost) (*domain.TutorPost, error)
	Update(ctx context.Context, requesterID, postID int64, update domain.TutorPostUpdate) (*domain.TutorPost, error)
	Delete(ctx context.Context, requesterID, postID int64) error
	ListByUser(ctx context.Context, userID int64) ([]domain.TutorPost, error)
}

type tutorPostService struct {
	posts  repository.TutorPostRepository
	logger logrus.FieldLogger
}

func NewTutorPostService(posts repository.TutorPostRepository, logger logrus.FieldLogger) TutorPostService {
	return &tutorPostService{posts: posts, logger: logger}
}

func (s *tutorPostService) Search(ctx context.Context, filter domain.TutorPostFilter, page int) (*domain.TutorPostPage, error) {
	if page < 1 {
		page = 1
	}
	if filter.MinPrice != nil && *filter.MinPrice < 0 {
		return nil, domain.Invalid("minPrice must be a non-negative number", "minPrice")
	}
	if filter.MaxPrice != nil && *filter.MaxPrice < 0 {
		return nil, domain.Invalid("maxPrice must be a non-negative number", "maxPrice")
	}

	size := domain.TutorPostPageSize
	if filter.EmptyRange() {
		return &domain.TutorPostPage{
			Posts:      []domain.TutorPost{},
			Pagination: domain.NewPagination(0, page, size),
		}, nil
	}

	var (
		posts []domain.TutorPost
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	// past math.MaxInt/size the offset overflows and no row can exist there
	if page <= math.MaxInt/size {
		g.Go(func() error {
			var err error
			posts, err = s.posts.Search(gctx, filter, size, (page-1)*size)
			return err
		})
	}
	g.Go(func() error {
		var err error
		total, err = s.posts.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if posts == nil {
		posts = []domain.TutorPost{}
	}
	return &domain.TutorPostPage{
		Posts:      posts,
		Pagination: domain.NewPagination(total, page, size),
	}, nil
}

func (s *tutorPostService) Get(ctx context.Context, id int64) (*domain.TutorPost, error) {
	return s.posts.Get(ctx, id)
}

func (s *tutorPostService) PriceRange(ctx context.Context) (domain.PriceRange, error) {
	return s.posts.PriceRange(ctx)
}

func (s *tutorPostService) Create(ctx context.Context, post domain.NewTutorPost) (*domain.TutorPost, error) {
	post.Bio = strings.TrimSpace(post.Bio)
	post.ContactInfo = strings.TrimSpace(post.ContactInfo)
	if err := validateBio(post.Bio); err != nil {
		return nil, err
	}
	if err := validateRate(post.HourlyRate); err != nil {
		return nil, err
	}
	if post.ContactInfo == "" {
		return nil, domain.Invalid("Contact information is required", "contactInfo")
	}
	if post.SubjectID <= 0 {
		return nil, domain.Invalid("Subject is required", "subjectId")
	}
	if post.Availability == nil {
		post.Availability = domain.Availability{}
	}

	id, err := s.posts.Create(ctx, &post)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"post_id": id, "user_id": post.UserID}).Info("tutor post created")
	return s.posts.Get(ctx, id)
}

func (s *tutorPostService) Update(ctx context.Context, requesterID, postID int64, update domain.TutorPostUpdate) (*domain.TutorPost, error) {
	if update.Empty() {
		return nil, domain.Invalid("No fields to update")
	}
	if update.Bio != nil {
		bio := strings.TrimSpace(*update.Bio)
		if err := validateBio(bio); err != nil {
			return nil, err
		}
		update.Bio = &bio
	}
	if update.HourlyRate != nil {
		if err := validateRate(*update.HourlyRate); err != nil {
			return nil, err
		}
	}

	if err := s.authorize(ctx, requesterID, postID); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, postID, requesterID, update); err != nil {
		return nil, err
	}
	return s.posts.Get(ctx, postID)
}

func (s *tutorPostService) Delete(ctx context.Context, requesterID, postID int64) error {
	if err := s.authorize(ctx, requesterID, postID); err != nil {
		return err
	}
	// conditioned on owner so a concurrent delete surfaces as not found
	if err := s.posts.Delete(ctx, postID, requesterID); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"post_id": postID, "user_id": requesterID}).Info("tutor post deleted")
	return nil
}

func (s *tutorPostService) ListByUser(ctx context.Context, userID int64) ([]domain.TutorPost, error) {
	posts, err := s.posts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.TutorPost{}
	}
	return posts, nil
}

func (s *tutorPostService) authorize(ctx context.Context, requesterID, postID int64) error {
	post, err := s.posts.Get(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != requesterID {
		return domain.ErrForbidden
	}
	return nil
}

func validateBio(bio string) error {
	n := utf8.RuneCountInString(bio)
	if n < minBioLength || n > maxBioLength {
		return domain.Invalid("Bio must be between 50 and 1000 characters", "bio")
	}
	return nil
}

func validateRate(rate float64) error {
	if rate < 0 || rate > maxHourlyRate {
		return domain.Invalid("Hourly rate must be between 0 and 1000", "hourlyRate")
	}
	return nil
}
