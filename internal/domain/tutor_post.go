package domain

import (
	"strings"
	"time"
)

// TutorPostPageSize is the fixed number of posts returned per listing page.
const TutorPostPageSize = 10

// Availability maps a day of the week to whether the tutor is available.
type Availability map[string]bool

// PostOwner is the subset of the owning user exposed alongside a post.
type PostOwner struct {
	Username string
	Email    string
}

// TutorPost is a tutor listing owned by exactly one user.
type TutorPost struct {
	ID           int64
	UserID       int64
	Bio          string
	HourlyRate   float64
	ContactInfo  string
	ProfilePhoto *string
	ProfileVideo *string
	ResumePDF    *string
	Experience   *string
	Reviews      *int
	SubjectsText string
	Availability Availability
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Owner    PostOwner
	Subjects []Subject
}

// NewTutorPost carries the fields accepted when a post is created.
type NewTutorPost struct {
	UserID       int64
	SubjectID    int64
	Bio          string
	HourlyRate   float64
	ContactInfo  string
	Experience   *string
	Availability Availability
	ProfilePhoto *string
	ProfileVideo *string
	ResumePDF    *string
}

// TutorPostUpdate holds the owner-editable fields; nil means unchanged.
type TutorPostUpdate struct {
	Bio        *string
	HourlyRate *float64
	Experience *string
}

// Empty reports whether the update changes nothing.
func (u TutorPostUpdate) Empty() bool {
	return u.Bio == nil && u.HourlyRate == nil && u.Experience == nil
}

// TutorPostFilter narrows a listing. All set fields combine with AND.
type TutorPostFilter struct {
	Query    string
	Subject  string
	MinPrice *float64
	MaxPrice *float64
}

// NormalizedQuery returns the lower-cased, trimmed free-text query.
func (f TutorPostFilter) NormalizedQuery() string {
	return strings.ToLower(strings.TrimSpace(f.Query))
}

// EmptyRange reports whether the price bounds can never match.
func (f TutorPostFilter) EmptyRange() bool {
	return f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice
}

// Pagination describes where a page sits in the filtered result set.
type Pagination struct {
	TotalPages  int
	CurrentPage int
	TotalCount  int64
}

// NewPagination computes page metadata from the filtered count.
func NewPagination(total int64, page, pageSize int) Pagination {
	if page < 1 {
		page = 1
	}
	pages := 0
	if pageSize > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Pagination{
		TotalPages:  pages,
		CurrentPage: page,
		TotalCount:  total,
	}
}

// TutorPostPage is one page of a filtered listing.
type TutorPostPage struct {
	Posts      []TutorPost
	Pagination Pagination
}

// PriceRange summarises hourly rates across all posts.
type PriceRange struct {
	Min   float64
	Max   float64
	Count int64
}

// SubjectsText builds the lower-cased text used by free-text search.
func SubjectsText(subjects []Subject) string {
	names := make([]string, 0, len(subjects))
	for _, s := range subjects {
		names = append(names, strings.ToLower(s.Name))
	}
	return strings.Join(names, ", ")
}
