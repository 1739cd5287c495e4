package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		page  int
		want  Pagination
	}{
		{"empty", 0, 1, Pagination{TotalPages: 0, CurrentPage: 1, TotalCount: 0}},
		{"exact page", 10, 1, Pagination{TotalPages: 1, CurrentPage: 1, TotalCount: 10}},
		{"partial last page", 21, 3, Pagination{TotalPages: 3, CurrentPage: 3, TotalCount: 21}},
		{"page clamped", 5, 0, Pagination{TotalPages: 1, CurrentPage: 1, TotalCount: 5}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NewPagination(tc.total, tc.page, TutorPostPageSize))
		})
	}
}

func TestTutorPostFilter_EmptyRange(t *testing.T) {
	lo, hi := 40.0, 20.0
	assert.True(t, TutorPostFilter{MinPrice: &lo, MaxPrice: &hi}.EmptyRange())
	assert.False(t, TutorPostFilter{MinPrice: &hi, MaxPrice: &lo}.EmptyRange())
	assert.False(t, TutorPostFilter{MinPrice: &lo}.EmptyRange())
}

func TestValidationErrorMatchesInvalidInput(t *testing.T) {
	err := fmt.Errorf("register: %w", Invalid("Passwords do not match"))
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "Passwords do not match", verr.Message)
}

func TestSubjectsText(t *testing.T) {
	got := SubjectsText([]Subject{{ID: 1, Name: "Math"}, {ID: 2, Name: "Computer Science"}})
	assert.Equal(t, "math, computer science", got)
}
