package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"tutorhub/internal/domain"
)

// flexibleID accepts a JSON number or a numeric string.
type flexibleID int64

func (id *flexibleID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", s)
	}
	*id = flexibleID(n)
	return nil
}

type userResponse struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	LastLogin *time.Time `json:"lastLogin"`
	CreatedAt time.Time  `json:"createdAt"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}

type subjectResponse struct {
	ID          int64  `json:"id"`
	SubjectName string `json:"subjectName"`
}

type activeSubjectResponse struct {
	ID          int64  `json:"id"`
	SubjectName string `json:"subjectName"`
	TutorCount  int64  `json:"tutorCount"`
}

type tutorSubjectResponse struct {
	TutorID   int64           `json:"tutorId,omitempty"`
	SubjectID int64           `json:"subjectId,omitempty"`
	Subject   subjectResponse `json:"subject"`
}

type postOwnerResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type postResponse struct {
	ID            int64                  `json:"id"`
	UserID        int64                  `json:"userId"`
	Bio           string                 `json:"bio"`
	HourlyRate    float64                `json:"hourlyRate"`
	ContactInfo   string                 `json:"contactInfo"`
	ProfilePhoto  *string                `json:"profilePhoto"`
	ProfileVideo  *string                `json:"profileVideo"`
	ResumePDF     *string                `json:"resumePdf"`
	Experience    *string                `json:"experience"`
	Reviews       *int                   `json:"reviews"`
	Subjects      string                 `json:"subjects"`
	Availability  domain.Availability    `json:"availability"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
	User          postOwnerResponse      `json:"user"`
	TutorSubjects []tutorSubjectResponse `json:"tutorSubjects"`
}

func toPostResponse(p domain.TutorPost) postResponse {
	links := make([]tutorSubjectResponse, 0, len(p.Subjects))
	for _, s := range p.Subjects {
		links = append(links, tutorSubjectResponse{
			TutorID:   p.ID,
			SubjectID: s.ID,
			Subject:   subjectResponse{ID: s.ID, SubjectName: s.Name},
		})
	}
	availability := p.Availability
	if availability == nil {
		availability = domain.Availability{}
	}
	return postResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		Bio:           p.Bio,
		HourlyRate:    p.HourlyRate,
		ContactInfo:   p.ContactInfo,
		ProfilePhoto:  p.ProfilePhoto,
		ProfileVideo:  p.ProfileVideo,
		ResumePDF:     p.ResumePDF,
		Experience:    p.Experience,
		Reviews:       p.Reviews,
		Subjects:      p.SubjectsText,
		Availability:  availability,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		User:          postOwnerResponse{Username: p.Owner.Username, Email: p.Owner.Email},
		TutorSubjects: links,
	}
}

func toPostResponses(posts []domain.TutorPost) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}

type paginationResponse struct {
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	TotalCount  int64 `json:"totalCount"`
}

type emailResponse struct {
	Email string `json:"email"`
}

type messagePostResponse struct {
	ID            int64                  `json:"id"`
	HourlyRate    float64                `json:"hourlyRate"`
	TutorSubjects []tutorSubjectResponse `json:"tutorSubjects"`
}

type messageResponse struct {
	ID          int64                `json:"id"`
	Message     string               `json:"message"`
	CreatedAt   time.Time            `json:"createdAt"`
	ReadAt      *time.Time           `json:"readAt"`
	SenderID    int64                `json:"senderId"`
	RecipientID int64                `json:"recipientId"`
	TutorPostID int64                `json:"tutorPostId"`
	Sender      *emailResponse       `json:"sender,omitempty"`
	Recipient   *emailResponse       `json:"recipient,omitempty"`
	TutorPost   *messagePostResponse `json:"tutorPost,omitempty"`
}

func toMessageResponse(m domain.Message, withRelations bool) messageResponse {
	resp := messageResponse{
		ID:          m.ID,
		Message:     m.Body,
		CreatedAt:   m.CreatedAt,
		ReadAt:      m.ReadAt,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		TutorPostID: m.TutorPostID,
	}
	if !withRelations {
		return resp
	}
	links := make([]tutorSubjectResponse, 0, len(m.Post.Subjects))
	for _, s := range m.Post.Subjects {
		links = append(links, tutorSubjectResponse{Subject: subjectResponse{ID: s.ID, SubjectName: s.Name}})
	}
	resp.Sender = &emailResponse{Email: m.SenderEmail}
	resp.Recipient = &emailResponse{Email: m.RecipientEmail}
	resp.TutorPost = &messagePostResponse{ID: m.Post.ID, HourlyRate: m.Post.HourlyRate, TutorSubjects: links}
	return resp
}
