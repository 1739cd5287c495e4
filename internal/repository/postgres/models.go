package postgres

import (
	"sort"
	"time"

	"tutorhub/internal/domain"
)

type userModel struct {
	ID           int64      `gorm:"primaryKey"`
	Email        string     `gorm:"uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null"`
	Username     string     `gorm:"not null;default:''"`
	LastLogin    *time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (userModel) TableName() string { return "users" }

func (m userModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		LastLogin:    m.LastLogin,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type subjectModel struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"column:subject_name;uniqueIndex;not null"`
}

func (subjectModel) TableName() string { return "subjects" }

type tutorPostModel struct {
	ID           int64               `gorm:"primaryKey"`
	UserID       int64               `gorm:"index;not null"`
	User         userModel           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Bio          string              `gorm:"not null"`
	HourlyRate   float64             `gorm:"not null;check:chk_tutor_posts_rate,hourly_rate >= 0"`
	ContactInfo  string              `gorm:"not null"`
	ProfilePhoto *string
	ProfileVideo *string
	ResumePDF    *string             `gorm:"column:resume_pdf"`
	Experience   *string
	Reviews      *int
	SubjectsText string              `gorm:"column:subjects;not null;default:''"`
	Availability domain.Availability `gorm:"type:text;serializer:json;not null"`
	CreatedAt    time.Time           `gorm:"index"`
	UpdatedAt    time.Time

	TutorSubjects []tutorSubjectModel `gorm:"foreignKey:TutorPostID;constraint:OnDelete:CASCADE"`
}

func (tutorPostModel) TableName() string { return "tutor_posts" }

func (m tutorPostModel) toDomain() domain.TutorPost {
	post := domain.TutorPost{
		ID:           m.ID,
		UserID:       m.UserID,
		Bio:          m.Bio,
		HourlyRate:   m.HourlyRate,
		ContactInfo:  m.ContactInfo,
		ProfilePhoto: m.ProfilePhoto,
		ProfileVideo: m.ProfileVideo,
		ResumePDF:    m.ResumePDF,
		Experience:   m.Experience,
		Reviews:      m.Reviews,
		SubjectsText: m.SubjectsText,
		Availability: m.Availability,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		Owner:        domain.PostOwner{Username: m.User.Username, Email: m.User.Email},
		Subjects:     subjectsOf(m.TutorSubjects),
	}
	if post.Availability == nil {
		post.Availability = domain.Availability{}
	}
	return post
}

type tutorSubjectModel struct {
	TutorPostID int64        `gorm:"primaryKey"`
	SubjectID   int64        `gorm:"primaryKey;index"`
	Subject     subjectModel `gorm:"foreignKey:SubjectID"`
}

func (tutorSubjectModel) TableName() string { return "tutor_subjects" }

type messageModel struct {
	ID          int64          `gorm:"primaryKey"`
	SenderID    int64          `gorm:"index;not null"`
	Sender      userModel      `gorm:"foreignKey:SenderID"`
	RecipientID int64          `gorm:"index;not null;check:chk_messages_distinct,sender_id <> recipient_id"`
	Recipient   userModel      `gorm:"foreignKey:RecipientID"`
	TutorPostID int64          `gorm:"index;not null"`
	TutorPost   tutorPostModel `gorm:"foreignKey:TutorPostID;constraint:OnDelete:CASCADE"`
	Body        string         `gorm:"column:message;not null"`
	CreatedAt   time.Time
	ReadAt      *time.Time
}

func (messageModel) TableName() string { return "messages" }

func (m messageModel) toDomain() domain.Message {
	return domain.Message{
		ID:             m.ID,
		SenderID:       m.SenderID,
		RecipientID:    m.RecipientID,
		TutorPostID:    m.TutorPostID,
		Body:           m.Body,
		CreatedAt:      m.CreatedAt,
		ReadAt:         m.ReadAt,
		SenderEmail:    m.Sender.Email,
		RecipientEmail: m.Recipient.Email,
		Post: domain.MessagePost{
			ID:         m.TutorPostID,
			HourlyRate: m.TutorPost.HourlyRate,
			Subjects:   subjectsOf(m.TutorPost.TutorSubjects),
		},
	}
}

type draftModel struct {
	Token     string    `gorm:"primaryKey"`
	Kind      string    `gorm:"not null"`
	Payload   string    `gorm:"type:text;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}

func (draftModel) TableName() string { return "pending_drafts" }

func subjectsOf(links []tutorSubjectModel) []domain.Subject {
	if len(links) == 0 {
		return nil
	}
	out := make([]domain.Subject, 0, len(links))
	for _, l := range links {
		out = append(out, domain.Subject{ID: l.Subject.ID, Name: l.Subject.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
