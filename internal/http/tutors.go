package http

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tutorhub/internal/domain"
)

type createPostRequest struct {
	Bio          string              `json:"bio" binding:"required,min=50,max=1000"`
	HourlyRate   *float64            `json:"hourlyRate" binding:"required,gte=0,lte=1000"`
	ContactInfo  string              `json:"contactInfo" binding:"required"`
	SubjectID    flexibleID          `json:"subjectId" binding:"required,gt=0"`
	Experience   *string             `json:"experience"`
	Availability domain.Availability `json:"availability"`
	ProfilePhoto *string             `json:"profilePhoto"`
	ProfileVideo *string             `json:"profileVideo"`
	ResumePDF    *string             `json:"resumePdf"`
}

type updatePostRequest struct {
	Bio        *string  `json:"bio" binding:"omitempty,min=50,max=1000"`
	HourlyRate *float64 `json:"hourlyRate" binding:"omitempty,gte=0,lte=1000"`
	Experience *string  `json:"experience"`
}

func (h *Handler) searchPosts(c *gin.Context) {
	filter := domain.TutorPostFilter{
		Query:   c.Query("q"),
		Subject: strings.TrimSpace(c.Query("subject")),
	}
	var err error
	if filter.MinPrice, err = priceParam(c, "minPrice"); err != nil {
		h.fail(c, err)
		return
	}
	if filter.MaxPrice, err = priceParam(c, "maxPrice"); err != nil {
		h.fail(c, err)
		return
	}
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	result, err := h.posts.Search(c.Request.Context(), filter, page)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"posts": toPostResponses(result.Posts),
		"pagination": paginationResponse{
			TotalPages:  result.Pagination.TotalPages,
			CurrentPage: result.Pagination.CurrentPage,
			TotalCount:  result.Pagination.TotalCount,
		},
	})
}

// priceParam parses an optional non-negative price bound.
func priceParam(c *gin.Context, name string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil, domain.Invalid(name+" must be a non-negative number", name)
	}
	return &v, nil
}

func (h *Handler) priceRange(c *gin.Context) {
	pr, err := h.posts.PriceRange(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"min": pr.Min, "max": pr.Max, "count": pr.Count})
}

func (h *Handler) getPost(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}
	post, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "post": toPostResponse(*post)})
}

func (h *Handler) createPost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	post, err := h.posts.Create(c.Request.Context(), domain.NewTutorPost{
		UserID:       mustClaims(c).UserID,
		SubjectID:    int64(req.SubjectID),
		Bio:          req.Bio,
		HourlyRate:   *req.HourlyRate,
		ContactInfo:  req.ContactInfo,
		Experience:   req.Experience,
		Availability: req.Availability,
		ProfilePhoto: req.ProfilePhoto,
		ProfileVideo: req.ProfileVideo,
		ResumePDF:    req.ResumePDF,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Tutor post created successfully",
		"post":    toPostResponse(*post),
	})
}

func (h *Handler) myPosts(c *gin.Context) {
	posts, err := h.posts.ListByUser(c.Request.Context(), mustClaims(c).UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "posts": toPostResponses(posts)})
}

func (h *Handler) updatePost(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	post, err := h.posts.Update(c.Request.Context(), mustClaims(c).UserID, id, domain.TutorPostUpdate{
		Bio:        req.Bio,
		HourlyRate: req.HourlyRate,
		Experience: req.Experience,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "post": toPostResponse(*post)})
}

func (h *Handler) deletePost(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}
	if err := h.posts.Delete(c.Request.Context(), mustClaims(c).UserID, id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Payload{Success: true, Message: "Post deleted successfully"})
}

func postIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("postId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, Payload{Message: "Invalid post id"})
		return 0, false
	}
	return id, true
}
