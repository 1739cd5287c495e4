package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listSubjects(c *gin.Context) {
	subjects, err := h.subjects.All(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	resp := make([]subjectResponse, len(subjects))
	for i, s := range subjects {
		resp[i] = subjectResponse{ID: s.ID, SubjectName: s.Name}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listActiveSubjects(c *gin.Context) {
	subjects, err := h.subjects.Active(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	resp := make([]activeSubjectResponse, len(subjects))
	for i, s := range subjects {
		resp[i] = activeSubjectResponse{ID: s.ID, SubjectName: s.Name, TutorCount: s.TutorCount}
	}
	c.JSON(http.StatusOK, resp)
}
