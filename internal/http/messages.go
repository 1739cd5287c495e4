package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createMessageRequest struct {
	RecipientID flexibleID `json:"recipientId" binding:"required,gt=0"`
	TutorPostID flexibleID `json:"tutorPostId" binding:"required,gt=0"`
	Message     string     `json:"message"`
}

func (h *Handler) listMessages(c *gin.Context) {
	msgs, err := h.messages.ListForUser(c.Request.Context(), mustClaims(c).UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	data := make([]messageResponse, len(msgs))
	for i, m := range msgs {
		data[i] = toMessageResponse(m, true)
	}
	c.JSON(http.StatusOK, Payload{Success: true, Data: data})
}

func (h *Handler) createMessage(c *gin.Context) {
	var req createMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	msg, err := h.messages.Create(
		c.Request.Context(),
		mustClaims(c).UserID,
		int64(req.RecipientID),
		int64(req.TutorPostID),
		req.Message,
	)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Payload{Success: true, Data: toMessageResponse(*msg, false)})
}
