package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tutorhub/internal/domain"
	"tutorhub/internal/service"
)

func draftCookie(kind string) string {
	return "draft_" + kind
}

func (h *Handler) saveDraft(c *gin.Context) {
	kind := c.Param("kind")
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, service.MaxDraftBytes+1))
	if err != nil {
		badRequest(c, err)
		return
	}

	draft, err := h.drafts.Save(c.Request.Context(), kind, body)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.setCookie(c, draftCookie(kind), draft.Token, time.Until(draft.ExpiresAt))
	c.JSON(http.StatusOK, gin.H{"success": true, "expiresAt": draft.ExpiresAt})
}

func (h *Handler) takeDraft(c *gin.Context) {
	kind := c.Param("kind")
	token, err := c.Cookie(draftCookie(kind))
	if err != nil || token == "" {
		c.JSON(http.StatusNotFound, Payload{Message: "No draft found"})
		return
	}
	// a draft is retrievable once; drop the cookie either way
	h.clearCookie(c, draftCookie(kind))

	draft, err := h.drafts.Take(c.Request.Context(), token, kind)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, Payload{Message: "No draft found"})
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Payload{Success: true, Data: json.RawMessage(draft.Payload)})
}
