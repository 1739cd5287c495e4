package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tutorhub/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	AcceptTerms     bool   `json:"acceptTerms"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.setCookie(c, sessionCookie, res.Token, h.sessions.TTL())
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"user":    toUserResponse(res.User),
	})
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		AcceptTerms:     req.AcceptTerms,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.setCookie(c, sessionCookie, res.Token, h.sessions.TTL())
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Registration successful",
		"user":    toUserResponse(res.User),
	})
}

// session never fails; an absent or invalid cookie yields a null user.
func (h *Handler) session(c *gin.Context) {
	claims := h.currentSession(c)
	if claims == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": claims})
}

func (h *Handler) logout(c *gin.Context) {
	h.clearCookie(c, sessionCookie)
	c.JSON(http.StatusOK, Payload{Success: true, Message: "Logged out"})
}
