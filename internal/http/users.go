package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"customer-keeper/internal/service"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	_, err := h.users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			h.respondError(c, http.StatusBadRequest, msgUsernameTaken)
			return
		}
		if h.validationError(c, err) {
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": msgRegistered})
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.respondError(c, http.StatusUnauthorized, msgInvalidCreds)
			return
		}
		h.internalError(c, err)
		return
	}

	token, err := h.authority.IssueToken(user.ID)
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{Token: token.Value})
}
