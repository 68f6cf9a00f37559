package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"customer-keeper/internal/domain"
)

type customerRequest struct {
	Name           string `json:"name"`
	MembershipType string `json:"membershipType"`
}

// CustomerResponse keeps the field names the web client reads (_id, user).
type CustomerResponse struct {
	ID             string `json:"_id"`
	Name           string `json:"name"`
	MembershipType string `json:"membershipType"`
	OwnerID        string `json:"user"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

func customerToResponse(c domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:             c.ID,
		Name:           c.Name,
		MembershipType: c.MembershipType,
		OwnerID:        c.OwnerID,
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      c.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *Handler) createCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	customer, err := h.customers.Create(c.Request.Context(), currentUserID(c), req.Name, req.MembershipType)
	if err != nil {
		if h.validationError(c, err) {
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  msgCustomerAdded,
		"customer": customerToResponse(*customer),
	})
}

func (h *Handler) listCustomers(c *gin.Context) {
	customers, err := h.customers.ListByOwner(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.internalError(c, err)
		return
	}

	resp := make([]CustomerResponse, len(customers))
	for i := range customers {
		resp[i] = customerToResponse(customers[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) updateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	err := h.customers.Update(c.Request.Context(), currentUserID(c), c.Param("id"), req.Name, req.MembershipType)
	if err != nil {
		if h.validationError(c, err) {
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgCustomerUpdated})
}

func (h *Handler) deleteCustomer(c *gin.Context) {
	if err := h.customers.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgCustomerDeleted})
}
