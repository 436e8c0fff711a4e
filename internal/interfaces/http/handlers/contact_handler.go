package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"p2p-lending.backend/internal/domain/entities"
	"p2p-lending.backend/internal/interfaces/http/response"
	"p2p-lending.backend/pkg/utils"
)

type contactService interface {
	Create(ctx context.Context, input *entities.CreateContactInput) (*entities.Contact, error)
	List(ctx context.Context, isResponded *bool, page, limit int) (utils.Page[*entities.Contact], error)
	Detail(ctx context.Context, id uuid.UUID) (*entities.Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Respond(ctx context.Context, actorID, id uuid.UUID, input *entities.RespondContactInput) (*entities.Contact, error)
}

// ContactHandler serves the public contact form and its admin inbox
type ContactHandler struct {
	contactUsecase contactService
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactUsecase contactService) *ContactHandler {
	return &ContactHandler{contactUsecase: contactUsecase}
}

// Create
// POST /api/v1/contacts
func (h *ContactHandler) Create(c *gin.Context) {
	var input entities.CreateContactInput
	if !bindJSON(c, &input) {
		return
	}

	contact, err := h.contactUsecase.Create(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusCreated, "CONTACT_CREATED", contact)
}

// List filters on ?isResponded=true|false when given
// GET /api/v1/admin/contacts
func (h *ContactHandler) List(c *gin.Context) {
	var isResponded *bool
	if raw := c.Query("isResponded"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			isResponded = &v
		}
	}
	page, limit := pageQuery(c)

	result, err := h.contactUsecase.List(c.Request.Context(), isResponded, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "SUCCESS", result)
}

// Detail
// GET /api/v1/admin/contacts/:id
func (h *ContactHandler) Detail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	contact, err := h.contactUsecase.Detail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "SUCCESS", contact)
}

// Delete
// DELETE /api/v1/admin/contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.contactUsecase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "DELETE_SUCCESS", nil)
}

// Respond records the admin's reply and mails it to the sender
// POST /api/v1/admin/contacts/:id/response
func (h *ContactHandler) Respond(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input entities.RespondContactInput
	if !bindJSON(c, &input) {
		return
	}

	contact, err := h.contactUsecase.Respond(c.Request.Context(), actorID, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "CONTACT_RESPONDED", contact)
}
