package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"p2p-lending.backend/internal/domain/entities"
	"p2p-lending.backend/internal/interfaces/http/response"
	"p2p-lending.backend/pkg/utils"
)

type userService interface {
	List(ctx context.Context, filter entities.UserFilter, page, limit int) (utils.Page[*entities.User], error)
	Detail(ctx context.Context, id uuid.UUID) (*entities.User, error)
	Update(ctx context.Context, id uuid.UUID, input *entities.AdminUpdateUserInput) (*entities.User, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
	Suspend(ctx context.Context, actorID, id uuid.UUID) (*entities.User, error)
	Activate(ctx context.Context, actorID, id uuid.UUID) (*entities.User, error)
	Ban(ctx context.Context, actorID, id uuid.UUID) (*entities.User, error)
}

// UserHandler serves admin user management
type UserHandler struct {
	userUsecase userService
}

// NewUserHandler creates a new admin user handler
func NewUserHandler(userUsecase userService) *UserHandler {
	return &UserHandler{userUsecase: userUsecase}
}

// List supports ?search, ?role and ?status
// GET /api/v1/admin/users
func (h *UserHandler) List(c *gin.Context) {
	filter := entities.UserFilter{
		Search: c.Query("search"),
		Role:   entities.UserRole(c.Query("role")),
		Status: entities.UserStatus(c.Query("status")),
	}
	page, limit := pageQuery(c)

	result, err := h.userUsecase.List(c.Request.Context(), filter, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "SUCCESS", result)
}

// Detail
// GET /api/v1/admin/users/:id
func (h *UserHandler) Detail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.userUsecase.Detail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "SUCCESS", user)
}

// Update
// PUT /api/v1/admin/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input entities.AdminUpdateUserInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.userUsecase.Update(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "UPDATE_SUCCESS", user)
}

// Delete soft deletes a user and ends their sessions
// DELETE /api/v1/admin/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.userUsecase.Delete(c.Request.Context(), actorID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "DELETE_SUCCESS", nil)
}

type statusChange func(ctx context.Context, actorID, id uuid.UUID) (*entities.User, error)

func (h *UserHandler) changeStatus(c *gin.Context, apply statusChange, messageKey string) {
	actorID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := apply(c.Request.Context(), actorID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, messageKey, user)
}

// Suspend
// POST /api/v1/admin/users/:id/suspend
func (h *UserHandler) Suspend(c *gin.Context) {
	h.changeStatus(c, h.userUsecase.Suspend, "SUSPEND_SUCCESS")
}

// Activate
// POST /api/v1/admin/users/:id/activate
func (h *UserHandler) Activate(c *gin.Context) {
	h.changeStatus(c, h.userUsecase.Activate, "ACTIVATE_SUCCESS")
}

// Ban
// POST /api/v1/admin/users/:id/ban
func (h *UserHandler) Ban(c *gin.Context) {
	h.changeStatus(c, h.userUsecase.Ban, "BAN_SUCCESS")
}
