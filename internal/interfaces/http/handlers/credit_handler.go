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

type creditService interface {
	Calculate(ctx context.Context, userID uuid.UUID) (*entities.CreditScore, error)
	GetOrCalculate(ctx context.Context, userID uuid.UUID) (*entities.CreditScore, error)
	History(ctx context.Context, userID uuid.UUID, page, limit int) (utils.Page[*entities.CreditScore], error)
}

// CreditHandler serves credit score endpoints
type CreditHandler struct {
	creditUsecase creditService
}

func NewCreditHandler(creditUsecase creditService) *CreditHandler {
	return &CreditHandler{creditUsecase: creditUsecase}
}

// GetScore returns the latest score, computing one on first use
// GET /api/v1/credit/score
func (h *CreditHandler) GetScore(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	score, err := h.creditUsecase.GetOrCalculate(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "SUCCESS", score)
}

// Calculate scores the caller again from current bank data
// POST /api/v1/credit/calculate
func (h *CreditHandler) Calculate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	score, err := h.creditUsecase.Calculate(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusCreated, "SUCCESS", score)
}

// History pages through past scores, newest first
// GET /api/v1/credit/history
func (h *CreditHandler) History(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	page, limit := pageQuery(c)

	result, err := h.creditUsecase.History(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "SUCCESS", result)
}
