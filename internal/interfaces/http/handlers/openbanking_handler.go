package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"p2p-lending.backend/internal/domain/entities"
	"p2p-lending.backend/internal/interfaces/http/response"
)

type openBankingService interface {
	ListBanks() []entities.Bank
	InitiateLink(ctx context.Context, userID uuid.UUID, input *entities.InitiateLinkInput) (*entities.LinkChallenge, error)
	VerifyLink(ctx context.Context, userID uuid.UUID, input *entities.VerifyLinkInput) (*entities.LinkResult, error)
	ListConnections(ctx context.Context, userID uuid.UUID) ([]*entities.BankConnection, error)
	Disconnect(ctx context.Context, userID, connectionID uuid.UUID) error
	GetBalances(ctx context.Context, userID, connectionID uuid.UUID) ([]*entities.AccountBalance, error)
	GetTransactions(ctx context.Context, userID, connectionID uuid.UUID, query *entities.TransactionQuery) ([]*entities.BankTransaction, error)
}

// OpenBankingHandler serves the mock banking link flow
type OpenBankingHandler struct {
	usecase openBankingService
}

func NewOpenBankingHandler(usecase openBankingService) *OpenBankingHandler {
	return &OpenBankingHandler{usecase: usecase}
}

// ListBanks
// GET /api/v1/mock-banking/banks
func (h *OpenBankingHandler) ListBanks(c *gin.Context) {
	response.Message(c, http.StatusOK, "SUCCESS", h.usecase.ListBanks())
}

// InitiateLink checks bank credentials and opens an OTP challenge
// POST /api/v1/mock-banking/link
func (h *OpenBankingHandler) InitiateLink(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input entities.InitiateLinkInput
	if !bindJSON(c, &input) {
		return
	}

	challenge, err := h.usecase.InitiateLink(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "BANK_LINK_OTP_REQUIRED", challenge)
}

// VerifyLink answers the challenge and stores the connection
// POST /api/v1/mock-banking/verify
func (h *OpenBankingHandler) VerifyLink(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input entities.VerifyLinkInput
	if !bindJSON(c, &input) {
		return
	}

	result, err := h.usecase.VerifyLink(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusCreated, "BANK_LINKED", result)
}

// ListConnections
// GET /api/v1/mock-banking/connections
func (h *OpenBankingHandler) ListConnections(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	conns, err := h.usecase.ListConnections(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if conns == nil {
		conns = []*entities.BankConnection{}
	}

	response.Message(c, http.StatusOK, "SUCCESS", conns)
}

// Disconnect deactivates one of the caller's connections
// DELETE /api/v1/mock-banking/connections/:id
func (h *OpenBankingHandler) Disconnect(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	connectionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.usecase.Disconnect(c.Request.Context(), userID, connectionID); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "BANK_DISCONNECTED", nil)
}

// Balances
// GET /api/v1/mock-banking/connections/:id/balances
func (h *OpenBankingHandler) Balances(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	connectionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	balances, err := h.usecase.GetBalances(c.Request.Context(), userID, connectionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "SUCCESS", balances)
}

// Transactions reads a connection's transactions, optionally bounded by startDate/endDate (YYYY-MM-DD)
// GET /api/v1/mock-banking/connections/:id/transactions
func (h *OpenBankingHandler) Transactions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	connectionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var query entities.TransactionQuery
	if !bindQuery(c, &query) {
		return
	}

	txs, err := h.usecase.GetTransactions(c.Request.Context(), userID, connectionID, &query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "SUCCESS", txs)
}
