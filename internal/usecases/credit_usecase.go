package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"p2p-lending.backend/internal/domain/entities"
	domainerrors "p2p-lending.backend/internal/domain/errors"
	"p2p-lending.backend/internal/domain/repositories"
	"p2p-lending.backend/pkg/logger"
	"p2p-lending.backend/pkg/metrics"
	"p2p-lending.backend/pkg/utils"
)

// TokenSealer seals bank access tokens at rest
type TokenSealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

var creditNow = time.Now

// CreditUsecase scores users from their bank data
type CreditUsecase struct {
	scoreRepo       repositories.CreditScoreRepository
	connRepo        repositories.BankConnectionRepository
	source          repositories.BankDataSource
	sealer          TokenSealer
	defaultIdentity string
}

// NewCreditUsecase creates a new credit usecase. defaultIdentity is read when the user has linked no bank.
func NewCreditUsecase(
	scoreRepo repositories.CreditScoreRepository,
	connRepo repositories.BankConnectionRepository,
	source repositories.BankDataSource,
	sealer TokenSealer,
	defaultIdentity string,
) *CreditUsecase {
	return &CreditUsecase{
		scoreRepo:       scoreRepo,
		connRepo:        connRepo,
		source:          source,
		sealer:          sealer,
		defaultIdentity: defaultIdentity,
	}
}

// Calculate scores the user from current bank data and stores a new snapshot
func (u *CreditUsecase) Calculate(ctx context.Context, userID uuid.UUID) (*entities.CreditScore, error) {
	logger.Info(ctx, "Calculating credit score", zap.String("user_id", userID.String()))

	identity, conn, err := u.resolveIdentity(ctx, userID)
	if err != nil {
		return nil, err
	}

	accounts, err := u.source.GetAccounts(ctx, identity)
	if err != nil {
		return nil, internal(err)
	}
	if len(accounts) == 0 {
		return nil, badRequest(domainerrors.KeyNoLinkedAccounts, domainerrors.ErrNoLinkedAccounts)
	}

	var summary financialSummary
	for _, acc := range accounts {
		summary.addAccount(acc)
	}
	for _, acc := range accounts {
		txs, err := u.source.GetTransactions(ctx, acc.ID)
		if err != nil {
			logger.Error(ctx, "Failed to fetch transactions, skipping account",
				zap.String("account_id", acc.ID),
				zap.Error(err),
			)
			continue
		}
		summary.addTransactions(txs)
	}

	now := creditNow()
	result := scoreFinancials(summary, now)
	logger.Info(ctx, "Credit score calculated",
		zap.String("user_id", userID.String()),
		zap.Int("score", result.Total),
		zap.String("rating", string(result.Rating)),
		zap.Int("multiplier", result.Multiplier),
		zap.String("loan_limit", result.LoanLimit.String()),
	)

	score := &entities.CreditScore{
		UserID:       userID,
		Score:        result.Total,
		Breakdown:    result.Breakdown,
		Rating:       result.Rating,
		LoanLimit:    result.LoanLimit,
		CalculatedAt: now,
	}
	if err := u.scoreRepo.Create(ctx, score); err != nil {
		return nil, internal(err)
	}
	metrics.CreditScores.WithLabelValues(string(result.Rating)).Inc()

	if conn != nil {
		if err := u.connRepo.TouchSynced(ctx, conn.ID); err != nil {
			logger.Warn(ctx, "Failed to record bank sync", zap.String("connection_id", conn.ID.String()), zap.Error(err))
		}
	}
	return score, nil
}

// resolveIdentity picks the open-banking identity: the first linked bank, else the default one
func (u *CreditUsecase) resolveIdentity(ctx context.Context, userID uuid.UUID) (string, *entities.BankConnection, error) {
	conns, err := u.connRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return "", nil, internal(err)
	}
	if len(conns) == 0 {
		return u.defaultIdentity, nil, nil
	}

	identity, err := u.sealer.Open(conns[0].AccessToken)
	if err != nil {
		return "", nil, internal(err)
	}
	return identity, conns[0], nil
}

// GetLatest returns the newest snapshot, or nil when the user was never scored
func (u *CreditUsecase) GetLatest(ctx context.Context, userID uuid.UUID) (*entities.CreditScore, error) {
	score, err := u.scoreRepo.GetLatest(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, internal(err)
	}
	return score, nil
}

// GetOrCalculate returns the newest snapshot, scoring the user first if there is none
func (u *CreditUsecase) GetOrCalculate(ctx context.Context, userID uuid.UUID) (*entities.CreditScore, error) {
	score, err := u.GetLatest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if score != nil {
		return score, nil
	}
	return u.Calculate(ctx, userID)
}

// History pages through the user's snapshots, newest first
func (u *CreditUsecase) History(ctx context.Context, userID uuid.UUID, page, limit int) (utils.Page[*entities.CreditScore], error) {
	p := utils.GetPaginationParams(page, limit)
	items, total, err := u.scoreRepo.ListByUser(ctx, userID, p.Limit, p.CalculateOffset())
	if err != nil {
		return utils.Page[*entities.CreditScore]{}, internal(err)
	}
	return utils.NewPage(items, total, p), nil
}
