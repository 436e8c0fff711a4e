package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"p2p-lending.backend/internal/domain/entities"
	domainerrors "p2p-lending.backend/internal/domain/errors"
	"p2p-lending.backend/internal/infrastructure/models"
	"p2p-lending.backend/pkg/utils"
)

// CreditScoreRepository stores scoring snapshots. Rows are never updated.
type CreditScoreRepository struct {
	db *gorm.DB
}

// NewCreditScoreRepository creates a new credit score repository
func NewCreditScoreRepository(db *gorm.DB) *CreditScoreRepository {
	return &CreditScoreRepository{db: db}
}

// Create appends a snapshot
func (r *CreditScoreRepository) Create(ctx context.Context, score *entities.CreditScore) error {
	score.ID = utils.EnsureID(score.ID)
	if score.CalculatedAt.IsZero() {
		score.CalculatedAt = time.Now()
	}
	if score.CreatedAt.IsZero() {
		score.CreatedAt = score.CalculatedAt
	}

	m := &models.CreditScore{
		ID:           score.ID,
		UserID:       score.UserID,
		Score:        score.Score,
		Breakdown:    datatypes.NewJSONType(score.Breakdown),
		Rating:       string(score.Rating),
		LoanLimit:    score.LoanLimit,
		CalculatedAt: score.CalculatedAt,
		CreatedAt:    score.CreatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// GetLatest returns the newest snapshot of the user
func (r *CreditScoreRepository) GetLatest(ctx context.Context, userID uuid.UUID) (*entities.CreditScore, error) {
	var m models.CreditScore
	err := GetDB(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toCreditScoreEntity(&m), nil
}

// ListByUser pages through snapshots, newest first
func (r *CreditScoreRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.CreditScore, int64, error) {
	query := GetDB(ctx, r.db).Model(&models.CreditScore{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CreditScore
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	scores := make([]*entities.CreditScore, 0, len(rows))
	for i := range rows {
		scores = append(scores, toCreditScoreEntity(&rows[i]))
	}
	return scores, total, nil
}

func toCreditScoreEntity(m *models.CreditScore) *entities.CreditScore {
	return &entities.CreditScore{
		ID:           m.ID,
		UserID:       m.UserID,
		Score:        m.Score,
		Breakdown:    m.Breakdown.Data(),
		Rating:       entities.CreditRating(m.Rating),
		LoanLimit:    m.LoanLimit,
		CalculatedAt: m.CalculatedAt,
		CreatedAt:    m.CreatedAt,
	}
}
