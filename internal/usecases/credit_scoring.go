package usecases

import (
	"time"

	"github.com/shopspring/decimal"
	"p2p-lending.backend/internal/domain/entities"
)

// Scoring targets. Reaching a target earns the full sub-score.
var (
	monthlyIncomeTarget  = decimal.NewFromInt(2000)
	balanceTarget        = decimal.NewFromInt(5000)
	incomeWindowMonths   = decimal.NewFromInt(3)
	spendingComfortRatio = decimal.NewFromFloat(0.5)
	loanLimitPerPoint    = decimal.NewFromInt(10)
	loanLimitIncomeShare = decimal.NewFromFloat(0.5)
)

const (
	consistencyTargetTx = 30
	historyTargetMonths = 6.0
	defaultHistoryScore = 50
	daysPerScoringMonth = 30.0
)

// ratingMultipliers are kept for the loan-limit formula they were meant for; the limit does not use them yet.
var ratingMultipliers = map[entities.CreditRating]int{
	entities.CreditRatingExcellent: 50,
	entities.CreditRatingGood:      30,
	entities.CreditRatingFair:      10,
	entities.CreditRatingPoor:      0,
}

// financialSummary aggregates what the scorer needs from the bank data
type financialSummary struct {
	TotalIncome      decimal.Decimal
	TotalSpending    decimal.Decimal
	CurrentBalance   decimal.Decimal
	TransactionCount int
	// OldestOpenedAt is zero when no account reports an opening date
	OldestOpenedAt time.Time
}

func (s *financialSummary) addAccount(acc *entities.BankAccount) {
	s.CurrentBalance = s.CurrentBalance.Add(acc.Balance)
	if acc.OpenedAt.Valid && (s.OldestOpenedAt.IsZero() || acc.OpenedAt.Time.Before(s.OldestOpenedAt)) {
		s.OldestOpenedAt = acc.OpenedAt.Time
	}
}

func (s *financialSummary) addTransactions(txs []*entities.BankTransaction) {
	for _, tx := range txs {
		s.TransactionCount++
		switch tx.Direction {
		case entities.TransactionIn:
			s.TotalIncome = s.TotalIncome.Add(tx.Amount.Abs())
		case entities.TransactionOut:
			s.TotalSpending = s.TotalSpending.Add(tx.Amount.Abs())
		}
	}
}

func (s *financialSummary) monthlyIncome() decimal.Decimal {
	return s.TotalIncome.Div(incomeWindowMonths)
}

// scoreResult is one scoring outcome before it is persisted
type scoreResult struct {
	Breakdown  entities.CreditBreakdown
	Total      int
	Rating     entities.CreditRating
	Multiplier int
	LoanLimit  decimal.Decimal
}

func scoreFinancials(s financialSummary, now time.Time) scoreResult {
	breakdown := entities.CreditBreakdown{
		IncomeScore:      incomeScore(s.TotalIncome),
		SpendingScore:    spendingScore(s.TotalIncome, s.TotalSpending),
		BalanceScore:     balanceScore(s.CurrentBalance),
		ConsistencyScore: consistencyScore(s.TransactionCount),
		HistoryScore:     historyScore(s.OldestOpenedAt, now),
	}
	total := breakdown.Total()
	rating := ratingFor(total)

	return scoreResult{
		Breakdown:  breakdown,
		Total:      total,
		Rating:     rating,
		Multiplier: ratingMultipliers[rating],
		LoanLimit:  loanLimit(total, s.monthlyIncome()),
	}
}

// ramp scales value/target onto [0, ceiling], rounding half up
func ramp(value, target decimal.Decimal, ceiling int) int {
	if value.Sign() <= 0 {
		return 0
	}
	if value.GreaterThanOrEqual(target) {
		return ceiling
	}
	score := int(value.Div(target).Mul(decimal.NewFromInt(int64(ceiling))).Round(0).IntPart())
	return clamp(score, 0, ceiling)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func incomeScore(totalIncome decimal.Decimal) int {
	return ramp(totalIncome.Div(incomeWindowMonths), monthlyIncomeTarget, entities.MaxIncomeScore)
}

// spendingScore is full up to half of income and falls linearly to zero at 100%
func spendingScore(income, spending decimal.Decimal) int {
	if income.Sign() <= 0 {
		return 0
	}
	ratio := spending.Div(income)
	if ratio.LessThanOrEqual(spendingComfortRatio) {
		return entities.MaxSpendingScore
	}
	if ratio.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return 0
	}
	// 250 * (1 - (ratio - 0.5) * 2)
	factor := decimal.NewFromInt(1).Sub(ratio.Sub(spendingComfortRatio).Mul(decimal.NewFromInt(2)))
	score := int(factor.Mul(decimal.NewFromInt(entities.MaxSpendingScore)).Round(0).IntPart())
	return clamp(score, 0, entities.MaxSpendingScore)
}

func balanceScore(balance decimal.Decimal) int {
	return ramp(balance, balanceTarget, entities.MaxBalanceScore)
}

func consistencyScore(txCount int) int {
	return ramp(decimal.NewFromInt(int64(txCount)), decimal.NewFromInt(int64(consistencyTargetTx)), entities.MaxConsistencyScore)
}

// historyScore ramps over account age. Sources without opening dates get a fixed default.
func historyScore(oldestOpenedAt, now time.Time) int {
	if oldestOpenedAt.IsZero() {
		return defaultHistoryScore
	}
	months := now.Sub(oldestOpenedAt).Hours() / 24 / daysPerScoringMonth
	return ramp(decimal.NewFromFloat(months), decimal.NewFromFloat(historyTargetMonths), entities.MaxHistoryScore)
}

func ratingFor(total int) entities.CreditRating {
	switch {
	case total >= 800:
		return entities.CreditRatingExcellent
	case total >= 650:
		return entities.CreditRatingGood
	case total >= 500:
		return entities.CreditRatingFair
	default:
		return entities.CreditRatingPoor
	}
}

// loanLimit is min(total*10, monthlyIncome*0.5), rounded
func loanLimit(total int, monthlyIncome decimal.Decimal) decimal.Decimal {
	byScore := decimal.NewFromInt(int64(total)).Mul(loanLimitPerPoint)
	byIncome := monthlyIncome.Mul(loanLimitIncomeShare)
	return decimal.Min(byScore, byIncome).Round(0)
}
