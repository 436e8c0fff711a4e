package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserRole_IsAdmin(t *testing.T) {
	assert.False(t, UserRoleUser.IsAdmin())
	assert.True(t, UserRoleAdmin.IsAdmin())
	assert.True(t, UserRoleSuperAdmin.IsAdmin())
	assert.False(t, UserRole("guest").IsAdmin())
}

func TestCreditBreakdown_Total(t *testing.T) {
	b := CreditBreakdown{IncomeScore: 300, SpendingScore: 250, BalanceScore: 200, ConsistencyScore: 25, HistoryScore: 50}
	assert.Equal(t, 825, b.Total())

	full := CreditBreakdown{MaxIncomeScore, MaxSpendingScore, MaxBalanceScore, MaxConsistencyScore, MaxHistoryScore}
	assert.Equal(t, MaxTotalScore, full.Total())
}
