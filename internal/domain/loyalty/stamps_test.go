package loyalty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/loyalty"
)

func TestNext(t *testing.T) {
	tests := []struct {
		stamps   int
		redeemed bool
		want     int
	}{
		{0, false, 1},
		{4, false, 5},
		{5, false, 5},
		{5, true, 0},
		{2, true, 0},
		{-3, false, 1},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, loyalty.Next(tc.stamps, tc.redeemed), "stamps=%d redeemed=%v", tc.stamps, tc.redeemed)
	}
}

func TestNext_NuncaFueraDeRango(t *testing.T) {
	s := 0
	for i := 0; i < 20; i++ {
		s = loyalty.Next(s, i%7 == 6)
		assert.GreaterOrEqual(t, s, 0)
		assert.LessOrEqual(t, s, loyalty.MaxStamps)
	}
}

func TestFold(t *testing.T) {
	ev := func(kind string) *entity.LoyaltyEvent { return &entity.LoyaltyEvent{Kind: kind} }
	events := []*entity.LoyaltyEvent{
		ev(entity.LoyaltyEarned), ev(entity.LoyaltyEarned), ev(entity.LoyaltyEarned),
		ev(entity.LoyaltyEarned), ev(entity.LoyaltyEarned), ev(entity.LoyaltyEarned),
	}
	assert.Equal(t, 5, loyalty.Fold(events))
	events = append(events, ev(entity.LoyaltyRedeemed), ev(entity.LoyaltyEarned))
	assert.Equal(t, 1, loyalty.Fold(events))
	assert.Equal(t, 0, loyalty.Fold(nil))
}

func TestCanRedeem(t *testing.T) {
	assert.False(t, loyalty.CanRedeem(4))
	assert.True(t, loyalty.CanRedeem(5))
}
