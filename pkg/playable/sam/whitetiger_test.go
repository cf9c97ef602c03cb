package sam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckWhiteTiger(t *testing.T) {
	tests := []struct {
		name string
		hand string
		want Tier
	}{
		{"straight", "1s,2h,3d,4c,5s,6h,7d,8c,9s,10h", TierStraight},
		{"ace high straight", "5s,6h,7d,8c,9s,10h,11d,12c,13s,1h", TierStraight},
		{"straight in one color", "1s,2s,3s,4s,5s,6s,7s,8s,9s,10s", TierStraight},
		{"four pigs", "2s,2c,2h,2d,3s,5h,7d,9c,11s,13h", TierFourPigs},
		{"three sets", "3s,3c,3h,7s,7c,7h,11s,11c,11h,13d", TierThreeSets},
		{"five pairs", "3s,3c,5h,5d,7s,7c,9h,9d,12s,12c", TierFivePairs},
		{"five pairs with a quad", "4s,4c,4h,4d,6s,6c,8h,8d,13s,13c", TierFivePairs},
		{"same color", "1h,3h,5h,7h,9h,11h,13h,2d,4d,6d", TierSameColor},
		{"poor", "3s,4h,5d,6c,7s,8h,9d,3c,4d,8s", TierPoor},
		{"ordinary", "1s,2h,5d,7c,9s,11h,13d,4c,6s,8h", NotSpecial},
		{"short hand", "1s,2s,3s,4s,5s,6s,7s,8s,9s", NotSpecial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hand := cards(tt.hand)
			assert.Equal(t, tt.want, CheckWhiteTiger(hand))
			assert.Equal(t, tt.want, CheckWhiteTiger(hand), "same answer twice")
		})
	}
}

func TestTier_String(t *testing.T) {
	assert.Equal(t, "Sảnh rồng", TierStraight.String())
	assert.Equal(t, "Nghèo", TierPoor.String())
	assert.Equal(t, "", NotSpecial.String())
	assert.True(t, TierPoor.IsSpecial())
	assert.False(t, NotSpecial.IsSpecial())
	assert.True(t, TierStraight > TierFourPigs)
}
