package sam

import "sam-server/pkg/deck"

// Tier is the rank of a White Tiger hand, higher is better
type Tier int

// white tiger tiers
const (
	NotSpecial    Tier = -1
	TierPoor      Tier = 1
	TierSameColor Tier = 2
	TierFivePairs Tier = 3
	TierThreeSets Tier = 4
	TierFourPigs  Tier = 5
	TierStraight  Tier = 6
)

var tierNames = map[Tier]string{
	TierStraight:  "Sảnh rồng",
	TierFourPigs:  "Tứ heo",
	TierThreeSets: "Ba sám",
	TierFivePairs: "Năm đôi",
	TierSameColor: "Đồng màu",
	TierPoor:      "Nghèo",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}

	return ""
}

// IsSpecial returns true for any White Tiger tier
func (t Tier) IsSpecial() bool {
	return t != NotSpecial
}

// CheckWhiteTiger ranks a full starting hand
func CheckWhiteTiger(hand []deck.Card) Tier {
	if len(hand) != CardsPerPlayer {
		return NotSpecial
	}

	switch {
	case IsStraight(hand):
		return TierStraight
	case isFourPigs(hand):
		return TierFourPigs
	case isThreeSets(hand):
		return TierThreeSets
	case isFivePairs(hand):
		return TierFivePairs
	case isSameColor(hand):
		return TierSameColor
	case isPoor(hand):
		return TierPoor
	}

	return NotSpecial
}

func rankCounts(hand []deck.Card) map[int]int {
	counts := make(map[int]int)
	for _, c := range hand {
		counts[c.Rank]++
	}

	return counts
}

func isFourPigs(hand []deck.Card) bool {
	return rankCounts(hand)[deck.Two] == 4
}

// a quad holds a set
func isThreeSets(hand []deck.Card) bool {
	sets := 0
	for _, n := range rankCounts(hand) {
		if n >= 3 {
			sets++
		}
	}

	return sets == 3
}

// a quad counts as two pairs
func isFivePairs(hand []deck.Card) bool {
	pairs := 0
	for _, n := range rankCounts(hand) {
		pairs += n / 2
	}

	return pairs == 5
}

func isSameColor(hand []deck.Card) bool {
	for _, c := range hand[1:] {
		if c.Suit.Color() != hand[0].Suit.Color() {
			return false
		}
	}

	return true
}

func isPoor(hand []deck.Card) bool {
	for _, c := range hand {
		if c.Rank <= deck.Two || c.Rank >= deck.Ten {
			return false
		}
	}

	return true
}
