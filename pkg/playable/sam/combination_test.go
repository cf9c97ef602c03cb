package sam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"sam-server/pkg/deck"
)

func cards(s string) []deck.Card {
	return deck.CardsFromString(s)
}

// withFiller returns the selected cards plus two low cards so the lone two rule stays out of the way
func withFiller(selected string) []deck.Card {
	return append(cards(selected), cards("5c,6c")...)
}

func TestAbsoluteRank(t *testing.T) {
	assert.Equal(t, 14, AbsoluteRank(deck.CardFromString("1s")))
	assert.Equal(t, 15, AbsoluteRank(deck.CardFromString("2s")))
	assert.Equal(t, 13, AbsoluteRank(deck.CardFromString("13h")))
	assert.Equal(t, 3, AbsoluteRank(deck.CardFromString("3d")))
}

func TestIsStraight(t *testing.T) {
	tests := []struct {
		cards string
		want  bool
	}{
		{"3s,4h,5d", true},
		{"5d,3s,4h", true},
		{"1s,2h,3d", true},
		{"11s,12h,13d,1c", true},
		{"10s,11h,12d,13c,1s", true},
		{"12s,13h,1d,2c", false},
		{"13h,1d,2c", false},
		{"3s,4h", false},
		{"3s,4h,6d", false},
		{"3s,3h,4d", false},
	}

	for _, tt := range tests {
		t.Run(tt.cards, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStraight(cards(tt.cards)))
		})
	}
}

func TestIsValidPlay(t *testing.T) {
	tests := []struct {
		name     string
		selected string
		hand     []deck.Card
		want     bool
	}{
		{"single", "7h", withFiller("7h"), true},
		{"pair", "7h,7s", withFiller("7h,7s"), true},
		{"three of a kind", "7h,7s,7d", withFiller("7h,7s,7d"), true},
		{"four of a kind", "7h,7s,7d,7c", withFiller("7h,7s,7d,7c"), true},
		{"straight", "8h,9s,10d", withFiller("8h,9s,10d"), true},
		{"ace low straight", "1h,2s,3d", withFiller("1h,2s,3d"), true},
		{"ace high straight", "12h,13s,1d", withFiller("12h,13s,1d"), true},
		{"two unmatched cards", "7h,8s", withFiller("7h,8s"), false},
		{"gapped straight", "7h,8s,10d", withFiller("7h,8s,10d"), false},
		{"wrapping straight", "13h,1s,2d", withFiller("13h,1s,2d"), false},
		{"empty", "", withFiller(""), false},
		{"not in hand", "9h", withFiller("7h"), false},
		{"duplicate card", "7h,7h", withFiller("7h"), false},
		{"leaves a lone two", "7h", cards("7h,2s"), false},
		{"pair leaves a lone two", "7h,7s", cards("7h,7s,2s"), false},
		{"straight leaves a lone two", "3h,4s,5d", cards("3h,4s,5d,2c"), false},
		{"plays the last two", "2s", cards("2s,7h"), true},
		{"leaves two twos", "7h", cards("7h,2s,2c"), true},
		{"plays the whole hand", "4h,5s,6d", cards("4h,5s,6d"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidPlay(cards(tt.selected), tt.hand))
		})
	}
}

func TestCanBeat(t *testing.T) {
	tests := []struct {
		name     string
		selected string
		opponent string
		want     bool
	}{
		{"leading", "4h", "", true},
		{"leading with a straight", "4h,5h,6h", "", true},
		{"higher single", "9h", "8s", true},
		{"lower single", "8h", "9s", false},
		{"same rank single", "9h", "9s", false},
		{"ace over king", "1h", "13s", true},
		{"two over ace", "2h", "1s", true},
		{"king under ace", "13h", "1s", false},
		{"higher pair", "10h,10s", "9h,9d", true},
		{"lower pair", "8h,8s", "9h,9d", false},
		{"pair against a single", "10h,10s", "9h", false},
		{"single against a pair", "10h", "9h,9d", false},
		{"higher triple", "10h,10s,10d", "9h,9d,9c", true},
		{"four of a kind over a lone two", "7h,7s,7d,7c", "2h", true},
		{"single ace against a lone two", "1h", "2s", false},
		{"pair against a lone two", "3h,3s", "2s", false},
		{"pair of twos over pair of aces", "2h,2s", "1h,1d", true},
		{"four of a kind against a pair", "7h,7s,7d,7c", "3h,3d", false},
		{"higher straight", "5h,6s,7d", "4h,5d,6c", true},
		{"same straight", "4s,5h,6h", "4h,5d,6c", false},
		{"ace high straight over king high", "12h,13s,1d", "11h,12d,13c", true},
		{"ace low straight under three high", "1h,2s,3d", "4h,5d,6c", false},
		{"longer straight", "4h,5s,6d,7c", "4s,5d,6c", false},
		{"single against a straight", "13h", "4s,5d,6c", false},
		{"pair against a straight", "13h,13d", "4s,5d,6c", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hand := withFiller(tt.selected)
			assert.Equal(t, tt.want, CanBeat(cards(tt.selected), hand, cards(tt.opponent)))
		})
	}
}

func TestCanBeat_InvalidSelection(t *testing.T) {
	assert.False(t, CanBeat(cards("9h"), cards("9h,2s"), cards("8s")))
	assert.False(t, CanBeat(cards("9h,10h"), withFiller("9h,10h"), nil))
}

func TestCanBeat_Ordering(t *testing.T) {
	singles := make([][]deck.Card, 0, 13)
	for rank := deck.Ace; rank <= deck.King; rank++ {
		singles = append(singles, []deck.Card{{Rank: rank, Suit: deck.Hearts}})
	}

	beats := func(a, b []deck.Card) bool {
		return CanBeat(a, append(append([]deck.Card{}, a...), cards("5c,6c")...), b)
	}

	for _, a := range singles {
		assert.False(t, beats(a, a), "%s beats itself", a[0])
		for _, b := range singles {
			for _, c := range singles {
				if beats(a, b) && beats(b, c) {
					assert.True(t, beats(a, c), "%s > %s > %s", a[0], b[0], c[0])
				}
			}
		}
	}
}

func TestSortStraight(t *testing.T) {
	selected := cards("1h,13s,12d")
	selected[0].Selected = true

	sorted := SortStraight(selected)
	assert.Equal(t, "12d,13s,1h", deck.CardsToString(sorted))
	assert.False(t, sorted[2].Selected)
	assert.True(t, selected[0].Selected, "input is left alone")

	assert.Equal(t, "1h,2s,3d", deck.CardsToString(SortStraight(cards("3d,1h,2s"))))
}

func TestSortByAbsoluteRank(t *testing.T) {
	hand := cards("2s,13h,1d,3c")
	assert.Equal(t, "3c,13h,1d,2s", deck.CardsToString(SortByAbsoluteRank(hand, false)))
	assert.Equal(t, "2s,1d,13h,3c", deck.CardsToString(SortByAbsoluteRank(hand, true)))
}

func TestShouldPayVillage(t *testing.T) {
	assert.True(t, ShouldPayVillage(cards("13h,4d"), cards("12s")))
	assert.True(t, ShouldPayVillage(cards("12h,4d"), cards("12s")))
	assert.False(t, ShouldPayVillage(cards("11h,4d"), cards("12s")))
	assert.False(t, ShouldPayVillage(cards("2h,4d"), cards("12s")), "twos do not count")
	assert.False(t, ShouldPayVillage(cards("2h"), cards("3s")))
	assert.False(t, ShouldPayVillage(cards("13h"), cards("12s,12h")))
}
