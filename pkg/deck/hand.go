package deck

import (
	"strings"
)

// Hand represents a collection of cards
type Hand []Card

func (h Hand) Len() int {
	return len(h)
}

func (h Hand) Less(i, j int) bool {
	if cmp := strings.Compare(string(h[i].Suit), string(h[j].Suit)); cmp != 0 {
		return cmp < 0
	}

	return h[i].Rank < h[j].Rank
}

func (h Hand) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

// HasCard returns true if the hand contains the specified card
func (h Hand) HasCard(card Card) bool {
	for _, c := range h {
		if c.Equal(card) {
			return true
		}
	}

	return false
}

// HasCards returns true if every card is in the hand
func (h Hand) HasCards(cards []Card) bool {
	for _, card := range cards {
		if !h.HasCard(card) {
			return false
		}
	}

	return true
}

// Without returns a new hand with the specified cards removed
func (h Hand) Without(cards []Card) Hand {
	newHand := make(Hand, 0, len(h))
	for _, c := range h {
		if !Hand(cards).HasCard(c) {
			newHand = append(newHand, c)
		}
	}

	return newHand
}

// Stripped returns a copy of the hand with view state removed from every card
func (h Hand) Stripped() Hand {
	h2 := make(Hand, len(h))
	for i, c := range h {
		h2[i] = c.Stripped()
	}

	return h2
}

func (h Hand) String() string {
	return CardsToString(h)
}

// Clone returns a clone of the hand
func (h Hand) Clone() Hand {
	if h == nil {
		return Hand{}
	}

	h2 := make(Hand, len(h))
	copy(h2, h)

	return h2
}
