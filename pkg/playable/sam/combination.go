package sam

import (
	"sort"

	"sam-server/pkg/deck"
)

// AbsoluteRank is the rank used to compare card strength: Ace is 14 and Two is 15.
// It is never used to build straights.
func AbsoluteRank(c deck.Card) int {
	switch c.Rank {
	case deck.Ace:
		return 14
	case deck.Two:
		return 15
	}

	return c.Rank
}

func isOneRank(cards []deck.Card) bool {
	if len(cards) == 0 {
		return false
	}

	for _, c := range cards[1:] {
		if c.Rank != cards[0].Rank {
			return false
		}
	}

	return true
}

func hasDuplicates(cards []deck.Card) bool {
	seen := make(map[deck.Card]bool, len(cards))
	for _, c := range cards {
		c = c.Stripped()
		if seen[c] {
			return true
		}

		seen[c] = true
	}

	return false
}

// IsFourOfAKind returns true for four cards of the same rank
func IsFourOfAKind(cards []deck.Card) bool {
	return len(cards) == 4 && isOneRank(cards)
}

// straightRanks returns the natural ranks in ascending order.
// An Ace is moved to the top (14) when the run also holds a King.
func straightRanks(cards []deck.Card) []int {
	ranks := make([]int, len(cards))
	for i, c := range cards {
		ranks[i] = c.Rank
	}

	sort.Ints(ranks)
	if len(ranks) > 0 && ranks[0] == deck.Ace && ranks[len(ranks)-1] == deck.King {
		ranks[0] = 14
		sort.Ints(ranks)
	}

	return ranks
}

// IsStraight returns true for three or more cards in consecutive rank, suits are ignored
func IsStraight(cards []deck.Card) bool {
	if len(cards) < 3 {
		return false
	}

	ranks := straightRanks(cards)
	for i := 1; i < len(ranks); i++ {
		if ranks[i] != ranks[i-1]+1 {
			return false
		}
	}

	return true
}

func straightTop(cards []deck.Card) int {
	ranks := straightRanks(cards)
	return ranks[len(ranks)-1]
}

// IsValidPlay returns true if selected is a playable combination out of hand.
// A play may never leave a lone Two as the last card.
func IsValidPlay(selected, hand []deck.Card) bool {
	if len(selected) == 0 || hasDuplicates(selected) {
		return false
	}

	if !deck.Hand(hand).HasCards(selected) {
		return false
	}

	after := deck.Hand(hand).Without(selected)
	if len(after) == 1 && after[0].Rank == deck.Two {
		return false
	}

	switch {
	case len(selected) == 1:
		return true
	case len(selected) <= 4 && isOneRank(selected):
		return true
	case IsStraight(selected):
		return true
	}

	return false
}

// CanBeat returns true if selected is a valid play that beats opponent.
// An empty opponent means the player is leading a fresh round.
func CanBeat(selected, hand, opponent []deck.Card) bool {
	if !IsValidPlay(selected, hand) {
		return false
	}

	if len(opponent) == 0 {
		return true
	}

	if isOneRank(opponent) {
		if len(opponent) == 1 && opponent[0].Rank == deck.Two {
			return IsFourOfAKind(selected)
		}

		if !isOneRank(selected) || len(selected) != len(opponent) {
			return false
		}

		return AbsoluteRank(selected[0]) > AbsoluteRank(opponent[0])
	}

	if IsStraight(opponent) {
		if !IsStraight(selected) || len(selected) != len(opponent) {
			return false
		}

		return straightTop(selected) > straightTop(opponent)
	}

	return false
}

// SortStraight returns the cards in ascending rank with view state removed.
// A run through the King keeps the Ace on top.
func SortStraight(cards []deck.Card) deck.Hand {
	sorted := deck.Hand(cards).Stripped()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rank < sorted[j].Rank
	})

	if len(sorted) > 0 && sorted[0].Rank == deck.Ace && sorted[len(sorted)-1].Rank == deck.King {
		sorted = append(sorted[1:], sorted[0])
	}

	return sorted
}

// SortByAbsoluteRank returns a sorted copy of the cards
func SortByAbsoluteRank(cards []deck.Card, descending bool) deck.Hand {
	sorted := deck.Hand(cards).Clone()
	sort.SliceStable(sorted, func(i, j int) bool {
		if descending {
			return AbsoluteRank(sorted[i]) > AbsoluteRank(sorted[j])
		}

		return AbsoluteRank(sorted[i]) < AbsoluteRank(sorted[j])
	})

	return sorted
}

// ShouldPayVillage returns true if the hand still holds a card, Twos aside,
// at least as strong as the single card that won the game
func ShouldPayVillage(hand, opponent []deck.Card) bool {
	if len(opponent) != 1 {
		return false
	}

	highest := 0
	for _, c := range hand {
		if c.Rank == deck.Two {
			continue
		}

		if r := AbsoluteRank(c); r > highest {
			highest = r
		}
	}

	return highest > 0 && highest >= AbsoluteRank(opponent[0])
}
