package deck

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Suit represents a card suit
type Suit string

// suit constants
const (
	Spades   Suit = "S"
	Clubs    Suit = "C"
	Hearts   Suit = "H"
	Diamonds Suit = "D"
)

// Suits lists the suits in deck order
var Suits = []Suit{Spades, Clubs, Hearts, Diamonds}

// Color is the color of a suit
type Color string

// color constants
const (
	Red   Color = "red"
	Black Color = "black"
)

// Color returns the color of the suit
func (s Suit) Color() Color {
	if s == Hearts || s == Diamonds {
		return Red
	}

	return Black
}

// named ranks
const (
	Ace   = 1
	Two   = 2
	Three = 3
	Ten   = 10
	Jack  = 11
	Queen = 12
	King  = 13
)

// Card is an individual playing card
// Folded and Selected are view state owned by the client.
type Card struct {
	Rank     int  `json:"rank"`
	Suit     Suit `json:"suit"`
	Folded   bool `json:"folded,omitempty"`
	Selected bool `json:"selected,omitempty"`
}

func (c Card) String() string {
	var rank string
	switch c.Rank {
	case Ace:
		rank = "A"
	case Jack:
		rank = "J"
	case Queen:
		rank = "Q"
	case King:
		rank = "K"
	default:
		rank = strconv.Itoa(c.Rank)
	}

	var suit string
	switch c.Suit {
	case Clubs:
		suit = "♣"
	case Diamonds:
		suit = "♢"
	case Hearts:
		suit = "♡"
	case Spades:
		suit = "♠"
	default:
		panic("unknown suit")
	}

	return rank + suit
}

// Equal returns true if the cards are equal (matches suit and rank)
func (c Card) Equal(card Card) bool {
	return c.Suit == card.Suit && c.Rank == card.Rank
}

// Stripped returns the card without any view state
func (c Card) Stripped() Card {
	return Card{Rank: c.Rank, Suit: c.Suit}
}

// Valid returns true if the rank and suit exist in a standard deck
func (c Card) Valid() bool {
	if c.Rank < Ace || c.Rank > King {
		return false
	}

	switch c.Suit {
	case Spades, Clubs, Hearts, Diamonds:
		return true
	}

	return false
}

var cardRx = regexp.MustCompile(`(?i)^([1-9]|1[0-3])([cdhs])\z`)

// CardFromString returns a Card from the string.
// The string must be in the format of <rank><suit> where rank >= 1 and <= 13 and suit in [cdhs]
func CardFromString(s string) Card {
	match := cardRx.FindStringSubmatch(strings.TrimSpace(s))
	if match == nil {
		panic(fmt.Sprintf("could not parse card: %s", s))
	}

	rank, err := strconv.Atoi(match[1])
	if err != nil {
		panic(fmt.Sprintf("could not parse card `%s`: %v", s, err))
	}

	var suit Suit
	switch strings.ToLower(match[2]) {
	case "c":
		suit = Clubs
	case "d":
		suit = Diamonds
	case "h":
		suit = Hearts
	case "s":
		suit = Spades
	}

	return Card{
		Rank: rank,
		Suit: suit,
	}
}

// CardsFromString will returns a slice of cards
func CardsFromString(s string) []Card {
	if s == "" {
		return []Card{}
	}

	cardStrings := strings.Split(s, ",")
	cards := make([]Card, len(cardStrings))
	for i, card := range cardStrings {
		cards[i] = CardFromString(card)
	}

	return cards
}

// CardToString converts a card (Ace of Clubs) to a string (1c)
func CardToString(card Card) string {
	return strconv.Itoa(card.Rank) + strings.ToLower(string(card.Suit))
}

// CardsToString will convert a slice of cards to a string in the format of 1c,3h,4s,...
func CardsToString(cards []Card) string {
	c := make([]string, len(cards))
	for i, card := range cards {
		c[i] = CardToString(card)
	}

	return strings.Join(c, ",")
}
