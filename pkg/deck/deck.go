package deck

import (
	"crypto/sha1" // nolint:gosec
	"encoding/hex"
	"errors"

	"sam-server/internal/rng"
)

// ErrEndOfDeck is an error when Draw() is attempted and there are no more cards
var ErrEndOfDeck = errors.New("end of deck reached")

// Deck represents a playing deck
type Deck struct {
	Cards []Card `json:"cards"`
}

// New returns a new deck of cards.
// Important! this deck is unshuffled. You must call the Shuffle() method to shuffle the cards
func New() *Deck {
	d := &Deck{}
	d.buildDeck()
	return d
}

func (d *Deck) buildDeck() {
	cards := make([]Card, 0, 52)
	for _, suit := range Suits {
		for rank := Ace; rank <= King; rank++ {
			cards = append(cards, Card{
				Rank: rank,
				Suit: suit,
			})
		}
	}

	d.Cards = cards
}

// Shuffle runs a Fisher-Yates shuffle over the deck {passes} times
func (d *Deck) Shuffle(gen rng.Generator, passes int) {
	if passes < 1 {
		passes = 1
	}

	for p := 0; p < passes; p++ {
		for j := len(d.Cards) - 1; j > 0; j-- {
			i := gen.Intn(j + 1)

			d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
		}
	}
}

// Deal hands out {perPlayer} cards to each of {players} hands, one card at a time.
// Cards left over stay in the deck.
func (d *Deck) Deal(players, perPlayer int) ([]Hand, error) {
	if !d.CanDraw(players * perPlayer) {
		return nil, ErrEndOfDeck
	}

	hands := make([]Hand, players)
	for i := range hands {
		hands[i] = make(Hand, 0, perPlayer)
	}

	for i := 0; i < perPlayer; i++ {
		for j := 0; j < players; j++ {
			card, err := d.Draw()
			if err != nil {
				return nil, err
			}

			hands[j] = append(hands[j], card)
		}
	}

	return hands, nil
}

// HashCode returns a SHA1 hash code of the deck.
func (d *Deck) HashCode() string {
	hash := sha1.New() // nolint:gosec
	for _, card := range d.Cards {
		_, _ = hash.Write([]byte(card.String()))
	}

	return hex.EncodeToString(hash.Sum(nil))
}

// Draw will draw the next card
// If there are no more cards, an ErrEndOfDeck is returned
func (d *Deck) Draw() (Card, error) {
	if len(d.Cards) <= 0 {
		return Card{}, ErrEndOfDeck
	}

	card := d.Cards[0]
	d.Cards = d.Cards[1:]

	return card, nil
}

// CanDraw returns true if there are {want} cards left in the deck
func (d *Deck) CanDraw(want int) bool {
	return len(d.Cards) >= want
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.Cards)
}
