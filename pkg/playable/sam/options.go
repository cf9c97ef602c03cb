package sam

import "fmt"

// CardsPerPlayer is the size of a starting hand
const CardsPerPlayer = 10

// MaxPlayers is the most players a 52 card deck can serve
const MaxPlayers = 5

// Stakes are the chip values used by settlement
type Stakes struct {
	// OneCard is charged per card left in a loser's hand
	OneCard int `yaml:"oneCard"`
	// Fired is charged to a loser who never played a card
	Fired int `yaml:"fired"`
	// Tiger is charged for tigers and four-of-a-kind bonuses
	Tiger int `yaml:"tiger"`
}

// Options provides options for the engine
type Options struct {
	Stakes Stakes
	// StarOfHopeMultiplier scales a payment when both sides opted in
	StarOfHopeMultiplier int
	// MinShufflePasses and MaxShufflePasses bound the Fisher-Yates passes per deal
	MinShufflePasses int
	MaxShufflePasses int
	// HandCheckingFactor stretches the turn deadline while players look at their hands
	HandCheckingFactor float64
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		Stakes: Stakes{
			OneCard: 1,
			Fired:   15,
			Tiger:   20,
		},
		StarOfHopeMultiplier: 2,
		MinShufflePasses:     3,
		MaxShufflePasses:     10,
		HandCheckingFactor:   1.5,
	}
}

func (o Options) validate() error {
	if o.Stakes.OneCard <= 0 || o.Stakes.Fired <= 0 || o.Stakes.Tiger <= 0 {
		return fmt.Errorf("stakes must be greater than 0: %+v", o.Stakes)
	}

	if o.StarOfHopeMultiplier < 1 {
		return fmt.Errorf("star of hope multiplier must be at least 1, got %d", o.StarOfHopeMultiplier)
	}

	if o.MinShufflePasses < 1 || o.MaxShufflePasses < o.MinShufflePasses {
		return fmt.Errorf("invalid shuffle passes: %d-%d", o.MinShufflePasses, o.MaxShufflePasses)
	}

	if o.HandCheckingFactor < 1 {
		return fmt.Errorf("hand checking factor must be at least 1, got %v", o.HandCheckingFactor)
	}

	return nil
}
