package util

import (
	"fmt"
	"math/rand/v2"
)

var adjectives = []string{
	"Lucky", "Bold", "Quiet", "Sly", "Patient", "Reckless", "Swift", "Clever", "Golden", "Silver", "Jade",
	"Red", "Black", "Crimson", "Smiling", "Wandering", "Sleepy", "Lonely", "Grand", "Humble", "Prime",
	"Roaring", "Prowling", "Hidden", "Striped", "Spotted",
}

var animals = []string{
	"Tiger", "Buffalo", "Dragon", "Carp", "Crane", "Monkey", "Rooster", "Gecko", "Elephant", "Pangolin",
	"Otter", "Heron", "Cobra", "Goat", "Horse", "Rabbit", "Turtle", "Kingfisher", "Leopard", "Boar",
}

// GetRandomName returns a random display name by combining an adjective with an animal
func GetRandomName() string {
	// nolint:gosec
	adjectivesIndex := rand.IntN(len(adjectives))
	// nolint:gosec
	animalsIndex := rand.IntN(len(animals))

	return fmt.Sprintf("%s %s", adjectives[adjectivesIndex], animals[animalsIndex])
}
