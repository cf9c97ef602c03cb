package sam

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"sam-server/internal/rng"
	"sam-server/pkg/deck"
)

// maxDealAttempts bounds the redeals needed to put the three of spades in a hand
const maxDealAttempts = 100

var threeOfSpades = deck.Card{Rank: deck.Three, Suit: deck.Spades}

// newGame builds a game in the waiting phase.
// The winner of prev anchors the next deal and is the only player kept ready.
func newGame(prev *Game, players []GamePlayer, turnTimeout int, id string) *Game {
	anchorID := ""
	if prev != nil {
		anchorID = prev.WinnerID
	}

	g := &Game{
		ID:              id,
		State:           PhaseWaiting,
		Round:           -1,
		Players:         make([]GamePlayer, len(players)),
		CurrentPlayerID: anchorID,
		StartPlayerID:   anchorID,
		LastPlayedCards: deck.Hand{},
		PlayHistory:     []PlayHistory{},
		TurnTimeout:     turnTimeout,
	}

	for i, gp := range players {
		gp.IsReady = gp.ID == anchorID
		gp.Cards = deck.Hand{}
		gp.SelectedCards = deck.Hand{}
		gp.LastPlayedRound = -1
		gp.LastAction = LastActionNone
		gp.PaidVillage = false
		g.Players[i] = gp
	}

	return g
}

func (e *Engine) shuffledDeck() *deck.Deck {
	d := deck.New()
	passes := rng.Between(e.rng, e.options.MinShufflePasses, e.options.MaxShufflePasses)
	d.Shuffle(e.rng, passes)
	return d
}

// deal returns one hand per ready player, redealing until the three of spades
// is in play when requireThree is set
func (e *Engine) deal(players int, requireThree bool) ([]deck.Hand, string, error) {
	for attempt := 1; attempt <= maxDealAttempts; attempt++ {
		d := e.shuffledDeck()
		hash := d.HashCode()
		hands, err := d.Deal(players, CardsPerPlayer)
		if err != nil {
			return nil, "", err
		}

		if !requireThree {
			return hands, hash, nil
		}

		for _, h := range hands {
			if h.HasCard(threeOfSpades) {
				return hands, hash, nil
			}
		}
	}

	return nil, "", fmt.Errorf("%w: three of spades not dealt after %d attempts", ErrDealFailed, maxDealAttempts)
}

func (c *actionContext) startGame() error {
	t := c.table
	g := c.game
	ready := g.ReadyPlayers()

	limit := t.PlayerLimit
	if limit <= 0 || limit > MaxPlayers {
		limit = MaxPlayers
	}

	if len(ready) > limit {
		return &PlayerLimitExceeded{Ready: len(ready), Limit: limit}
	}

	anchorID := ""
	if g.readyPlayer(g.CurrentPlayerID) != nil {
		anchorID = g.CurrentPlayerID
	}

	hands, hash, err := c.e.deal(len(ready), anchorID == "")
	if err != nil {
		return err
	}

	state := PhasePlaying
	round := 0
	currentID := anchorID
	if anchorID == "" {
		state = PhaseHandChecking
		round = -1
	}

	next := 0
	for i := range g.Players {
		gp := &g.Players[i]
		gp.LastAction = LastActionNone
		gp.LastPlayedRound = round
		gp.SelectedCards = deck.Hand{}
		gp.PaidVillage = false
		if !gp.IsReady {
			gp.Cards = deck.Hand{}
			continue
		}

		gp.Cards = hands[next]
		next++
		if currentID == "" && gp.Cards.HasCard(threeOfSpades) {
			currentID = gp.ID
		}
	}

	g.State = state
	g.Round = round
	g.CurrentPlayerID = currentID
	g.StartPlayerID = currentID
	g.StartedAt = c.now
	c.e.updateTurnTimes(g, c.now)

	c.log().WithFields(logrus.Fields{
		"deck":    hash,
		"players": playerIDs(ready),
		"state":   state,
		"first":   currentID,
	}).Info("dealt game")

	return nil
}

// advanceHandChecking moves to the next seat, resolving tigers once the
// rotation is back at the start player
func (c *actionContext) advanceHandChecking() error {
	g := c.game
	next := g.nextSeatID()
	if next != g.StartPlayerID {
		g.CurrentPlayerID = next
		c.e.updateTurnTimes(g, c.now)
		return nil
	}

	g.CurrentPlayerID = next
	resolved, selectedID := ResolveTigers(g, c.table.tigerAnchorID())
	c.table.Game = resolved
	c.game = resolved
	g = resolved

	if selectedID != "" {
		tier := CheckWhiteTiger(g.Player(selectedID).Cards)
		c.log().WithFields(logrus.Fields{
			"player": selectedID,
			"tier":   tier.String(),
		}).Info("tiger resolved")

		if tier.IsSpecial() {
			return c.revealWhiteTiger(selectedID)
		}
	}

	g.State = PhasePlaying
	g.Round = 0
	for i := range g.Players {
		gp := &g.Players[i]
		if !gp.IsReady {
			continue
		}

		if gp.LastAction != LastActionTiger {
			gp.LastAction = LastActionNone
		}

		gp.LastPlayedRound = 0
	}

	c.e.updateTurnTimes(g, c.now)
	return nil
}

// revealWhiteTiger ends the game with the whole special hand moved to the history
func (c *actionContext) revealWhiteTiger(playerID string) error {
	g := c.game
	gp := g.Player(playerID)
	hand := SortByAbsoluteRank(gp.Cards.Stripped(), false)

	g.PlayHistory = append(g.PlayHistory, PlayHistory{
		PlayerID: playerID,
		Cards:    hand.Clone(),
		Round:    g.Round,
	})
	g.LastPlayedCards = hand
	gp.Cards = deck.Hand{}
	gp.LastPlayedRound = g.Round

	return c.endGame(playerID)
}

// gameEnded checks the end conditions after a play
func (c *actionContext) gameEnded() bool {
	g := c.game
	if c.table.IsBestOf() && IsFourOfAKind(g.LastPlayedCards) {
		return true
	}

	tigerActive := len(g.tigers()) > 0
	for _, gp := range g.ReadyPlayers() {
		if len(gp.Cards) == 0 {
			return true
		}

		if tigerActive && gp.LastAction == LastActionPlay {
			return true
		}
	}

	return false
}

// endGame records the winner, settles and exposes every hand
func (c *actionContext) endGame(winnerID string) error {
	g := c.game
	g.State = PhaseEnded
	g.WinnerID = winnerID
	g.CurrentPlayerID = winnerID
	g.TurnEndTs = time.Time{}

	if err := c.settleGame(); err != nil {
		return err
	}

	c.log().WithFields(logrus.Fields{
		"winner": winnerID,
		"round":  g.Round,
	}).Info("game ended")

	return nil
}
