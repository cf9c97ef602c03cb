package sam

import (
	"time"

	"sam-server/pkg/deck"
)

// passedTurn is true when the player passed in the current round
func (g *Game) passedTurn(gp GamePlayer) bool {
	return gp.LastAction == LastActionPass && gp.LastPlayedRound == g.Round
}

func (g *Game) isPlayerTurn(gp GamePlayer) bool {
	return g.CurrentPlayerID == gp.ID && !g.passedTurn(gp)
}

// everyonePassed is true when every other player who acted this round passed.
// The current player then holds the lead.
func (g *Game) everyonePassed() bool {
	actions := make(map[LastAction]bool)
	for _, gp := range g.Players {
		if gp.IsReady && gp.LastPlayedRound == g.Round && gp.ID != g.CurrentPlayerID {
			actions[gp.LastAction] = true
		}
	}

	return len(actions) == 1 && actions[LastActionPass]
}

func (g *Game) isFirstToAct(gp GamePlayer) bool {
	return g.Round <= 0 &&
		(gp.LastAction == LastActionNone || gp.LastAction == LastActionAsk) &&
		gp.ID == g.StartPlayerID
}

// nextSeatID is the next ready player after the current one
func (g *Game) nextSeatID() string {
	ready := rotate(g.ReadyPlayers(), g.CurrentPlayerID)
	if len(ready) < 2 {
		return g.CurrentPlayerID
	}

	return ready[1].ID
}

// nextPlayerID is the next ready player who has not passed this round.
// When everyone else passed it is the player who made the last play.
func (g *Game) nextPlayerID() string {
	ready := rotate(g.ReadyPlayers(), g.CurrentPlayerID)
	for _, gp := range ready[1:] {
		if !g.passedTurn(gp) {
			return gp.ID
		}
	}

	return ready[0].ID
}

// toBeat is the combination the current player must beat, nil when leading
func (g *Game) toBeat() deck.Hand {
	if g.everyonePassed() {
		return nil
	}

	return g.LastPlayedCards
}

func (e *Engine) updateTurnTimes(g *Game, now time.Time) {
	g.TurnStartTs = now
	if g.TurnTimeout <= 0 {
		g.TurnEndTs = time.Time{}
		return
	}

	timeout := time.Duration(g.TurnTimeout) * time.Second
	if g.State == PhaseHandChecking {
		timeout = time.Duration(float64(timeout) * e.options.HandCheckingFactor)
	}

	g.TurnEndTs = now.Add(timeout)
}
