package sam

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"sam-server/pkg/deck"
)

// TurnExpired returns true if the current player ran out of time at now
func (e *Engine) TurnExpired(t *Table, now time.Time) bool {
	if t == nil || t.Game == nil || !t.Game.InProgress() {
		return false
	}

	g := t.Game
	if g.TurnTimeout <= 0 || g.TurnEndTs.IsZero() {
		return false
	}

	return !now.Before(g.TurnEndTs)
}

// DefaultAction returns the action taken for the current player when their time runs out.
// Passing is preferred. A player who cannot pass plays the strongest single card they can.
func (e *Engine) DefaultAction(t *Table) (string, Action, bool) {
	if t == nil || t.Game == nil || !t.Game.InProgress() {
		return "", nil, false
	}

	playerID := t.Game.CurrentPlayerID
	c := e.newContext(t, playerID, e.clock.Now())
	if c.actor == nil {
		return "", nil, false
	}

	c.ignoreDeadline = true
	if (Pass{}).check(c).Allowed() {
		return playerID, Pass{}, true
	}

	for _, cards := range candidatePlays(c.actor.Cards) {
		p := Play{Cards: cards}
		if p.check(c).Allowed() {
			return playerID, p, true
		}
	}

	return "", nil, false
}

// candidatePlays lists singles strongest first, then same rank sets
func candidatePlays(hand deck.Hand) [][]deck.Card {
	sorted := SortByAbsoluteRank(hand.Stripped(), true)
	plays := make([][]deck.Card, 0, len(sorted)*2)
	for _, c := range sorted {
		plays = append(plays, []deck.Card{c})
	}

	byRank := make(map[int][]deck.Card)
	for _, c := range sorted {
		byRank[c.Rank] = append(byRank[c.Rank], c)
	}

	ranks := make([]int, 0, len(byRank))
	for r := range byRank {
		ranks = append(ranks, r)
	}

	sort.Slice(ranks, func(i, j int) bool {
		return AbsoluteRank(deck.Card{Rank: ranks[i]}) < AbsoluteRank(deck.Card{Rank: ranks[j]})
	})

	for _, r := range ranks {
		group := byRank[r]
		for n := 2; n <= len(group); n++ {
			plays = append(plays, group[:n])
		}
	}

	return plays
}

// ApplyTimeout plays the default action for the player whose turn expired
func (e *Engine) ApplyTimeout(t *Table, now time.Time) (*Table, error) {
	if !e.TurnExpired(t, now) {
		return nil, ErrTurnNotExpired
	}

	playerID, a, ok := e.DefaultAction(t)
	if !ok {
		return nil, ErrNoDefaultAction
	}

	e.logger.WithFields(logrus.Fields{
		"table":  t.ID,
		"player": playerID,
		"action": a.Kind(),
	}).Info("turn expired")

	return e.apply(t, playerID, a, now, true)
}
