package sam

import "sam-server/pkg/deck"

func (Ask) check(c *actionContext) State {
	g := c.game
	return State{
		Visible: c.actor.IsReady &&
			g.State == PhaseHandChecking &&
			g.Round < 0 &&
			c.table.LastGame != nil &&
			c.actor.ID == c.table.LastGame.WinnerID,
		Disabled: !g.isPlayerTurn(*c.actor) || c.deadlinePassed(),
	}
}

func (Ask) apply(c *actionContext) error {
	c.actor.LastAction = LastActionAsk
	c.actor.LastPlayedRound = c.game.Round
	return c.advanceHandChecking()
}

func (Tiger) check(c *actionContext) State {
	return State{
		Visible:  c.actor.IsReady && c.game.State == PhaseHandChecking,
		Disabled: !c.game.isPlayerTurn(*c.actor) || c.deadlinePassed(),
	}
}

func (Tiger) apply(c *actionContext) error {
	c.actor.LastAction = LastActionTiger
	c.actor.LastPlayedRound = c.game.Round
	c.log().WithField("player", c.actor.ID).Info("tiger declared")
	return c.advanceHandChecking()
}

func (p Play) cards(gp GamePlayer) deck.Hand {
	if len(p.Cards) > 0 {
		return p.Cards
	}

	return gp.SelectedCards
}

func (p Play) check(c *actionContext) State {
	g := c.game
	cards := p.cards(*c.actor)
	firstLead := c.table.LastGame == nil && g.isFirstToAct(*c.actor)

	return State{
		Visible: c.actor.IsReady && g.State == PhasePlaying,
		Disabled: c.deadlinePassed() ||
			!g.isPlayerTurn(*c.actor) ||
			(firstLead && len(cards) > 1) ||
			len(cards) == 0 ||
			!CanBeat(cards, c.actor.Cards, g.toBeat()),
	}
}

func (p Play) apply(c *actionContext) error {
	g := c.game
	played := SortStraight(p.cards(*c.actor))

	round := g.Round
	if len(g.PlayHistory) == 0 || g.everyonePassed() {
		round++
	}

	g.Round = round
	g.LastPlayedCards = played
	g.PlayHistory = append(g.PlayHistory, PlayHistory{
		PlayerID: c.actor.ID,
		Cards:    played.Clone(),
		Round:    round,
	})

	c.actor.LastPlayedRound = round
	if c.actor.LastAction != LastActionTiger {
		c.actor.LastAction = LastActionPlay
	}

	c.actor.Cards = c.actor.Cards.Without(played)
	c.actor.SelectedCards = played.Clone()

	if c.gameEnded() {
		return c.endGame(c.actor.ID)
	}

	g.CurrentPlayerID = g.nextPlayerID()
	c.e.updateTurnTimes(g, c.now)
	return nil
}

func (Pass) check(c *actionContext) State {
	g := c.game
	isTurn := g.isPlayerTurn(*c.actor)
	playing := g.State == PhasePlaying

	return State{
		Visible: c.actor.IsReady &&
			g.InProgress() &&
			!(playing && g.isFirstToAct(*c.actor)) &&
			c.actor.LastAction != LastActionTiger,
		Disabled: c.deadlinePassed() ||
			!isTurn ||
			(playing && g.everyonePassed()),
	}
}

func (Pass) apply(c *actionContext) error {
	g := c.game
	c.actor.LastAction = LastActionPass
	c.actor.LastPlayedRound = g.Round

	if g.State == PhaseHandChecking {
		return c.advanceHandChecking()
	}

	g.CurrentPlayerID = g.nextPlayerID()
	if g.everyonePassed() {
		if err := c.settleRound(); err != nil {
			return err
		}
	}

	c.e.updateTurnTimes(g, c.now)
	return nil
}
