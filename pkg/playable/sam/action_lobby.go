package sam

import (
	"github.com/thoas/go-funk"
)

func (Ready) check(c *actionContext) State {
	return State{
		Visible: c.game.State == PhaseWaiting,
		Value:   c.actor.IsReady,
	}
}

func (Ready) apply(c *actionContext) error {
	c.actor.IsReady = !c.actor.IsReady
	return nil
}

func (Star) check(c *actionContext) State {
	return State{
		Visible: !c.table.IsBestOf() && c.game.State == PhaseWaiting,
		Value:   c.actor.StarOfHope,
	}
}

func (Star) apply(c *actionContext) error {
	c.actor.StarOfHope = !c.actor.StarOfHope
	return nil
}

// starterID is the player who deals: the last winner, or the host when there is none
func (t *Table) starterID() string {
	if t.LastGame != nil && t.LastGame.WinnerID != "" && t.Game.Player(t.LastGame.WinnerID) != nil {
		return t.LastGame.WinnerID
	}

	return t.HostID
}

// resultOwnerID is the player who decides what happens after a game ended
func (t *Table) resultOwnerID() string {
	if t.Game.readyPlayer(t.Game.WinnerID) == nil {
		return t.HostID
	}

	return t.Game.WinnerID
}

func (StartGame) check(c *actionContext) State {
	return State{
		Visible:  c.game.State == PhaseWaiting && c.table.starterID() == c.actor.ID,
		Disabled: !c.actor.IsReady || len(c.game.ReadyPlayers()) < 2,
	}
}

func (StartGame) apply(c *actionContext) error {
	return c.startGame()
}

func (NewGame) check(c *actionContext) State {
	return State{
		Visible:  c.game.State == PhaseEnded && c.table.resultOwnerID() == c.actor.ID,
		Disabled: c.table.IsBestOf() && c.actor.Wins >= c.table.WinsNeeded(),
	}
}

func (NewGame) apply(c *actionContext) error {
	t := c.table
	t.LastGame = t.Game
	t.Game = newGame(t.Game, t.Game.Players, t.TurnTimeout, c.e.newID("game"))
	c.game = t.Game

	c.log().WithField("anchor", t.Game.CurrentPlayerID).Info("new game")
	return nil
}

func (ResetSession) check(c *actionContext) State {
	return State{
		Visible: c.game.State == PhaseEnded && c.table.resultOwnerID() == c.actor.ID,
	}
}

func (ResetSession) apply(c *actionContext) error {
	t := c.table
	players := make([]GamePlayer, len(t.Game.Players))
	roster := make([]TablePlayer, len(t.Game.Players))
	for i, gp := range t.Game.Players {
		gp.ChipCount = 0
		gp.Wins = 0
		players[i] = gp
		roster[i] = TablePlayer{ID: gp.ID, Name: gp.Name}
	}

	t.Game = newGame(nil, players, t.TurnTimeout, c.e.newID("game"))
	t.LastGame = nil
	t.Players = roster
	c.game = t.Game

	c.log().Info("session reset")
	return nil
}

func hostOnly(c *actionContext) State {
	return State{
		Visible: !c.game.InProgress() && c.table.HostID == c.actor.ID,
	}
}

func (RemovePlayers) check(c *actionContext) State {
	return hostOnly(c)
}

func (r RemovePlayers) apply(c *actionContext) error {
	t := c.table
	if funk.ContainsString(r.PlayerIDs, t.HostID) {
		return ErrCannotRemoveHost
	}

	removed := func(id string) bool {
		return funk.ContainsString(r.PlayerIDs, id)
	}

	t.Game.Players = funk.Filter(t.Game.Players, func(gp GamePlayer) bool {
		return !removed(gp.ID)
	}).([]GamePlayer)

	if removed(t.Game.CurrentPlayerID) {
		t.Game.CurrentPlayerID = ""
	}

	// a removed player keeps a roster row while they still owe or are owed chips
	roster := make([]TablePlayer, 0, len(t.Players))
	for _, tp := range t.Players {
		if removed(tp.ID) {
			tp.IsRemoved = true
		}

		if tp.IsRemoved && tp.ChipCount == 0 && tp.Wins == 0 {
			continue
		}

		roster = append(roster, tp)
	}

	t.Players = roster

	c.log().WithField("players", r.PlayerIDs).Info("removed players")
	return nil
}

func (TransferHost) check(c *actionContext) State {
	return hostOnly(c)
}

func (th TransferHost) apply(c *actionContext) error {
	if c.game.Player(th.NewHostID) == nil {
		return ErrPlayerNotSeated
	}

	c.table.HostID = th.NewHostID
	c.log().WithField("host", th.NewHostID).Info("transferred host")
	return nil
}
