package sam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sam-server/pkg/deck"
)

func TestScenario_OrdinaryWin(t *testing.T) {
	a := assert.New(t)
	e, clock := newTestEngine(t)

	tbl := playingTable(clock.Now(), -1,
		seated("a", "3s,12h,12d"),
		seated("b", "4s,5c,6c"),
		seated("c", "5s,7c,8c"),
		seated("d", "6s,10c,11c"),
	)
	tbl.Game.Player("a").StarOfHope = true
	tbl.Game.Player("c").StarOfHope = true

	a.False(e.Check(tbl, testPlayer("a"), Pass{}).Visible, "first to act cannot pass")

	tbl = mustApply(t, e, tbl, "a", play("3s"))
	a.Equal(1, tbl.Game.Round)
	a.Equal("b", tbl.Game.CurrentPlayerID)

	tbl = mustApply(t, e, tbl, "b", play("4s"))
	tbl = mustApply(t, e, tbl, "c", play("5s"))
	tbl = mustApply(t, e, tbl, "d", play("6s"))
	tbl = mustApply(t, e, tbl, "a", play("12h"))

	tbl = mustApply(t, e, tbl, "b", Pass{})
	tbl = mustApply(t, e, tbl, "c", Pass{})
	tbl = mustApply(t, e, tbl, "d", Pass{})
	a.Equal("a", tbl.Game.CurrentPlayerID)
	a.True(tbl.Game.everyonePassed())

	state := e.Check(tbl, testPlayer("a"), Pass{})
	a.True(state.Disabled, "the lead cannot pass")

	tbl = mustApply(t, e, tbl, "a", play("12d"))
	a.Equal(2, tbl.Game.Round)
	a.Equal(PhaseEnded, tbl.Game.State)
	a.Equal("a", tbl.Game.WinnerID)

	a.Equal(map[string]int{"a": 8, "b": -2, "c": -4, "d": -2}, chips(tbl))
	a.Equal(-4, tbl.TablePlayer("c").ChipCount)
	a.Equal(8, tbl.TablePlayer("a").ChipCount)
	for _, gp := range tbl.Game.Players {
		a.False(gp.PaidVillage)
	}
}

func TestScenario_TigerKilled(t *testing.T) {
	a := assert.New(t)
	e, clock := newTestEngine(t)

	tbl := checkingTable(clock.Now(),
		seated("a", "3s,4h,5d,6c,8s,10h,12d,13c,1s,2h"),
		seated("b", "3c,4d,5h,7h,9s,11h,13d,4c,6s,8h"),
		seated("c", "9h,9d,10s,11s,12s,13s,1c,2c,3d,7d"),
	)
	require.Equal(t, NotSpecial, CheckWhiteTiger(tbl.Game.Player("b").Cards))

	tbl = mustApply(t, e, tbl, "a", Pass{})
	a.Equal("b", tbl.Game.CurrentPlayerID)
	tbl = mustApply(t, e, tbl, "b", Tiger{})
	tbl = mustApply(t, e, tbl, "c", Pass{})

	a.Equal(PhasePlaying, tbl.Game.State)
	a.Equal(0, tbl.Game.Round)
	a.Equal("b", tbl.Game.CurrentPlayerID)
	a.Equal(LastActionTiger, tbl.Game.Player("b").LastAction)
	a.Equal(LastActionNone, tbl.Game.Player("a").LastAction)
	a.False(e.Check(tbl, testPlayer("b"), Pass{}).Visible, "a tiger must play")

	tbl = mustApply(t, e, tbl, "b", play("7h"))
	a.Equal(PhasePlaying, tbl.Game.State)
	a.Equal("c", tbl.Game.CurrentPlayerID)

	tbl = mustApply(t, e, tbl, "c", play("9h"))
	a.Equal(PhaseEnded, tbl.Game.State)
	a.Equal("c", tbl.Game.WinnerID)

	tiger := DefaultOptions().Stakes.Tiger
	a.Equal(map[string]int{"a": 0, "b": -tiger * 2, "c": tiger * 2}, chips(tbl))
}

func TestScenario_TwoTigersTieBreak(t *testing.T) {
	a := assert.New(t)
	e, clock := newTestEngine(t)

	tbl := checkingTable(clock.Now(),
		seated("a", "3s,4s"),
		seated("b", "5s,6s"),
		seated("c", "7s,8s"),
		seated("d", "9s,10s"),
	)
	tbl.LastGame = &Game{ID: "game_prev", State: PhaseEnded, WinnerID: "c"}

	tbl = mustApply(t, e, tbl, "a", Tiger{})
	tbl = mustApply(t, e, tbl, "b", Tiger{})
	tbl = mustApply(t, e, tbl, "c", Pass{})
	tbl = mustApply(t, e, tbl, "d", Pass{})

	a.Equal(PhasePlaying, tbl.Game.State)
	a.Equal("a", tbl.Game.CurrentPlayerID, "a is the first declarer after c")
	a.Equal(LastActionTiger, tbl.Game.Player("a").LastAction)
	a.Equal(LastActionNone, tbl.Game.Player("b").LastAction)
}

func TestScenario_BestOfStops(t *testing.T) {
	a := assert.New(t)
	e, clock := newTestEngine(t)

	winner := seated("a", "9h")
	winner.Wins = 2
	tbl := playingTable(clock.Now(), 5, winner, seated("b", "4s,5c"))

	tbl = mustApply(t, e, tbl, "a", play("9h"))
	a.Equal(PhaseEnded, tbl.Game.State)
	a.Equal(3, tbl.Game.Player("a").Wins)
	a.Equal(3, tbl.TablePlayer("a").Wins)
	a.Equal(0, tbl.Game.Player("a").ChipCount, "best of tables do not move chips")
	a.Equal(0, tbl.Game.Player("b").ChipCount)

	state := e.Check(tbl, testPlayer("a"), NewGame{})
	a.True(state.Visible)
	a.True(state.Disabled)

	_, err := e.Apply(tbl, testPlayer("a"), NewGame{})
	a.ErrorIs(err, ErrActionNotAllowed)

	a.True(e.Check(tbl, testPlayer("a"), ResetSession{}).Allowed())
}

func TestScenario_LoneTwo(t *testing.T) {
	e, clock := newTestEngine(t)

	tbl := playingTable(clock.Now(), -1, seated("a", "7h,7s,2s"), seated("b", "4s,5c"))
	state := e.Check(tbl, testPlayer("a"), play("7h,7s"))
	assert.True(t, state.Visible)
	assert.True(t, state.Disabled)
	assert.True(t, e.Check(tbl, testPlayer("a"), play("7h")).Allowed())
	assert.True(t, e.Check(tbl, testPlayer("a"), play("2s")).Allowed())

	tbl = playingTable(clock.Now(), -1, seated("a", "9h,2s"), seated("b", "4s,5c"))
	assert.True(t, e.Check(tbl, testPlayer("a"), play("9h")).Disabled)

	_, err := e.Apply(tbl, testPlayer("a"), play("9h"))
	assert.ErrorIs(t, err, ErrActionNotAllowed)
	assert.Equal(t, "9h,2s", deck.CardsToString(tbl.Game.Player("a").Cards), "hand is untouched")
}
