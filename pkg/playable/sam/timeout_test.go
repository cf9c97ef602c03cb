package sam

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sam-server/pkg/deck"
)

func TestEngine_TurnExpired(t *testing.T) {
	a := assert.New(t)
	e, clock := newTestEngine(t)
	ctx := context.Background()

	tbl := playingTable(clock.Now(), -1, seated("a", "3s,12h"), seated("b", "4s,5c"))
	a.False(e.TurnExpired(tbl, clock.Now().Add(time.Hour)), "no timeout configured")

	tbl.Game.TurnTimeout = 10
	e.updateTurnTimes(tbl.Game, clock.Now())
	a.Equal(clock.Now().Add(10*time.Second), tbl.Game.TurnEndTs)

	clock.Advance(9 * time.Second).MustWait(ctx)
	a.False(e.TurnExpired(tbl, clock.Now()))
	a.True(e.Check(tbl, testPlayer("a"), play("3s")).Allowed())

	clock.Advance(time.Second).MustWait(ctx)
	a.True(e.TurnExpired(tbl, clock.Now()))
	a.True(e.Check(tbl, testPlayer("a"), play("3s")).Disabled, "too late")

	tbl.Game.State = PhaseEnded
	a.False(e.TurnExpired(tbl, clock.Now()))
}

func TestEngine_HandCheckingDeadline(t *testing.T) {
	e, clock := newTestEngine(t)
	tbl := checkingTable(clock.Now(), seated("a", "3s"), seated("b", "4s"))
	tbl.Game.TurnTimeout = 10

	e.updateTurnTimes(tbl.Game, clock.Now())
	assert.Equal(t, clock.Now().Add(15*time.Second), tbl.Game.TurnEndTs)
}

func TestEngine_ApplyTimeout(t *testing.T) {
	a := assert.New(t)
	e, clock := newTestEngine(t)
	ctx := context.Background()

	tbl := playingTable(clock.Now(), -1, seated("a", "3s,12h,2d"), seated("b", "4s,5c"))
	tbl.Game.TurnTimeout = 5
	e.updateTurnTimes(tbl.Game, clock.Now())

	_, err := e.ApplyTimeout(tbl, clock.Now())
	a.ErrorIs(err, ErrTurnNotExpired)

	clock.Advance(5 * time.Second).MustWait(ctx)

	// a opens the game and cannot pass, the strongest single goes
	id, action, ok := e.DefaultAction(tbl)
	require.True(t, ok)
	a.Equal("a", id)
	a.Equal(play("2d"), action)

	tbl, err = e.ApplyTimeout(tbl, clock.Now())
	require.NoError(t, err)
	a.Equal("2d", deck.CardsToString(tbl.Game.LastPlayedCards))
	a.Equal("b", tbl.Game.CurrentPlayerID)
	a.Equal(clock.Now().Add(5*time.Second), tbl.Game.TurnEndTs)

	clock.Advance(5 * time.Second).MustWait(ctx)
	id, action, ok = e.DefaultAction(tbl)
	require.True(t, ok)
	a.Equal("b", id)
	a.Equal(Pass{}, action)

	tbl, err = e.ApplyTimeout(tbl, clock.Now())
	require.NoError(t, err)
	a.Equal(LastActionPass, tbl.Game.Player("b").LastAction)
	a.Equal("a", tbl.Game.CurrentPlayerID)
}

func TestEngine_DefaultActionHandChecking(t *testing.T) {
	e, clock := newTestEngine(t)
	tbl := checkingTable(clock.Now(), seated("a", "3s"), seated("b", "4s"))

	id, action, ok := e.DefaultAction(tbl)
	assert.True(t, ok)
	assert.Equal(t, "a", id)
	assert.Equal(t, Pass{}, action)

	tbl.Game.State = PhaseWaiting
	_, _, ok = e.DefaultAction(tbl)
	assert.False(t, ok)
}

func TestCandidatePlays(t *testing.T) {
	plays := candidatePlays(deck.CardsFromString("2s,2c,5h"))

	got := make([]string, len(plays))
	for i, p := range plays {
		got[i] = deck.CardsToString(p)
	}

	assert.Equal(t, []string{"2s", "2c", "5h", "2s,2c"}, got)
}

func TestEngine_DefaultActionAvoidsLoneTwo(t *testing.T) {
	e, clock := newTestEngine(t)
	tbl := playingTable(clock.Now(), -1, seated("a", "2s,2c"), seated("b", "4s,5c"))

	_, action, ok := e.DefaultAction(tbl)
	assert.True(t, ok)
	assert.Equal(t, play("2s,2c"), action)
}
