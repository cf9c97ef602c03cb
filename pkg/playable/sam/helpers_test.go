package sam

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"sam-server/internal/rng"
	"sam-server/pkg/deck"
)

func newTestEngine(t *testing.T) (*Engine, *quartz.Mock) {
	t.Helper()

	clock := quartz.NewMock(t)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	e, err := NewEngine(logger, clock, rng.NewSeeded(42), DefaultOptions())
	require.NoError(t, err)

	seq := 0
	e.newID = func(prefix string) string {
		seq++
		return fmt.Sprintf("%s_%d", prefix, seq)
	}

	return e, clock
}

func testPlayer(id string) Player {
	return Player{ID: id, Name: strings.ToUpper(id)}
}

// seated is a ready player holding the cards
func seated(id, hand string) GamePlayer {
	gp := newGamePlayer(testPlayer(id))
	gp.IsReady = true
	gp.Cards = deck.CardsFromString(hand)
	gp.LastPlayedRound = 0
	return gp
}

func rosterOf(players []GamePlayer) []TablePlayer {
	roster := make([]TablePlayer, len(players))
	for i, gp := range players {
		roster[i] = TablePlayer{ID: gp.ID, Name: gp.Name, ChipCount: gp.ChipCount, Wins: gp.Wins}
	}

	return roster
}

// playingTable is a table in the playing phase of a later game of the session.
// The first seat is the host and leads.
func playingTable(now time.Time, bo int, players ...GamePlayer) *Table {
	first := players[0].ID
	return &Table{
		ID:          "tbl_test",
		HostID:      first,
		Name:        "test",
		BO:          bo,
		PlayerLimit: MaxPlayers,
		Game: &Game{
			ID:              "game_test",
			State:           PhasePlaying,
			Round:           0,
			Players:         players,
			CurrentPlayerID: first,
			StartPlayerID:   first,
			LastPlayedCards: deck.Hand{},
			PlayHistory:     []PlayHistory{},
			StartedAt:       now,
		},
		LastGame:  &Game{ID: "game_prev", State: PhaseEnded, WinnerID: first},
		Players:   rosterOf(players),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// checkingTable is a first game of a session in the hand checking phase, the first seat starts
func checkingTable(now time.Time, players ...GamePlayer) *Table {
	for i := range players {
		players[i].LastPlayedRound = -1
	}

	t := playingTable(now, -1, players...)
	t.LastGame = nil
	t.Game.State = PhaseHandChecking
	t.Game.Round = -1
	return t
}

func mustApply(t *testing.T, e *Engine, tbl *Table, playerID string, a Action) *Table {
	t.Helper()

	next, err := e.Apply(tbl, Player{ID: playerID}, a)
	require.NoError(t, err, "%s by %s", a.Kind(), playerID)
	require.NotNil(t, next)
	return next
}

func play(s string) Play {
	return Play{Cards: deck.CardsFromString(s)}
}

func chips(tbl *Table) map[string]int {
	counts := make(map[string]int)
	for _, gp := range tbl.Game.Players {
		counts[gp.ID] = gp.ChipCount
	}

	return counts
}
