package room

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"sam-server/pkg/deck"
	"sam-server/pkg/playable"
	"sam-server/pkg/playable/sam"
)

func logTable(state sam.Phase) *sam.Table {
	return &sam.Table{
		ID:     "tbl",
		HostID: host.ID,
		Game: &sam.Game{
			ID:    "game",
			State: state,
			Players: []sam.GamePlayer{
				{Player: host, IsReady: true},
				{Player: guest, IsReady: true},
			},
			PlayHistory: []sam.PlayHistory{},
		},
	}
}

func TestDealer_addLogMessages(t *testing.T) {
	d := &Dealer{}
	for i := 0; i < logMessageLimit+5; i++ {
		d.addLogMessages([]*playable.LogMessage{playable.SimpleLogMessage(time.Now(), "", "message %d", i)})
	}

	assert.Len(t, d.logMessages, logMessageLimit)
	assert.Equal(t, "message 5", d.logMessages[0].Message)
	assert.Equal(t, fmt.Sprintf("message %d", logMessageLimit+4), d.logMessages[logMessageLimit-1].Message)
}

func Test_logMessagesFor(t *testing.T) {
	a := assert.New(t)
	now := time.Now()

	prev := logTable(sam.PhasePlaying)
	next := prev.Clone()
	cards := deck.CardsFromString("3s,3c")
	next.Game.PlayHistory = append(next.Game.PlayHistory, sam.PlayHistory{PlayerID: host.ID, Cards: cards})

	msgs := logMessagesFor(prev, next, host.ID, sam.KindPlay, now)
	if a.Len(msgs, 1) {
		a.Equal("played 3♠ 3♣", msgs[0].Message)
		a.Equal([]string{host.ID}, msgs[0].PlayerIDs)
		a.Equal(cards, msgs[0].Cards)
	}

	msgs = logMessagesFor(prev, prev.Clone(), guest.ID, sam.KindReady, now)
	a.Empty(msgs)

	// winning play
	next.Game.State = sam.PhaseEnded
	next.Game.WinnerID = host.ID
	msgs = logMessagesFor(prev, next, host.ID, sam.KindPlay, now)
	if a.Len(msgs, 2) {
		a.Equal("won the game", msgs[1].Message)
	}

	next = prev.Clone()
	next.HostID = guest.ID
	msgs = logMessagesFor(prev, next, host.ID, sam.KindTransferHost, now)
	if a.Len(msgs, 1) {
		a.Equal([]string{host.ID, guest.ID}, msgs[0].PlayerIDs)
	}
}

func Test_phaseLogMessages(t *testing.T) {
	a := assert.New(t)
	now := time.Now()

	prev := logTable(sam.PhaseHandChecking)
	next := prev.Clone()
	next.Game.State = sam.PhasePlaying
	next.Game.Players[1].LastAction = sam.LastActionTiger

	msgs := phaseLogMessages(prev, next, now)
	if a.Len(msgs, 1) {
		a.Equal("holds the tiger", msgs[0].Message)
		a.Equal([]string{guest.ID}, msgs[0].PlayerIDs)
	}

	// white tiger
	next = prev.Clone()
	next.Game.State = sam.PhaseEnded
	next.Game.WinnerID = guest.ID
	next.Game.LastPlayedCards = deck.CardsFromString("2s,2c,2h,2d,3s,4s,5s,6s,7s,8s")
	msgs = phaseLogMessages(prev, next, now)
	if a.Len(msgs, 2) {
		a.Equal("revealed "+sam.TierFourPigs.String(), msgs[0].Message)
		a.Equal("won the game", msgs[1].Message)
	}

	// a new game is not a phase change
	next = prev.Clone()
	next.Game.ID = "other"
	next.Game.State = sam.PhaseWaiting
	a.Empty(phaseLogMessages(prev, next, now))
}

func Test_timeoutLogMessages(t *testing.T) {
	prev := logTable(sam.PhasePlaying)
	msgs := timeoutLogMessages(prev, prev.Clone(), guest.ID, time.Now())
	if assert.Len(t, msgs, 2) {
		assert.Equal(t, "ran out of time", msgs[0].Message)
		assert.Equal(t, "passed", msgs[1].Message)
	}
}
