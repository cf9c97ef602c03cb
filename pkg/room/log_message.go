package room

import (
	"strings"
	"time"

	"sam-server/pkg/deck"
	"sam-server/pkg/playable"
	"sam-server/pkg/playable/sam"
)

const logMessageLimit = 25

// addLogMessages adds a lot message
// Note: this must only be called from within the run loop
func (d *Dealer) addLogMessages(messages []*playable.LogMessage) {
	m := append(d.logMessages, messages...)
	count := len(m)
	if count > logMessageLimit {
		m = m[count-logMessageLimit:]
	}

	d.logMessages = m
}

func cardsString(cards []deck.Card) string {
	s := make([]string, len(cards))
	for i, c := range cards {
		s[i] = c.String()
	}

	return strings.Join(s, " ")
}

// logMessagesFor describes what the player's action did to the table
func logMessagesFor(prev, next *sam.Table, playerID string, kind sam.Kind, now time.Time) []*playable.LogMessage {
	var msgs []*playable.LogMessage
	add := func(format string, a ...interface{}) {
		msgs = append(msgs, playable.SimpleLogMessage(now, playerID, format, a...))
	}

	switch kind {
	case sam.KindPlay:
		if n := len(next.Game.PlayHistory); n > 0 {
			cards := next.Game.PlayHistory[n-1].Cards
			msgs = append(msgs, playable.CardsLogMessage(now, playerID, cards, "played %s", cardsString(cards)))
		}
	case sam.KindPass:
		add("passed")
	case sam.KindAsk:
		add("asked")
	case sam.KindTiger:
		add("declared a tiger")
	case sam.KindStartGame:
		add("dealt the cards")
	case sam.KindNewGame:
		add("opened a new game")
	case sam.KindResetSession:
		add("reset the session")
	case sam.KindRemovePlayers:
		add("removed %d player(s)", len(prev.Game.Players)-len(next.Game.Players))
	case sam.KindTransferHost:
		lm := playable.SimpleLogMessage(now, playerID, "handed the table over")
		lm.PlayerIDs = append(lm.PlayerIDs, next.HostID)
		msgs = append(msgs, lm)
	}

	return append(msgs, phaseLogMessages(prev, next, now)...)
}

// timeoutLogMessages describes the action taken for a player who ran out of time
func timeoutLogMessages(prev, next *sam.Table, playerID string, now time.Time) []*playable.LogMessage {
	kind := sam.KindPass
	if len(next.Game.PlayHistory) > len(prev.Game.PlayHistory) {
		kind = sam.KindPlay
	}

	msgs := []*playable.LogMessage{playable.SimpleLogMessage(now, playerID, "ran out of time")}
	return append(msgs, logMessagesFor(prev, next, playerID, kind, now)...)
}

// phaseLogMessages announces tiger resolution and the end of a game
func phaseLogMessages(prev, next *sam.Table, now time.Time) []*playable.LogMessage {
	pg, ng := prev.Game, next.Game
	if pg == nil || ng == nil || pg.ID != ng.ID || pg.State == ng.State {
		return nil
	}

	var msgs []*playable.LogMessage
	if pg.State == sam.PhaseHandChecking {
		for _, gp := range ng.Players {
			if gp.LastAction == sam.LastActionTiger {
				msgs = append(msgs, playable.SimpleLogMessage(now, gp.ID, "holds the tiger"))
			}
		}
	}

	if ng.State == sam.PhaseEnded && ng.WinnerID != "" {
		if pg.State == sam.PhaseHandChecking {
			tier := sam.CheckWhiteTiger(ng.LastPlayedCards)
			msgs = append(msgs, playable.CardsLogMessage(now, ng.WinnerID, ng.LastPlayedCards, "revealed %s", tier))
		}

		msgs = append(msgs, playable.SimpleLogMessage(now, ng.WinnerID, "won the game"))
	}

	return msgs
}
