package sam

import (
	"encoding/json"
	"fmt"

	"sam-server/pkg/deck"
)

// Kind names an action on the wire
type Kind string

// action kinds
const (
	KindReady         Kind = "ready"
	KindStar          Kind = "star"
	KindStartGame     Kind = "startGame"
	KindAsk           Kind = "ask"
	KindTiger         Kind = "tiger"
	KindPlay          Kind = "play"
	KindPass          Kind = "pass"
	KindNewGame       Kind = "newGame"
	KindResetSession  Kind = "resetSession"
	KindRemovePlayers Kind = "removePlayers"
	KindTransferHost  Kind = "transferHost"
)

// Kinds lists every action
var Kinds = []Kind{
	KindReady,
	KindStar,
	KindStartGame,
	KindAsk,
	KindTiger,
	KindPlay,
	KindPass,
	KindNewGame,
	KindResetSession,
	KindRemovePlayers,
	KindTransferHost,
}

// Action is something a player can do at a table.
// The set is closed, only this package can implement it.
type Action interface {
	Kind() Kind
	check(c *actionContext) State
	apply(c *actionContext) error
}

// Ready toggles the player's readiness for the next deal
type Ready struct{}

// Star toggles the player's star of hope stakes
type Star struct{}

// StartGame deals the cards
type StartGame struct{}

// Ask is the previous winner's opening during hand checking
type Ask struct{}

// Tiger declares a tiger during hand checking
type Tiger struct{}

// Play plays a combination. If Cards is empty the player's selected cards are played.
type Play struct {
	Cards []deck.Card `json:"cards"`
}

// Pass yields the turn
type Pass struct{}

// NewGame starts a new game anchored on the last winner
type NewGame struct{}

// ResetSession clears every balance and starts over
type ResetSession struct{}

// RemovePlayers removes players from the table
type RemovePlayers struct {
	PlayerIDs []string `json:"deletingPlayerIds"`
}

// TransferHost hands the table to another player
type TransferHost struct {
	NewHostID string `json:"newHostId"`
}

// Kind implements Action
func (Ready) Kind() Kind { return KindReady }

// Kind implements Action
func (Star) Kind() Kind { return KindStar }

// Kind implements Action
func (StartGame) Kind() Kind { return KindStartGame }

// Kind implements Action
func (Ask) Kind() Kind { return KindAsk }

// Kind implements Action
func (Tiger) Kind() Kind { return KindTiger }

// Kind implements Action
func (Play) Kind() Kind { return KindPlay }

// Kind implements Action
func (Pass) Kind() Kind { return KindPass }

// Kind implements Action
func (NewGame) Kind() Kind { return KindNewGame }

// Kind implements Action
func (ResetSession) Kind() Kind { return KindResetSession }

// Kind implements Action
func (RemovePlayers) Kind() Kind { return KindRemovePlayers }

// Kind implements Action
func (TransferHost) Kind() Kind { return KindTransferHost }

func emptyAction(kind Kind) (Action, bool) {
	switch kind {
	case KindReady:
		return Ready{}, true
	case KindStar:
		return Star{}, true
	case KindStartGame:
		return StartGame{}, true
	case KindAsk:
		return Ask{}, true
	case KindTiger:
		return Tiger{}, true
	case KindPlay:
		return Play{}, true
	case KindPass:
		return Pass{}, true
	case KindNewGame:
		return NewGame{}, true
	case KindResetSession:
		return ResetSession{}, true
	case KindRemovePlayers:
		return RemovePlayers{}, true
	case KindTransferHost:
		return TransferHost{}, true
	}

	return nil, false
}

// ParseAction decodes an action from its kind and JSON payload
func ParseAction(kind Kind, payload json.RawMessage) (Action, error) {
	a, ok := emptyAction(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, kind)
	}

	if len(payload) == 0 || string(payload) == "null" {
		return a, nil
	}

	switch a.(type) {
	case Play:
		var p Play
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, err
		}

		for _, c := range p.Cards {
			if !c.Valid() {
				return nil, UserError(fmt.Sprintf("invalid card: %d%s", c.Rank, c.Suit))
			}
		}

		return p, nil
	case RemovePlayers:
		var r RemovePlayers
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, err
		}

		return r, nil
	case TransferHost:
		var th TransferHost
		if err := json.Unmarshal(payload, &th); err != nil {
			return nil, err
		}

		return th, nil
	}

	return a, nil
}
