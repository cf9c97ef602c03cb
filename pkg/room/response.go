package room

import (
	"sam-server/pkg/playable"
	"sam-server/pkg/playable/sam"
)

type clientStatePlayer struct {
	sam.Player
	IsConnected bool `json:"isConnected"`
	IsSeated    bool `json:"isSeated"`
}

// tableState is what a player sees of the table
type tableState struct {
	Table   *sam.Table             `json:"table"`
	Actions map[sam.Kind]sam.State `json:"actions"`
	Log     []*playable.LogMessage `json:"log"`
}

func newTableState(engine *sam.Engine, t *sam.Table, player sam.Player, log []*playable.LogMessage) *tableState {
	return &tableState{
		Table:   t.ForViewer(player.ID),
		Actions: engine.Actions(t, player),
		Log:     log,
	}
}

func newErrorResponse(ctx string, err error) *playable.Response {
	return &playable.Response{
		Key:     playable.KeyError,
		Value:   err.Error(),
		Context: ctx,
	}
}
