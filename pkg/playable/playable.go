package playable

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"sam-server/pkg/deck"
)

// response keys
const (
	KeyTable       = "table"
	KeyClientState = "clientState"
	KeyStatus      = "status"
	KeyError       = "error"
	KeyLog         = "log"
)

// LogMessage is a line in the table log
// If PlayerIDs is empty, it's a general statement, otherwise the message reads like "{player} did X"
type LogMessage struct {
	UUID      string      `json:"uuid"`
	PlayerIDs []string    `json:"playerIds"`
	Cards     []deck.Card `json:"cards"`
	Message   string      `json:"message"`
	Time      time.Time   `json:"time"`
}

// Response is a message sent to a client
type Response struct {
	Key     string      `json:"key"`
	Value   string      `json:"value"`
	Data    interface{} `json:"data"`
	Context string      `json:"context"`
}

// OK returns a generic success response
func OK(ctx ...string) *Response {
	res := &Response{
		Key:   KeyStatus,
		Value: "OK",
	}

	if len(ctx) == 1 {
		res.Context = ctx[0]
	}

	return res
}

// PayloadIn is the format we expect from the client
type PayloadIn struct {
	Action string `json:"action"`
	// Payload is decoded by the game once the action is known
	Payload json.RawMessage `json:"payload"`
	// Context will be passed back on any outgoing message
	Context string `json:"context"`
}

// Validate ensures the payload names an action
func (p *PayloadIn) Validate() error {
	if p.Action == "" {
		return fmt.Errorf("action is required")
	}

	return nil
}

// SimpleLogMessage returns a new LogMessage
func SimpleLogMessage(at time.Time, playerID string, format string, a ...interface{}) *LogMessage {
	var playerIDs []string
	if playerID != "" {
		playerIDs = []string{playerID}
	}

	return &LogMessage{
		UUID:      uuid.New().String(),
		PlayerIDs: playerIDs,
		Message:   fmt.Sprintf(format, a...),
		Time:      at,
	}
}

// CardsLogMessage returns a log message about cards the player put on the table
func CardsLogMessage(at time.Time, playerID string, cards []deck.Card, format string, a ...interface{}) *LogMessage {
	lm := SimpleLogMessage(at, playerID, format, a...)
	lm.Cards = cards
	return lm
}
