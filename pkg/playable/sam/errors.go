package sam

import (
	"errors"
	"fmt"
)

// ErrActionNotAllowed is returned when an action is applied while its predicate hides or disables it
var ErrActionNotAllowed = errors.New("action is not allowed")

// ErrPlayerNotSeated is returned when the acting player is not part of the game
var ErrPlayerNotSeated = errors.New("player is not seated at the table")

// ErrCannotRemoveHost is returned when the host is in the list of players to remove
var ErrCannotRemoveHost = errors.New("the host cannot be removed")

// ErrIncorrectPassword is returned when entering a table with the wrong password
var ErrIncorrectPassword = errors.New("password is incorrect")

// ErrTableFull is returned when a table has no seats left
var ErrTableFull = errors.New("table is full")

// ErrTurnNotExpired is returned when a timeout is applied before the deadline
var ErrTurnNotExpired = errors.New("turn has not expired")

// ErrNoDefaultAction is returned when there is nobody to act for
var ErrNoDefaultAction = errors.New("no default action available")

// ErrUnknownAction is returned when decoding an action kind that does not exist
var ErrUnknownAction = errors.New("unknown action")

// ErrDealFailed is returned when a deal could not seat the first player
var ErrDealFailed = errors.New("could not deal the cards")

// ErrPlayerLimitExceeded is matched by PlayerLimitExceeded
var ErrPlayerLimitExceeded = errors.New("number of players exceeds limit")

// ErrSettlementInvariantViolation is matched by SettlementInvariantViolation
var ErrSettlementInvariantViolation = errors.New("settlement does not sum to zero")

// PlayerLimitExceeded is returned by StartGame when too many players are ready
type PlayerLimitExceeded struct {
	Ready int
	Limit int
}

func (p *PlayerLimitExceeded) Error() string {
	return fmt.Sprintf("%d players are ready, table can only have %d", p.Ready, p.Limit)
}

// Is allows errors.Is(err, ErrPlayerLimitExceeded)
func (p *PlayerLimitExceeded) Is(target error) bool {
	return target == ErrPlayerLimitExceeded
}

// SettlementInvariantViolation means a settlement produced deltas that do not cancel out.
// This is a defect, it should never reach a player.
type SettlementInvariantViolation struct {
	Reason string
	Sum    int
}

func (s *SettlementInvariantViolation) Error() string {
	return fmt.Sprintf("%s settlement sums to %d", s.Reason, s.Sum)
}

// Is allows errors.Is(err, ErrSettlementInvariantViolation)
func (s *SettlementInvariantViolation) Is(target error) bool {
	return target == ErrSettlementInvariantViolation
}

// UserError is an error that is safe to show to a player
type UserError string

func (u UserError) Error() string {
	return string(u)
}
