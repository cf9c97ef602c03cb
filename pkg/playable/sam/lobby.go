package sam

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/thoas/go-funk"
	"sam-server/internal/util"
)

// NameMaxLength is the longest table name allowed
const NameMaxLength = 40

// TableParams are the settings chosen by the host when opening a table
type TableParams struct {
	Name        string `json:"name"`
	Password    string `json:"password"`
	BO          int    `json:"bo"`
	PlayerLimit int    `json:"playerLimit"`
	TurnTimeout int    `json:"turnTimeout"`
}

func (p TableParams) validate() error {
	name := strings.TrimSpace(p.Name)
	if name == "" || utf8.RuneCountInString(name) > NameMaxLength {
		return UserError(fmt.Sprintf("table name must be between 1 and %d characters", NameMaxLength))
	}

	if p.PlayerLimit < 2 || p.PlayerLimit > MaxPlayers {
		return UserError(fmt.Sprintf("player limit must be between 2 and %d", MaxPlayers))
	}

	if p.TurnTimeout < 0 {
		return UserError("turn timeout cannot be negative")
	}

	return nil
}

// NewTable opens a table with the host as the only player
func (e *Engine) NewTable(host Player, params TableParams) (*Table, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	bo := params.BO
	if bo <= 0 {
		bo = -1
	}

	now := e.clock.Now()
	t := &Table{
		ID:          e.newID("tbl"),
		HostID:      host.ID,
		Name:        strings.TrimSpace(params.Name),
		Password:    params.Password,
		BO:          bo,
		PlayerLimit: params.PlayerLimit,
		TurnTimeout: params.TurnTimeout,
		Players: []TablePlayer{
			{ID: host.ID, Name: host.Name},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	t.Game = newGame(nil, []GamePlayer{newGamePlayer(host)}, params.TurnTimeout, e.newID("game"))

	e.logger.WithField("table", t.ID).WithField("host", host.ID).Info("opened table")
	return t, nil
}

// EnterTable seats the player. The host never needs the password.
// A removed player comes back with their balance and wins.
// Entering a table the player is already at does nothing.
func (e *Engine) EnterTable(t *Table, player Player, password string) (*Table, error) {
	if t.Password != "" && player.ID != t.HostID && password != t.Password {
		return nil, ErrIncorrectPassword
	}

	cp := t.Clone()
	if cp.Game.Player(player.ID) == nil {
		if len(cp.Game.Players) >= cp.PlayerLimit {
			return nil, fmt.Errorf("%w: table can only have %d players", ErrTableFull, cp.PlayerLimit)
		}

		gp := newGamePlayer(player)
		if tp := cp.TablePlayer(player.ID); tp != nil && tp.IsRemoved {
			tp.IsRemoved = false
			gp.ChipCount = tp.ChipCount
			gp.Wins = tp.Wins
		}

		cp.Game.Players = append(cp.Game.Players, gp)
	}

	if cp.TablePlayer(player.ID) == nil {
		cp.Players = append(cp.Players, TablePlayer{ID: player.ID, Name: player.Name})
	}

	cp.UpdatedAt = e.clock.Now()
	e.logger.WithField("table", cp.ID).WithField("player", player.ID).Info("player entered table")
	return cp, nil
}

// NewPlayer builds a player from a "name@id" credential.
// An id that was not issued by NewPlayer is replaced and a blank name gets a random one.
func NewPlayer(pattern string, adminIDs []string) Player {
	parts := strings.Split(strings.TrimSpace(pattern), "@")

	name := strings.TrimSpace(parts[0])
	if name == "" {
		name = util.GetRandomName()
	}

	var id string
	if len(parts) > 1 && strings.HasPrefix(parts[1], "player") {
		id = parts[1]
	} else {
		id = util.GenerateID("player")
	}

	return Player{
		ID:      id,
		Name:    name,
		IsAdmin: funk.ContainsString(adminIDs, id),
	}
}

// Pattern returns the credential that restores the player
func (p Player) Pattern() string {
	return p.Name + "@" + p.ID
}
