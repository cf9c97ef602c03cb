package sam

import (
	"time"

	"github.com/thoas/go-funk"
	"sam-server/pkg/deck"
)

// Phase is the state of a game
type Phase string

// phases of a game
const (
	PhaseWaiting      Phase = "waiting"
	PhaseHandChecking Phase = "handChecking"
	PhasePlaying      Phase = "playing"
	PhaseEnded        Phase = "ended"
)

// LastAction is the most recent thing a player did in a game
type LastAction string

// last actions, LastActionNone means the player hasn't acted yet
const (
	LastActionNone  LastAction = ""
	LastActionAsk   LastAction = "ask"
	LastActionTiger LastAction = "tiger"
	LastActionPlay  LastAction = "play"
	LastActionPass  LastAction = "pass"
)

// Player is a stable identity
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin,omitempty"`
}

// GamePlayer is a player inside of a single game
type GamePlayer struct {
	Player
	IsReady         bool       `json:"isReady"`
	Cards           deck.Hand  `json:"cards"`
	SelectedCards   deck.Hand  `json:"selectedCards"`
	ChipCount       int        `json:"chipCount"`
	Wins            int        `json:"wins"`
	LastPlayedRound int        `json:"lastPlayedRound"`
	LastAction      LastAction `json:"lastAction"`
	StarOfHope      bool       `json:"starOfHope"`
	PaidVillage     bool       `json:"paidVillage"`
}

func newGamePlayer(player Player) GamePlayer {
	return GamePlayer{
		Player:          player,
		Cards:           deck.Hand{},
		SelectedCards:   deck.Hand{},
		LastPlayedRound: -1,
	}
}

func (gp GamePlayer) clone() GamePlayer {
	gp.Cards = gp.Cards.Clone()
	gp.SelectedCards = gp.SelectedCards.Clone()
	return gp
}

// PlayHistory is a single play
type PlayHistory struct {
	PlayerID string    `json:"playerId"`
	Cards    deck.Hand `json:"cards"`
	Round    int       `json:"round"`
}

// Game is one deal at a table
type Game struct {
	ID              string        `json:"id"`
	State           Phase         `json:"state"`
	Round           int           `json:"round"`
	Players         []GamePlayer  `json:"players"`
	CurrentPlayerID string        `json:"currentPlayerId"`
	StartPlayerID   string        `json:"startPlayerId"`
	LastPlayedCards deck.Hand     `json:"lastPlayedCards"`
	PlayHistory     []PlayHistory `json:"playHistory"`
	WinnerID        string        `json:"winnerId"`
	StartedAt       time.Time     `json:"startedAt"`
	TurnStartTs     time.Time     `json:"turnStartTs"`
	TurnEndTs       time.Time     `json:"turnEndTs"`
	// TurnTimeout is in seconds, 0 means turns never expire
	TurnTimeout int `json:"turnTimeout"`
}

// Clone returns a deep copy of the game
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}

	cp := *g
	cp.Players = make([]GamePlayer, len(g.Players))
	for i, gp := range g.Players {
		cp.Players[i] = gp.clone()
	}

	cp.LastPlayedCards = g.LastPlayedCards.Clone()
	cp.PlayHistory = make([]PlayHistory, len(g.PlayHistory))
	for i, ph := range g.PlayHistory {
		cp.PlayHistory[i] = PlayHistory{
			PlayerID: ph.PlayerID,
			Cards:    ph.Cards.Clone(),
			Round:    ph.Round,
		}
	}

	return &cp
}

// InProgress returns true while cards are in the players' hands
func (g *Game) InProgress() bool {
	return g.State == PhaseHandChecking || g.State == PhasePlaying
}

// Player returns the game player with the ID, or nil
// The pointer refers into the game, changes are visible to the game.
func (g *Game) Player(id string) *GamePlayer {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return &g.Players[i]
		}
	}

	return nil
}

// ReadyPlayers returns the players taking part in the deal, in seat order
func (g *Game) ReadyPlayers() []GamePlayer {
	return funk.Filter(g.Players, func(gp GamePlayer) bool {
		return gp.IsReady
	}).([]GamePlayer)
}

func (g *Game) readyPlayer(id string) *GamePlayer {
	gp := g.Player(id)
	if gp == nil || !gp.IsReady {
		return nil
	}

	return gp
}

func (g *Game) tigers() []GamePlayer {
	return funk.Filter(g.Players, func(gp GamePlayer) bool {
		return gp.LastAction == LastActionTiger
	}).([]GamePlayer)
}

func (g *Game) lastPlay() *PlayHistory {
	if len(g.PlayHistory) == 0 {
		return nil
	}

	return &g.PlayHistory[len(g.PlayHistory)-1]
}

// TablePlayer is a roster entry that outlives games
type TablePlayer struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ChipCount int    `json:"chipCount"`
	Wins      int    `json:"wins"`
	IsRemoved bool   `json:"isRemoved,omitempty"`
}

// Table is a table with a roster and a live game
type Table struct {
	ID       string `json:"id"`
	HostID   string `json:"hostId"`
	Name     string `json:"name"`
	Password string `json:"password,omitempty"`
	// BO is the best-of length, any value <= 0 plays for chips
	BO          int           `json:"bo"`
	PlayerLimit int           `json:"playerLimit"`
	TurnTimeout int           `json:"turnTimeout"`
	Game        *Game         `json:"game"`
	LastGame    *Game         `json:"lastGame"`
	Players     []TablePlayer `json:"players"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	// UpdateSerial increases with every stored change
	UpdateSerial int64 `json:"updateSerial"`
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}

	cp := *t
	cp.Game = t.Game.Clone()
	cp.LastGame = t.LastGame.Clone()
	cp.Players = make([]TablePlayer, len(t.Players))
	copy(cp.Players, t.Players)

	return &cp
}

// IsBestOf returns true if the table counts wins instead of chips
func (t *Table) IsBestOf() bool {
	return t.BO > 0
}

// WinsNeeded is the number of wins that ends a best-of match
func (t *Table) WinsNeeded() int {
	return (t.BO + 1) / 2
}

// TablePlayer returns the roster entry or nil
func (t *Table) TablePlayer(id string) *TablePlayer {
	for i := range t.Players {
		if t.Players[i].ID == id {
			return &t.Players[i]
		}
	}

	return nil
}

// ForViewer returns a copy of the table that is safe to send to a player.
// The password is only kept for the host and other players' hands are face down while a game is running.
func (t *Table) ForViewer(playerID string) *Table {
	cp := t.Clone()
	if cp.HostID != playerID {
		cp.Password = ""
	}

	if cp.Game != nil && cp.Game.InProgress() {
		for i, gp := range cp.Game.Players {
			if gp.ID == playerID {
				continue
			}

			hidden := make(deck.Hand, len(gp.Cards))
			for j := range hidden {
				hidden[j] = deck.Card{Folded: true}
			}

			cp.Game.Players[i].Cards = hidden
			cp.Game.Players[i].SelectedCards = deck.Hand{}
		}
	}

	return cp
}

// syncRoster copies chips and wins from the game onto the roster.
// Roster entries without a game player are flagged removed.
func (t *Table) syncRoster() {
	for i, tp := range t.Players {
		gp := t.Game.Player(tp.ID)
		if gp == nil {
			t.Players[i].IsRemoved = true
			continue
		}

		t.Players[i].ChipCount = gp.ChipCount
		t.Players[i].Wins = gp.Wins
		t.Players[i].IsRemoved = false
	}
}

func playerIDs(players []GamePlayer) []string {
	return funk.Map(players, func(gp GamePlayer) string {
		return gp.ID
	}).([]string)
}

// rotate returns the players starting at the seat of id.
// If id is not found the order is unchanged.
func rotate(players []GamePlayer, id string) []GamePlayer {
	idx := 0
	for i, gp := range players {
		if gp.ID == id {
			idx = i
			break
		}
	}

	rotated := make([]GamePlayer, 0, len(players))
	rotated = append(rotated, players[idx:]...)
	return append(rotated, players[:idx]...)
}
