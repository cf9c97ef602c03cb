package table

import (
	"context"
	"time"

	"sam-server/pkg/playable/sam"
)

// Store persists tables
type Store interface {
	// Create stores a new table and sets its update serial to 1
	Create(ctx context.Context, t *sam.Table) error

	// Get returns the table or ErrNotFound
	Get(ctx context.Context, id string) (*sam.Table, error)

	// List returns summaries of the newest tables first
	List(ctx context.Context, start, rows int) ([]*Summary, error)

	// Count returns how many tables are stored
	Count(ctx context.Context) (int, error)

	// Save stores the table if nobody saved it since it was read.
	// The table's update serial must match the stored one, it is incremented on success.
	// An ended game is archived in the same write.
	Save(ctx context.Context, t *sam.Table) error

	// Delete removes the table and its game archive
	Delete(ctx context.Context, id string) error

	// Games returns the archived games of a table, newest first
	Games(ctx context.Context, tableID string, start, rows int) ([]*GameRecord, error)
}

// Summary is what the lobby shows about a table
type Summary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	HostID      string    `json:"hostId"`
	BO          int       `json:"bo"`
	PlayerLimit int       `json:"playerLimit"`
	TurnTimeout int       `json:"turnTimeout"`
	Players     int       `json:"players"`
	HasPassword bool      `json:"hasPassword"`
	State       sam.Phase `json:"state"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewSummary summarizes the table
func NewSummary(t *sam.Table) *Summary {
	s := &Summary{
		ID:          t.ID,
		Name:        t.Name,
		HostID:      t.HostID,
		BO:          t.BO,
		PlayerLimit: t.PlayerLimit,
		TurnTimeout: t.TurnTimeout,
		HasPassword: t.Password != "",
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}

	if t.Game != nil {
		s.Players = len(t.Game.Players)
		s.State = t.Game.State
	}

	return s
}

// GameRecord is an ended game
type GameRecord struct {
	ID       string    `json:"id"`
	TableID  string    `json:"tableId"`
	WinnerID string    `json:"winnerId"`
	Game     *sam.Game `json:"game"`
	Ended    time.Time `json:"ended"`
}

// endedGame returns a record for the table's game if it has ended
func endedGame(t *sam.Table) *GameRecord {
	g := t.Game
	if g == nil || g.State != sam.PhaseEnded || g.WinnerID == "" {
		return nil
	}

	return &GameRecord{
		ID:       g.ID,
		TableID:  t.ID,
		WinnerID: g.WinnerID,
		Game:     g.Clone(),
		Ended:    t.UpdatedAt,
	}
}

func page(n, start, rows int) (int, int) {
	if start < 0 {
		start = 0
	}

	if start > n {
		start = n
	}

	end := n
	if rows > 0 && start+rows < n {
		end = start + rows
	}

	return start, end
}
