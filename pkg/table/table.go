package table

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/sirupsen/logrus"
	"sam-server/pkg/db"
	"sam-server/pkg/playable/sam"
)

const tableColumns = `
tables.data,
tables.update_serial`

// PostgresStore stores tables as JSONB documents
type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore returns a store backed by the connection
func NewPostgresStore(conn *sql.DB) *PostgresStore {
	return &PostgresStore{db: conn}
}

// Create implements Store
func (p *PostgresStore) Create(ctx context.Context, t *sam.Table) error {
	next := *t
	next.UpdateSerial = 1
	data, err := json.Marshal(next)
	if err != nil {
		return err
	}

	const query = `
INSERT INTO tables (id, host_id, name, data, update_serial, created, updated)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := p.db.ExecContext(ctx, query, t.ID, t.HostID, t.Name, data, next.UpdateSerial, t.CreatedAt, t.UpdatedAt); err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateKey
		}

		return err
	}

	t.UpdateSerial = next.UpdateSerial
	return nil
}

// Get implements Store
func (p *PostgresStore) Get(ctx context.Context, id string) (*sam.Table, error) {
	const query = `
SELECT ` + tableColumns + `
FROM tables
WHERE id = $1`

	t, err := tableByRow(p.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	return t, err
}

// List implements Store
func (p *PostgresStore) List(ctx context.Context, start, rows int) ([]*Summary, error) {
	const query = `
SELECT ` + tableColumns + `
FROM tables
ORDER BY created DESC, id
OFFSET $1
LIMIT $2`

	res, err := p.db.QueryContext(ctx, query, start, rows)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	summaries := make([]*Summary, 0, rows)
	for res.Next() {
		t, err := tableByRow(res)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, NewSummary(t))
	}

	return summaries, res.Err()
}

// Count implements Store
func (p *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tables`).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// Save implements Store
func (p *PostgresStore) Save(ctx context.Context, t *sam.Table) error {
	next := *t
	next.UpdateSerial = t.UpdateSerial + 1
	data, err := json.Marshal(next)
	if err != nil {
		return err
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	const query = `
UPDATE tables
SET data          = $1,
    host_id       = $2,
    name          = $3,
    update_serial = $4,
    updated       = $5
WHERE id = $6
  AND update_serial = $7`
	res, err := tx.ExecContext(ctx, query, data, t.HostID, t.Name, next.UpdateSerial, t.UpdatedAt, t.ID, t.UpdateSerial)
	if err != nil {
		rollback(tx)
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		rollback(tx)
		return err
	}

	if n == 0 {
		rollback(tx)
		if _, err := p.Get(ctx, t.ID); err != nil {
			return err
		}

		return ErrConflict
	}

	if rec := endedGame(t); rec != nil {
		if err := archiveGame(ctx, tx, rec); err != nil {
			rollback(tx)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	t.UpdateSerial = next.UpdateSerial
	return nil
}

// Delete implements Store
func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM tables WHERE id = $1`, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return ErrNotFound
	}

	return nil
}

func tableByRow(row db.Scanner) (*sam.Table, error) {
	var data []byte
	var serial int64
	if err := row.Scan(&data, &serial); err != nil {
		return nil, err
	}

	var t sam.Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}

	t.UpdateSerial = serial
	return &t, nil
}

func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil {
		logrus.WithError(err).Error("could not rollback transaction")
	}
}
