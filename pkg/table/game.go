package table

import (
	"context"
	"database/sql"
	"encoding/json"
)

const gamesColumns = `id, table_id, winner_id, data, ended`

// archiveGame records an ended game, a game is only archived once
func archiveGame(ctx context.Context, tx *sql.Tx, rec *GameRecord) error {
	data, err := json.Marshal(rec.Game)
	if err != nil {
		return err
	}

	const query = `
INSERT INTO games (` + gamesColumns + `)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO NOTHING`
	_, err = tx.ExecContext(ctx, query, rec.ID, rec.TableID, rec.WinnerID, data, rec.Ended)
	return err
}

// Games implements Store
func (p *PostgresStore) Games(ctx context.Context, tableID string, start, rows int) ([]*GameRecord, error) {
	const query = `
SELECT ` + gamesColumns + `
FROM games
WHERE table_id = $1
ORDER BY ended DESC, id
OFFSET $2
LIMIT $3`

	res, err := p.db.QueryContext(ctx, query, tableID, start, rows)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	records := make([]*GameRecord, 0, rows)
	for res.Next() {
		var rec GameRecord
		var data []byte
		if err := res.Scan(&rec.ID, &rec.TableID, &rec.WinnerID, &data, &rec.Ended); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(data, &rec.Game); err != nil {
			return nil, err
		}

		records = append(records, &rec)
	}

	return records, res.Err()
}
