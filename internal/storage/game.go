package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// RecordGame queues the insert of a new game row.
func (s *Store) RecordGame(record GameRecord) {
	s.enqueue("game", func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO games (game_id, name, time_control, started_at) VALUES (?, ?, ?, ?)`,
			record.GameID, record.Name, record.TimeControl, record.StartedAt.UTC(),
		)
		return err
	})
}

// RecordPly queues one completed ply.
func (s *Store) RecordPly(record PlyRecord) {
	s.enqueue("ply", func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO plies (
			game_id, ply_number, color, notation, position_key, played_at
		) VALUES (?, ?, ?, ?, ?, ?)`,
			record.GameID, record.PlyNumber, record.Color,
			record.Notation, record.PositionKey, record.PlayedAt.UTC(),
		)
		return err
	})
}

// RecordFinish queues the result of a game.
func (s *Store) RecordFinish(gameID, winner, reason string, at time.Time) {
	s.enqueue("finish", func(tx *sql.Tx) error {
		_, err := tx.Exec(`UPDATE games SET finished_at = ?, winner = ?, reason = ? WHERE game_id = ?`,
			at.UTC(), winner, reason, gameID,
		)
		return err
	})
}

// RestartGame queues wiping a game's plies and result after it is reset in
// place.
func (s *Store) RestartGame(gameID string, at time.Time) {
	s.enqueue("restart", func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM plies WHERE game_id = ?`, gameID); err != nil {
			return err
		}
		_, err := tx.Exec(`UPDATE games SET started_at = ?, finished_at = NULL, winner = '', reason = '' WHERE game_id = ?`,
			at.UTC(), gameID,
		)
		return err
	})
}

// QueryGames lists games newest first. An empty or "*" id matches every game.
func (s *Store) QueryGames(gameID string) ([]GameRecord, error) {
	query := `SELECT game_id, name, time_control, started_at, finished_at, winner, reason
	FROM games WHERE 1=1`

	var args []interface{}
	if gameID != "" && gameID != "*" {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}
	query += " ORDER BY started_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	games := []GameRecord{}
	for rows.Next() {
		var (
			g        GameRecord
			finished sql.NullTime
		)
		if err := rows.Scan(&g.GameID, &g.Name, &g.TimeControl, &g.StartedAt, &finished, &g.Winner, &g.Reason); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		if finished.Valid {
			at := finished.Time
			g.FinishedAt = &at
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return games, nil
}

// GamePlies returns the archived plies of a game in order.
func (s *Store) GamePlies(gameID string) ([]PlyRecord, error) {
	rows, err := s.db.Query(`SELECT game_id, ply_number, color, notation, position_key, played_at
	FROM plies WHERE game_id = ? ORDER BY ply_number`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	plies := []PlyRecord{}
	for rows.Next() {
		var p PlyRecord
		if err := rows.Scan(&p.GameID, &p.PlyNumber, &p.Color, &p.Notation, &p.PositionKey, &p.PlayedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		plies = append(plies, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return plies, nil
}
