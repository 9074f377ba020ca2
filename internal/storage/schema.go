package storage

import "time"

// GameRecord is a row of the games table. Winner and Reason stay empty until
// the game ends.
type GameRecord struct {
	GameID      string     `json:"gameId"`
	Name        string     `json:"name"`
	TimeControl string     `json:"timeControl"`
	StartedAt   time.Time  `json:"startedAt"`
	FinishedAt  *time.Time `json:"finishedAt,omitempty"`
	Winner      string     `json:"winner"`
	Reason      string     `json:"reason"`
}

// PlyRecord is one completed ply. PositionKey is the key after the ply.
type PlyRecord struct {
	GameID      string    `json:"gameId"`
	PlyNumber   int       `json:"ply"`
	Color       string    `json:"color"`
	Notation    string    `json:"notation"`
	PositionKey string    `json:"positionKey"`
	PlayedAt    time.Time `json:"playedAt"`
}

const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	time_control TEXT NOT NULL DEFAULT '',
	started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	finished_at DATETIME,
	winner TEXT NOT NULL DEFAULT '',
	reason TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS plies (
	ply_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	ply_number INTEGER NOT NULL,
	color TEXT NOT NULL CHECK(color IN ('white', 'black')),
	notation TEXT NOT NULL,
	position_key TEXT NOT NULL,
	played_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, ply_number)
);

CREATE INDEX IF NOT EXISTS idx_plies_game_id ON plies(game_id);
CREATE INDEX IF NOT EXISTS idx_games_started_at ON games(started_at);
`
