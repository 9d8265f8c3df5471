package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/zjrosen/mimic/internal/game"
)

// gameResultRow is the game_results row shape. Times are unix milliseconds.
type gameResultRow struct {
	ID         string
	Difficulty string
	SoundPack  string
	Score      int
	Reason     string
	StartedAt  int64
	EndedAt    int64
}

func toRow(r game.Result) gameResultRow {
	return gameResultRow{
		ID:         r.ID,
		Difficulty: string(r.Difficulty),
		SoundPack:  r.SoundPack,
		Score:      r.Score,
		Reason:     string(r.Reason),
		StartedAt:  r.StartedAt.UnixMilli(),
		EndedAt:    r.EndedAt.UnixMilli(),
	}
}

func (row gameResultRow) toDomain() game.Result {
	return game.Result{
		ID:         row.ID,
		Difficulty: game.Difficulty(row.Difficulty),
		SoundPack:  row.SoundPack,
		Score:      row.Score,
		Reason:     game.Reason(row.Reason),
		StartedAt:  time.UnixMilli(row.StartedAt),
		EndedAt:    time.UnixMilli(row.EndedAt),
	}
}

// GameResultRepository stores finished games.
type GameResultRepository struct {
	db *sql.DB
}

// Save inserts a finished game. Saving the same id twice is an error.
func (r *GameResultRepository) Save(result game.Result) error {
	row := toRow(result)
	_, err := r.db.Exec(
		`INSERT INTO game_results (id, difficulty, sound_pack, score, reason, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		row.ID, row.Difficulty, row.SoundPack, row.Score, row.Reason, row.StartedAt, row.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("saving game result %s: %w", row.ID, err)
	}
	return nil
}

// ListRecent returns up to limit results, most recently finished first.
func (r *GameResultRepository) ListRecent(limit int) ([]game.Result, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.db.Query(
		`SELECT id, difficulty, sound_pack, score, reason, started_at, ended_at
		 FROM game_results
		 ORDER BY ended_at DESC, id
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing game results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []game.Result
	for rows.Next() {
		var row gameResultRow
		if err := rows.Scan(&row.ID, &row.Difficulty, &row.SoundPack, &row.Score, &row.Reason, &row.StartedAt, &row.EndedAt); err != nil {
			return nil, fmt.Errorf("scanning game result: %w", err)
		}
		results = append(results, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating game results: %w", err)
	}
	return results, nil
}

// BestScore returns the highest recorded score per difficulty.
func (r *GameResultRepository) BestScore() (map[game.Difficulty]int, error) {
	rows, err := r.db.Query(`SELECT difficulty, MAX(score) FROM game_results GROUP BY difficulty`)
	if err != nil {
		return nil, fmt.Errorf("querying best scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	best := make(map[game.Difficulty]int)
	for rows.Next() {
		var (
			d     string
			score int
		)
		if err := rows.Scan(&d, &score); err != nil {
			return nil, fmt.Errorf("scanning best score: %w", err)
		}
		best[game.Difficulty(d)] = score
	}
	return best, rows.Err()
}
