package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/reversi-backend/internal/entity"
)

var ErrArchivedGameNotFound = errors.New("archived game not found")

// ArchivedGame is one row of the finished-game archive.
type ArchivedGame struct {
	ID         string
	GameType   string
	Difficulty string
	Winner     string
	BlackCount int
	WhiteCount int
	FinishedAt time.Time
}

type ArchiveRepository interface {
	Save(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*ArchivedGame, error)
}

type dbArchive struct {
	conn *sql.DB
}

func NewArchiveRepository(conn *sql.DB) ArchiveRepository {
	return &dbArchive{
		conn: conn,
	}
}

func (that *dbArchive) Save(ctx context.Context, game *entity.Game) error {
	query := `INSERT OR REPLACE INTO finished_games
		(id, game_type, difficulty, winner, black_count, white_count, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		game.ID,
		game.Type,
		game.Difficulty,
		game.State.Winner,
		game.State.BlackCount,
		game.State.WhiteCount,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to archive game: %w", err)
	}

	return nil
}

func (that *dbArchive) GetByID(ctx context.Context, id string) (*ArchivedGame, error) {
	query := `SELECT id, game_type, difficulty, winner, black_count, white_count, finished_at
		FROM finished_games WHERE id = ?`

	var archived ArchivedGame
	err := that.conn.QueryRowContext(ctx, query, id).Scan(
		&archived.ID,
		&archived.GameType,
		&archived.Difficulty,
		&archived.Winner,
		&archived.BlackCount,
		&archived.WhiteCount,
		&archived.FinishedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArchivedGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read archived game: %w", err)
	}

	return &archived, nil
}
