package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sportarena/khokho-backend/models"
)

var (
	ErrMatchPlayerNotFound        = errors.New("match player not found")
	ErrMatchPlayerAlreadyAssigned = errors.New("player already assigned to this match")
)

type MatchPlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, mp *models.MatchPlayer) error
	ListByMatch(ctx context.Context, matchID int) ([]*models.MatchPlayer, error)
	// CountPlayingByTeam counts PLAYING assignments for one side of a match.
	CountPlayingByTeam(ctx context.Context, exec SQLExecutor, matchID, teamID int) (int, error)
	// IsPlaying reports whether the player has PLAYING status in the match.
	IsPlaying(ctx context.Context, exec SQLExecutor, matchID, playerID int) (bool, error)
	Delete(ctx context.Context, id int) error
}

type postgresMatchPlayerRepository struct {
	db *sql.DB
}

func NewPostgresMatchPlayerRepository(db *sql.DB) MatchPlayerRepository {
	return &postgresMatchPlayerRepository{db: db}
}

func (r *postgresMatchPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchPlayerRepository) Create(ctx context.Context, exec SQLExecutor, mp *models.MatchPlayer) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO match_players (match_id, player_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query, mp.MatchID, mp.PlayerID, mp.Status).
		Scan(&mp.ID, &mp.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" &&
			pqErr.Constraint == "match_players_match_id_player_id_key" {
			return ErrMatchPlayerAlreadyAssigned
		}
		return fmt.Errorf("failed to create match player: %w", err)
	}
	return nil
}

func (r *postgresMatchPlayerRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.MatchPlayer, error) {
	query := `SELECT id, match_id, player_id, status, created_at FROM match_players WHERE match_id = $1 ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query match players for match %d: %w", matchID, err)
	}
	defer rows.Close()

	matchPlayers := make([]*models.MatchPlayer, 0)
	for rows.Next() {
		var mp models.MatchPlayer
		if scanErr := rows.Scan(&mp.ID, &mp.MatchID, &mp.PlayerID, &mp.Status, &mp.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		matchPlayers = append(matchPlayers, &mp)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matchPlayers, nil
}

func (r *postgresMatchPlayerRepository) CountPlayingByTeam(ctx context.Context, exec SQLExecutor, matchID, teamID int) (int, error) {
	executor := r.getExecutor(exec)
	var count int
	err := executor.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM match_players mp
		JOIN players p ON p.id = mp.player_id
		WHERE mp.match_id = $1 AND p.team_id = $2 AND mp.status = $3`,
		matchID, teamID, models.MatchPlayerPlaying,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count playing members for match %d team %d: %w", matchID, teamID, err)
	}
	return count, nil
}

func (r *postgresMatchPlayerRepository) IsPlaying(ctx context.Context, exec SQLExecutor, matchID, playerID int) (bool, error) {
	executor := r.getExecutor(exec)
	var exists bool
	err := executor.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM match_players WHERE match_id = $1 AND player_id = $2 AND status = $3)`,
		matchID, playerID, models.MatchPlayerPlaying,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check playing status: %w", err)
	}
	return exists, nil
}

func (r *postgresMatchPlayerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM match_players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchPlayerNotFound)
}
