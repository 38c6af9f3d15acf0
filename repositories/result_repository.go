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
	ErrResultNotFound      = errors.New("match result not found")
	ErrResultAlreadyExists = errors.New("result already declared for this match")
)

type ResultRepository interface {
	Create(ctx context.Context, exec SQLExecutor, result *models.MatchResult) error
	GetByMatch(ctx context.Context, exec SQLExecutor, matchID int) (*models.MatchResult, error)
	ExistsByMatch(ctx context.Context, exec SQLExecutor, matchID int) (bool, error)
	// ListByTeam returns every result where the team played either side,
	// joined with the match so callers can attribute scores.
	ListByTeam(ctx context.Context, exec SQLExecutor, teamID int) ([]*TeamResult, error)
}

// TeamResult pairs a result with the sides of its match.
type TeamResult struct {
	Result  models.MatchResult
	TeamAID int
	TeamBID int
}

type postgresResultRepository struct {
	db *sql.DB
}

func NewPostgresResultRepository(db *sql.DB) ResultRepository {
	return &postgresResultRepository{db: db}
}

func (r *postgresResultRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresResultRepository) Create(ctx context.Context, exec SQLExecutor, result *models.MatchResult) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO match_results (match_id, team_a_score, team_b_score, winner_id, is_draw)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		result.MatchID, result.TeamAScore, result.TeamBScore, result.WinnerID, result.IsDraw,
	).Scan(&result.ID, &result.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" &&
			pqErr.Constraint == "match_results_match_id_key" {
			return ErrResultAlreadyExists
		}
		return fmt.Errorf("failed to create match result: %w", err)
	}
	return nil
}

func (r *postgresResultRepository) GetByMatch(ctx context.Context, exec SQLExecutor, matchID int) (*models.MatchResult, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, match_id, team_a_score, team_b_score, winner_id, is_draw, created_at
		FROM match_results WHERE match_id = $1`

	var res models.MatchResult
	err := executor.QueryRowContext(ctx, query, matchID).Scan(
		&res.ID, &res.MatchID, &res.TeamAScore, &res.TeamBScore, &res.WinnerID, &res.IsDraw, &res.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to scan result for match %d: %w", matchID, err)
	}
	return &res, nil
}

func (r *postgresResultRepository) ExistsByMatch(ctx context.Context, exec SQLExecutor, matchID int) (bool, error) {
	executor := r.getExecutor(exec)
	var exists bool
	err := executor.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM match_results WHERE match_id = $1)`, matchID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check result for match %d: %w", matchID, err)
	}
	return exists, nil
}

func (r *postgresResultRepository) ListByTeam(ctx context.Context, exec SQLExecutor, teamID int) ([]*TeamResult, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT mr.id, mr.match_id, mr.team_a_score, mr.team_b_score, mr.winner_id, mr.is_draw, mr.created_at,
		       m.team_a_id, m.team_b_id
		FROM match_results mr
		JOIN matches m ON m.id = mr.match_id
		WHERE m.team_a_id = $1 OR m.team_b_id = $1
		ORDER BY mr.id ASC`

	rows, err := executor.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results for team %d: %w", teamID, err)
	}
	defer rows.Close()

	results := make([]*TeamResult, 0)
	for rows.Next() {
		var tr TeamResult
		if scanErr := rows.Scan(
			&tr.Result.ID, &tr.Result.MatchID, &tr.Result.TeamAScore, &tr.Result.TeamBScore,
			&tr.Result.WinnerID, &tr.Result.IsDraw, &tr.Result.CreatedAt,
			&tr.TeamAID, &tr.TeamBID,
		); scanErr != nil {
			return nil, scanErr
		}
		results = append(results, &tr)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
