package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sportarena/khokho-backend/models"
)

var (
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchNumberConflict = errors.New("match number already taken in this tournament")
	ErrMatchTeamInvalid    = errors.New("match team conflict or invalid")
	ErrMatchScheduleClash  = errors.New("these teams already have a match at this time")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	// GetByIDForUpdate locks the match row for the duration of the
	// surrounding transaction so status checks and the subsequent write
	// are one atomic unit.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error)
	ListByTeam(ctx context.Context, exec SQLExecutor, teamID int) ([]*models.Match, error)
	NextMatchNumber(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	ExistsByTournament(ctx context.Context, tournamentID int) (bool, error)
	ExistsForTeamsAt(ctx context.Context, exec SQLExecutor, teamAID, teamBID int, at time.Time) (bool, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus, startedAt, endedAt *time.Time) error
	Delete(ctx context.Context, id int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, tournament_id, team_a_id, team_b_id, match_number, round_number,
	match_date, venue, court_no, toss_winner_id, status, started_at, ended_at, created_at`

func (r *postgresMatchRepository) scanMatch(row interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	err := row.Scan(
		&m.ID, &m.TournamentID, &m.TeamAID, &m.TeamBID, &m.MatchNumber, &m.RoundNumber,
		&m.MatchDate, &m.Venue, &m.CourtNo, &m.TossWinnerID, &m.Status,
		&m.StartedAt, &m.EndedAt, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "matches_tournament_id_match_number_key" {
				return ErrMatchNumberConflict
			}
		case "23503":
			switch pqErr.Constraint {
			case "matches_team_a_id_fkey", "matches_team_b_id_fkey", "matches_toss_winner_id_fkey":
				return ErrMatchTeamInvalid
			}
		}
	}
	return err
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches
			(tournament_id, team_a_id, team_b_id, match_number, round_number,
			 match_date, venue, court_no, toss_winner_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		match.TournamentID, match.TeamAID, match.TeamBID, match.MatchNumber, match.RoundNumber,
		match.MatchDate, match.Venue, match.CourtNo, match.TossWinnerID, match.Status,
	).Scan(&match.ID, &match.CreatedAt)

	if err != nil {
		if mapped := r.handleMatchError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return r.scanMatch(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1 FOR UPDATE`
	return r.scanMatch(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`
	args := []interface{}{tournamentID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY match_number ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := r.scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) ListByTeam(ctx context.Context, exec SQLExecutor, teamID int) ([]*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchColumns + ` FROM matches WHERE team_a_id = $1 OR team_b_id = $1 ORDER BY match_number ASC`

	rows, err := executor.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for team %d: %w", teamID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := r.scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) NextMatchNumber(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	executor := r.getExecutor(exec)
	var next int
	err := executor.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(match_number), 0) + 1 FROM matches WHERE tournament_id = $1`,
		tournamentID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to compute next match number for tournament %d: %w", tournamentID, err)
	}
	return next, nil
}

func (r *postgresMatchRepository) ExistsByTournament(ctx context.Context, tournamentID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM matches WHERE tournament_id = $1)`, tournamentID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check matches for tournament %d: %w", tournamentID, err)
	}
	return exists, nil
}

func (r *postgresMatchRepository) ExistsForTeamsAt(ctx context.Context, exec SQLExecutor, teamAID, teamBID int, at time.Time) (bool, error) {
	executor := r.getExecutor(exec)
	var exists bool
	err := executor.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM matches
			WHERE match_date = $3
			  AND ((team_a_id = $1 AND team_b_id = $2) OR (team_a_id = $2 AND team_b_id = $1))
		)`, teamAID, teamBID, at,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check schedule clash: %w", err)
	}
	return exists, nil
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus, startedAt, endedAt *time.Time) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches SET
			status = $1,
			started_at = COALESCE($2, started_at),
			ended_at = COALESCE($3, ended_at)
		WHERE id = $4`

	result, err := executor.ExecContext(ctx, query, status, startedAt, endedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update match %d status: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}
