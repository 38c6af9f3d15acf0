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
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name already exists")
)

type TournamentRepository interface {
	Create(ctx context.Context, t *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error)
	Update(ctx context.Context, t *models.Tournament) error
	UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) error
	Delete(ctx context.Context, id int) error
	// ListWithStatusNotMatchingDates returns tournaments whose stored status
	// no longer matches what their date range implies as of the given day.
	ListWithStatusNotMatchingDates(ctx context.Context, today time.Time) ([]*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `id, name, location, gender, age_group, format_type, max_time_per_turn,
	max_teams, start_date, end_date, organizer, status, is_active, created_at`

func (r *postgresTournamentRepository) scanTournament(row interface{ Scan(...interface{}) error }) (*models.Tournament, error) {
	var t models.Tournament
	err := row.Scan(
		&t.ID, &t.Name, &t.Location, &t.Gender, &t.AgeGroup, &t.FormatType, &t.MaxTimePerTurn,
		&t.MaxTeams, &t.StartDate, &t.EndDate, &t.Organizer, &t.Status, &t.IsActive, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments
			(name, location, gender, age_group, format_type, max_time_per_turn,
			 max_teams, start_date, end_date, organizer, status, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.Location, t.Gender, t.AgeGroup, t.FormatType, t.MaxTimePerTurn,
		t.MaxTeams, t.StartDate, t.EndDate, t.Organizer, t.Status, t.IsActive,
	).Scan(&t.ID, &t.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" && pqErr.Constraint == "tournaments_name_key" {
			return ErrTournamentNameConflict
		}
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	return r.scanTournament(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY start_date ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t, scanErr := r.scanTournament(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments SET
			name = $1, location = $2, gender = $3, age_group = $4, format_type = $5,
			max_time_per_turn = $6, max_teams = $7, start_date = $8, end_date = $9,
			organizer = $10, status = $11, is_active = $12
		WHERE id = $13`

	result, err := r.db.ExecContext(ctx, query,
		t.Name, t.Location, t.Gender, t.AgeGroup, t.FormatType,
		t.MaxTimePerTurn, t.MaxTeams, t.StartDate, t.EndDate,
		t.Organizer, t.Status, t.IsActive, t.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" && pqErr.Constraint == "tournaments_name_key" {
			return ErrTournamentNameConflict
		}
		return fmt.Errorf("failed to update tournament %d: %w", t.ID, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) error {
	query := `UPDATE tournaments SET status = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament %d status: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM tournaments WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) ListWithStatusNotMatchingDates(ctx context.Context, today time.Time) ([]*models.Tournament, error) {
	query := `
		SELECT ` + tournamentColumns + `
		FROM tournaments
		WHERE is_active = TRUE
		  AND status <> CASE
			WHEN $1::date < start_date THEN 'UPCOMING'
			WHEN $1::date > end_date THEN 'COMPLETED'
			ELSE 'ONGOING'
		  END`

	rows, err := r.db.QueryContext(ctx, query, today)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t, scanErr := r.scanTournament(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}
