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
	ErrTeamNotFound          = errors.New("team not found")
	ErrTeamNameConflict      = errors.New("team name already exists in this tournament")
	ErrTeamShortNameConflict = errors.New("team short name already exists in this tournament")
	ErrTeamTournamentInvalid = errors.New("team tournament conflict or invalid")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Team, error)
	CountByTournament(ctx context.Context, tournamentID int) (int, error)
	Update(ctx context.Context, team *models.Team) error
	UpdateStats(ctx context.Context, exec SQLExecutor, teamID int, stats models.TeamStats) error
	UpdateLogoKey(ctx context.Context, teamID int, logoKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const teamColumns = `id, tournament_id, name, short_name, color, state, city, gender, age_group,
	played, won, lost, drawn, points, logo_key, created_at`

func (r *postgresTeamRepository) scanTeam(row interface{ Scan(...interface{}) error }) (*models.Team, error) {
	var t models.Team
	err := row.Scan(
		&t.ID, &t.TournamentID, &t.Name, &t.ShortName, &t.Color, &t.State, &t.City,
		&t.Gender, &t.AgeGroup,
		&t.Stats.Played, &t.Stats.Won, &t.Stats.Lost, &t.Stats.Drawn, &t.Stats.Points,
		&t.LogoKey, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			switch pqErr.Constraint {
			case "teams_tournament_id_name_key":
				return ErrTeamNameConflict
			case "teams_tournament_id_short_name_key":
				return ErrTeamShortNameConflict
			}
		case "23503":
			if pqErr.Constraint == "teams_tournament_id_fkey" {
				return ErrTeamTournamentInvalid
			}
		}
	}
	return err
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (tournament_id, name, short_name, color, state, city, gender, age_group)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		team.TournamentID, team.Name, team.ShortName, team.Color,
		team.State, team.City, team.Gender, team.AgeGroup,
	).Scan(&team.ID, &team.CreatedAt)

	if err != nil {
		if mapped := r.handleTeamError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return r.scanTeam(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE tournament_id = $1 ORDER BY name ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		t, scanErr := r.scanTeam(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) CountByTournament(ctx context.Context, tournamentID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM teams WHERE tournament_id = $1`, tournamentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count teams for tournament %d: %w", tournamentID, err)
	}
	return count, nil
}

func (r *postgresTeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams SET
			name = $1, short_name = $2, color = $3, state = $4, city = $5, gender = $6, age_group = $7
		WHERE id = $8`

	result, err := r.db.ExecContext(ctx, query,
		team.Name, team.ShortName, team.Color, team.State, team.City,
		team.Gender, team.AgeGroup, team.ID,
	)
	if err != nil {
		if mapped := r.handleTeamError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to update team %d: %w", team.ID, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateStats(ctx context.Context, exec SQLExecutor, teamID int, stats models.TeamStats) error {
	executor := r.getExecutor(exec)
	query := `UPDATE teams SET played = $1, won = $2, lost = $3, drawn = $4, points = $5 WHERE id = $6`
	result, err := executor.ExecContext(ctx, query,
		stats.Played, stats.Won, stats.Lost, stats.Drawn, stats.Points, teamID,
	)
	if err != nil {
		return fmt.Errorf("failed to update stats for team %d: %w", teamID, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, teamID int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET logo_key = $1 WHERE id = $2`, logoKey, teamID)
	if err != nil {
		return fmt.Errorf("failed to update logo for team %d: %w", teamID, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
