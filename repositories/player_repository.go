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
	ErrPlayerNotFound       = errors.New("player not found")
	ErrPlayerJerseyConflict = errors.New("jersey number already taken in this team")
	ErrPlayerTeamInvalid    = errors.New("player team conflict or invalid")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error)
	CountByTeam(ctx context.Context, teamID int, activeOnly bool) (int, error)
	Update(ctx context.Context, player *models.Player) error
	Delete(ctx context.Context, id int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerColumns = `id, team_id, first_name, last_name, jersey_number, role, date_of_birth, is_active, created_at`

func (r *postgresPlayerRepository) scanPlayer(row interface{ Scan(...interface{}) error }) (*models.Player, error) {
	var p models.Player
	err := row.Scan(
		&p.ID, &p.TeamID, &p.FirstName, &p.LastName, &p.JerseyNumber,
		&p.Role, &p.DateOfBirth, &p.IsActive, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresPlayerRepository) handlePlayerError(err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "players_team_id_jersey_number_key" {
				return ErrPlayerJerseyConflict
			}
		case "23503":
			if pqErr.Constraint == "players_team_id_fkey" {
				return ErrPlayerTeamInvalid
			}
		}
	}
	return err
}

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (team_id, first_name, last_name, jersey_number, role, date_of_birth, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		player.TeamID, player.FirstName, player.LastName, player.JerseyNumber,
		player.Role, player.DateOfBirth, player.IsActive,
	).Scan(&player.ID, &player.CreatedAt)

	if err != nil {
		if mapped := r.handlePlayerError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	return r.scanPlayer(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresPlayerRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE team_id = $1 ORDER BY jersey_number ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query players for team %d: %w", teamID, err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		p, scanErr := r.scanPlayer(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		players = append(players, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *postgresPlayerRepository) CountByTeam(ctx context.Context, teamID int, activeOnly bool) (int, error) {
	query := `SELECT COUNT(*) FROM players WHERE team_id = $1`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	var count int
	if err := r.db.QueryRowContext(ctx, query, teamID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count players for team %d: %w", teamID, err)
	}
	return count, nil
}

func (r *postgresPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players SET
			first_name = $1, last_name = $2, jersey_number = $3, role = $4,
			date_of_birth = $5, is_active = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		player.FirstName, player.LastName, player.JerseyNumber, player.Role,
		player.DateOfBirth, player.IsActive, player.ID,
	)
	if err != nil {
		if mapped := r.handlePlayerError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to update player %d: %w", player.ID, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
