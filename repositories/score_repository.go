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
	ErrScoreEventNotFound    = errors.New("score event not found")
	ErrScoreEventTeamInvalid = errors.New("score event team conflict or invalid")
)

// ScoreEventDetail enriches an event with the display names the
// scoreboard needs, so one query serves the whole projection.
type ScoreEventDetail struct {
	Event      models.ScoreEvent
	TeamName   string
	PlayerName *string
}

type ScoreRepository interface {
	CreateEvent(ctx context.Context, exec SQLExecutor, event *models.ScoreEvent) error
	CreateAuditLog(ctx context.Context, exec SQLExecutor, log *models.ScoreAuditLog) error
	// ListEventsByMatch returns all events for the match ordered newest
	// first, with attacking team and player names resolved.
	ListEventsByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*ScoreEventDetail, error)
	ListAuditLogsByMatch(ctx context.Context, matchID int) ([]*models.ScoreAuditLog, error)
}

type postgresScoreRepository struct {
	db *sql.DB
}

func NewPostgresScoreRepository(db *sql.DB) ScoreRepository {
	return &postgresScoreRepository{db: db}
}

func (r *postgresScoreRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresScoreRepository) CreateEvent(ctx context.Context, exec SQLExecutor, event *models.ScoreEvent) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO score_events (match_id, attacking_team_id, defending_team_id, player_id, event_type, points)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, timestamp`

	err := executor.QueryRowContext(ctx, query,
		event.MatchID, event.AttackingTeamID, event.DefendingTeamID,
		event.PlayerID, event.EventType, event.Points,
	).Scan(&event.ID, &event.Timestamp)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "score_events_attacking_team_id_fkey", "score_events_defending_team_id_fkey":
				return ErrScoreEventTeamInvalid
			}
		}
		return fmt.Errorf("failed to create score event: %w", err)
	}
	return nil
}

func (r *postgresScoreRepository) CreateAuditLog(ctx context.Context, exec SQLExecutor, log *models.ScoreAuditLog) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO score_audit_logs (match_id, user_id, points)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query, log.MatchID, log.UserID, log.Points).
		Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create score audit log: %w", err)
	}
	return nil
}

func (r *postgresScoreRepository) ListEventsByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*ScoreEventDetail, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT se.id, se.match_id, se.attacking_team_id, se.defending_team_id, se.player_id,
		       se.event_type, se.points, se.timestamp,
		       t.name,
		       CASE WHEN p.id IS NULL THEN NULL ELSE p.first_name || ' ' || p.last_name END
		FROM score_events se
		JOIN teams t ON t.id = se.attacking_team_id
		LEFT JOIN players p ON p.id = se.player_id
		WHERE se.match_id = $1
		ORDER BY se.timestamp DESC, se.id DESC`

	rows, err := executor.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query score events for match %d: %w", matchID, err)
	}
	defer rows.Close()

	events := make([]*ScoreEventDetail, 0)
	for rows.Next() {
		var d ScoreEventDetail
		if scanErr := rows.Scan(
			&d.Event.ID, &d.Event.MatchID, &d.Event.AttackingTeamID, &d.Event.DefendingTeamID,
			&d.Event.PlayerID, &d.Event.EventType, &d.Event.Points, &d.Event.Timestamp,
			&d.TeamName, &d.PlayerName,
		); scanErr != nil {
			return nil, scanErr
		}
		events = append(events, &d)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *postgresScoreRepository) ListAuditLogsByMatch(ctx context.Context, matchID int) ([]*models.ScoreAuditLog, error) {
	query := `SELECT id, match_id, user_id, points, created_at
		FROM score_audit_logs WHERE match_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs for match %d: %w", matchID, err)
	}
	defer rows.Close()

	logs := make([]*models.ScoreAuditLog, 0)
	for rows.Next() {
		var l models.ScoreAuditLog
		if scanErr := rows.Scan(&l.ID, &l.MatchID, &l.UserID, &l.Points, &l.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		logs = append(logs, &l)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}
