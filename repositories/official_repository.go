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
	ErrOfficialNotFound        = errors.New("match official not found")
	ErrOfficialAlreadyAssigned = errors.New("official already assigned to this match")
	ErrStaffAlreadyAssigned    = errors.New("staff member already assigned to this match")
)

type OfficialRepository interface {
	Create(ctx context.Context, exec SQLExecutor, official *models.MatchOfficial) error
	ListByMatch(ctx context.Context, matchID int) ([]*models.MatchOfficial, error)
	CountByMatchAndRole(ctx context.Context, exec SQLExecutor, matchID int, role models.OfficialRole) (int, error)
	ExistsByMatchAndUser(ctx context.Context, exec SQLExecutor, matchID, userID int) (bool, error)
	// ExistsWithRole answers the "is this user an official of this match
	// with one of these roles" authorization question.
	ExistsWithRole(ctx context.Context, matchID, userID int, roles ...models.OfficialRole) (bool, error)
	// HasTimeClash reports whether the user already officiates another
	// match scheduled at exactly the given time.
	HasTimeClash(ctx context.Context, exec SQLExecutor, userID, excludeMatchID int, at time.Time) (bool, error)
	Delete(ctx context.Context, id int) error

	CreateStaff(ctx context.Context, staff *models.MatchStaff) error
	ListStaffByMatch(ctx context.Context, matchID int) ([]*models.MatchStaff, error)
}

type postgresOfficialRepository struct {
	db *sql.DB
}

func NewPostgresOfficialRepository(db *sql.DB) OfficialRepository {
	return &postgresOfficialRepository{db: db}
}

func (r *postgresOfficialRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresOfficialRepository) Create(ctx context.Context, exec SQLExecutor, official *models.MatchOfficial) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO match_officials (match_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		official.MatchID, official.UserID, official.Role,
	).Scan(&official.ID, &official.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" &&
			pqErr.Constraint == "match_officials_match_id_user_id_role_key" {
			return ErrOfficialAlreadyAssigned
		}
		return fmt.Errorf("failed to create match official: %w", err)
	}
	return nil
}

func (r *postgresOfficialRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.MatchOfficial, error) {
	query := `SELECT id, match_id, user_id, role, created_at FROM match_officials WHERE match_id = $1 ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query officials for match %d: %w", matchID, err)
	}
	defer rows.Close()

	officials := make([]*models.MatchOfficial, 0)
	for rows.Next() {
		var o models.MatchOfficial
		if scanErr := rows.Scan(&o.ID, &o.MatchID, &o.UserID, &o.Role, &o.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		officials = append(officials, &o)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return officials, nil
}

func (r *postgresOfficialRepository) CountByMatchAndRole(ctx context.Context, exec SQLExecutor, matchID int, role models.OfficialRole) (int, error) {
	executor := r.getExecutor(exec)
	var count int
	err := executor.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM match_officials WHERE match_id = $1 AND role = $2`,
		matchID, role,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s officials for match %d: %w", role, matchID, err)
	}
	return count, nil
}

func (r *postgresOfficialRepository) ExistsByMatchAndUser(ctx context.Context, exec SQLExecutor, matchID, userID int) (bool, error) {
	executor := r.getExecutor(exec)
	var exists bool
	err := executor.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM match_officials WHERE match_id = $1 AND user_id = $2)`,
		matchID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check official assignment: %w", err)
	}
	return exists, nil
}

func (r *postgresOfficialRepository) ExistsWithRole(ctx context.Context, matchID, userID int, roles ...models.OfficialRole) (bool, error) {
	roleStrs := make([]string, len(roles))
	for i, role := range roles {
		roleStrs[i] = string(role)
	}

	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM match_officials WHERE match_id = $1 AND user_id = $2 AND role = ANY($3))`,
		matchID, userID, pq.Array(roleStrs),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check official role: %w", err)
	}
	return exists, nil
}

func (r *postgresOfficialRepository) HasTimeClash(ctx context.Context, exec SQLExecutor, userID, excludeMatchID int, at time.Time) (bool, error) {
	executor := r.getExecutor(exec)
	var exists bool
	err := executor.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM match_officials mo
			JOIN matches m ON m.id = mo.match_id
			WHERE mo.user_id = $1 AND m.id <> $2 AND m.match_date = $3
		)`, userID, excludeMatchID, at,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check officiating time clash: %w", err)
	}
	return exists, nil
}

func (r *postgresOfficialRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM match_officials WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrOfficialNotFound)
}

func (r *postgresOfficialRepository) CreateStaff(ctx context.Context, staff *models.MatchStaff) error {
	query := `
		INSERT INTO match_staff (match_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, staff.MatchID, staff.UserID, staff.Role).
		Scan(&staff.ID, &staff.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" &&
			pqErr.Constraint == "match_staff_match_id_user_id_role_key" {
			return ErrStaffAlreadyAssigned
		}
		return fmt.Errorf("failed to create match staff: %w", err)
	}
	return nil
}

func (r *postgresOfficialRepository) ListStaffByMatch(ctx context.Context, matchID int) ([]*models.MatchStaff, error) {
	query := `SELECT id, match_id, user_id, role, created_at FROM match_staff WHERE match_id = $1 ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff for match %d: %w", matchID, err)
	}
	defer rows.Close()

	staff := make([]*models.MatchStaff, 0)
	for rows.Next() {
		var s models.MatchStaff
		if scanErr := rows.Scan(&s.ID, &s.MatchID, &s.UserID, &s.Role, &s.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		staff = append(staff, &s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return staff, nil
}
