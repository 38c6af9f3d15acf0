package services

import (
	"context"
	"fmt"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/sportarena/khokho-backend/models"
	"github.com/sportarena/khokho-backend/repositories"
)

type CreatePlayerInput struct {
	TeamID       int               `json:"team_id"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	JerseyNumber int               `json:"jersey_number"`
	Role         models.PlayerRole `json:"role"`
	DateOfBirth  time.Time         `json:"date_of_birth"`
}

type PlayerService interface {
	Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error)
	GetByID(ctx context.Context, id int) (*models.Player, error)
	ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error)
	Update(ctx context.Context, id int, input CreatePlayerInput) (*models.Player, error)
	SetActive(ctx context.Context, id int, active bool) (*models.Player, error)
	Delete(ctx context.Context, id int) error
}

type playerService struct {
	playerRepo     repositories.PlayerRepository
	teamRepo       repositories.TeamRepository
	tournamentRepo repositories.TournamentRepository
	clock          clock.Clock
}

func NewPlayerService(
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
	clk clock.Clock,
) PlayerService {
	return &playerService{
		playerRepo:     playerRepo,
		teamRepo:       teamRepo,
		tournamentRepo: tournamentRepo,
		clock:          clk,
	}
}

func (s *playerService) validate(input CreatePlayerInput) error {
	if input.FirstName == "" || input.LastName == "" {
		return fmt.Errorf("%w: player first and last name are required", ErrValidationFailed)
	}
	if input.JerseyNumber <= 0 {
		return fmt.Errorf("%w: jersey number must be positive", ErrValidationFailed)
	}
	switch input.Role {
	case models.PlayerRaider, models.PlayerDefender, models.PlayerAllRounder:
	default:
		return fmt.Errorf("%w: unknown player role %q", ErrValidationFailed, input.Role)
	}
	if input.DateOfBirth.IsZero() || input.DateOfBirth.After(s.clock.Now().UTC()) {
		return fmt.Errorf("%w: date of birth must be in the past", ErrValidationFailed)
	}
	return nil
}

// checkAgeLimit enforces the tournament's age group ceiling against the
// player's age today. OPEN tournaments have no ceiling.
func (s *playerService) checkAgeLimit(ctx context.Context, teamID int, player *models.Player) error {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, team.TournamentID)
	if err != nil {
		return err
	}
	ceiling, ok := tournament.AgeGroup.AgeCeiling()
	if !ok {
		return nil
	}
	if player.AgeOn(s.clock.Now().UTC()) > ceiling {
		return fmt.Errorf("%w: %s limit is %d", ErrPlayerTooOld, tournament.AgeGroup, ceiling)
	}
	return nil
}

func (s *playerService) Create(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	count, err := s.playerRepo.CountByTeam(ctx, input.TeamID, false)
	if err != nil {
		return nil, err
	}
	if count >= models.MaxPlayersPerTeam {
		return nil, ErrSquadFull
	}

	player := &models.Player{
		TeamID:       input.TeamID,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		JerseyNumber: input.JerseyNumber,
		Role:         input.Role,
		DateOfBirth:  input.DateOfBirth.UTC(),
		IsActive:     true,
	}
	if err := s.checkAgeLimit(ctx, input.TeamID, player); err != nil {
		return nil, err
	}

	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

func (s *playerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	return s.playerRepo.GetByID(ctx, id)
}

func (s *playerService) ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		return nil, err
	}
	return s.playerRepo.ListByTeam(ctx, teamID)
}

func (s *playerService) Update(ctx context.Context, id int, input CreatePlayerInput) (*models.Player, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	player.FirstName = input.FirstName
	player.LastName = input.LastName
	player.JerseyNumber = input.JerseyNumber
	player.Role = input.Role
	player.DateOfBirth = input.DateOfBirth.UTC()

	if err := s.checkAgeLimit(ctx, player.TeamID, player); err != nil {
		return nil, err
	}
	if err := s.playerRepo.Update(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

func (s *playerService) SetActive(ctx context.Context, id int, active bool) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if player.IsActive == active {
		return player, nil
	}
	player.IsActive = active
	if err := s.playerRepo.Update(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

func (s *playerService) Delete(ctx context.Context, id int) error {
	return s.playerRepo.Delete(ctx, id)
}
