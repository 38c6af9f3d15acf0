package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/sportarena/khokho-backend/fixtures"
	"github.com/sportarena/khokho-backend/models"
	"github.com/sportarena/khokho-backend/repositories"
)

// defaultTurnSeconds is the regulation length of one playing turn.
const defaultTurnSeconds = 540

type CreateTournamentInput struct {
	Name           string                  `json:"name"`
	Location       string                  `json:"location"`
	Gender         models.Gender           `json:"gender"`
	AgeGroup       models.AgeGroup         `json:"age_group"`
	FormatType     models.TournamentFormat `json:"format_type"`
	MaxTimePerTurn int                     `json:"max_time_per_turn"`
	MaxTeams       int                     `json:"max_teams"`
	StartDate      time.Time               `json:"start_date"`
	EndDate        time.Time               `json:"end_date"`
	Organizer      string                  `json:"organizer"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error)
	Update(ctx context.Context, id int, input CreateTournamentInput) (*models.Tournament, error)
	Delete(ctx context.Context, id int) error

	// GenerateMatches builds the full round-robin schedule in one shot.
	GenerateMatches(ctx context.Context, tournamentID int) ([]*models.Match, error)

	// SyncStatusesWithDates realigns stored statuses with what each
	// tournament's date range implies and returns how many rows changed.
	SyncStatusesWithDates(ctx context.Context) (int, error)
}

type tournamentService struct {
	txRunner       repositories.TxRunner
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	playerRepo     repositories.PlayerRepository
	matchRepo      repositories.MatchRepository
	clock          clock.Clock
	logger         *slog.Logger
}

func NewTournamentService(
	txRunner repositories.TxRunner,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
	clk clock.Clock,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		txRunner:       txRunner,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		matchRepo:      matchRepo,
		clock:          clk,
		logger:         logger,
	}
}

func (s *tournamentService) validate(input *CreateTournamentInput) error {
	if input.Name == "" {
		return fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrValidationFailed)
	}
	if input.EndDate.Before(input.StartDate) {
		return ErrTournamentInvalidDateRange
	}
	switch input.Gender {
	case models.GenderMen, models.GenderWomen:
	default:
		return fmt.Errorf("%w: unknown gender %q", ErrValidationFailed, input.Gender)
	}
	switch input.AgeGroup {
	case models.AgeGroupU14, models.AgeGroupU16, models.AgeGroupU18, models.AgeGroupOpen:
	default:
		return fmt.Errorf("%w: unknown age group %q", ErrValidationFailed, input.AgeGroup)
	}
	switch input.FormatType {
	case models.FormatLeague, models.FormatKnockout, models.FormatRoundRobin:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrValidationFailed, input.FormatType)
	}
	if input.MaxTeams <= 1 {
		return fmt.Errorf("%w: max teams must be at least 2", ErrValidationFailed)
	}
	if input.MaxTimePerTurn <= 0 {
		input.MaxTimePerTurn = defaultTurnSeconds
	}
	return nil
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		Name:           input.Name,
		Location:       input.Location,
		Gender:         input.Gender,
		AgeGroup:       input.AgeGroup,
		FormatType:     input.FormatType,
		MaxTimePerTurn: input.MaxTimePerTurn,
		MaxTeams:       input.MaxTeams,
		StartDate:      input.StartDate.UTC(),
		EndDate:        input.EndDate.UTC(),
		Organizer:      input.Organizer,
		IsActive:       true,
	}
	tournament.Status = tournament.StatusForDate(s.clock.Now().UTC())

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	return s.tournamentRepo.GetByID(ctx, id)
}

func (s *tournamentService) List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error) {
	return s.tournamentRepo.List(ctx, status)
}

func (s *tournamentService) Update(ctx context.Context, id int, input CreateTournamentInput) (*models.Tournament, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tournament.Name = input.Name
	tournament.Location = input.Location
	tournament.Gender = input.Gender
	tournament.AgeGroup = input.AgeGroup
	tournament.FormatType = input.FormatType
	tournament.MaxTimePerTurn = input.MaxTimePerTurn
	tournament.MaxTeams = input.MaxTeams
	tournament.StartDate = input.StartDate.UTC()
	tournament.EndDate = input.EndDate.UTC()
	tournament.Organizer = input.Organizer
	tournament.Status = tournament.StatusForDate(s.clock.Now().UTC())

	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) Delete(ctx context.Context, id int) error {
	return s.tournamentRepo.Delete(ctx, id)
}

// GenerateMatches lays out one round per day starting from the tournament's
// first day. Generation is all-or-nothing and refuses to run twice.
func (s *tournamentService) GenerateMatches(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	exists, err := s.matchRepo.ExistsByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrMatchesAlreadyGenerated
	}

	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if len(teams) < 2 {
		return nil, ErrNotEnoughTeams
	}

	teamIDs := make([]int, len(teams))
	for i, team := range teams {
		teamIDs[i] = team.ID
		active, err := s.playerRepo.CountByTeam(ctx, team.ID, true)
		if err != nil {
			return nil, err
		}
		if active < models.MinPlayersPerSide {
			return nil, fmt.Errorf("%w: team %q has %d active players, needs %d",
				ErrSquadTooSmall, team.Name, active, models.MinPlayersPerSide)
		}
	}

	rounds := fixtures.RoundRobin(teamIDs)
	matches := make([]*models.Match, 0, fixtures.TotalMatches(rounds))

	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		number := 1
		for _, round := range rounds {
			matchDate := tournament.StartDate.AddDate(0, 0, round.Number-1)
			for _, pairing := range round.Pairings {
				match := &models.Match{
					TournamentID: tournamentID,
					TeamAID:      pairing.TeamAID,
					TeamBID:      pairing.TeamBID,
					MatchNumber:  number,
					RoundNumber:  round.Number,
					MatchDate:    matchDate,
					Venue:        tournament.Location,
					Status:       models.MatchScheduled,
				}
				if err := s.matchRepo.Create(ctx, exec, match); err != nil {
					return err
				}
				matches = append(matches, match)
				number++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("generated tournament schedule",
		slog.Int("tournament_id", tournamentID),
		slog.Int("rounds", len(rounds)),
		slog.Int("matches", len(matches)))
	return matches, nil
}

func (s *tournamentService) SyncStatusesWithDates(ctx context.Context) (int, error) {
	today := s.clock.Now().UTC()
	stale, err := s.tournamentRepo.ListWithStatusNotMatchingDates(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list tournaments with stale status: %w", err)
	}

	updated := 0
	for _, tournament := range stale {
		derived := tournament.StatusForDate(today)
		if err := s.tournamentRepo.UpdateStatus(ctx, tournament.ID, derived); err != nil {
			s.logger.Error("failed to update tournament status",
				slog.Int("tournament_id", tournament.ID),
				slog.String("status", string(derived)),
				slog.Any("error", err))
			continue
		}
		updated++
	}
	return updated, nil
}
