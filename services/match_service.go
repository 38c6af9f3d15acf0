package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sportarena/khokho-backend/models"
	"github.com/sportarena/khokho-backend/repositories"
)

type CreateMatchInput struct {
	TournamentID int       `json:"tournament_id"`
	TeamAID      int       `json:"team_a_id"`
	TeamBID      int       `json:"team_b_id"`
	RoundNumber  int       `json:"round_number"`
	MatchDate    time.Time `json:"match_date"`
	Venue        string    `json:"venue"`
	CourtNo      *int      `json:"court_no"`
}

type AssignOfficialInput struct {
	MatchID int                 `json:"match_id"`
	UserID  int                 `json:"user_id"`
	Role    models.OfficialRole `json:"role"`
}

type AssignStaffInput struct {
	MatchID int              `json:"match_id"`
	UserID  int              `json:"user_id"`
	Role    models.StaffRole `json:"role"`
}

type AssignPlayerInput struct {
	MatchID  int                      `json:"match_id"`
	PlayerID int                      `json:"player_id"`
	Status   models.MatchPlayerStatus `json:"status"`
}

type MatchService interface {
	Create(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error)
	Delete(ctx context.Context, id int) error

	AssignOfficial(ctx context.Context, input AssignOfficialInput) (*models.MatchOfficial, error)
	AssignStaff(ctx context.Context, input AssignStaffInput) (*models.MatchStaff, error)
	AssignPlayer(ctx context.Context, input AssignPlayerInput) (*models.MatchPlayer, error)
	ListOfficials(ctx context.Context, matchID int) ([]*models.MatchOfficial, error)
	ListPlayers(ctx context.Context, matchID int) ([]*models.MatchPlayer, error)

	// IsOfficialWithRole answers whether the user holds one of the given
	// officiating roles in the match. Handlers use it for authorization.
	IsOfficialWithRole(ctx context.Context, matchID, userID int, roles ...models.OfficialRole) (bool, error)
}

type matchService struct {
	txRunner        repositories.TxRunner
	matchRepo       repositories.MatchRepository
	tournamentRepo  repositories.TournamentRepository
	teamRepo        repositories.TeamRepository
	playerRepo      repositories.PlayerRepository
	userRepo        repositories.UserRepository
	officialRepo    repositories.OfficialRepository
	matchPlayerRepo repositories.MatchPlayerRepository
}

func NewMatchService(
	txRunner repositories.TxRunner,
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	userRepo repositories.UserRepository,
	officialRepo repositories.OfficialRepository,
	matchPlayerRepo repositories.MatchPlayerRepository,
) MatchService {
	return &matchService{
		txRunner:        txRunner,
		matchRepo:       matchRepo,
		tournamentRepo:  tournamentRepo,
		teamRepo:        teamRepo,
		playerRepo:      playerRepo,
		userRepo:        userRepo,
		officialRepo:    officialRepo,
		matchPlayerRepo: matchPlayerRepo,
	}
}

func (s *matchService) Create(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	if input.TeamAID == input.TeamBID {
		return nil, ErrTeamsMustDiffer
	}
	if input.MatchDate.IsZero() {
		return nil, fmt.Errorf("%w: match date is required", ErrValidationFailed)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, input.TournamentID)
	if err != nil {
		return nil, err
	}

	for _, teamID := range []int{input.TeamAID, input.TeamBID} {
		team, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			return nil, err
		}
		if team.TournamentID != tournament.ID {
			return nil, ErrTeamNotInTournament
		}
		active, err := s.playerRepo.CountByTeam(ctx, teamID, true)
		if err != nil {
			return nil, err
		}
		if active < models.MinPlayersPerSide {
			return nil, fmt.Errorf("%w: team %d has %d active players, needs %d",
				ErrSquadTooSmall, teamID, active, models.MinPlayersPerSide)
		}
	}

	venue := input.Venue
	if venue == "" {
		venue = tournament.Location
	}

	match := &models.Match{
		TournamentID: tournament.ID,
		TeamAID:      input.TeamAID,
		TeamBID:      input.TeamBID,
		RoundNumber:  input.RoundNumber,
		MatchDate:    input.MatchDate.UTC(),
		Venue:        venue,
		CourtNo:      input.CourtNo,
		Status:       models.MatchScheduled,
	}

	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		clash, err := s.matchRepo.ExistsForTeamsAt(ctx, exec, input.TeamAID, input.TeamBID, match.MatchDate)
		if err != nil {
			return err
		}
		if clash {
			return ErrScheduleClash
		}

		number, err := s.matchRepo.NextMatchNumber(ctx, exec, tournament.ID)
		if err != nil {
			return err
		}
		match.MatchNumber = number
		return s.matchRepo.Create(ctx, exec, match)
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	return s.matchRepo.GetByID(ctx, id)
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error) {
	return s.matchRepo.ListByTournament(ctx, tournamentID, status)
}

func (s *matchService) Delete(ctx context.Context, id int) error {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if match.Status != models.MatchScheduled {
		return ErrMatchNotScheduled
	}
	return s.matchRepo.Delete(ctx, id)
}

func (s *matchService) AssignOfficial(ctx context.Context, input AssignOfficialInput) (*models.MatchOfficial, error) {
	if !input.Role.Valid() {
		return nil, ErrInvalidOfficialRole
	}
	if _, err := s.userRepo.GetByID(ctx, input.UserID); err != nil {
		return nil, err
	}

	official := &models.MatchOfficial{
		MatchID: input.MatchID,
		UserID:  input.UserID,
		Role:    input.Role,
	}

	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		match, err := s.matchRepo.GetByIDForUpdate(ctx, exec, input.MatchID)
		if err != nil {
			return err
		}
		if match.Status == models.MatchCompleted {
			return ErrMatchAlreadyEnded
		}

		if input.Role == models.OfficialUmpire {
			umpires, err := s.officialRepo.CountByMatchAndRole(ctx, exec, input.MatchID, models.OfficialUmpire)
			if err != nil {
				return err
			}
			if umpires >= models.MaxUmpiresPerMatch {
				return ErrUmpireLimitReached
			}
		}

		clash, err := s.officialRepo.HasTimeClash(ctx, exec, input.UserID, input.MatchID, match.MatchDate)
		if err != nil {
			return err
		}
		if clash {
			return ErrOfficialTimeClash
		}

		return s.officialRepo.Create(ctx, exec, official)
	})
	if err != nil {
		return nil, err
	}
	return official, nil
}

func (s *matchService) AssignStaff(ctx context.Context, input AssignStaffInput) (*models.MatchStaff, error) {
	if !input.Role.Valid() {
		return nil, ErrInvalidStaffRole
	}
	if _, err := s.matchRepo.GetByID(ctx, input.MatchID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, input.UserID); err != nil {
		return nil, err
	}

	staff := &models.MatchStaff{
		MatchID: input.MatchID,
		UserID:  input.UserID,
		Role:    input.Role,
	}
	if err := s.officialRepo.CreateStaff(ctx, staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// AssignPlayer adds a player to a match sheet. The sheet is frozen the
// moment the match leaves the scheduled state.
func (s *matchService) AssignPlayer(ctx context.Context, input AssignPlayerInput) (*models.MatchPlayer, error) {
	status := input.Status
	if status == "" {
		status = models.MatchPlayerPlaying
	}
	if status != models.MatchPlayerPlaying && status != models.MatchPlayerSubstitute {
		return nil, fmt.Errorf("%w: unknown match player status %q", ErrValidationFailed, input.Status)
	}

	player, err := s.playerRepo.GetByID(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}
	if !player.IsActive {
		return nil, ErrPlayerInactive
	}

	matchPlayer := &models.MatchPlayer{
		MatchID:  input.MatchID,
		PlayerID: input.PlayerID,
		Status:   status,
	}

	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		match, err := s.matchRepo.GetByIDForUpdate(ctx, exec, input.MatchID)
		if err != nil {
			return err
		}
		if match.Status != models.MatchScheduled {
			return ErrMatchNotScheduled
		}
		if !match.HasTeam(player.TeamID) {
			return ErrPlayerNotInMatchTeams
		}

		if status == models.MatchPlayerPlaying {
			playing, err := s.matchPlayerRepo.CountPlayingByTeam(ctx, exec, input.MatchID, player.TeamID)
			if err != nil {
				return err
			}
			if playing >= models.MaxPlayingPerTeam {
				return ErrPlayingLimitReached
			}
		}

		return s.matchPlayerRepo.Create(ctx, exec, matchPlayer)
	})
	if err != nil {
		return nil, err
	}
	return matchPlayer, nil
}

func (s *matchService) ListOfficials(ctx context.Context, matchID int) ([]*models.MatchOfficial, error) {
	if _, err := s.matchRepo.GetByID(ctx, matchID); err != nil {
		return nil, err
	}
	return s.officialRepo.ListByMatch(ctx, matchID)
}

func (s *matchService) ListPlayers(ctx context.Context, matchID int) ([]*models.MatchPlayer, error) {
	if _, err := s.matchRepo.GetByID(ctx, matchID); err != nil {
		return nil, err
	}
	return s.matchPlayerRepo.ListByMatch(ctx, matchID)
}

func (s *matchService) IsOfficialWithRole(ctx context.Context, matchID, userID int, roles ...models.OfficialRole) (bool, error) {
	return s.officialRepo.ExistsWithRole(ctx, matchID, userID, roles...)
}
