package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sportarena/khokho-backend/models"
	"github.com/sportarena/khokho-backend/repositories"
	"github.com/sportarena/khokho-backend/storage"
)

type CreateTeamInput struct {
	TournamentID int    `json:"tournament_id"`
	Name         string `json:"name"`
	ShortName    string `json:"short_name"`
	Color        string `json:"color"`
	State        string `json:"state"`
	City         string `json:"city"`
}

type TeamService interface {
	Create(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Team, error)
	Update(ctx context.Context, id int, input CreateTeamInput) (*models.Team, error)
	Delete(ctx context.Context, id int) error

	// UploadLogo stores the image and points the team at it, replacing any
	// previous logo object.
	UploadLogo(ctx context.Context, teamID int, contentType string, file io.Reader) (*models.Team, error)
}

var logoExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

type teamService struct {
	teamRepo       repositories.TeamRepository
	tournamentRepo repositories.TournamentRepository
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		teamRepo:       teamRepo,
		tournamentRepo: tournamentRepo,
		uploader:       uploader,
		logger:         logger,
	}
}

func (s *teamService) Create(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	if input.Name == "" || input.ShortName == "" {
		return nil, fmt.Errorf("%w: team name and short name are required", ErrValidationFailed)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, input.TournamentID)
	if err != nil {
		return nil, err
	}

	count, err := s.teamRepo.CountByTournament(ctx, tournament.ID)
	if err != nil {
		return nil, err
	}
	if count >= tournament.MaxTeams {
		return nil, ErrTournamentTeamsFull
	}

	team := &models.Team{
		TournamentID: tournament.ID,
		Name:         input.Name,
		ShortName:    input.ShortName,
		Color:        input.Color,
		State:        input.State,
		City:         input.City,
		Gender:       tournament.Gender,
		AgeGroup:     tournament.AgeGroup,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.resolveLogoURL(team)
	return team, nil
}

func (s *teamService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Team, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, err
	}
	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	for _, team := range teams {
		s.resolveLogoURL(team)
	}
	return teams, nil
}

func (s *teamService) Update(ctx context.Context, id int, input CreateTeamInput) (*models.Team, error) {
	if input.Name == "" || input.ShortName == "" {
		return nil, fmt.Errorf("%w: team name and short name are required", ErrValidationFailed)
	}

	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	team.Name = input.Name
	team.ShortName = input.ShortName
	team.Color = input.Color
	team.State = input.State
	team.City = input.City

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, err
	}
	s.resolveLogoURL(team)
	return team, nil
}

func (s *teamService) Delete(ctx context.Context, id int) error {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		return err
	}
	if s.uploader != nil && team.LogoKey != nil {
		if delErr := s.uploader.Delete(ctx, *team.LogoKey); delErr != nil {
			s.logger.Warn("failed to delete team logo object",
				slog.Int("team_id", id), slog.Any("error", delErr))
		}
	}
	return nil
}

func (s *teamService) UploadLogo(ctx context.Context, teamID int, contentType string, file io.Reader) (*models.Team, error) {
	if s.uploader == nil {
		return nil, fmt.Errorf("%w: file storage is not configured", ErrValidationFailed)
	}
	ext, ok := logoExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported logo content type %q", ErrValidationFailed, contentType)
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("teams/%d/logo%s", teamID, ext)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload logo for team %d: %w", teamID, err)
	}

	oldKey := team.LogoKey
	if err := s.teamRepo.UpdateLogoKey(ctx, teamID, &result.Key); err != nil {
		return nil, err
	}
	if oldKey != nil && *oldKey != result.Key {
		if delErr := s.uploader.Delete(ctx, *oldKey); delErr != nil {
			s.logger.Warn("failed to delete previous team logo",
				slog.Int("team_id", teamID), slog.Any("error", delErr))
		}
	}

	team.LogoKey = &result.Key
	s.resolveLogoURL(team)
	return team, nil
}

func (s *teamService) resolveLogoURL(team *models.Team) {
	if s.uploader == nil || team.LogoKey == nil {
		return
	}
	if url := s.uploader.GetPublicURL(*team.LogoKey); url != "" {
		team.LogoURL = &url
	}
}
