package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/sportarena/khokho-backend/models"
	"github.com/sportarena/khokho-backend/repositories"
)

type StandingsService interface {
	GetStandings(ctx context.Context, tournamentID int) ([]*models.StandingRow, error)
}

type standingsService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	resultRepo     repositories.ResultRepository
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	resultRepo repositories.ResultRepository,
) StandingsService {
	return &standingsService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		resultRepo:     resultRepo,
	}
}

// GetStandings rebuilds the table from scratch out of the recorded results.
// Teams are ranked by tournament points, then score difference; the stable
// sort keeps the repository's name ordering for full ties.
func (s *standingsService) GetStandings(ctx context.Context, tournamentID int) ([]*models.StandingRow, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams for tournament %d: %w", tournamentID, err)
	}

	rows := make([]*models.StandingRow, 0, len(teams))
	for _, team := range teams {
		results, err := s.resultRepo.ListByTeam(ctx, nil, team.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load results for team %d: %w", team.ID, err)
		}

		row := &models.StandingRow{TeamID: team.ID, Team: team.Name}
		for _, tr := range results {
			row.Played++
			scored, conceded := tr.Result.TeamAScore, tr.Result.TeamBScore
			if team.ID == tr.TeamBID {
				scored, conceded = conceded, scored
			}
			row.PointsScored += scored
			row.PointsConceded += conceded

			switch {
			case tr.Result.IsDraw:
				row.Draws++
			case tr.Result.WinnerID != nil && *tr.Result.WinnerID == team.ID:
				row.Wins++
			default:
				row.Losses++
			}
		}
		row.ScoreDifference = row.PointsScored - row.PointsConceded
		row.TournamentPoints = 2*row.Wins + row.Draws
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TournamentPoints != rows[j].TournamentPoints {
			return rows[i].TournamentPoints > rows[j].TournamentPoints
		}
		return rows[i].ScoreDifference > rows[j].ScoreDifference
	})
	for i, row := range rows {
		row.Rank = i + 1
	}
	return rows, nil
}
