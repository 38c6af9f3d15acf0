package services

import (
	"github.com/sportarena/khokho-backend/models"
	"github.com/sportarena/khokho-backend/repositories"
)

// LiveBroadcaster pushes payloads to everyone watching a match. The hub
// implements it; services treat a nil broadcaster as a no-op.
type LiveBroadcaster interface {
	BroadcastToMatch(matchID int, payload interface{})
}

// scoreboardEventLimit is how many of the most recent events a scoreboard
// carries alongside the totals.
const scoreboardEventLimit = 5

// buildScoreboard folds the full event log (ordered newest first) into team
// totals and keeps the most recent events for display. Points land on the
// attacking team's side.
func buildScoreboard(events []*repositories.ScoreEventDetail, teamAID, teamBID int) models.Scoreboard {
	board := models.Scoreboard{Events: make([]models.ScoreboardEvent, 0, scoreboardEventLimit)}
	for _, detail := range events {
		switch detail.Event.AttackingTeamID {
		case teamAID:
			board.TeamAScore += detail.Event.Points
		case teamBID:
			board.TeamBScore += detail.Event.Points
		}
		if len(board.Events) < scoreboardEventLimit {
			board.Events = append(board.Events, models.ScoreboardEvent{
				EventType: detail.Event.EventType,
				Points:    detail.Event.Points,
				Team:      detail.TeamName,
				Player:    detail.PlayerName,
				Time:      detail.Event.Timestamp,
			})
		}
	}
	return board
}

// computeTeamStats rebuilds a team's aggregates from its full result history.
// Tournament points are two per win and one per draw.
func computeTeamStats(teamID int, results []*repositories.TeamResult) models.TeamStats {
	var stats models.TeamStats
	for _, tr := range results {
		stats.Played++
		switch {
		case tr.Result.IsDraw:
			stats.Drawn++
		case tr.Result.WinnerID != nil && *tr.Result.WinnerID == teamID:
			stats.Won++
		default:
			stats.Lost++
		}
	}
	stats.Points = 2*stats.Won + stats.Drawn
	return stats
}
