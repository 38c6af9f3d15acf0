package services

import (
	"context"
	"fmt"

	"github.com/sportarena/khokho-backend/models"
	"github.com/sportarena/khokho-backend/repositories"
)

type RecordScoreInput struct {
	MatchID         int                   `json:"match_id"`
	AttackingTeamID int                   `json:"attacking_team_id"`
	DefendingTeamID int                   `json:"defending_team_id"`
	PlayerID        *int                  `json:"player_id"`
	EventType       models.ScoreEventType `json:"event_type"`

	// RecordedBy is the authenticated user writing the event; it is stamped
	// into the audit log, never taken from the request body.
	RecordedBy *int `json:"-"`
}

type ScoringService interface {
	RecordEvent(ctx context.Context, input RecordScoreInput) (*models.ScoreEvent, error)
	GetScoreboard(ctx context.Context, matchID int) (*models.Scoreboard, error)
}

type scoringService struct {
	txRunner        repositories.TxRunner
	matchRepo       repositories.MatchRepository
	playerRepo      repositories.PlayerRepository
	matchPlayerRepo repositories.MatchPlayerRepository
	scoreRepo       repositories.ScoreRepository
	broadcaster     LiveBroadcaster
}

func NewScoringService(
	txRunner repositories.TxRunner,
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
	matchPlayerRepo repositories.MatchPlayerRepository,
	scoreRepo repositories.ScoreRepository,
	broadcaster LiveBroadcaster,
) ScoringService {
	return &scoringService{
		txRunner:        txRunner,
		matchRepo:       matchRepo,
		playerRepo:      playerRepo,
		matchPlayerRepo: matchPlayerRepo,
		scoreRepo:       scoreRepo,
		broadcaster:     broadcaster,
	}
}

// RecordEvent appends one score event and its audit row in a single
// transaction. The match row is locked first so an end-of-match running in
// parallel cannot slip a completed status under the write.
func (s *scoringService) RecordEvent(ctx context.Context, input RecordScoreInput) (*models.ScoreEvent, error) {
	points, ok := models.EventPoints[input.EventType]
	if !ok {
		return nil, ErrInvalidEventType
	}
	if input.AttackingTeamID == input.DefendingTeamID {
		return nil, ErrSameTeamEvent
	}

	event := &models.ScoreEvent{
		MatchID:         input.MatchID,
		AttackingTeamID: input.AttackingTeamID,
		DefendingTeamID: input.DefendingTeamID,
		PlayerID:        input.PlayerID,
		EventType:       input.EventType,
		Points:          points,
	}

	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		match, err := s.matchRepo.GetByIDForUpdate(ctx, exec, input.MatchID)
		if err != nil {
			return err
		}
		if match.Status != models.MatchLive {
			if match.Status == models.MatchCompleted {
				return ErrMatchAlreadyEnded
			}
			return ErrMatchNotLive
		}
		if !match.HasTeam(input.AttackingTeamID) || !match.HasTeam(input.DefendingTeamID) {
			return ErrTeamNotInMatch
		}

		if input.PlayerID != nil {
			player, err := s.playerRepo.GetByID(ctx, *input.PlayerID)
			if err != nil {
				return err
			}
			if player.TeamID != input.AttackingTeamID {
				return ErrPlayerNotInMatchTeams
			}
			playing, err := s.matchPlayerRepo.IsPlaying(ctx, exec, input.MatchID, player.ID)
			if err != nil {
				return err
			}
			if !playing {
				return ErrPlayerNotPlaying
			}
		}

		if err := s.scoreRepo.CreateEvent(ctx, exec, event); err != nil {
			return err
		}
		audit := &models.ScoreAuditLog{
			MatchID: input.MatchID,
			UserID:  input.RecordedBy,
			Points:  points,
		}
		return s.scoreRepo.CreateAuditLog(ctx, exec, audit)
	})
	if err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToMatch(input.MatchID, map[string]interface{}{
			"type":  "score_update",
			"event": event,
		})
	}
	return event, nil
}

// GetScoreboard recomputes totals from the whole event log on every call.
func (s *scoringService) GetScoreboard(ctx context.Context, matchID int) (*models.Scoreboard, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	events, err := s.scoreRepo.ListEventsByMatch(ctx, nil, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load score events for match %d: %w", matchID, err)
	}
	board := buildScoreboard(events, match.TeamAID, match.TeamBID)
	return &board, nil
}
