package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/sportarena/khokho-backend/models"
	"github.com/sportarena/khokho-backend/repositories"
	"golang.org/x/sync/errgroup"
)

// MatchLiveView bundles everything a live match page needs in one response.
type MatchLiveView struct {
	Match      *models.Match           `json:"match"`
	State      models.MatchState       `json:"state"`
	Scoreboard models.Scoreboard       `json:"scoreboard"`
	Officials  []*models.MatchOfficial `json:"officials"`
	Result     *models.MatchResult     `json:"result,omitempty"`
}

type MatchLifecycleService interface {
	Start(ctx context.Context, matchID int) (*models.Match, error)
	Pause(ctx context.Context, matchID int) (*models.Match, error)
	Resume(ctx context.Context, matchID int) (*models.Match, error)
	End(ctx context.Context, matchID int) (*models.MatchResult, error)
	GetState(ctx context.Context, matchID int) (*models.MatchState, error)
	GetLiveView(ctx context.Context, matchID int) (*MatchLiveView, error)
}

type matchLifecycleService struct {
	txRunner     repositories.TxRunner
	matchRepo    repositories.MatchRepository
	officialRepo repositories.OfficialRepository
	scoreRepo    repositories.ScoreRepository
	resultRepo   repositories.ResultRepository
	teamRepo     repositories.TeamRepository
	clock        clock.Clock
	broadcaster  LiveBroadcaster
}

func NewMatchLifecycleService(
	txRunner repositories.TxRunner,
	matchRepo repositories.MatchRepository,
	officialRepo repositories.OfficialRepository,
	scoreRepo repositories.ScoreRepository,
	resultRepo repositories.ResultRepository,
	teamRepo repositories.TeamRepository,
	clk clock.Clock,
	broadcaster LiveBroadcaster,
) MatchLifecycleService {
	return &matchLifecycleService{
		txRunner:     txRunner,
		matchRepo:    matchRepo,
		officialRepo: officialRepo,
		scoreRepo:    scoreRepo,
		resultRepo:   resultRepo,
		teamRepo:     teamRepo,
		clock:        clk,
		broadcaster:  broadcaster,
	}
}

func (s *matchLifecycleService) Start(ctx context.Context, matchID int) (*models.Match, error) {
	var match *models.Match

	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		m, err := s.matchRepo.GetByIDForUpdate(ctx, exec, matchID)
		if err != nil {
			return err
		}
		switch m.Status {
		case models.MatchScheduled:
		case models.MatchCompleted:
			return ErrMatchAlreadyEnded
		default:
			return ErrMatchAlreadyStarted
		}

		umpires, err := s.officialRepo.CountByMatchAndRole(ctx, exec, matchID, models.OfficialUmpire)
		if err != nil {
			return err
		}
		if umpires == 0 {
			return ErrUmpireRequired
		}

		now := s.clock.Now().UTC()
		if err := s.matchRepo.UpdateStatus(ctx, exec, matchID, models.MatchLive, &now, nil); err != nil {
			return err
		}

		m.Status = models.MatchLive
		m.StartedAt = &now
		match = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcastStatus(match)
	return match, nil
}

func (s *matchLifecycleService) Pause(ctx context.Context, matchID int) (*models.Match, error) {
	return s.transition(ctx, matchID, models.MatchLive, models.MatchPaused, ErrMatchNotLive)
}

func (s *matchLifecycleService) Resume(ctx context.Context, matchID int) (*models.Match, error) {
	return s.transition(ctx, matchID, models.MatchPaused, models.MatchLive, ErrMatchNotPaused)
}

func (s *matchLifecycleService) transition(ctx context.Context, matchID int, from, to models.MatchStatus, stateErr error) (*models.Match, error) {
	var match *models.Match

	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		m, err := s.matchRepo.GetByIDForUpdate(ctx, exec, matchID)
		if err != nil {
			return err
		}
		if m.Status != from {
			if m.Status == models.MatchCompleted {
				return ErrMatchAlreadyEnded
			}
			return stateErr
		}
		if err := s.matchRepo.UpdateStatus(ctx, exec, matchID, to, nil, nil); err != nil {
			return err
		}
		m.Status = to
		match = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcastStatus(match)
	return match, nil
}

// End closes out a live match: the scoreboard is folded into a result, the
// match is marked completed and both teams' aggregates are refreshed, all in
// one transaction.
func (s *matchLifecycleService) End(ctx context.Context, matchID int) (*models.MatchResult, error) {
	var (
		match  *models.Match
		result *models.MatchResult
	)

	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		m, err := s.matchRepo.GetByIDForUpdate(ctx, exec, matchID)
		if err != nil {
			return err
		}
		if m.Status != models.MatchLive {
			if m.Status == models.MatchCompleted {
				return ErrMatchAlreadyEnded
			}
			return ErrMatchNotLive
		}

		exists, err := s.resultRepo.ExistsByMatch(ctx, exec, matchID)
		if err != nil {
			return err
		}
		if exists {
			return ErrResultAlreadyDeclared
		}

		events, err := s.scoreRepo.ListEventsByMatch(ctx, exec, matchID)
		if err != nil {
			return err
		}
		board := buildScoreboard(events, m.TeamAID, m.TeamBID)

		res := &models.MatchResult{
			MatchID:    matchID,
			TeamAScore: board.TeamAScore,
			TeamBScore: board.TeamBScore,
		}
		switch {
		case board.TeamAScore > board.TeamBScore:
			res.WinnerID = &m.TeamAID
		case board.TeamBScore > board.TeamAScore:
			res.WinnerID = &m.TeamBID
		default:
			res.IsDraw = true
		}

		if err := s.resultRepo.Create(ctx, exec, res); err != nil {
			if errors.Is(err, repositories.ErrResultAlreadyExists) {
				return ErrResultAlreadyDeclared
			}
			return err
		}

		now := s.clock.Now().UTC()
		if err := s.matchRepo.UpdateStatus(ctx, exec, matchID, models.MatchCompleted, nil, &now); err != nil {
			return err
		}

		for _, teamID := range []int{m.TeamAID, m.TeamBID} {
			if err := s.refreshTeamStats(ctx, exec, teamID); err != nil {
				return err
			}
		}

		m.Status = models.MatchCompleted
		m.EndedAt = &now
		match = m
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToMatch(match.ID, map[string]interface{}{
			"type":   "match_ended",
			"match":  match,
			"result": result,
		})
	}
	return result, nil
}

func (s *matchLifecycleService) refreshTeamStats(ctx context.Context, exec repositories.SQLExecutor, teamID int) error {
	results, err := s.resultRepo.ListByTeam(ctx, exec, teamID)
	if err != nil {
		return fmt.Errorf("failed to load results for team %d: %w", teamID, err)
	}
	return s.teamRepo.UpdateStats(ctx, exec, teamID, computeTeamStats(teamID, results))
}

func (s *matchLifecycleService) GetState(ctx context.Context, matchID int) (*models.MatchState, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	state := s.stateOf(match)
	return &state, nil
}

// stateOf projects a match onto the clock-facing view. The countdown only
// ticks while the match is live; otherwise the full duration is reported.
func (s *matchLifecycleService) stateOf(match *models.Match) models.MatchState {
	remaining := int(models.MatchDuration / time.Second)
	if match.Status == models.MatchLive && match.StartedAt != nil {
		elapsed := s.clock.Now().UTC().Sub(match.StartedAt.UTC())
		left := models.MatchDuration - elapsed
		if left < 0 {
			left = 0
		}
		remaining = int(left / time.Second)
	}
	return models.MatchState{
		MatchID:       match.ID,
		Status:        match.Status,
		StartedAt:     match.StartedAt,
		EndedAt:       match.EndedAt,
		RemainingTime: remaining,
	}
}

func (s *matchLifecycleService) GetLiveView(ctx context.Context, matchID int) (*MatchLiveView, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	view := &MatchLiveView{
		Match: match,
		State: s.stateOf(match),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		events, err := s.scoreRepo.ListEventsByMatch(gctx, nil, matchID)
		if err != nil {
			return err
		}
		view.Scoreboard = buildScoreboard(events, match.TeamAID, match.TeamBID)
		return nil
	})
	g.Go(func() error {
		officials, err := s.officialRepo.ListByMatch(gctx, matchID)
		if err != nil {
			return err
		}
		view.Officials = officials
		return nil
	})
	if match.Status == models.MatchCompleted {
		g.Go(func() error {
			res, err := s.resultRepo.GetByMatch(gctx, nil, matchID)
			if err != nil {
				if errors.Is(err, repositories.ErrResultNotFound) {
					return nil
				}
				return err
			}
			view.Result = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *matchLifecycleService) broadcastStatus(match *models.Match) {
	if s.broadcaster == nil || match == nil {
		return
	}
	s.broadcaster.BroadcastToMatch(match.ID, map[string]interface{}{
		"type":  "status_update",
		"match": match,
	})
}
