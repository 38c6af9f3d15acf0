package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/sportarena/khokho-backend/models"
)

type lifecycleEnv struct {
	matches   *fakeMatchRepo
	officials *fakeOfficialRepo
	scores    *fakeScoreRepo
	results   *fakeResultRepo
	teams     *fakeTeamRepo
	clock     *clock.Mock
	broadcast *fakeBroadcaster
	service   MatchLifecycleService
}

func newLifecycleEnv() *lifecycleEnv {
	env := &lifecycleEnv{
		matches:   newFakeMatchRepo(),
		teams:     newFakeTeamRepo(),
		clock:     clock.NewMock(),
		broadcast: &fakeBroadcaster{},
	}
	env.officials = newFakeOfficialRepo(env.matches)
	env.results = newFakeResultRepo(env.matches)
	env.scores = newFakeScoreRepo(env.teams)
	env.clock.Set(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))

	env.teams.add(&models.Team{TournamentID: 1, Name: "Delhi Cheetahs", ShortName: "DEL"})
	env.teams.add(&models.Team{TournamentID: 1, Name: "Pune Panthers", ShortName: "PUN"})

	env.service = NewMatchLifecycleService(
		fakeTxRunner{}, env.matches, env.officials, env.scores,
		env.results, env.teams, env.clock, env.broadcast,
	)
	return env
}

func (env *lifecycleEnv) seedMatch(status models.MatchStatus) *models.Match {
	match := env.matches.add(&models.Match{
		TournamentID: 1,
		TeamAID:      1,
		TeamBID:      2,
		MatchNumber:  1,
		RoundNumber:  1,
		MatchDate:    env.clock.Now().UTC(),
		Venue:        "Shivaji Park",
		Status:       status,
	})
	if status != models.MatchScheduled {
		started := env.clock.Now().UTC()
		match.StartedAt = &started
	}
	return match
}

func (env *lifecycleEnv) seedUmpire(matchID, userID int) {
	env.officials.officials = append(env.officials.officials, &models.MatchOfficial{
		ID:      len(env.officials.officials) + 1,
		MatchID: matchID,
		UserID:  userID,
		Role:    models.OfficialUmpire,
	})
}

func (env *lifecycleEnv) seedEvent(matchID, attackingID, defendingID int, eventType models.ScoreEventType) {
	event := &models.ScoreEvent{
		MatchID:         matchID,
		AttackingTeamID: attackingID,
		DefendingTeamID: defendingID,
		EventType:       eventType,
		Points:          models.EventPoints[eventType],
		Timestamp:       env.clock.Now().UTC(),
	}
	if err := env.scores.CreateEvent(context.Background(), nil, event); err != nil {
		panic(err)
	}
}

func TestStartRequiresUmpire(t *testing.T) {
	env := newLifecycleEnv()
	match := env.seedMatch(models.MatchScheduled)

	if _, err := env.service.Start(context.Background(), match.ID); !errors.Is(err, ErrUmpireRequired) {
		t.Fatalf("Start() error = %v, want %v", err, ErrUmpireRequired)
	}
}

func TestStartSetsMatchLive(t *testing.T) {
	env := newLifecycleEnv()
	match := env.seedMatch(models.MatchScheduled)
	env.seedUmpire(match.ID, 10)

	started, err := env.service.Start(context.Background(), match.ID)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if started.Status != models.MatchLive {
		t.Errorf("status = %s, want %s", started.Status, models.MatchLive)
	}
	if started.StartedAt == nil || !started.StartedAt.Equal(env.clock.Now().UTC()) {
		t.Errorf("started_at = %v, want %v", started.StartedAt, env.clock.Now().UTC())
	}
	if len(env.broadcast.messages) != 1 {
		t.Errorf("broadcast messages = %d, want 1", len(env.broadcast.messages))
	}
}

func TestStartRejectsWrongStates(t *testing.T) {
	tests := []struct {
		status  models.MatchStatus
		wantErr error
	}{
		{models.MatchLive, ErrMatchAlreadyStarted},
		{models.MatchPaused, ErrMatchAlreadyStarted},
		{models.MatchCompleted, ErrMatchAlreadyEnded},
	}
	for _, tt := range tests {
		env := newLifecycleEnv()
		match := env.seedMatch(tt.status)
		env.seedUmpire(match.ID, 10)

		if _, err := env.service.Start(context.Background(), match.ID); !errors.Is(err, tt.wantErr) {
			t.Errorf("Start() from %s: error = %v, want %v", tt.status, err, tt.wantErr)
		}
	}
}

func TestPauseAndResume(t *testing.T) {
	env := newLifecycleEnv()
	match := env.seedMatch(models.MatchLive)

	paused, err := env.service.Pause(context.Background(), match.ID)
	if err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if paused.Status != models.MatchPaused {
		t.Errorf("status after pause = %s, want %s", paused.Status, models.MatchPaused)
	}

	resumed, err := env.service.Resume(context.Background(), match.ID)
	if err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if resumed.Status != models.MatchLive {
		t.Errorf("status after resume = %s, want %s", resumed.Status, models.MatchLive)
	}
}

func TestPauseRejectsWrongStates(t *testing.T) {
	tests := []struct {
		status  models.MatchStatus
		wantErr error
	}{
		{models.MatchScheduled, ErrMatchNotLive},
		{models.MatchPaused, ErrMatchNotLive},
		{models.MatchCompleted, ErrMatchAlreadyEnded},
	}
	for _, tt := range tests {
		env := newLifecycleEnv()
		match := env.seedMatch(tt.status)

		if _, err := env.service.Pause(context.Background(), match.ID); !errors.Is(err, tt.wantErr) {
			t.Errorf("Pause() from %s: error = %v, want %v", tt.status, err, tt.wantErr)
		}
	}
}

func TestResumeRequiresPaused(t *testing.T) {
	env := newLifecycleEnv()
	match := env.seedMatch(models.MatchLive)

	if _, err := env.service.Resume(context.Background(), match.ID); !errors.Is(err, ErrMatchNotPaused) {
		t.Fatalf("Resume() error = %v, want %v", err, ErrMatchNotPaused)
	}
}

func TestEndDeclaresWinnerAndRefreshesStats(t *testing.T) {
	env := newLifecycleEnv()
	match := env.seedMatch(models.MatchLive)
	env.seedEvent(match.ID, 1, 2, models.EventTouch)
	env.seedEvent(match.ID, 1, 2, models.EventAllOut)
	env.seedEvent(match.ID, 2, 1, models.EventFoul)

	result, err := env.service.End(context.Background(), match.ID)
	if err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if result.TeamAScore != 3 || result.TeamBScore != -1 {
		t.Errorf("score = %d:%d, want 3:-1", result.TeamAScore, result.TeamBScore)
	}
	if result.WinnerID == nil || *result.WinnerID != 1 {
		t.Errorf("winner = %v, want team 1", result.WinnerID)
	}
	if result.IsDraw {
		t.Error("result marked as draw for a decided match")
	}

	ended, err := env.matches.GetByID(context.Background(), match.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if ended.Status != models.MatchCompleted {
		t.Errorf("status = %s, want %s", ended.Status, models.MatchCompleted)
	}
	if ended.EndedAt == nil {
		t.Error("ended_at not set")
	}

	winner := env.teams.teams[1]
	if winner.Stats.Played != 1 || winner.Stats.Won != 1 || winner.Stats.Points != 2 {
		t.Errorf("winner stats = %+v, want played 1, won 1, points 2", winner.Stats)
	}
	loser := env.teams.teams[2]
	if loser.Stats.Played != 1 || loser.Stats.Lost != 1 || loser.Stats.Points != 0 {
		t.Errorf("loser stats = %+v, want played 1, lost 1, points 0", loser.Stats)
	}
}

func TestEndWithoutEventsIsDraw(t *testing.T) {
	env := newLifecycleEnv()
	match := env.seedMatch(models.MatchLive)

	result, err := env.service.End(context.Background(), match.ID)
	if err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if !result.IsDraw || result.WinnerID != nil {
		t.Errorf("result = %+v, want a draw with no winner", result)
	}
	if result.TeamAScore != 0 || result.TeamBScore != 0 {
		t.Errorf("score = %d:%d, want 0:0", result.TeamAScore, result.TeamBScore)
	}

	for teamID := 1; teamID <= 2; teamID++ {
		stats := env.teams.teams[teamID].Stats
		if stats.Drawn != 1 || stats.Points != 1 {
			t.Errorf("team %d stats = %+v, want drawn 1, points 1", teamID, stats)
		}
	}
}

func TestEndRequiresLiveMatch(t *testing.T) {
	tests := []struct {
		status  models.MatchStatus
		wantErr error
	}{
		{models.MatchScheduled, ErrMatchNotLive},
		{models.MatchPaused, ErrMatchNotLive},
		{models.MatchCompleted, ErrMatchAlreadyEnded},
	}
	for _, tt := range tests {
		env := newLifecycleEnv()
		match := env.seedMatch(tt.status)

		if _, err := env.service.End(context.Background(), match.ID); !errors.Is(err, tt.wantErr) {
			t.Errorf("End() from %s: error = %v, want %v", tt.status, err, tt.wantErr)
		}
	}
}

func TestEndTwiceFails(t *testing.T) {
	env := newLifecycleEnv()
	match := env.seedMatch(models.MatchLive)

	if _, err := env.service.End(context.Background(), match.ID); err != nil {
		t.Fatalf("first End() error = %v", err)
	}
	if _, err := env.service.End(context.Background(), match.ID); !errors.Is(err, ErrMatchAlreadyEnded) {
		t.Fatalf("second End() error = %v, want %v", err, ErrMatchAlreadyEnded)
	}
}

func TestGetStateCountdown(t *testing.T) {
	fullDuration := int(models.MatchDuration / time.Second)

	tests := []struct {
		name          string
		status        models.MatchStatus
		elapsed       time.Duration
		wantRemaining int
	}{
		{"scheduled match reports full clock", models.MatchScheduled, 0, fullDuration},
		{"just started", models.MatchLive, 0, fullDuration},
		{"two minutes in", models.MatchLive, 2 * time.Minute, fullDuration - 120},
		{"clock never goes negative", models.MatchLive, 20 * time.Minute, 0},
		{"paused match reports full clock", models.MatchPaused, 3 * time.Minute, fullDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newLifecycleEnv()
			match := env.seedMatch(tt.status)
			env.clock.Add(tt.elapsed)

			state, err := env.service.GetState(context.Background(), match.ID)
			if err != nil {
				t.Fatalf("GetState() error = %v", err)
			}
			if state.RemainingTime != tt.wantRemaining {
				t.Errorf("remaining = %d, want %d", state.RemainingTime, tt.wantRemaining)
			}
			if state.Status != tt.status {
				t.Errorf("status = %s, want %s", state.Status, tt.status)
			}
		})
	}
}

func TestGetLiveViewCollectsEverything(t *testing.T) {
	env := newLifecycleEnv()
	match := env.seedMatch(models.MatchLive)
	env.seedUmpire(match.ID, 10)
	env.seedEvent(match.ID, 1, 2, models.EventTouch)
	env.seedEvent(match.ID, 2, 1, models.EventOut)

	view, err := env.service.GetLiveView(context.Background(), match.ID)
	if err != nil {
		t.Fatalf("GetLiveView() error = %v", err)
	}
	if view.Match.ID != match.ID {
		t.Errorf("match id = %d, want %d", view.Match.ID, match.ID)
	}
	if view.Scoreboard.TeamAScore != 1 || view.Scoreboard.TeamBScore != 1 {
		t.Errorf("scoreboard = %d:%d, want 1:1", view.Scoreboard.TeamAScore, view.Scoreboard.TeamBScore)
	}
	if len(view.Officials) != 1 {
		t.Errorf("officials = %d, want 1", len(view.Officials))
	}
	if view.Result != nil {
		t.Error("result set for a match still in progress")
	}
}

func TestGetLiveViewIncludesResultWhenCompleted(t *testing.T) {
	env := newLifecycleEnv()
	match := env.seedMatch(models.MatchLive)
	env.seedEvent(match.ID, 1, 2, models.EventBonus)

	if _, err := env.service.End(context.Background(), match.ID); err != nil {
		t.Fatalf("End() error = %v", err)
	}

	view, err := env.service.GetLiveView(context.Background(), match.ID)
	if err != nil {
		t.Fatalf("GetLiveView() error = %v", err)
	}
	if view.Result == nil {
		t.Fatal("result missing from completed match view")
	}
	if view.Result.WinnerID == nil || *view.Result.WinnerID != 1 {
		t.Errorf("winner = %v, want team 1", view.Result.WinnerID)
	}
}
