package routes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sportarena/khokho-backend/handlers"
	"github.com/sportarena/khokho-backend/live"
	"github.com/sportarena/khokho-backend/middleware"
	"github.com/sportarena/khokho-backend/models"
	"github.com/sportarena/khokho-backend/services"
)

const routesTestSecret = "routes-test-secret"

type stubAuthService struct{}

func (s *stubAuthService) Register(ctx context.Context, input services.RegisterInput) (*models.User, error) {
	return &models.User{ID: 1}, nil
}

func (s *stubAuthService) Login(ctx context.Context, input services.LoginInput) (*models.User, error) {
	return &models.User{ID: 1}, nil
}

func (s *stubAuthService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return &models.User{ID: id}, nil
}

type stubTournamentService struct{}

func (s *stubTournamentService) Create(ctx context.Context, input services.CreateTournamentInput) (*models.Tournament, error) {
	return &models.Tournament{ID: 1}, nil
}

func (s *stubTournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	return &models.Tournament{ID: id}, nil
}

func (s *stubTournamentService) List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error) {
	return nil, nil
}

func (s *stubTournamentService) Update(ctx context.Context, id int, input services.CreateTournamentInput) (*models.Tournament, error) {
	return &models.Tournament{ID: id}, nil
}

func (s *stubTournamentService) Delete(ctx context.Context, id int) error { return nil }

func (s *stubTournamentService) GenerateMatches(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	return nil, nil
}

func (s *stubTournamentService) SyncStatusesWithDates(ctx context.Context) (int, error) {
	return 0, nil
}

type stubStandingsService struct{}

func (s *stubStandingsService) GetStandings(ctx context.Context, tournamentID int) ([]*models.StandingRow, error) {
	return []*models.StandingRow{}, nil
}

type stubTeamService struct{}

func (s *stubTeamService) Create(ctx context.Context, input services.CreateTeamInput) (*models.Team, error) {
	return &models.Team{ID: 1}, nil
}

func (s *stubTeamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	return &models.Team{ID: id}, nil
}

func (s *stubTeamService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Team, error) {
	return nil, nil
}

func (s *stubTeamService) Update(ctx context.Context, id int, input services.CreateTeamInput) (*models.Team, error) {
	return &models.Team{ID: id}, nil
}

func (s *stubTeamService) Delete(ctx context.Context, id int) error { return nil }

func (s *stubTeamService) UploadLogo(ctx context.Context, teamID int, contentType string, file io.Reader) (*models.Team, error) {
	return &models.Team{ID: teamID}, nil
}

type stubPlayerService struct{}

func (s *stubPlayerService) Create(ctx context.Context, input services.CreatePlayerInput) (*models.Player, error) {
	return &models.Player{ID: 1}, nil
}

func (s *stubPlayerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	return &models.Player{ID: id}, nil
}

func (s *stubPlayerService) ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	return nil, nil
}

func (s *stubPlayerService) Update(ctx context.Context, id int, input services.CreatePlayerInput) (*models.Player, error) {
	return &models.Player{ID: id}, nil
}

func (s *stubPlayerService) SetActive(ctx context.Context, id int, active bool) (*models.Player, error) {
	return &models.Player{ID: id}, nil
}

func (s *stubPlayerService) Delete(ctx context.Context, id int) error { return nil }

type stubMatchService struct{}

func (s *stubMatchService) Create(ctx context.Context, input services.CreateMatchInput) (*models.Match, error) {
	return &models.Match{ID: 1}, nil
}

func (s *stubMatchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	return &models.Match{ID: id}, nil
}

func (s *stubMatchService) ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error) {
	return nil, nil
}

func (s *stubMatchService) Delete(ctx context.Context, id int) error { return nil }

func (s *stubMatchService) AssignOfficial(ctx context.Context, input services.AssignOfficialInput) (*models.MatchOfficial, error) {
	return &models.MatchOfficial{ID: 1}, nil
}

func (s *stubMatchService) AssignStaff(ctx context.Context, input services.AssignStaffInput) (*models.MatchStaff, error) {
	return &models.MatchStaff{ID: 1}, nil
}

func (s *stubMatchService) AssignPlayer(ctx context.Context, input services.AssignPlayerInput) (*models.MatchPlayer, error) {
	return &models.MatchPlayer{ID: 1}, nil
}

func (s *stubMatchService) ListOfficials(ctx context.Context, matchID int) ([]*models.MatchOfficial, error) {
	return nil, nil
}

func (s *stubMatchService) ListPlayers(ctx context.Context, matchID int) ([]*models.MatchPlayer, error) {
	return nil, nil
}

func (s *stubMatchService) IsOfficialWithRole(ctx context.Context, matchID, userID int, roles ...models.OfficialRole) (bool, error) {
	return false, nil
}

type stubLifecycleService struct{}

func (s *stubLifecycleService) Start(ctx context.Context, matchID int) (*models.Match, error) {
	return &models.Match{ID: matchID, Status: models.MatchLive}, nil
}

func (s *stubLifecycleService) Pause(ctx context.Context, matchID int) (*models.Match, error) {
	return &models.Match{ID: matchID, Status: models.MatchPaused}, nil
}

func (s *stubLifecycleService) Resume(ctx context.Context, matchID int) (*models.Match, error) {
	return &models.Match{ID: matchID, Status: models.MatchLive}, nil
}

func (s *stubLifecycleService) End(ctx context.Context, matchID int) (*models.MatchResult, error) {
	return &models.MatchResult{MatchID: matchID}, nil
}

func (s *stubLifecycleService) GetState(ctx context.Context, matchID int) (*models.MatchState, error) {
	return &models.MatchState{MatchID: matchID, RemainingTime: 540}, nil
}

func (s *stubLifecycleService) GetLiveView(ctx context.Context, matchID int) (*services.MatchLiveView, error) {
	return &services.MatchLiveView{Match: &models.Match{ID: matchID}}, nil
}

type stubScoringService struct{}

func (s *stubScoringService) RecordEvent(ctx context.Context, input services.RecordScoreInput) (*models.ScoreEvent, error) {
	return &models.ScoreEvent{ID: 1}, nil
}

func (s *stubScoringService) GetScoreboard(ctx context.Context, matchID int) (*models.Scoreboard, error) {
	return &models.Scoreboard{}, nil
}

func newTestRouter() *chi.Mux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	auth := middleware.NewAuthenticator(routesTestSecret)
	matchService := &stubMatchService{}

	router := chi.NewRouter()
	SetupRoutes(
		router,
		auth,
		handlers.NewAuthHandler(&stubAuthService{}, routesTestSecret),
		handlers.NewTournamentHandler(&stubTournamentService{}, &stubStandingsService{}),
		handlers.NewTeamHandler(&stubTeamService{}),
		handlers.NewPlayerHandler(&stubPlayerService{}),
		handlers.NewMatchHandler(matchService, &stubLifecycleService{}),
		handlers.NewScoringHandler(&stubScoringService{}, matchService),
		handlers.NewWebSocketHandler(live.NewHub(logger), matchService, logger),
	)
	return router
}

func userToken(t *testing.T, role models.UserRole) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": 7,
		"role":    string(role),
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(routesTestSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return "Bearer " + signed
}

func TestRoutesRejectAnonymousCallers(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/tournaments/1/standings"},
		{http.MethodGet, "/matches/state/1"},
		{http.MethodGet, "/matches/live/1"},
		{http.MethodPost, "/matches/start/1"},
		{http.MethodPost, "/matches/end/1"},
		{http.MethodPost, "/scoring/create-score"},
		{http.MethodPost, "/tournaments"},
		{http.MethodPost, "/teams"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestRoutesKeepPublicReadsOpen(t *testing.T) {
	router := newTestRouter()

	paths := []string{
		"/tournaments",
		"/tournaments/1",
		"/tournaments/1/teams",
		"/matches/1",
		"/scoring/scoreboard/1",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
			}
		})
	}
}

func TestAuthenticatedReadsAdmitAnySignedInUser(t *testing.T) {
	router := newTestRouter()

	// The live view and standings only need a valid token; the state view
	// additionally needs the caller to officiate the match.
	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/tournaments/1/standings", http.StatusOK},
		{"/matches/live/1", http.StatusOK},
		{"/matches/state/1", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Authorization", userToken(t, models.RoleUser))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
