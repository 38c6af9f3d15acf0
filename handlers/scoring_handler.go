package handlers

import (
	"net/http"

	"github.com/sportarena/khokho-backend/middleware"
	"github.com/sportarena/khokho-backend/models"
	"github.com/sportarena/khokho-backend/services"
)

type ScoringHandler struct {
	scoringService services.ScoringService
	matchService   services.MatchService
}

func NewScoringHandler(scoringService services.ScoringService, matchService services.MatchService) *ScoringHandler {
	return &ScoringHandler{
		scoringService: scoringService,
		matchService:   matchService,
	}
}

// CreateScore records one score event. Admins may always write; everyone
// else must officiate this match as an umpire.
func (h *ScoringHandler) CreateScore(w http.ResponseWriter, r *http.Request) {
	var input services.RecordScoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	role, err := middleware.GetUserRoleFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	if role != models.RoleAdmin {
		allowed, err := h.matchService.IsOfficialWithRole(r.Context(), input.MatchID, userID,
			models.OfficialUmpire)
		if err != nil {
			serverErrorResponse(w, r, err)
			return
		}
		if !allowed {
			forbiddenResponse(w, r, "only a match umpire can record scores")
			return
		}
	}
	input.RecordedBy = &userID

	event, err := h.scoringService.RecordEvent(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScoringHandler) GetScoreboard(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDParam(r, "match_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	board, err := h.scoringService.GetScoreboard(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, board, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
