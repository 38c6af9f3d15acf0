package handlers

import (
	"context"
	"net/http"

	"github.com/sportarena/khokho-backend/middleware"
	"github.com/sportarena/khokho-backend/models"
	"github.com/sportarena/khokho-backend/services"
)

type MatchHandler struct {
	matchService     services.MatchService
	lifecycleService services.MatchLifecycleService
}

func NewMatchHandler(matchService services.MatchService, lifecycleService services.MatchLifecycleService) *MatchHandler {
	return &MatchHandler{
		matchService:     matchService,
		lifecycleService: lifecycleService,
	}
}

// authorizeMatchControl admits admins unconditionally and otherwise requires
// the caller to officiate this match in one of the given roles.
func (h *MatchHandler) authorizeMatchControl(w http.ResponseWriter, r *http.Request, matchID int, roles ...models.OfficialRole) bool {
	role, err := middleware.GetUserRoleFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return false
	}
	if role == models.RoleAdmin {
		return true
	}

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return false
	}
	allowed, err := h.matchService.IsOfficialWithRole(r.Context(), matchID, userID, roles...)
	if err != nil {
		serverErrorResponse(w, r, err)
		return false
	}
	if !allowed {
		forbiddenResponse(w, r, "only a match official can perform this action")
		return false
	}
	return true
}

func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.matchService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MatchHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.lifecycleAction(w, r, h.lifecycleService.Start)
}

func (h *MatchHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.lifecycleAction(w, r, h.lifecycleService.Pause)
}

func (h *MatchHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.lifecycleAction(w, r, h.lifecycleService.Resume)
}

func (h *MatchHandler) lifecycleAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, matchID int) (*models.Match, error)) {
	id, err := getIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if !h.authorizeMatchControl(w, r, id, models.OfficialUmpire) {
		return
	}

	match, err := action(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) End(w http.ResponseWriter, r *http.Request) {
	id, err := getIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if !h.authorizeMatchControl(w, r, id, models.OfficialUmpire) {
		return
	}

	result, err := h.lifecycleService.End(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetState serves the clock projection to the match's officials, any role.
func (h *MatchHandler) GetState(w http.ResponseWriter, r *http.Request) {
	id, err := getIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if !h.authorizeMatchControl(w, r, id,
		models.OfficialUmpire, models.OfficialReferee, models.OfficialScorer, models.OfficialTimeKeeper) {
		return
	}

	state, err := h.lifecycleService.GetState(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, state, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) GetLiveView(w http.ResponseWriter, r *http.Request) {
	id, err := getIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.lifecycleService.GetLiveView(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) AssignOfficial(w http.ResponseWriter, r *http.Request) {
	var input services.AssignOfficialInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	official, err := h.matchService.AssignOfficial(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"official": official}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) AssignStaff(w http.ResponseWriter, r *http.Request) {
	var input services.AssignStaffInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	staff, err := h.matchService.AssignStaff(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"staff": staff}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) AssignPlayer(w http.ResponseWriter, r *http.Request) {
	var input services.AssignPlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matchPlayer, err := h.matchService.AssignPlayer(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match_player": matchPlayer}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) ListOfficials(w http.ResponseWriter, r *http.Request) {
	id, err := getIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	officials, err := h.matchService.ListOfficials(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"officials": officials}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	id, err := getIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	players, err := h.matchService.ListPlayers(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
