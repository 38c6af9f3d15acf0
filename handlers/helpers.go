package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sportarena/khokho-backend/repositories"
	"github.com/sportarena/khokho-backend/services"
)

type jsonResponse map[string]interface{}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func getIDParam(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s parameter", name)
	}
	return id, nil
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.Error("failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	errorResponse(w, r, http.StatusInternalServerError,
		"the server encountered a problem and could not process your request")
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	errorResponse(w, r, http.StatusNotFound, "the requested resource could not be found")
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

func forbiddenResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusForbidden, message)
}

// mapServiceErrorToHTTP translates service and repository sentinels into
// HTTP responses with the shared {"error": ...} envelope.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	// Missing resources
	case errors.Is(err, repositories.ErrUserNotFound),
		errors.Is(err, repositories.ErrTournamentNotFound),
		errors.Is(err, repositories.ErrTeamNotFound),
		errors.Is(err, repositories.ErrPlayerNotFound),
		errors.Is(err, repositories.ErrMatchNotFound),
		errors.Is(err, repositories.ErrOfficialNotFound),
		errors.Is(err, repositories.ErrMatchPlayerNotFound),
		errors.Is(err, repositories.ErrResultNotFound),
		errors.Is(err, repositories.ErrScoreEventNotFound):
		notFoundResponse(w, r)

	// Uniqueness conflicts on entity writes
	case errors.Is(err, repositories.ErrUserEmailConflict),
		errors.Is(err, repositories.ErrTournamentNameConflict),
		errors.Is(err, repositories.ErrTeamNameConflict),
		errors.Is(err, repositories.ErrTeamShortNameConflict),
		errors.Is(err, repositories.ErrPlayerJerseyConflict),
		errors.Is(err, repositories.ErrMatchNumberConflict),
		errors.Is(err, services.ErrScheduleClash),
		errors.Is(err, services.ErrMatchesAlreadyGenerated),
		errors.Is(err, services.ErrTournamentTeamsFull),
		errors.Is(err, services.ErrSquadFull):
		conflictResponse(w, r, err.Error())

	// Validation, invalid transitions and assignment rules
	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, repositories.ErrOfficialAlreadyAssigned),
		errors.Is(err, repositories.ErrStaffAlreadyAssigned),
		errors.Is(err, repositories.ErrMatchPlayerAlreadyAssigned),
		errors.Is(err, services.ErrMatchAlreadyStarted),
		errors.Is(err, services.ErrMatchAlreadyEnded),
		errors.Is(err, services.ErrMatchNotScheduled),
		errors.Is(err, services.ErrMatchNotLive),
		errors.Is(err, services.ErrMatchNotPaused),
		errors.Is(err, services.ErrResultAlreadyDeclared),
		errors.Is(err, services.ErrUmpireLimitReached),
		errors.Is(err, services.ErrOfficialTimeClash),
		errors.Is(err, services.ErrPlayingLimitReached),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrTeamsMustDiffer),
		errors.Is(err, services.ErrTeamNotInTournament),
		errors.Is(err, services.ErrSquadTooSmall),
		errors.Is(err, services.ErrInvalidOfficialRole),
		errors.Is(err, services.ErrInvalidStaffRole),
		errors.Is(err, services.ErrUmpireRequired),
		errors.Is(err, services.ErrPlayerNotInMatchTeams),
		errors.Is(err, services.ErrPlayerInactive),
		errors.Is(err, services.ErrInvalidEventType),
		errors.Is(err, services.ErrSameTeamEvent),
		errors.Is(err, services.ErrTeamNotInMatch),
		errors.Is(err, services.ErrPlayerNotPlaying),
		errors.Is(err, services.ErrTournamentInvalidDateRange),
		errors.Is(err, services.ErrNotEnoughTeams),
		errors.Is(err, services.ErrPlayerTooOld),
		errors.Is(err, services.ErrTeamCategoryMismatch):
		badRequestResponse(w, r, err)

	// Authentication and authorization
	case errors.Is(err, services.ErrAuthInvalidCredentials):
		unauthorizedResponse(w, r, err.Error())
	case errors.Is(err, services.ErrForbiddenOperation):
		forbiddenResponse(w, r, err.Error())

	default:
		serverErrorResponse(w, r, err)
	}
}
