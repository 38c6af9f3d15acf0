package services

import "errors"

// Sentinel errors shared across services and the HTTP error mapping.
var (
	ErrValidationFailed = errors.New("validation failed")

	// Match lifecycle
	ErrMatchNotScheduled     = errors.New("match is no longer in the scheduled state")
	ErrMatchNotLive          = errors.New("match is not live")
	ErrMatchNotPaused        = errors.New("match is not paused")
	ErrMatchAlreadyStarted   = errors.New("match has already started")
	ErrMatchAlreadyEnded     = errors.New("match has already ended")
	ErrResultAlreadyDeclared = errors.New("result already declared for this match")
	ErrUmpireRequired        = errors.New("at least one umpire must be assigned before start")

	// Match setup
	ErrTeamsMustDiffer       = errors.New("a team cannot play against itself")
	ErrTeamNotInTournament   = errors.New("team does not belong to this tournament")
	ErrSquadTooSmall         = errors.New("team does not have enough active players")
	ErrScheduleClash         = errors.New("these teams already have a match at this time")
	ErrInvalidOfficialRole   = errors.New("invalid official role")
	ErrInvalidStaffRole      = errors.New("invalid staff role")
	ErrUmpireLimitReached    = errors.New("umpire limit reached for this match")
	ErrOfficialTimeClash     = errors.New("official already has a match at this time")
	ErrPlayerNotInMatchTeams = errors.New("player does not belong to either team of this match")
	ErrPlayingLimitReached   = errors.New("playing squad limit reached for this team")
	ErrPlayerInactive        = errors.New("player is not active")

	// Scoring
	ErrInvalidEventType = errors.New("invalid score event type")
	ErrSameTeamEvent    = errors.New("attacking and defending teams must differ")
	ErrTeamNotInMatch   = errors.New("team is not part of this match")
	ErrPlayerNotPlaying = errors.New("player is not on the field for this match")

	// Tournaments and squads
	ErrTournamentInvalidDateRange = errors.New("tournament end date must be on or after start date")
	ErrTournamentTeamsFull        = errors.New("tournament has reached its team limit")
	ErrMatchesAlreadyGenerated    = errors.New("matches already generated for this tournament")
	ErrNotEnoughTeams             = errors.New("at least two teams are required to generate matches")
	ErrSquadFull                  = errors.New("team squad is full")
	ErrPlayerTooOld               = errors.New("player exceeds the tournament age limit")
	ErrTeamCategoryMismatch       = errors.New("team gender and age group must match the tournament")

	// Authentication
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordTooShort       = errors.New("password is too short")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")
)
