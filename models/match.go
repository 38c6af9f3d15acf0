package models

import "time"

type MatchStatus string

const (
	MatchScheduled MatchStatus = "SCHEDULED"
	MatchLive      MatchStatus = "LIVE"
	MatchPaused    MatchStatus = "PAUSED"
	MatchCompleted MatchStatus = "COMPLETED"
)

// MatchDuration is the fixed playing time used by the match clock.
const MatchDuration = 9 * time.Minute

// MinPlayersPerSide is the minimum active squad size a team needs before it
// can be scheduled into a match.
const MinPlayersPerSide = 7

type Match struct {
	ID           int         `json:"id"`
	TournamentID int         `json:"tournament_id"`
	TeamAID      int         `json:"team_a_id"`
	TeamBID      int         `json:"team_b_id"`
	MatchNumber  int         `json:"match_number"`
	RoundNumber  int         `json:"round_number"`
	MatchDate    time.Time   `json:"match_date"`
	Venue        string      `json:"venue"`
	CourtNo      *int        `json:"court_no,omitempty"`
	TossWinnerID *int        `json:"toss_winner_id,omitempty"`
	Status       MatchStatus `json:"status"`
	StartedAt    *time.Time  `json:"started_at,omitempty"`
	EndedAt      *time.Time  `json:"ended_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// HasTeam reports whether teamID is one of the two sides of the match.
func (m *Match) HasTeam(teamID int) bool {
	return teamID == m.TeamAID || teamID == m.TeamBID
}

type OfficialRole string

const (
	OfficialUmpire     OfficialRole = "UMPIRE"
	OfficialReferee    OfficialRole = "REFEREE"
	OfficialScorer     OfficialRole = "SCORER"
	OfficialTimeKeeper OfficialRole = "TIME_KEEPER"
)

// MaxUmpiresPerMatch caps UMPIRE assignments per match.
const MaxUmpiresPerMatch = 2

func (r OfficialRole) Valid() bool {
	switch r {
	case OfficialUmpire, OfficialReferee, OfficialScorer, OfficialTimeKeeper:
		return true
	}
	return false
}

type MatchOfficial struct {
	ID        int          `json:"id"`
	MatchID   int          `json:"match_id"`
	UserID    int          `json:"user_id"`
	Role      OfficialRole `json:"role"`
	CreatedAt time.Time    `json:"created_at"`
}

type StaffRole string

const (
	StaffMedical   StaffRole = "MEDICAL"
	StaffGround    StaffRole = "GROUND"
	StaffTechnical StaffRole = "TECHNICAL"
)

func (r StaffRole) Valid() bool {
	switch r {
	case StaffMedical, StaffGround, StaffTechnical:
		return true
	}
	return false
}

type MatchStaff struct {
	ID        int       `json:"id"`
	MatchID   int       `json:"match_id"`
	UserID    int       `json:"user_id"`
	Role      StaffRole `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type MatchPlayerStatus string

const (
	MatchPlayerPlaying    MatchPlayerStatus = "PLAYING"
	MatchPlayerSubstitute MatchPlayerStatus = "SUBSTITUTE"
)

// MaxPlayingPerTeam is the on-field limit per side in a match.
const MaxPlayingPerTeam = 9

type MatchPlayer struct {
	ID        int               `json:"id"`
	MatchID   int               `json:"match_id"`
	PlayerID  int               `json:"player_id"`
	Status    MatchPlayerStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

type MatchResult struct {
	ID         int       `json:"id"`
	MatchID    int       `json:"match_id"`
	TeamAScore int       `json:"team_a_score"`
	TeamBScore int       `json:"team_b_score"`
	WinnerID   *int      `json:"winner_id,omitempty"`
	IsDraw     bool      `json:"is_draw"`
	CreatedAt  time.Time `json:"created_at"`
}

// MatchState is the read-only projection served while a match runs.
type MatchState struct {
	MatchID       int         `json:"match_id"`
	Status        MatchStatus `json:"status"`
	StartedAt     *time.Time  `json:"started_at,omitempty"`
	EndedAt       *time.Time  `json:"ended_at,omitempty"`
	RemainingTime int         `json:"remaining_time"`
}
