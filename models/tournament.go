package models

import "time"

// TournamentStatus is derived from the date range, never set by clients.
type TournamentStatus string

const (
	TournamentUpcoming  TournamentStatus = "UPCOMING"
	TournamentOngoing   TournamentStatus = "ONGOING"
	TournamentCompleted TournamentStatus = "COMPLETED"
)

type Gender string

const (
	GenderMen   Gender = "MEN"
	GenderWomen Gender = "WOMEN"
)

type AgeGroup string

const (
	AgeGroupU14  AgeGroup = "U14"
	AgeGroupU16  AgeGroup = "U16"
	AgeGroupU18  AgeGroup = "U18"
	AgeGroupOpen AgeGroup = "OPEN"
)

// AgeCeiling returns the maximum allowed player age for the group.
// The second value is false for OPEN, which has no ceiling.
func (g AgeGroup) AgeCeiling() (int, bool) {
	switch g {
	case AgeGroupU14:
		return 14, true
	case AgeGroupU16:
		return 16, true
	case AgeGroupU18:
		return 18, true
	default:
		return 0, false
	}
}

type TournamentFormat string

const (
	FormatLeague     TournamentFormat = "LEAGUE"
	FormatKnockout   TournamentFormat = "KNOCKOUT"
	FormatRoundRobin TournamentFormat = "ROUND_ROBIN"
)

type Tournament struct {
	ID             int              `json:"id"`
	Name           string           `json:"name"`
	Location       string           `json:"location"`
	Gender         Gender           `json:"gender"`
	AgeGroup       AgeGroup         `json:"age_group"`
	FormatType     TournamentFormat `json:"format_type"`
	MaxTimePerTurn int              `json:"max_time_per_turn"`
	MaxTeams       int              `json:"max_teams"`
	StartDate      time.Time        `json:"start_date"`
	EndDate        time.Time        `json:"end_date"`
	Organizer      string           `json:"organizer"`
	Status         TournamentStatus `json:"status"`
	IsActive       bool             `json:"is_active"`
	CreatedAt      time.Time        `json:"created_at"`
}

// StatusForDate derives the tournament status from its date range.
func (t *Tournament) StatusForDate(today time.Time) TournamentStatus {
	day := today.Truncate(24 * time.Hour)
	switch {
	case day.Before(t.StartDate):
		return TournamentUpcoming
	case day.After(t.EndDate):
		return TournamentCompleted
	default:
		return TournamentOngoing
	}
}
