package models

import "time"

type PlayerRole string

const (
	PlayerRaider     PlayerRole = "RAIDER"
	PlayerDefender   PlayerRole = "DEFENDER"
	PlayerAllRounder PlayerRole = "ALL_ROUNDER"
)

// MaxPlayersPerTeam caps the tournament squad size.
const MaxPlayersPerTeam = 15

type Player struct {
	ID           int        `json:"id"`
	TeamID       int        `json:"team_id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	JerseyNumber int        `json:"jersey_number"`
	Role         PlayerRole `json:"role"`
	DateOfBirth  time.Time  `json:"date_of_birth"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (p *Player) FullName() string {
	return p.FirstName + " " + p.LastName
}

// AgeOn computes full years between date of birth and the given day.
func (p *Player) AgeOn(day time.Time) int {
	age := day.Year() - p.DateOfBirth.Year()
	anniversary := time.Date(day.Year(), p.DateOfBirth.Month(), p.DateOfBirth.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(anniversary) {
		age--
	}
	return age
}
