package models

import "time"

// TeamStats are cached aggregates over match results, recomputed whenever a
// result is recorded. They are never the source of truth for standings.
type TeamStats struct {
	Played int `json:"played"`
	Won    int `json:"won"`
	Lost   int `json:"lost"`
	Drawn  int `json:"drawn"`
	Points int `json:"points"`
}

type Team struct {
	ID           int       `json:"id"`
	TournamentID int       `json:"tournament_id"`
	Name         string    `json:"name"`
	ShortName    string    `json:"short_name"`
	Color        string    `json:"color,omitempty"`
	State        string    `json:"state,omitempty"`
	City         string    `json:"city,omitempty"`
	Gender       Gender    `json:"gender"`
	AgeGroup     AgeGroup  `json:"age_group"`
	Stats        TeamStats `json:"stats"`
	LogoKey      *string   `json:"-"`
	LogoURL      *string   `json:"logo_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
