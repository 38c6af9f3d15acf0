package models

// StandingRow is one team's line in a tournament table. Rows are fully
// recomputed from match results on every standings request.
type StandingRow struct {
	Rank             int    `json:"rank"`
	TeamID           int    `json:"team_id"`
	Team             string `json:"team"`
	Played           int    `json:"played"`
	Wins             int    `json:"wins"`
	Draws            int    `json:"draws"`
	Losses           int    `json:"losses"`
	PointsScored     int    `json:"points_scored"`
	PointsConceded   int    `json:"points_conceded"`
	ScoreDifference  int    `json:"score_difference"`
	TournamentPoints int    `json:"tournament_points"`
}
