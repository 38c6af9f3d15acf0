package models

import "time"

type ScoreEventType string

const (
	EventTouch  ScoreEventType = "TOUCH"
	EventOut    ScoreEventType = "OUT"
	EventBonus  ScoreEventType = "BONUS"
	EventAllOut ScoreEventType = "ALL_OUT"
	EventFoul   ScoreEventType = "FOUL"
)

// EventPoints maps each event type to its fixed point delta.
var EventPoints = map[ScoreEventType]int{
	EventTouch:  1,
	EventOut:    1,
	EventBonus:  1,
	EventAllOut: 2,
	EventFoul:   -1,
}

type ScoreEvent struct {
	ID              int            `json:"id"`
	MatchID         int            `json:"match_id"`
	AttackingTeamID int            `json:"attacking_team_id"`
	DefendingTeamID int            `json:"defending_team_id"`
	PlayerID        *int           `json:"player_id,omitempty"`
	EventType       ScoreEventType `json:"event_type"`
	Points          int            `json:"points"`
	Timestamp       time.Time      `json:"timestamp"`
}

// ScoreAuditLog rows are append-only; one is written for every accepted
// score event, in the same transaction.
type ScoreAuditLog struct {
	ID        int       `json:"id"`
	MatchID   int       `json:"match_id"`
	UserID    *int      `json:"user_id,omitempty"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// ScoreboardEvent is the trimmed event view embedded in a scoreboard.
type ScoreboardEvent struct {
	EventType ScoreEventType `json:"event_type"`
	Points    int            `json:"points"`
	Team      string         `json:"team"`
	Player    *string        `json:"player,omitempty"`
	Time      time.Time      `json:"time"`
}

// Scoreboard is recomputed from the event log on every read; there is no
// separately maintained running counter.
type Scoreboard struct {
	TeamAScore int               `json:"team_a_score"`
	TeamBScore int               `json:"team_b_score"`
	Events     []ScoreboardEvent `json:"events"`
}
