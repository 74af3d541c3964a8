package match

import (
	"github.com/DhavalSuthar-24/crictally/internal/models"
	"github.com/DhavalSuthar-24/crictally/internal/scoring"
	"github.com/DhavalSuthar-24/crictally/internal/user"
	"gorm.io/gorm"
)

// MatchStatus is the persisted lifecycle stage of a match.
type MatchStatus string

const (
	StatusMatchCreated   MatchStatus = "CREATED"
	StatusMatchLive      MatchStatus = "LIVE"
	StatusMatchCompleted MatchStatus = "COMPLETED"
)

// Match is the durable record. Live ball-by-ball state lives in the cache,
// not here; this row carries the fixture, its status and the final result.
type Match struct {
	gorm.Model
	CreatedBy uint      `gorm:"index;not null" json:"created_by"`
	Creator   user.User `gorm:"foreignKey:CreatedBy" json:"-"`

	TeamA      string      `gorm:"not null" json:"team_a"`
	TeamB      string      `gorm:"not null" json:"team_b"`
	OversLimit int         `gorm:"not null" json:"overs_limit"`
	Status     MatchStatus `gorm:"type:varchar(20);default:'CREATED';index" json:"status"`

	TossWinner   string `json:"toss_winner,omitempty"`
	TossDecision string `json:"toss_decision,omitempty"`

	Winner     string `json:"winner,omitempty"`
	ResultText string `json:"result_text,omitempty"`

	Squads  []MatchSquad    `gorm:"foreignKey:MatchID" json:"squads,omitempty"`
	Innings []InningsRecord `gorm:"foreignKey:MatchID" json:"innings,omitempty"`
}

// MatchSquad is one team's roster for one match, stored as a JSON array of
// player names.
type MatchSquad struct {
	gorm.Model
	MatchID  uint               `gorm:"index;not null" json:"match_id"`
	TeamName string             `gorm:"not null" json:"team_name"`
	Players  models.StringSlice `gorm:"type:json" json:"players"`
}

// InningsRecord archives one closed innings. Summary is the full closure
// (score, ledgers, fall of wickets) serialized as JSON.
type InningsRecord struct {
	gorm.Model
	MatchID     uint   `gorm:"not null;uniqueIndex:idx_innings_match_no" json:"match_id"`
	InningsNo   int    `gorm:"not null;uniqueIndex:idx_innings_match_no" json:"innings_no"`
	BattingTeam string `gorm:"not null" json:"batting_team"`
	Runs        int    `json:"runs"`
	Wickets     int    `json:"wickets"`
	Balls       int    `json:"balls"`
	Summary     string `gorm:"type:text" json:"summary"`
}

// --- Request DTOs ---

type CreateMatchRequest struct {
	TeamA      string `json:"team_a" binding:"required"`
	TeamB      string `json:"team_b" binding:"required"`
	OversLimit int    `json:"overs_limit" binding:"required,min=1,max=50"`
}

type StartMatchRequest struct {
	TossWinner   string              `json:"toss_winner" binding:"required"`
	TossDecision string              `json:"toss_decision" binding:"required,oneof=BAT FIELD"`
	Squads       map[string][]string `json:"squads" binding:"required"`
	Openers      scoring.Openers     `json:"openers" binding:"required"`
}

type AddBallRequest struct {
	Runs       int    `json:"runs" binding:"min=0,max=7"`
	IsWicket   bool   `json:"is_wicket"`
	ExtraType  string `json:"extra_type" binding:"omitempty,oneof=WD NB"`
	WicketType string `json:"wicket_type"`
	NewBatsman string `json:"new_batsman"`
}

type ChangeBowlerRequest struct {
	NewBowler string `json:"new_bowler" binding:"required"`
}

type EndInningsRequest struct {
	Force bool `json:"force"`
}

type StartInnings2Request struct {
	Openers scoring.Openers `json:"openers" binding:"required"`
}

// --- Response DTOs ---

// MatchStateResponse wraps the live blob with a human-readable overs figure.
type MatchStateResponse struct {
	State       *scoring.MatchState `json:"state"`
	OversPlayed string              `json:"overs_played"`
	BattingTeam string              `json:"batting_team"`
}

// MatchSummary is the public listing view of a match.
type MatchSummary struct {
	ID         uint        `json:"id"`
	TeamA      string      `json:"team_a"`
	TeamB      string      `json:"team_b"`
	OversLimit int         `json:"overs_limit"`
	Status     MatchStatus `json:"status"`
	Winner     string      `json:"winner,omitempty"`
	ResultText string      `json:"result_text,omitempty"`
}

func toSummary(m *Match) MatchSummary {
	return MatchSummary{
		ID:         m.ID,
		TeamA:      m.TeamA,
		TeamB:      m.TeamB,
		OversLimit: m.OversLimit,
		Status:     m.Status,
		Winner:     m.Winner,
		ResultText: m.ResultText,
	}
}
