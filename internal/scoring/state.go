// Package scoring holds the live match state machine: the cache-resident
// representation of an innings in progress and the rules that mutate it on
// every delivery. It performs no I/O; callers load the state, apply one
// transition and persist the result wholesale.
package scoring

import "fmt"

// TossDecision is what the toss winner chose to do first.
type TossDecision string

const (
	TossBat   TossDecision = "BAT"
	TossField TossDecision = "FIELD"
)

// ExtraType marks a delivery that is not a fair ball. Byes and leg byes are
// not tracked; only wides and no-balls affect ball accounting.
type ExtraType string

const (
	ExtraNone   ExtraType = ""
	ExtraWide   ExtraType = "WD"
	ExtraNoBall ExtraType = "NB"
)

// Score is the cumulative total for the current innings only.
type Score struct {
	Runs    int `json:"runs"`
	Wickets int `json:"wickets"`
	Balls   int `json:"balls"`
}

// PlayerSnapshot is the denormalized display view of a batsman currently at
// the crease. It is resynced from the batting ledger after every transition.
type PlayerSnapshot struct {
	Name  string `json:"name"`
	Runs  int    `json:"runs"`
	Balls int    `json:"balls"`
	Fours int    `json:"fours"`
	Sixes int    `json:"sixes"`
}

// BowlerSnapshot is the display view of the bowler currently operating.
type BowlerSnapshot struct {
	Name    string `json:"name"`
	Balls   int    `json:"balls"`
	Runs    int    `json:"runs"`
	Wickets int    `json:"wickets"`
}

// BattingEntry is a player's batting accumulator for the whole match.
// Ledgers persist across both innings, so a player reused as an opener in
// the second innings carries their first-innings figures forward.
type BattingEntry struct {
	Runs  int  `json:"runs"`
	Balls int  `json:"balls"`
	Fours int  `json:"fours"`
	Sixes int  `json:"sixes"`
	Out   bool `json:"out"`
}

// BowlingEntry is a player's bowling accumulator for the whole match.
type BowlingEntry struct {
	Balls   int `json:"balls"`
	Runs    int `json:"runs"`
	Wickets int `json:"wickets"`
}

// FallOfWicket records one dismissal. Append-only within an innings.
type FallOfWicket struct {
	WicketNo      int    `json:"wicket_no"`
	Batsman       string `json:"batsman"`
	ScoreAtWicket int    `json:"score_at_wicket"`
	Balls         int    `json:"balls"`
	WicketType    string `json:"wicket_type"`
	Bowler        string `json:"bowler"`
}

// MatchState is the whole live-match blob. One exists per LIVE match, keyed
// by match ID in the cache, and is always read and written as a unit.
type MatchState struct {
	MatchID      uint         `json:"match_id"`
	TeamA        string       `json:"team_a"`
	TeamB        string       `json:"team_b"`
	OversLimit   int          `json:"overs_limit"`
	TossWinner   string       `json:"toss_winner"`
	TossDecision TossDecision `json:"toss_decision"`

	Innings int  `json:"innings"` // 1 or 2
	Target  *int `json:"target,omitempty"`

	Squads map[string][]string `json:"squads"`

	Score       Score    `json:"score"`
	CurrentOver []string `json:"current_over"`

	Striker    *PlayerSnapshot `json:"striker,omitempty"`
	NonStriker *PlayerSnapshot `json:"non_striker,omitempty"`
	Bowler     *BowlerSnapshot `json:"bowler,omitempty"`

	BattingStats map[string]*BattingEntry `json:"batting_stats"`
	BowlingStats map[string]*BowlingEntry `json:"bowling_stats"`

	FallOfWickets []FallOfWicket `json:"fall_of_wickets"`
}

// BattingTeam returns the team batting in the current innings, derived from
// the toss. The chasing side in innings 2 is whichever team did not bat
// first.
func (s *MatchState) BattingTeam() string {
	first := s.TossWinner
	if s.TossDecision == TossField {
		first = s.otherTeam(s.TossWinner)
	}
	if s.Innings == 2 {
		return s.otherTeam(first)
	}
	return first
}

func (s *MatchState) otherTeam(name string) string {
	if name == s.TeamA {
		return s.TeamB
	}
	return s.TeamA
}

// battingSquadSize is the roster size of the side currently batting, used to
// derive the all-out threshold.
func (s *MatchState) battingSquadSize() int {
	return len(s.Squads[s.BattingTeam()])
}

// inSquads reports whether the name appears in either squad.
func (s *MatchState) inSquads(name string) bool {
	for _, squad := range s.Squads {
		for _, p := range squad {
			if p == name {
				return true
			}
		}
	}
	return false
}

// refreshSnapshots copies ledger values back into the at-the-crease
// snapshots so they can never drift from the accumulators.
func (s *MatchState) refreshSnapshots() error {
	for _, snap := range []*PlayerSnapshot{s.Striker, s.NonStriker} {
		if snap == nil {
			continue
		}
		entry, ok := s.BattingStats[snap.Name]
		if !ok {
			return fmt.Errorf("%w: batsman %q", ErrMissingLedgerEntry, snap.Name)
		}
		snap.Runs = entry.Runs
		snap.Balls = entry.Balls
		snap.Fours = entry.Fours
		snap.Sixes = entry.Sixes
	}
	if s.Bowler != nil {
		entry, ok := s.BowlingStats[s.Bowler.Name]
		if !ok {
			return fmt.Errorf("%w: bowler %q", ErrMissingLedgerEntry, s.Bowler.Name)
		}
		s.Bowler.Balls = entry.Balls
		s.Bowler.Runs = entry.Runs
		s.Bowler.Wickets = entry.Wickets
	}
	return nil
}

// batsmanSnapshot seeds a crease snapshot from the player's existing ledger
// entry, so a batsman returning to the crease resumes their figures.
func (s *MatchState) batsmanSnapshot(name string) (*PlayerSnapshot, error) {
	entry, ok := s.BattingStats[name]
	if !ok {
		return nil, fmt.Errorf("%w: batsman %q", ErrMissingLedgerEntry, name)
	}
	return &PlayerSnapshot{
		Name:  name,
		Runs:  entry.Runs,
		Balls: entry.Balls,
		Fours: entry.Fours,
		Sixes: entry.Sixes,
	}, nil
}

// bowlerSnapshot seeds a bowler snapshot from the existing bowling ledger.
func (s *MatchState) bowlerSnapshot(name string) (*BowlerSnapshot, error) {
	entry, ok := s.BowlingStats[name]
	if !ok {
		return nil, fmt.Errorf("%w: bowler %q", ErrMissingLedgerEntry, name)
	}
	return &BowlerSnapshot{
		Name:    name,
		Balls:   entry.Balls,
		Runs:    entry.Runs,
		Wickets: entry.Wickets,
	}, nil
}
