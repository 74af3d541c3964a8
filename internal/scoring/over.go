package scoring

import (
	"fmt"
	"strconv"
)

const ballsPerOver = 6

// IsLegalBall reports whether the delivery counts toward the over. Wides and
// no-balls must be re-bowled and do not advance the ball count.
func IsLegalBall(extra ExtraType) bool {
	return extra != ExtraWide && extra != ExtraNoBall
}

// ballToken renders one delivery for the current-over display strip:
// "W" for a wicket, "{runs}WD"/"{runs}NB" for extras, otherwise the run
// count.
func ballToken(isWicket bool, runs int, extra ExtraType) string {
	if isWicket {
		return "W"
	}
	switch extra {
	case ExtraWide, ExtraNoBall:
		return strconv.Itoa(runs) + string(extra)
	default:
		return strconv.Itoa(runs)
	}
}

// rotateOnRuns swaps the batters when an odd number of runs was completed.
// Only called for legal, wicketless deliveries.
func (s *MatchState) rotateOnRuns(runs int) {
	if runs%2 == 1 {
		s.Striker, s.NonStriker = s.NonStriker, s.Striker
	}
}

// rotateOnOverComplete swaps the batters and clears the over strip at the
// end of each over. It runs after every legal ball, even when an odd-run
// swap already happened on the same delivery; odd runs off the last ball of
// an over therefore compose to a net no-op.
func (s *MatchState) rotateOnOverComplete() {
	if s.Score.Balls > 0 && s.Score.Balls%ballsPerOver == 0 {
		s.Striker, s.NonStriker = s.NonStriker, s.Striker
		s.CurrentOver = s.CurrentOver[:0]
	}
}

// wicketLimit is how many wickets end the innings: all out means one fewer
// than the batting squad, capped at the conventional ten.
func wicketLimit(squadSize int) int {
	limit := squadSize - 1
	if limit > 10 {
		limit = 10
	}
	return limit
}

// InningsComplete reports whether the innings has closed: the batting side
// is all out or the overs allocation is used up.
func InningsComplete(score Score, oversLimit, squadSize int) bool {
	return score.Wickets >= wicketLimit(squadSize) || score.Balls >= oversLimit*ballsPerOver
}

// OversPlayed formats a ball count as the conventional overs display, e.g.
// 5 balls is "0.5" and 12 balls is "2.0". This is display text, not a
// decimal number.
func OversPlayed(balls int) string {
	return fmt.Sprintf("%d.%d", balls/ballsPerOver, balls%ballsPerOver)
}
