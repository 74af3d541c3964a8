package scoring

import "fmt"

// DeliveryInput is one ball as submitted by the scorer. NewBatsman is
// mandatory when a wicket falls and the batting side still has players
// available.
type DeliveryInput struct {
	Runs       int       `json:"runs"`
	IsWicket   bool      `json:"is_wicket"`
	ExtraType  ExtraType `json:"extra_type"`
	WicketType string    `json:"wicket_type"`
	NewBatsman string    `json:"new_batsman"`
}

// ApplyDelivery is the single state transition applied per ball. It mutates
// the state in place; on error the state is untouched and the caller should
// discard it rather than persist.
func (s *MatchState) ApplyDelivery(in DeliveryInput) error {
	if s.Striker == nil || s.NonStriker == nil || s.Bowler == nil {
		return ErrMatchNotLive
	}
	squadSize := s.battingSquadSize()
	if InningsComplete(s.Score, s.OversLimit, squadSize) {
		return ErrInningsOver
	}
	if _, ok := s.BattingStats[s.Striker.Name]; !ok {
		return fmt.Errorf("%w: batsman %q", ErrMissingLedgerEntry, s.Striker.Name)
	}
	if _, ok := s.BowlingStats[s.Bowler.Name]; !ok {
		return fmt.Errorf("%w: bowler %q", ErrMissingLedgerEntry, s.Bowler.Name)
	}

	legal := IsLegalBall(in.ExtraType)

	// Validate the replacement batsman before touching any counter, so a
	// rejected wicket leaves the score untouched.
	if in.IsWicket {
		if err := s.validateReplacement(in, legal, squadSize); err != nil {
			return err
		}
	}

	s.Score.Runs += in.Runs
	if err := applyBowlingDelta(s.BowlingStats, s.Bowler.Name, in.Runs, legal, in.IsWicket); err != nil {
		return err
	}

	if legal {
		s.Score.Balls++
	}

	// A wide never credits the striker; runs off the bat on a no-ball do.
	if in.ExtraType != ExtraWide {
		if err := applyBattingDelta(s.BattingStats, s.Striker.Name, in.Runs, legal); err != nil {
			return err
		}
	}

	s.CurrentOver = append(s.CurrentOver, ballToken(in.IsWicket, in.Runs, in.ExtraType))

	if in.IsWicket {
		if err := s.applyWicket(in, squadSize); err != nil {
			return err
		}
	}

	if legal && !in.IsWicket {
		s.rotateOnRuns(in.Runs)
	}
	if legal {
		s.rotateOnOverComplete()
	}

	return s.refreshSnapshots()
}

// validateReplacement checks the incoming batsman for a wicket that leaves
// the innings open. Completion is projected with the wicket and ball applied
// since a final-wicket or final-ball dismissal needs no replacement.
func (s *MatchState) validateReplacement(in DeliveryInput, legal bool, squadSize int) error {
	projected := s.Score
	projected.Wickets++
	if legal {
		projected.Balls++
	}
	if InningsComplete(projected, s.OversLimit, squadSize) {
		return nil
	}

	if in.NewBatsman == "" {
		return ErrBatsmanRequired
	}
	if in.NewBatsman == s.Striker.Name || in.NewBatsman == s.NonStriker.Name {
		return fmt.Errorf("%w: %q is already at the crease", ErrInvalidBatsman, in.NewBatsman)
	}
	if !s.inSquads(in.NewBatsman) {
		return fmt.Errorf("%w: %q", ErrInvalidBatsman, in.NewBatsman)
	}
	entry, ok := s.BattingStats[in.NewBatsman]
	if !ok {
		return fmt.Errorf("%w: batsman %q", ErrMissingLedgerEntry, in.NewBatsman)
	}
	if entry.Out {
		return fmt.Errorf("%w: %q", ErrBatsmanAlreadyOut, in.NewBatsman)
	}
	return nil
}

// applyWicket books the dismissal: wicket count, striker marked out, fall of
// wickets appended, and the replacement brought in if the innings remains
// open. The departing striker's snapshot stays in place when the wicket ends
// the innings so the closing scorecard still shows them.
func (s *MatchState) applyWicket(in DeliveryInput, squadSize int) error {
	s.Score.Wickets++
	if err := markOut(s.BattingStats, s.Striker.Name); err != nil {
		return err
	}

	wicketType := in.WicketType
	if wicketType == "" {
		wicketType = "unknown"
	}
	s.FallOfWickets = append(s.FallOfWickets, FallOfWicket{
		WicketNo:      s.Score.Wickets,
		Batsman:       s.Striker.Name,
		ScoreAtWicket: s.Score.Runs,
		Balls:         s.Score.Balls,
		WicketType:    wicketType,
		Bowler:        s.Bowler.Name,
	})

	if InningsComplete(s.Score, s.OversLimit, squadSize) {
		return nil
	}
	snap, err := s.batsmanSnapshot(in.NewBatsman)
	if err != nil {
		return err
	}
	s.Striker = snap
	return nil
}
