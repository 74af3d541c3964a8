package scoring

import "fmt"

// NewLedgers builds zeroed batting and bowling accumulators for every player
// across both squads. Each name gets exactly one entry; a name appearing
// twice (within a squad or across the two) is rejected.
func NewLedgers(squads map[string][]string) (map[string]*BattingEntry, map[string]*BowlingEntry, error) {
	batting := make(map[string]*BattingEntry)
	bowling := make(map[string]*BowlingEntry)
	for _, squad := range squads {
		for _, name := range squad {
			if _, exists := batting[name]; exists {
				return nil, nil, fmt.Errorf("%w: %q", ErrDuplicatePlayer, name)
			}
			batting[name] = &BattingEntry{}
			bowling[name] = &BowlingEntry{}
		}
	}
	return batting, bowling, nil
}

// applyBattingDelta credits one delivery to a batsman: a ball faced only if
// the delivery was legal, runs always, and a boundary count when the runs
// off the bat are exactly four or six. Callers must not apply deltas to a
// dismissed player.
func applyBattingDelta(ledger map[string]*BattingEntry, player string, runsOffBat int, legal bool) error {
	entry, ok := ledger[player]
	if !ok {
		return fmt.Errorf("%w: batsman %q", ErrMissingLedgerEntry, player)
	}
	if legal {
		entry.Balls++
	}
	entry.Runs += runsOffBat
	switch runsOffBat {
	case 4:
		entry.Fours++
	case 6:
		entry.Sixes++
	}
	return nil
}

// applyBowlingDelta charges one delivery to a bowler: a ball only if legal,
// the full runs conceded unconditionally, and a wicket whenever one fell on
// the ball. Run-outs are not distinguished here; any wicket on the delivery
// is credited to the bowler.
func applyBowlingDelta(ledger map[string]*BowlingEntry, bowler string, runsConceded int, legal, wicketTaken bool) error {
	entry, ok := ledger[bowler]
	if !ok {
		return fmt.Errorf("%w: bowler %q", ErrMissingLedgerEntry, bowler)
	}
	if legal {
		entry.Balls++
	}
	entry.Runs += runsConceded
	if wicketTaken {
		entry.Wickets++
	}
	return nil
}

// markOut flags a batsman as dismissed. A player marked out can never bat
// again in this match.
func markOut(ledger map[string]*BattingEntry, player string) error {
	entry, ok := ledger[player]
	if !ok {
		return fmt.Errorf("%w: batsman %q", ErrMissingLedgerEntry, player)
	}
	if entry.Out {
		return fmt.Errorf("%w: %q", ErrAlreadyOut, player)
	}
	entry.Out = true
	return nil
}
