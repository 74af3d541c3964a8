package scoring

import "errors"

// Domain errors surfaced by the state machine. The HTTP layer maps these to
// response codes; none are retried.
var (
	// ErrMatchNotLive is returned when a transition needs players at the
	// crease but the state has no striker or bowler set.
	ErrMatchNotLive = errors.New("match state has no active players")

	// ErrInningsOver is returned when a delivery targets an innings that has
	// already reached its wickets or overs limit.
	ErrInningsOver = errors.New("innings is already complete")

	// ErrInningsNotComplete is returned by EndInnings when the innings is
	// still open and the caller did not force the close.
	ErrInningsNotComplete = errors.New("innings is not complete")

	// ErrBatsmanRequired is returned when a wicket falls with batters still
	// available but no replacement was named.
	ErrBatsmanRequired = errors.New("new batsman is required after a wicket")

	// ErrInvalidBatsman is returned when the named batsman is not in either
	// squad or is already at the crease.
	ErrInvalidBatsman = errors.New("invalid batsman")

	// ErrBatsmanAlreadyOut is returned when a dismissed player is named to
	// bat again.
	ErrBatsmanAlreadyOut = errors.New("batsman is already out")

	// ErrMissingLedgerEntry means a name referenced by a crease snapshot has
	// no accumulator entry. This indicates a corrupted state blob.
	ErrMissingLedgerEntry = errors.New("player has no ledger entry")

	// ErrDuplicatePlayer is returned when the same name appears more than
	// once across the two squads.
	ErrDuplicatePlayer = errors.New("duplicate player name in squads")

	// ErrAlreadyOut is returned by MarkOut when the player is already
	// dismissed.
	ErrAlreadyOut = errors.New("player already marked out")

	// ErrInvalidBowler is returned when the named bowler is not in either
	// squad.
	ErrInvalidBowler = errors.New("invalid bowler")

	// ErrSameBowler is returned when a bowler change names the incumbent.
	ErrSameBowler = errors.New("bowler is already bowling")

	// ErrSquadTooSmall is returned when a squad has fewer than two players.
	ErrSquadTooSmall = errors.New("squad needs at least 2 players")

	// ErrNotInSquad is returned when an opener does not belong to either
	// squad.
	ErrNotInSquad = errors.New("player is not in either squad")

	// ErrInningsNotReady is returned by StartSecondInnings when the state is
	// not an innings-2 handover awaiting openers.
	ErrInningsNotReady = errors.New("second innings is not ready to start")
)
