package scoring

import (
	"errors"
	"testing"
)

func TestStartMatchValidation(t *testing.T) {
	squads := map[string][]string{
		"Lions":  {"Asha", "Bina", "Esha"},
		"Tigers": {"Chand", "Dev", "Fiza"},
	}
	openers := Openers{Batsman1: "Asha", Batsman2: "Bina", Bowler: "Chand"}

	tests := []struct {
		name    string
		mutate  func(squads map[string][]string, o *Openers, tossWinner *string)
		wantErr error
	}{
		{
			name: "squad too small",
			mutate: func(squads map[string][]string, o *Openers, tossWinner *string) {
				squads["Tigers"] = []string{"Chand"}
			},
			wantErr: ErrSquadTooSmall,
		},
		{
			name: "duplicate player across squads",
			mutate: func(squads map[string][]string, o *Openers, tossWinner *string) {
				squads["Tigers"] = []string{"Asha", "Dev"}
			},
			wantErr: ErrDuplicatePlayer,
		},
		{
			name: "opener not in a squad",
			mutate: func(squads map[string][]string, o *Openers, tossWinner *string) {
				o.Bowler = "Ghost"
			},
			wantErr: ErrNotInSquad,
		},
		{
			name: "opening roles must be distinct",
			mutate: func(squads map[string][]string, o *Openers, tossWinner *string) {
				o.Batsman2 = "Asha"
			},
			wantErr: ErrInvalidBatsman,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sq := map[string][]string{}
			for k, v := range squads {
				sq[k] = append([]string(nil), v...)
			}
			o := openers
			tossWinner := "Lions"
			tt.mutate(sq, &o, &tossWinner)

			_, err := StartMatch(1, "Lions", "Tigers", 2, tossWinner, TossBat, o, sq)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestStartMatchRejectsUnknownTossWinner(t *testing.T) {
	_, err := StartMatch(1, "Lions", "Tigers", 2, "Bears", TossBat,
		Openers{Batsman1: "Asha", Batsman2: "Bina", Bowler: "Chand"},
		map[string][]string{"Lions": {"Asha", "Bina"}, "Tigers": {"Chand", "Dev"}})
	if err == nil {
		t.Fatal("expected an error for a toss winner not in the match")
	}
}

func TestBattingTeamFollowsToss(t *testing.T) {
	tests := []struct {
		name     string
		decision TossDecision
		innings  int
		want     string
	}{
		{"winner bats first", TossBat, 1, "Lions"},
		{"winner fields first", TossField, 1, "Tigers"},
		{"chase after batting", TossBat, 2, "Tigers"},
		{"chase after fielding", TossField, 2, "Lions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &MatchState{TeamA: "Lions", TeamB: "Tigers", TossWinner: "Lions", TossDecision: tt.decision, Innings: tt.innings}
			if got := s.BattingTeam(); got != tt.want {
				t.Fatalf("BattingTeam() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestChangeBowler(t *testing.T) {
	s := newLiveState(t)

	if err := s.ChangeBowler("Chand"); !errors.Is(err, ErrSameBowler) {
		t.Fatalf("expected ErrSameBowler, got %v", err)
	}
	if err := s.ChangeBowler("Ghost"); !errors.Is(err, ErrInvalidBowler) {
		t.Fatalf("expected ErrInvalidBowler, got %v", err)
	}

	s.BowlingStats["Dev"].Runs = 11
	s.BowlingStats["Dev"].Balls = 6
	if err := s.ChangeBowler("Dev"); err != nil {
		t.Fatalf("ChangeBowler: %v", err)
	}
	if s.Bowler.Name != "Dev" || s.Bowler.Runs != 11 || s.Bowler.Balls != 6 {
		t.Fatalf("snapshot must seed from the ledger: %+v", s.Bowler)
	}
}

func TestChangeBowlerRejectsBatsmenAtTheCrease(t *testing.T) {
	s := newLiveState(t)

	for _, name := range []string{"Asha", "Bina"} {
		if err := s.ChangeBowler(name); !errors.Is(err, ErrInvalidBowler) {
			t.Fatalf("ChangeBowler(%q): expected ErrInvalidBowler, got %v", name, err)
		}
	}
	if s.Bowler.Name != "Chand" {
		t.Fatalf("rejected change must keep the incumbent, got %s", s.Bowler.Name)
	}
	if s.Striker.Name == s.Bowler.Name || s.NonStriker.Name == s.Bowler.Name {
		t.Fatal("a batsman at the crease must never be the bowler")
	}
}

func TestChangeBowlerRequiresActiveCrease(t *testing.T) {
	s := newLiveState(t)
	s.Score.Balls = 12
	if _, _, err := s.EndInnings(false); err != nil {
		t.Fatalf("EndInnings: %v", err)
	}

	// The crease is empty during the handover; a bowler installed now would
	// block the second innings from ever seeding its openers.
	if err := s.ChangeBowler("Asha"); !errors.Is(err, ErrMatchNotLive) {
		t.Fatalf("expected ErrMatchNotLive, got %v", err)
	}
	if s.Bowler != nil {
		t.Fatalf("handover state must keep the crease empty, got %+v", s.Bowler)
	}
	if err := s.StartSecondInnings(Openers{Batsman1: "Chand", Batsman2: "Dev", Bowler: "Asha"}); err != nil {
		t.Fatalf("StartSecondInnings after rejected change: %v", err)
	}
}

func TestEndInningsRejectsOpenInnings(t *testing.T) {
	s := newLiveState(t)
	mustApply(t, s, DeliveryInput{Runs: 1})

	if _, _, err := s.EndInnings(false); !errors.Is(err, ErrInningsNotComplete) {
		t.Fatalf("expected ErrInningsNotComplete, got %v", err)
	}
	if _, _, err := s.EndInnings(true); err != nil {
		t.Fatalf("forced close should succeed: %v", err)
	}
}

func TestFirstInningsHandover(t *testing.T) {
	s := newLiveState(t)

	// Bowl out the two overs with a steady diet of runs and a wicket.
	s.Score = Score{Runs: 45, Wickets: 1, Balls: 12}

	closure, matchOver, err := s.EndInnings(false)
	if err != nil {
		t.Fatalf("EndInnings: %v", err)
	}
	if matchOver {
		t.Fatal("first innings close must not end the match")
	}
	if closure.InningsNo != 1 || closure.BattingTeam != "Lions" {
		t.Fatalf("unexpected closure: %+v", closure)
	}
	if closure.Score.Runs != 45 || closure.OversPlayed != "2.0" {
		t.Fatalf("unexpected closure score: %+v", closure)
	}

	if s.Innings != 2 {
		t.Fatalf("innings = %d, want 2", s.Innings)
	}
	if s.Target == nil || *s.Target != 46 {
		t.Fatalf("target = %v, want 46", s.Target)
	}
	if s.Score != (Score{}) {
		t.Fatalf("score must reset, got %+v", s.Score)
	}
	if s.Striker != nil || s.NonStriker != nil || s.Bowler != nil {
		t.Fatal("crease must be cleared for the handover")
	}
	if len(s.FallOfWickets) != 0 || len(s.CurrentOver) != 0 {
		t.Fatal("fall of wickets and over strip must reset")
	}
}

func TestLedgersSurviveInningsHandover(t *testing.T) {
	s := newLiveState(t)
	mustApply(t, s, DeliveryInput{Runs: 4})
	s.Score.Balls = 12 // exhaust the overs

	if _, _, err := s.EndInnings(false); err != nil {
		t.Fatalf("EndInnings: %v", err)
	}
	if got := s.BattingStats["Asha"].Runs; got != 4 {
		t.Fatalf("ledger must carry across innings, Asha runs = %d", got)
	}
}

func TestSecondInningsClosureEndsMatch(t *testing.T) {
	s := newLiveState(t)
	s.Score.Balls = 12
	if _, _, err := s.EndInnings(false); err != nil {
		t.Fatalf("first EndInnings: %v", err)
	}
	if err := s.StartSecondInnings(Openers{Batsman1: "Chand", Batsman2: "Dev", Bowler: "Asha"}); err != nil {
		t.Fatalf("StartSecondInnings: %v", err)
	}

	s.Score = Score{Runs: 30, Wickets: 0, Balls: 12}
	closure, matchOver, err := s.EndInnings(false)
	if err != nil {
		t.Fatalf("second EndInnings: %v", err)
	}
	if !matchOver {
		t.Fatal("second innings close must end the match")
	}
	if closure.InningsNo != 2 || closure.BattingTeam != "Tigers" {
		t.Fatalf("unexpected closure: %+v", closure)
	}
}

func TestStartSecondInningsGating(t *testing.T) {
	s := newLiveState(t)

	// Not valid mid-innings-1.
	err := s.StartSecondInnings(Openers{Batsman1: "Chand", Batsman2: "Dev", Bowler: "Asha"})
	if !errors.Is(err, ErrInningsNotReady) {
		t.Fatalf("expected ErrInningsNotReady, got %v", err)
	}
}

func TestSecondInningsOpenerCarriesFiguresForward(t *testing.T) {
	s := newLiveState(t)
	mustApply(t, s, DeliveryInput{Runs: 6})
	s.Score.Balls = 12
	if _, _, err := s.EndInnings(false); err != nil {
		t.Fatalf("EndInnings: %v", err)
	}

	// Openers only need to be in the squad union, so a not-out innings-1
	// batter can reopen and resumes their figures.
	if err := s.StartSecondInnings(Openers{Batsman1: "Asha", Batsman2: "Dev", Bowler: "Chand"}); err != nil {
		t.Fatalf("StartSecondInnings: %v", err)
	}
	if s.Striker.Name != "Asha" || s.Striker.Runs != 6 || s.Striker.Sixes != 1 {
		t.Fatalf("striker must resume innings-1 figures: %+v", s.Striker)
	}
	if s.Bowler.Name != "Chand" || s.Bowler.Balls != 1 {
		t.Fatalf("bowler must resume innings-1 figures: %+v", s.Bowler)
	}
}

func TestSecondInningsRejectsDismissedOpener(t *testing.T) {
	s := newLiveState(t)
	mustApply(t, s, DeliveryInput{IsWicket: true, NewBatsman: "Esha"})
	s.Score.Balls = 12
	if _, _, err := s.EndInnings(false); err != nil {
		t.Fatalf("EndInnings: %v", err)
	}

	err := s.StartSecondInnings(Openers{Batsman1: "Asha", Batsman2: "Dev", Bowler: "Chand"})
	if !errors.Is(err, ErrBatsmanAlreadyOut) {
		t.Fatalf("expected ErrBatsmanAlreadyOut, got %v", err)
	}
}
