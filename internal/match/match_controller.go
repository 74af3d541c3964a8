package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/DhavalSuthar-24/crictally/config"
	"github.com/DhavalSuthar-24/crictally/internal/middleware"
	"github.com/DhavalSuthar-24/crictally/internal/scoring"
	"github.com/DhavalSuthar-24/crictally/pkg/responses"
)

// LiveStateStore is the cache holding the live blob for each LIVE match.
// Satisfied by livestate.RedisStore.
type LiveStateStore interface {
	Load(ctx context.Context, matchID uint) (*scoring.MatchState, error)
	Save(ctx context.Context, matchID uint, state *scoring.MatchState) error
	Delete(ctx context.Context, matchID uint) error
}

// MatchController handles match-related HTTP requests
type MatchController struct {
	repo      MatchRepository
	live      LiveStateStore
	appConfig *config.Config
}

// NewMatchController creates a new match controller
func NewMatchController(repo MatchRepository, live LiveStateStore, appConfig *config.Config) *MatchController {
	return &MatchController{
		repo:      repo,
		live:      live,
		appConfig: appConfig,
	}
}

// --- Helpers ---

func parseMatchID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, errors.New("invalid match ID")
	}
	return uint(id), nil
}

// loadOwnedMatch fetches the match and enforces that the caller created it.
// Writes the error response itself; callers just bail on nil.
func (mc *MatchController) loadOwnedMatch(c *gin.Context) *Match {
	matchID, err := parseMatchID(c)
	if err != nil {
		responses.BadRequest(c, err.Error())
		return nil
	}
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return nil
	}
	m, err := mc.repo.GetMatchByID(matchID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch match")
		return nil
	}
	if m == nil {
		responses.NotFound(c, "Match")
		return nil
	}
	if m.CreatedBy != userID {
		responses.Forbidden(c, "Only the match creator can score this match")
		return nil
	}
	return m
}

// loadLiveState pulls the live blob for a match or writes the error response.
func (mc *MatchController) loadLiveState(c *gin.Context, matchID uint) *scoring.MatchState {
	state, err := mc.live.Load(c.Request.Context(), matchID)
	if err != nil {
		responses.InternalServerError(c, "Failed to load live state")
		return nil
	}
	if state == nil {
		responses.NotFound(c, "Live state for match")
		return nil
	}
	return state
}

// sendScoringError maps the state machine's sentinel errors onto HTTP codes.
func sendScoringError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scoring.ErrInningsOver),
		errors.Is(err, scoring.ErrInningsNotComplete),
		errors.Is(err, scoring.ErrInningsNotReady),
		errors.Is(err, scoring.ErrMatchNotLive):
		responses.Conflict(c, err.Error())
	case errors.Is(err, scoring.ErrBatsmanAlreadyOut),
		errors.Is(err, scoring.ErrAlreadyOut),
		errors.Is(err, scoring.ErrSameBowler):
		responses.UnprocessableEntity(c, err.Error())
	case errors.Is(err, scoring.ErrBatsmanRequired),
		errors.Is(err, scoring.ErrInvalidBatsman),
		errors.Is(err, scoring.ErrInvalidBowler),
		errors.Is(err, scoring.ErrSquadTooSmall),
		errors.Is(err, scoring.ErrNotInSquad),
		errors.Is(err, scoring.ErrDuplicatePlayer):
		responses.BadRequest(c, err.Error())
	case errors.Is(err, scoring.ErrMissingLedgerEntry):
		responses.InternalServerError(c, err.Error())
	default:
		responses.BadRequest(c, err.Error())
	}
}

// --- Handlers ---

// CreateMatch records a new fixture in CREATED state, owned by the caller.
func (mc *MatchController) CreateMatch(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}
	if req.TeamA == req.TeamB {
		responses.BadRequest(c, "Teams must have different names")
		return
	}

	m := Match{
		CreatedBy:  userID,
		TeamA:      req.TeamA,
		TeamB:      req.TeamB,
		OversLimit: req.OversLimit,
		Status:     StatusMatchCreated,
	}
	if err := mc.repo.CreateMatch(&m); err != nil {
		responses.InternalServerError(c, "Failed to create match")
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Match created successfully", toSummary(&m))
}

// StartMatch moves a CREATED match to LIVE: records the toss, persists the
// rosters, builds the innings-1 live state and caches it.
func (mc *MatchController) StartMatch(c *gin.Context) {
	m := mc.loadOwnedMatch(c)
	if m == nil {
		return
	}
	if m.Status != StatusMatchCreated {
		responses.Conflict(c, "Match has already been started")
		return
	}

	var req StartMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}
	for _, name := range []string{m.TeamA, m.TeamB} {
		if _, ok := req.Squads[name]; !ok {
			responses.BadRequest(c, "Squad missing for team "+name)
			return
		}
	}

	state, err := scoring.StartMatch(
		m.ID, m.TeamA, m.TeamB, m.OversLimit,
		req.TossWinner, scoring.TossDecision(req.TossDecision),
		req.Openers, req.Squads,
	)
	if err != nil {
		sendScoringError(c, err)
		return
	}

	err = mc.repo.WithTransaction(func(txRepo MatchRepository) error {
		for team, players := range req.Squads {
			if err := txRepo.ReplaceSquad(m.ID, team, players); err != nil {
				return err
			}
		}
		if err := txRepo.RecordToss(m.ID, req.TossWinner, req.TossDecision); err != nil {
			return err
		}
		return txRepo.UpdateMatchStatus(m.ID, StatusMatchLive)
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to start match")
		return
	}

	if err := mc.live.Save(c.Request.Context(), m.ID, state); err != nil {
		responses.InternalServerError(c, "Failed to cache live state")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Match started", MatchStateResponse{
		State:       state,
		OversPlayed: scoring.OversPlayed(state.Score.Balls),
		BattingTeam: state.BattingTeam(),
	})
}

// AddBall applies one delivery to the live state. The blob is loaded, the
// transition applied and the blob written back; a rejected transition
// persists nothing.
func (mc *MatchController) AddBall(c *gin.Context) {
	m := mc.loadOwnedMatch(c)
	if m == nil {
		return
	}
	if m.Status != StatusMatchLive {
		responses.Conflict(c, "Match is not live")
		return
	}

	var req AddBallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	state := mc.loadLiveState(c, m.ID)
	if state == nil {
		return
	}

	input := scoring.DeliveryInput{
		Runs:       req.Runs,
		IsWicket:   req.IsWicket,
		ExtraType:  scoring.ExtraType(req.ExtraType),
		WicketType: req.WicketType,
		NewBatsman: req.NewBatsman,
	}
	if err := state.ApplyDelivery(input); err != nil {
		sendScoringError(c, err)
		return
	}
	if err := mc.live.Save(c.Request.Context(), m.ID, state); err != nil {
		responses.InternalServerError(c, "Failed to save live state")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Ball recorded", MatchStateResponse{
		State:       state,
		OversPlayed: scoring.OversPlayed(state.Score.Balls),
		BattingTeam: state.BattingTeam(),
	})
}

// ChangeBowler swaps the operating bowler mid-innings.
func (mc *MatchController) ChangeBowler(c *gin.Context) {
	m := mc.loadOwnedMatch(c)
	if m == nil {
		return
	}
	if m.Status != StatusMatchLive {
		responses.Conflict(c, "Match is not live")
		return
	}

	var req ChangeBowlerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	state := mc.loadLiveState(c, m.ID)
	if state == nil {
		return
	}
	if err := state.ChangeBowler(req.NewBowler); err != nil {
		sendScoringError(c, err)
		return
	}
	if err := mc.live.Save(c.Request.Context(), m.ID, state); err != nil {
		responses.InternalServerError(c, "Failed to save live state")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Bowler changed", state.Bowler)
}

// EndInnings archives the closing innings. After innings 1 the live state is
// reset for the chase; after innings 2 the result is decided, the match row
// completed and the live blob retired.
func (mc *MatchController) EndInnings(c *gin.Context) {
	m := mc.loadOwnedMatch(c)
	if m == nil {
		return
	}
	if m.Status != StatusMatchLive {
		responses.Conflict(c, "Match is not live")
		return
	}

	var req EndInningsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.SendValidationError(c, err)
			return
		}
	}

	state := mc.loadLiveState(c, m.ID)
	if state == nil {
		return
	}

	closure, matchOver, err := state.EndInnings(req.Force)
	if err != nil {
		sendScoringError(c, err)
		return
	}

	summary, err := json.Marshal(closure)
	if err != nil {
		responses.InternalServerError(c, "Failed to serialize innings summary")
		return
	}
	record := InningsRecord{
		MatchID:     m.ID,
		InningsNo:   closure.InningsNo,
		BattingTeam: closure.BattingTeam,
		Runs:        closure.Score.Runs,
		Wickets:     closure.Score.Wickets,
		Balls:       closure.Score.Balls,
		Summary:     string(summary),
	}

	if !matchOver {
		if err := mc.repo.AppendInnings(&record); err != nil {
			responses.InternalServerError(c, "Failed to archive innings")
			return
		}
		if err := mc.live.Save(c.Request.Context(), m.ID, state); err != nil {
			responses.InternalServerError(c, "Failed to save live state")
			return
		}
		responses.SendSuccess(c, http.StatusOK, "Innings closed", gin.H{
			"innings": closure,
			"target":  state.Target,
		})
		return
	}

	winner, resultText := decideResult(state, closure)
	err = mc.repo.WithTransaction(func(txRepo MatchRepository) error {
		if err := txRepo.AppendInnings(&record); err != nil {
			return err
		}
		return txRepo.CompleteMatch(m.ID, winner, resultText)
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to complete match")
		return
	}
	if err := mc.live.Delete(c.Request.Context(), m.ID); err != nil {
		responses.InternalServerError(c, "Failed to retire live state")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Match completed", gin.H{
		"innings":     closure,
		"winner":      winner,
		"result_text": resultText,
	})
}

// decideResult works out the winner once both innings are in. The chase wins
// on reaching the target, falls to a tie one run short of it, and loses by
// the remaining margin otherwise.
func decideResult(state *scoring.MatchState, closure *scoring.InningsClosure) (winner, resultText string) {
	chasing := closure.BattingTeam
	defending := state.TeamA
	if chasing == state.TeamA {
		defending = state.TeamB
	}
	target := *state.Target

	switch {
	case closure.Score.Runs >= target:
		available := min(len(state.Squads[chasing])-1, 10)
		inHand := available - closure.Score.Wickets
		return chasing, fmt.Sprintf("%s won by %d wicket(s)", chasing, inHand)
	case closure.Score.Runs == target-1:
		return "", "Match tied"
	default:
		margin := target - 1 - closure.Score.Runs
		return defending, fmt.Sprintf("%s won by %d run(s)", defending, margin)
	}
}

// StartInnings2 puts the chase's openers at the crease on the reset state.
func (mc *MatchController) StartInnings2(c *gin.Context) {
	m := mc.loadOwnedMatch(c)
	if m == nil {
		return
	}
	if m.Status != StatusMatchLive {
		responses.Conflict(c, "Match is not live")
		return
	}

	var req StartInnings2Request
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	state := mc.loadLiveState(c, m.ID)
	if state == nil {
		return
	}
	if err := state.StartSecondInnings(req.Openers); err != nil {
		sendScoringError(c, err)
		return
	}
	if err := mc.live.Save(c.Request.Context(), m.ID, state); err != nil {
		responses.InternalServerError(c, "Failed to save live state")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Second innings started", MatchStateResponse{
		State:       state,
		OversPlayed: scoring.OversPlayed(state.Score.Balls),
		BattingTeam: state.BattingTeam(),
	})
}

// GetMatchState returns the full live blob for the scorer's console.
func (mc *MatchController) GetMatchState(c *gin.Context) {
	m := mc.loadOwnedMatch(c)
	if m == nil {
		return
	}
	if m.Status != StatusMatchLive {
		responses.Conflict(c, "Match is not live")
		return
	}
	state := mc.loadLiveState(c, m.ID)
	if state == nil {
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Live state", MatchStateResponse{
		State:       state,
		OversPlayed: scoring.OversPlayed(state.Score.Balls),
		BattingTeam: state.BattingTeam(),
	})
}

// DeleteMatch removes a match the caller owns, together with its rosters,
// archived innings and any cached live state.
func (mc *MatchController) DeleteMatch(c *gin.Context) {
	m := mc.loadOwnedMatch(c)
	if m == nil {
		return
	}
	if err := mc.repo.DeleteMatch(m.ID); err != nil {
		responses.InternalServerError(c, "Failed to delete match")
		return
	}
	if err := mc.live.Delete(c.Request.Context(), m.ID); err != nil {
		responses.InternalServerError(c, "Failed to clear live state")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Match deleted successfully", nil)
}

// --- Public (unauthenticated) listings ---

// GetLiveMatches lists matches in play, each with its current live score.
func (mc *MatchController) GetLiveMatches(c *gin.Context) {
	matches, err := mc.repo.GetMatchesByStatus(StatusMatchLive)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch matches")
		return
	}

	out := make([]gin.H, 0, len(matches))
	for i := range matches {
		entry := gin.H{"match": toSummary(&matches[i])}
		state, err := mc.live.Load(c.Request.Context(), matches[i].ID)
		if err == nil && state != nil {
			entry["score"] = state.Score
			entry["overs_played"] = scoring.OversPlayed(state.Score.Balls)
			entry["batting_team"] = state.BattingTeam()
			entry["innings"] = state.Innings
			entry["target"] = state.Target
		}
		out = append(out, entry)
	}
	responses.SendSuccess(c, http.StatusOK, "Live matches", out)
}

// GetMatchScorecard returns a match's archived innings for the public
// scoreboard. Available as soon as the first innings closes.
func (mc *MatchController) GetMatchScorecard(c *gin.Context) {
	matchID, err := parseMatchID(c)
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	m, err := mc.repo.GetMatchByID(matchID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch match")
		return
	}
	if m == nil {
		responses.NotFound(c, "Match")
		return
	}

	records, err := mc.repo.GetInnings(matchID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch innings")
		return
	}
	innings := make([]gin.H, 0, len(records))
	for _, rec := range records {
		innings = append(innings, gin.H{
			"innings_no":   rec.InningsNo,
			"batting_team": rec.BattingTeam,
			"score":        scoring.Score{Runs: rec.Runs, Wickets: rec.Wickets, Balls: rec.Balls},
			"overs_played": scoring.OversPlayed(rec.Balls),
			"detail":       json.RawMessage(rec.Summary),
		})
	}
	responses.SendSuccess(c, http.StatusOK, "Scorecard", gin.H{
		"match":   toSummary(m),
		"innings": innings,
	})
}

// GetUpcomingMatches lists fixtures not yet started.
func (mc *MatchController) GetUpcomingMatches(c *gin.Context) {
	matches, err := mc.repo.GetMatchesByStatus(StatusMatchCreated)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch matches")
		return
	}
	out := make([]MatchSummary, 0, len(matches))
	for i := range matches {
		out = append(out, toSummary(&matches[i]))
	}
	responses.SendSuccess(c, http.StatusOK, "Upcoming matches", out)
}

// GetCompletedMatches lists finished matches with their results.
func (mc *MatchController) GetCompletedMatches(c *gin.Context) {
	matches, err := mc.repo.GetMatchesByStatus(StatusMatchCompleted)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch matches")
		return
	}
	out := make([]MatchSummary, 0, len(matches))
	for i := range matches {
		out = append(out, toSummary(&matches[i]))
	}
	responses.SendSuccess(c, http.StatusOK, "Completed matches", out)
}
