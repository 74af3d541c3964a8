package match

import (
	"errors"

	"gorm.io/gorm"
)

// MatchRepository defines methods to interact with match-related data
type MatchRepository interface {
	CreateMatch(match *Match) error
	GetMatchByID(id uint) (*Match, error)
	UpdateMatchStatus(matchID uint, status MatchStatus) error
	RecordToss(matchID uint, tossWinner, tossDecision string) error
	CompleteMatch(matchID uint, winner, resultText string) error
	DeleteMatch(id uint) error
	GetMatchesByStatus(status MatchStatus) ([]Match, error)

	ReplaceSquad(matchID uint, teamName string, players []string) error
	GetSquads(matchID uint) ([]MatchSquad, error)

	AppendInnings(record *InningsRecord) error
	GetInnings(matchID uint) ([]InningsRecord, error)

	// Transaction support
	WithTransaction(txFunc func(MatchRepository) error) error
}

// GormMatchRepository implements MatchRepository using GORM
type GormMatchRepository struct {
	db *gorm.DB
}

// NewGormMatchRepository creates a new GormMatchRepository
func NewGormMatchRepository(db *gorm.DB) *GormMatchRepository {
	return &GormMatchRepository{db: db}
}

func (r *GormMatchRepository) CreateMatch(match *Match) error {
	return r.db.Create(match).Error
}

func (r *GormMatchRepository) GetMatchByID(id uint) (*Match, error) {
	var m Match
	err := r.db.Preload("Squads").Preload("Innings").First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *GormMatchRepository) UpdateMatchStatus(matchID uint, status MatchStatus) error {
	result := r.db.Model(&Match{}).Where("id = ?", matchID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormMatchRepository) RecordToss(matchID uint, tossWinner, tossDecision string) error {
	return r.db.Model(&Match{}).Where("id = ?", matchID).Updates(map[string]interface{}{
		"toss_winner":   tossWinner,
		"toss_decision": tossDecision,
	}).Error
}

func (r *GormMatchRepository) CompleteMatch(matchID uint, winner, resultText string) error {
	return r.db.Model(&Match{}).Where("id = ?", matchID).Updates(map[string]interface{}{
		"status":      StatusMatchCompleted,
		"winner":      winner,
		"result_text": resultText,
	}).Error
}

func (r *GormMatchRepository) DeleteMatch(id uint) error {
	return r.WithTransaction(func(txRepo MatchRepository) error {
		tx := txRepo.(*GormMatchRepository).db
		if err := tx.Where("match_id = ?", id).Delete(&MatchSquad{}).Error; err != nil {
			return err
		}
		if err := tx.Where("match_id = ?", id).Delete(&InningsRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Match{}, id).Error
	})
}

func (r *GormMatchRepository) GetMatchesByStatus(status MatchStatus) ([]Match, error) {
	var matches []Match
	err := r.db.Where("status = ?", status).Order("created_at DESC").Find(&matches).Error
	return matches, err
}

// ReplaceSquad upserts one team's roster for a match. Re-starting a match
// after a failed attempt must not leave stale rosters behind.
func (r *GormMatchRepository) ReplaceSquad(matchID uint, teamName string, players []string) error {
	if err := r.db.Unscoped().
		Where("match_id = ? AND team_name = ?", matchID, teamName).
		Delete(&MatchSquad{}).Error; err != nil {
		return err
	}
	squad := MatchSquad{MatchID: matchID, TeamName: teamName, Players: players}
	return r.db.Create(&squad).Error
}

func (r *GormMatchRepository) GetSquads(matchID uint) ([]MatchSquad, error) {
	var squads []MatchSquad
	err := r.db.Where("match_id = ?", matchID).Find(&squads).Error
	return squads, err
}

// AppendInnings archives one innings summary. Replaces any record already
// stored for the same innings, so a close retried after a failed cache
// write does not duplicate the archive.
func (r *GormMatchRepository) AppendInnings(record *InningsRecord) error {
	if err := r.db.Unscoped().
		Where("match_id = ? AND innings_no = ?", record.MatchID, record.InningsNo).
		Delete(&InningsRecord{}).Error; err != nil {
		return err
	}
	return r.db.Create(record).Error
}

func (r *GormMatchRepository) GetInnings(matchID uint) ([]InningsRecord, error) {
	var records []InningsRecord
	err := r.db.Where("match_id = ?", matchID).Order("innings_no ASC").Find(&records).Error
	return records, err
}

// WithTransaction executes the given function within a database transaction
func (r *GormMatchRepository) WithTransaction(txFunc func(MatchRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := &GormMatchRepository{db: tx}
		return txFunc(txRepo)
	})
}
