// Package audit persists one row per document-generation attempt, so
// operators can see who generated what and which requests failed.
package audit

import (
	"time"

	"github.com/jinzhu/gorm"
	"github.com/rs/zerolog"
)

// Document kinds recorded in the log.
const (
	DocCarePlan   = "care_plan"
	DocValidation = "validation_report"
)

// Outcome values recorded in the log.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// RenderLog is one generation attempt.
type RenderLog struct {
	ID         uint   `gorm:"primary_key"`
	PersonName string `gorm:"size:255"`
	MedicalID  string `gorm:"size:64"`
	Document   string `gorm:"size:32"`
	Status     string `gorm:"size:16"`
	Error      string `gorm:"type:text"`
	CreatedAt  time.Time
}

// Store writes render-log rows. A nil database disables the log; writes
// never fail the request they describe.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewStore(db *gorm.DB, log zerolog.Logger) *Store {
	if db != nil {
		if err := db.AutoMigrate(&RenderLog{}).Error; err != nil {
			log.Warn().Err(err).Msg("Failed to migrate render log table")
		}
	}
	return &Store{
		db:  db,
		log: log,
	}
}

func (s *Store) Record(entry RenderLog) {
	if s.db == nil {
		return
	}
	if err := s.db.Create(&entry).Error; err != nil {
		s.log.Warn().Err(err).
			Str("person", entry.PersonName).
			Str("document", entry.Document).
			Msg("Failed to write render log")
	}
}
