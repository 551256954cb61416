package adapters

import (
	"time"

	"soulbuddy_backend/internal/feature/horoscope/domain/entity"
)

// HistoryModel is the GORM model for the horoscope_data table.
type HistoryModel struct {
	ID              string                 `gorm:"primaryKey;size:36"`
	UserID          string                 `gorm:"size:36;index;not null"`
	Interpretations entity.Interpretations `gorm:"serializer:json"`
	Recommendations entity.Recommendations `gorm:"serializer:json"`
	MangalDosha     entity.MangalDosha     `gorm:"serializer:json"`
	LastUpdated     time.Time              `gorm:"index;not null"`
}

// TableName returns the table name for GORM.
func (HistoryModel) TableName() string {
	return "horoscope_data"
}

// ToEntity converts the GORM model to a domain snapshot.
func (m *HistoryModel) ToEntity() entity.Snapshot {
	return entity.Snapshot{
		ID:              m.ID,
		UserID:          m.UserID,
		Interpretations: m.Interpretations,
		Recommendations: m.Recommendations,
		MangalDosha:     m.MangalDosha,
		LastUpdated:     m.LastUpdated,
	}
}

// HistoryModelFromEntity converts a domain snapshot to a GORM model.
func HistoryModelFromEntity(s entity.Snapshot) *HistoryModel {
	return &HistoryModel{
		ID:              s.ID,
		UserID:          s.UserID,
		Interpretations: s.Interpretations,
		Recommendations: s.Recommendations,
		MangalDosha:     s.MangalDosha,
		LastUpdated:     s.LastUpdated,
	}
}
