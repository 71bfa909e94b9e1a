package models

import "time"

// Consultation is a formal structured comment tied to a project phase. The
// consent timestamp is recorded separately from the creation timestamp as an
// audit trail requirement.
type Consultation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"index;not null" json:"project_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Phase     string    `gorm:"size:100;not null" json:"phase"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ConsentAt time.Time `gorm:"not null" json:"consent_at"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
