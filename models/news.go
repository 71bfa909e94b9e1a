package models

import "time"

// NewsArticle is press coverage linked to a project. Cascade-deleted with the
// project. Date is an ISO date or datetime string as delivered by the source.
type NewsArticle struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"index;not null" json:"project_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	URL       string    `gorm:"size:512;not null" json:"url"`
	Source    string    `gorm:"size:128" json:"source"`
	Date      string    `gorm:"size:64" json:"date"`
	Summary   string    `gorm:"type:text" json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}
