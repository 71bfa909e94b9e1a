package models

import (
	"gorm.io/datatypes"
)

// Project is a municipal development project harvested by the offline scraper
// and imported once at boot. There is no user-facing create/update endpoint:
// the catalogue is owned by the scraper.
//
// Upvotes/Downvotes are seed-time popularity metadata. Live counts are always
// derived from the votes table; these two fields are never incremented after
// import and are read only by the recommendation fallback ranking.
type Project struct {
	ID          uint                             `gorm:"primaryKey" json:"id"`
	Title       string                           `gorm:"size:255;not null" json:"title"`
	WidgetText  string                           `gorm:"type:text" json:"widget_text"`
	Preamble    string                           `gorm:"type:text" json:"preamble"`
	Location    string                           `gorm:"size:255" json:"location"`
	Phase       string                           `gorm:"size:128" json:"phase"`
	TidplanHTML string                           `gorm:"type:text" json:"tidplan_html"`
	Coordinates datatypes.JSONType[Coordinates]  `gorm:"not null" json:"coordinates"`
	ImageURL    string                           `gorm:"size:512" json:"image_url"`
	URL         string                           `gorm:"size:512" json:"url"`
	Upvotes     int                              `gorm:"default:0" json:"upvotes"`
	Downvotes   int                              `gorm:"default:0" json:"downvotes"`

	Comments      []Comment      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Votes         []Vote         `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Consultations []Consultation `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	News          []NewsArticle  `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
