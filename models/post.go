package models

import (
	"time"

	"gorm.io/datatypes"
)

// Post is a citizen-authored post, optionally pinned to a map location.
// Ownership is exclusive: deleting the author cascades to the post and from
// there to its comments and votes.
type Post struct {
	ID          uint                              `gorm:"primaryKey" json:"id"`
	UserID      uint                              `gorm:"index;not null" json:"user_id"`
	Title       string                            `gorm:"size:255;not null" json:"title"`
	Content     string                            `gorm:"type:text;not null" json:"content"`
	ImageURL    string                            `gorm:"size:512" json:"image_url"`
	Coordinates datatypes.JSONType[*Coordinates]  `json:"coordinates"`
	CreatedAt   time.Time                         `json:"created_at"`

	User     User          `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Comments []PostComment `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Votes    []PostVote    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
