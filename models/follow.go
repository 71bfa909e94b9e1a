package models

import "time"

// UserFollow is a directed edge in the follow graph. The composite unique
// index makes the edge at-most-once; self-edges are rejected before insert.
type UserFollow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_user_follow" json:"follower_id"`
	FollowedID uint      `gorm:"not null;uniqueIndex:idx_user_follow" json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`

	Follower User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE;" json:"-"`
	Followed User `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE;" json:"-"`
}
