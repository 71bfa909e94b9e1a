package models

import "time"

// Comment is a citizen reaction attached to a project. Cascade-deleted with
// its project and with its author.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"index;not null" json:"project_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`

	User  User          `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Likes []CommentLike `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE;" json:"-"`
}

// CommentLike is a binary (user, comment) reaction. The composite unique index
// enforces at most one like per user per comment at the storage layer.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_comment_like" json:"user_id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_user_comment_like" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
