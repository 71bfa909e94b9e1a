package models

import "time"

// PostComment is a reply on a citizen post. Cascade-deleted with the post.
type PostComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`

	User  User              `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Likes []PostCommentLike `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE;" json:"-"`
}

// PostCommentLike mirrors CommentLike for post comments.
type PostCommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_post_comment_like" json:"user_id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_user_post_comment_like" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
