package models

// Vote types are restricted to exactly these two values; anything else is
// rejected before it reaches the storage layer.
const (
	VoteTypeUp   = "upvote"
	VoteTypeDown = "downvote"
)

// ValidVoteType reports whether t is one of the two accepted vote types.
func ValidVoteType(t string) bool {
	return t == VoteTypeUp || t == VoteTypeDown
}

// Vote is one user's standing vote on a project. The (project, user) pair is
// unique: repeating the same type toggles the row away, a different type
// overwrites it in place.
type Vote struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProjectID uint   `gorm:"not null;uniqueIndex:idx_vote_project_user" json:"project_id"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_vote_project_user" json:"user_id"`
	VoteType  string `gorm:"size:16;not null" json:"vote_type"`

	User User `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

// PostVote mirrors Vote for citizen posts, with the same toggle semantics.
type PostVote struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PostID   uint   `gorm:"not null;uniqueIndex:idx_post_vote_post_user" json:"post_id"`
	UserID   uint   `gorm:"not null;uniqueIndex:idx_post_vote_post_user" json:"user_id"`
	VoteType string `gorm:"size:16;not null" json:"vote_type"`

	User User `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
