package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wrose11/StadsSurr-prod/middleware"
	"github.com/wrose11/StadsSurr-prod/models"
)

// currentUserID returns the authenticated caller's id when the auth
// middleware resolved one; anonymous callers get ok=false.
func currentUserID(ctx *gin.Context) (uint, bool) {
	v, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// userName looks up a display name, tolerating deleted authors.
func userName(db *gorm.DB, userID uint) string {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return "Unknown"
	}
	return user.Name
}

// projectVoteCounts recomputes live vote totals from ledger rows. The seeded
// counters on Project are never consulted here.
func projectVoteCounts(db *gorm.DB, projectID uint) (upvotes, downvotes int64) {
	db.Model(&models.Vote{}).Where("project_id = ? AND vote_type = ?", projectID, models.VoteTypeUp).Count(&upvotes)
	db.Model(&models.Vote{}).Where("project_id = ? AND vote_type = ?", projectID, models.VoteTypeDown).Count(&downvotes)
	return
}

func postVoteCounts(db *gorm.DB, postID uint) (upvotes, downvotes int64) {
	db.Model(&models.PostVote{}).Where("post_id = ? AND vote_type = ?", postID, models.VoteTypeUp).Count(&upvotes)
	db.Model(&models.PostVote{}).Where("post_id = ? AND vote_type = ?", postID, models.VoteTypeDown).Count(&downvotes)
	return
}

// projectUserVote returns the caller's own vote type or nil when absent.
func projectUserVote(db *gorm.DB, projectID, userID uint) interface{} {
	var vote models.Vote
	if err := db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&vote).Error; err != nil {
		return nil
	}
	return vote.VoteType
}

func postUserVote(db *gorm.DB, postID, userID uint) interface{} {
	var vote models.PostVote
	if err := db.Where("post_id = ? AND user_id = ?", postID, userID).First(&vote).Error; err != nil {
		return nil
	}
	return vote.VoteType
}
