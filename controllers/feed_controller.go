package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wrose11/StadsSurr-prod/models"
	"github.com/wrose11/StadsSurr-prod/utils"
)

const (
	feedPostLimit    = 20
	feedProjectLimit = 10
)

// FeedController composes the personalized "for you" feed.
type FeedController struct {
	db *gorm.DB
}

// NewFeedController creates a FeedController.
func NewFeedController(db *gorm.DB) *FeedController {
	return &FeedController{db: db}
}

// ForYou builds the caller's feed from their follow set: recent posts by
// followed users plus projects those users engaged with. An empty follow set,
// or one yielding nothing, falls back to the top projects by seeded upvote
// counter. That counter is the one place the seed metadata drives a read.
func (f *FeedController) ForYou(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40140, "login required")
		return
	}

	var followingIDs []uint
	f.db.Model(&models.UserFollow{}).Where("follower_id = ?", callerID).
		Pluck("followed_id", &followingIDs)

	feedItems := []gin.H{}

	if len(followingIDs) > 0 {
		var posts []models.Post
		f.db.Where("user_id IN ?", followingIDs).
			Order("created_at DESC").Limit(feedPostLimit).Find(&posts)

		for _, post := range posts {
			var commentsCount int64
			f.db.Model(&models.PostComment{}).Where("post_id = ?", post.ID).Count(&commentsCount)
			upvotes, downvotes := postVoteCounts(f.db, post.ID)

			feedItems = append(feedItems, gin.H{
				"type":           "post",
				"id":             post.ID,
				"title":          post.Title,
				"content":        post.Content,
				"comments_count": commentsCount,
				"upvotes":        upvotes,
				"downvotes":      downvotes,
				"created_at":     post.CreatedAt,
				"user_id":        post.UserID,
				"user_name":      userName(f.db, post.UserID),
			})
		}

		var commentedIDs, votedIDs []uint
		f.db.Model(&models.Comment{}).Where("user_id IN ?", followingIDs).
			Distinct("project_id").Pluck("project_id", &commentedIDs)
		f.db.Model(&models.Vote{}).Where("user_id IN ?", followingIDs).
			Distinct("project_id").Pluck("project_id", &votedIDs)

		projectIDs := utils.UniqueUint(append(commentedIDs, votedIDs...))
		if len(projectIDs) > 0 {
			var projects []models.Project
			f.db.Where("id IN ?", projectIDs).Limit(feedProjectLimit).Find(&projects)
			feedItems = append(feedItems, f.projectItems(projects)...)
		}
	}

	if len(feedItems) == 0 {
		var projects []models.Project
		f.db.Order("upvotes DESC").Limit(feedProjectLimit).Find(&projects)
		feedItems = append(feedItems, f.projectItems(projects)...)
	}

	utils.Success(ctx, feedItems)
}

func (f *FeedController) projectItems(projects []models.Project) []gin.H {
	items := make([]gin.H, 0, len(projects))
	for _, project := range projects {
		var commentsCount int64
		f.db.Model(&models.Comment{}).Where("project_id = ?", project.ID).Count(&commentsCount)
		upvotes, downvotes := projectVoteCounts(f.db, project.ID)

		description := project.Preamble
		if description == "" {
			description = project.WidgetText
		}

		items = append(items, gin.H{
			"type":           "project",
			"id":             project.ID,
			"title":          project.Title,
			"description":    description,
			"location":       project.Location,
			"phase":          project.Phase,
			"comments_count": commentsCount,
			"upvotes":        upvotes,
			"downvotes":      downvotes,
		})
	}
	return items
}
