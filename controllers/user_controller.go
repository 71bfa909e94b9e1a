package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wrose11/StadsSurr-prod/models"
	"github.com/wrose11/StadsSurr-prod/utils"
)

// UserController serves the follow graph and per-user read views.
type UserController struct {
	db *gorm.DB
}

// NewUserController creates a UserController.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

func (u *UserController) isFollowing(followerID, followedID uint) bool {
	var n int64
	u.db.Model(&models.UserFollow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).Count(&n)
	return n > 0
}

// Follow inserts a directed follow edge. Duplicate edges are a conflict and
// self-edges are rejected outright.
func (u *UserController) Follow(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40130, "login required to follow users")
		return
	}

	targetID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid user id")
		return
	}
	if uint(targetID) == callerID {
		utils.Error(ctx, http.StatusBadRequest, 40040, "cannot follow yourself")
		return
	}

	var target models.User
	if err := u.db.First(&target, targetID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	if u.isFollowing(callerID, uint(targetID)) {
		utils.Error(ctx, http.StatusConflict, 40902, "already following this user")
		return
	}

	follow := models.UserFollow{FollowerID: callerID, FollowedID: uint(targetID)}
	if err := u.db.Create(&follow).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50300, "failed to follow user")
		return
	}
	utils.Success(ctx, gin.H{"message": "now following user"})
}

// Unfollow removes the follow edge; removing an absent edge is an error.
func (u *UserController) Unfollow(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40130, "login required")
		return
	}

	targetID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid user id")
		return
	}

	var follow models.UserFollow
	if err := u.db.Where("follower_id = ? AND followed_id = ?", callerID, targetID).
		First(&follow).Error; err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "not following this user")
		return
	}

	if err := u.db.Delete(&follow).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50301, "failed to unfollow user")
		return
	}
	utils.Success(ctx, gin.H{"message": "stopped following user"})
}

func (u *UserController) followList(ctx *gin.Context, users []models.User) []gin.H {
	callerID, authed := currentUserID(ctx)
	result := make([]gin.H, 0, len(users))
	for _, user := range users {
		following := false
		if authed {
			following = u.isFollowing(callerID, user.ID)
		}
		result = append(result, gin.H{
			"id":           user.ID,
			"name":         user.Name,
			"email":        user.Email,
			"bio":          user.Bio,
			"is_following": following,
		})
	}
	return result
}

// Followers lists users following the given user, annotated with whether the
// caller follows each of them.
func (u *UserController) Followers(ctx *gin.Context) {
	var user models.User
	if err := u.db.First(&user, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	var followers []models.User
	if err := u.db.Joins("JOIN user_follows ON user_follows.follower_id = users.id").
		Where("user_follows.followed_id = ?", user.ID).Find(&followers).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50302, "failed to retrieve followers")
		return
	}
	utils.Success(ctx, u.followList(ctx, followers))
}

// Following lists users the given user follows.
func (u *UserController) Following(ctx *gin.Context) {
	var user models.User
	if err := u.db.First(&user, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	var following []models.User
	if err := u.db.Joins("JOIN user_follows ON user_follows.followed_id = users.id").
		Where("user_follows.follower_id = ?", user.ID).Find(&following).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50303, "failed to retrieve following")
		return
	}
	utils.Success(ctx, u.followList(ctx, following))
}

// IsFollowing reports whether the caller follows the given user.
func (u *UserController) IsFollowing(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40130, "login required")
		return
	}

	var target models.User
	if err := u.db.First(&target, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	utils.Success(ctx, gin.H{"is_following": u.isFollowing(callerID, target.ID)})
}

// List returns all users with follower counts and the caller's follow state.
func (u *UserController) List(ctx *gin.Context) {
	var users []models.User
	if err := u.db.Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50304, "failed to retrieve users")
		return
	}

	callerID, authed := currentUserID(ctx)
	result := make([]gin.H, 0, len(users))
	for _, user := range users {
		following := false
		if authed {
			following = u.isFollowing(callerID, user.ID)
		}
		var followersCount int64
		u.db.Model(&models.UserFollow{}).Where("followed_id = ?", user.ID).Count(&followersCount)

		result = append(result, gin.H{
			"id":              user.ID,
			"name":            user.Name,
			"email":           user.Email,
			"bio":             user.Bio,
			"is_following":    following,
			"followers_count": followersCount,
		})
	}
	utils.Success(ctx, result)
}

// Activity returns the profile view: the user plus every project they have
// commented on or voted for, each with live engagement counts.
func (u *UserController) Activity(ctx *gin.Context) {
	var user models.User
	if err := u.db.First(&user, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	var commentedIDs, votedIDs []uint
	u.db.Model(&models.Comment{}).Where("user_id = ?", user.ID).
		Distinct("project_id").Pluck("project_id", &commentedIDs)
	u.db.Model(&models.Vote{}).Where("user_id = ?", user.ID).
		Distinct("project_id").Pluck("project_id", &votedIDs)

	projectIDs := utils.UniqueUint(append(commentedIDs, votedIDs...))

	projects := []models.Project{}
	if len(projectIDs) > 0 {
		if err := u.db.Where("id IN ?", projectIDs).Find(&projects).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50305, "failed to retrieve projects")
			return
		}
	}

	projectViews := make([]gin.H, 0, len(projects))
	for _, project := range projects {
		var commentsCount, userCommentCount int64
		u.db.Model(&models.Comment{}).Where("project_id = ?", project.ID).Count(&commentsCount)
		u.db.Model(&models.Comment{}).
			Where("project_id = ? AND user_id = ?", project.ID, user.ID).Count(&userCommentCount)
		upvotes, downvotes := projectVoteCounts(u.db, project.ID)

		coords := project.Coordinates.Data()
		projectViews = append(projectViews, gin.H{
			"id":                 project.ID,
			"title":              project.Title,
			"description":        project.Preamble,
			"location":           project.Location,
			"phase":              project.Phase,
			"comments_count":     commentsCount,
			"upvotes":            upvotes,
			"downvotes":          downvotes,
			"user_vote":          projectUserVote(u.db, project.ID, user.ID),
			"user_comment_count": userCommentCount,
			"latitude":           coords.Latitude,
			"longitude":          coords.Longitude,
			"images":             project.ImageURL,
		})
	}

	var followersCount int64
	u.db.Model(&models.UserFollow{}).Where("followed_id = ?", user.ID).Count(&followersCount)

	utils.Success(ctx, gin.H{
		"user": gin.H{
			"id":              user.ID,
			"name":            user.Name,
			"email":           user.Email,
			"bio":             user.Bio,
			"followers_count": followersCount,
		},
		"projects": projectViews,
	})
}
