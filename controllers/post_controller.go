package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/wrose11/StadsSurr-prod/models"
	"github.com/wrose11/StadsSurr-prod/utils"
)

// PostController serves user-authored posts and their engagement operations.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a PostController.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

func (p *PostController) postSummary(ctx *gin.Context, post models.Post) gin.H {
	var commentsCount int64
	p.db.Model(&models.PostComment{}).Where("post_id = ?", post.ID).Count(&commentsCount)
	upvotes, downvotes := postVoteCounts(p.db, post.ID)

	var userVote interface{}
	if userID, ok := currentUserID(ctx); ok {
		userVote = postUserVote(p.db, post.ID, userID)
	}

	var lat, lng interface{}
	if coords := post.Coordinates.Data(); coords != nil {
		lat, lng = coords.Latitude, coords.Longitude
	}

	return gin.H{
		"id":             post.ID,
		"title":          post.Title,
		"content":        post.Content,
		"image_url":      post.ImageURL,
		"created_at":     post.CreatedAt,
		"author_id":      post.UserID,
		"author_name":    userName(p.db, post.UserID),
		"comments_count": commentsCount,
		"upvotes":        upvotes,
		"downvotes":      downvotes,
		"user_vote":      userVote,
		"latitude":       lat,
		"longitude":      lng,
	}
}

// List returns all posts newest first with live engagement counts.
func (p *PostController) List(ctx *gin.Context) {
	var posts []models.Post
	if err := p.db.Order("created_at DESC").Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50200, "failed to retrieve posts")
		return
	}

	result := make([]gin.H, 0, len(posts))
	for _, post := range posts {
		result = append(result, p.postSummary(ctx, post))
	}
	utils.Success(ctx, result)
}

// Get returns one post with live engagement counts.
func (p *PostController) Get(ctx *gin.Context) {
	var post models.Post
	if err := p.db.First(&post, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40404, "post not found")
		return
	}
	utils.Success(ctx, p.postSummary(ctx, post))
}

// Create stores a new post owned by the caller. Coordinates are optional.
func (p *PostController) Create(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "login required to create a post")
		return
	}

	var req struct {
		Title       string              `json:"title" binding:"required"`
		Content     string              `json:"content" binding:"required"`
		ImageURL    string              `json:"image_url"`
		Coordinates *models.Coordinates `json:"coordinates"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	title := strings.TrimSpace(req.Title)
	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if title == "" || content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40031, "title and content must not be empty")
		return
	}

	post := models.Post{
		UserID:      userID,
		Title:       title,
		Content:     content,
		ImageURL:    req.ImageURL,
		Coordinates: datatypes.NewJSONType(req.Coordinates),
	}
	if err := p.db.Create(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50201, "failed to create post")
		return
	}

	utils.Created(ctx, gin.H{
		"id":          post.ID,
		"title":       post.Title,
		"content":     post.Content,
		"image_url":   post.ImageURL,
		"created_at":  post.CreatedAt,
		"author_id":   post.UserID,
		"author_name": userName(p.db, userID),
	})
}

// GeoJSON returns the post map layer; posts without coordinates are skipped.
func (p *PostController) GeoJSON(ctx *gin.Context) {
	const cacheKey = "cache:posts:geojson"
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var posts []models.Post
	if err := p.db.Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50202, "failed to retrieve posts")
		return
	}

	features := make([]utils.GeoFeature, 0, len(posts))
	for _, post := range posts {
		coords := post.Coordinates.Data()
		if coords == nil {
			continue
		}
		features = append(features, utils.NewGeoFeature(coords.Latitude, coords.Longitude, map[string]interface{}{
			"id":          post.ID,
			"title":       post.Title,
			"author_name": userName(p.db, post.UserID),
			"created_at":  post.CreatedAt,
			"thumbnail":   nilIfEmpty(post.ImageURL),
		}))
	}

	collection := utils.NewGeoFeatureCollection(features)
	utils.CacheSetJSON(cacheKey, collection, 5*time.Minute)
	ctx.JSON(http.StatusOK, collection)
}

// ListComments returns a post's comments newest first with like state.
func (p *PostController) ListComments(ctx *gin.Context) {
	postID := ctx.Param("id")
	callerID, authed := currentUserID(ctx)

	var comments []models.PostComment
	if err := p.db.Where("post_id = ?", postID).Order("created_at DESC").Find(&comments).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50203, "failed to retrieve comments")
		return
	}

	result := make([]gin.H, 0, len(comments))
	for _, comment := range comments {
		var likeCount int64
		p.db.Model(&models.PostCommentLike{}).Where("comment_id = ?", comment.ID).Count(&likeCount)

		likedByUser := false
		if authed {
			var n int64
			p.db.Model(&models.PostCommentLike{}).
				Where("comment_id = ? AND user_id = ?", comment.ID, callerID).Count(&n)
			likedByUser = n > 0
		}

		result = append(result, gin.H{
			"id":            comment.ID,
			"post_id":       comment.PostID,
			"user_id":       comment.UserID,
			"user_name":     userName(p.db, comment.UserID),
			"content":       comment.Content,
			"created_at":    comment.CreatedAt,
			"likes":         likeCount,
			"liked_by_user": likedByUser,
		})
	}
	utils.Success(ctx, result)
}

// CreateComment adds a comment to a post.
func (p *PostController) CreateComment(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "login required to comment")
		return
	}

	var post models.Post
	if err := p.db.First(&post, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40404, "post not found")
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40032, "invalid request payload")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "content must not be empty")
		return
	}

	comment := models.PostComment{
		PostID:  post.ID,
		UserID:  userID,
		Content: content,
	}
	if err := p.db.Create(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50204, "failed to create comment")
		return
	}

	utils.Created(ctx, gin.H{
		"id":         comment.ID,
		"post_id":    comment.PostID,
		"user_id":    comment.UserID,
		"user_name":  userName(p.db, userID),
		"content":    comment.Content,
		"created_at": comment.CreatedAt,
	})
}

// ToggleCommentLike flips the caller's like on a post comment.
func (p *PostController) ToggleCommentLike(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "login required to like a comment")
		return
	}

	var comment models.PostComment
	if err := p.db.First(&comment, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40403, "comment not found")
		return
	}
	if comment.UserID == userID {
		utils.Error(ctx, http.StatusBadRequest, 40024, "cannot like your own comment")
		return
	}

	var existing models.PostCommentLike
	err := p.db.Where("comment_id = ? AND user_id = ?", comment.ID, userID).First(&existing).Error

	liked := false
	if err == nil {
		if err := p.db.Delete(&existing).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50205, "failed to remove like")
			return
		}
	} else {
		like := models.PostCommentLike{CommentID: comment.ID, UserID: userID}
		if err := p.db.Create(&like).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50205, "failed to create like")
			return
		}
		liked = true
	}

	var likeCount int64
	p.db.Model(&models.PostCommentLike{}).Where("comment_id = ?", comment.ID).Count(&likeCount)
	utils.Success(ctx, gin.H{"liked": liked, "likes": likeCount})
}

// Vote applies the same toggle semantics as project votes to a post.
func (p *PostController) Vote(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "login required to vote")
		return
	}

	var post models.Post
	if err := p.db.First(&post, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40404, "post not found")
		return
	}

	var req struct {
		VoteType string `json:"vote_type" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40033, "invalid request payload")
		return
	}
	if !models.ValidVoteType(req.VoteType) {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid vote type")
		return
	}

	var existing models.PostVote
	err := p.db.Where("post_id = ? AND user_id = ?", post.ID, userID).First(&existing).Error
	switch {
	case err == nil && existing.VoteType == req.VoteType:
		if err := p.db.Delete(&existing).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50206, "failed to remove vote")
			return
		}
		utils.Success(ctx, gin.H{"action": "removed"})
	case err == nil:
		existing.VoteType = req.VoteType
		if err := p.db.Save(&existing).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50206, "failed to change vote")
			return
		}
		utils.Success(ctx, gin.H{"action": "changed"})
	default:
		vote := models.PostVote{PostID: post.ID, UserID: userID, VoteType: req.VoteType}
		if err := p.db.Create(&vote).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50206, "failed to create vote")
			return
		}
		utils.Success(ctx, gin.H{"action": "created"})
	}
}

// UserPosts returns a user's posts newest first with live counts.
func (p *PostController) UserPosts(ctx *gin.Context) {
	var user models.User
	if err := p.db.First(&user, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	var posts []models.Post
	if err := p.db.Where("user_id = ?", user.ID).Order("created_at DESC").Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50207, "failed to retrieve posts")
		return
	}

	result := make([]gin.H, 0, len(posts))
	for _, post := range posts {
		var commentsCount int64
		p.db.Model(&models.PostComment{}).Where("post_id = ?", post.ID).Count(&commentsCount)
		upvotes, downvotes := postVoteCounts(p.db, post.ID)

		result = append(result, gin.H{
			"id":             post.ID,
			"title":          post.Title,
			"content":        post.Content,
			"image_url":      post.ImageURL,
			"created_at":     post.CreatedAt,
			"comments_count": commentsCount,
			"upvotes":        upvotes,
			"downvotes":      downvotes,
		})
	}
	utils.Success(ctx, result)
}
