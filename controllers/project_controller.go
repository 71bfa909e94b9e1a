package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wrose11/StadsSurr-prod/models"
	"github.com/wrose11/StadsSurr-prod/utils"
)

// ProjectController serves municipal project reads plus the engagement
// operations hanging off projects (comments, votes, consultations, news).
// Projects themselves are loader-managed; there is no create/update endpoint.
type ProjectController struct {
	db *gorm.DB
}

// NewProjectController creates a ProjectController.
func NewProjectController(db *gorm.DB) *ProjectController {
	return &ProjectController{db: db}
}

// projectSummary assembles the read view with ledger-derived counts and the
// caller's own vote when authenticated.
func (p *ProjectController) projectSummary(ctx *gin.Context, project models.Project) gin.H {
	var commentsCount int64
	p.db.Model(&models.Comment{}).Where("project_id = ?", project.ID).Count(&commentsCount)
	upvotes, downvotes := projectVoteCounts(p.db, project.ID)

	var userVote interface{}
	if userID, ok := currentUserID(ctx); ok {
		userVote = projectUserVote(p.db, project.ID, userID)
	}

	coords := project.Coordinates.Data()
	return gin.H{
		"id":             project.ID,
		"title":          project.Title,
		"description":    project.Preamble,
		"location":       project.Location,
		"phase":          project.Phase,
		"comments_count": commentsCount,
		"upvotes":        upvotes,
		"downvotes":      downvotes,
		"user_vote":      userVote,
		"latitude":       coords.Latitude,
		"longitude":      coords.Longitude,
		"images":         project.ImageURL,
	}
}

// List returns all projects with live engagement counts.
func (p *ProjectController) List(ctx *gin.Context) {
	var projects []models.Project
	if err := p.db.Find(&projects).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50100, "failed to retrieve projects")
		return
	}

	result := make([]gin.H, 0, len(projects))
	for _, project := range projects {
		result = append(result, p.projectSummary(ctx, project))
	}
	utils.Success(ctx, result)
}

// Get returns one project with the detail-only fields included.
func (p *ProjectController) Get(ctx *gin.Context) {
	var project models.Project
	if err := p.db.First(&project, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40402, "project not found")
		return
	}

	summary := p.projectSummary(ctx, project)
	summary["tidplan_html"] = project.TidplanHTML
	summary["url"] = project.URL
	utils.Success(ctx, summary)
}

// GeoJSON returns the project map layer, optionally filtered by phase. The
// layer carries no engagement counts so it is safe to cache.
func (p *ProjectController) GeoJSON(ctx *gin.Context) {
	phase := strings.TrimSpace(ctx.Query("phase"))
	cacheKey := "cache:projects:geojson:" + phase
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	query := p.db.Model(&models.Project{})
	if phase != "" {
		query = query.Where("phase = ?", phase)
	}

	var projects []models.Project
	if err := query.Find(&projects).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50101, "failed to retrieve projects")
		return
	}

	features := make([]utils.GeoFeature, 0, len(projects))
	for _, project := range projects {
		coords := project.Coordinates.Data()
		if coords.Latitude == 0 && coords.Longitude == 0 {
			continue
		}
		features = append(features, utils.NewGeoFeature(coords.Latitude, coords.Longitude, map[string]interface{}{
			"id":          project.ID,
			"title":       project.Title,
			"phase":       project.Phase,
			"location":    project.Location,
			"widget_text": project.WidgetText,
			"thumbnail":   nilIfEmpty(project.ImageURL),
		}))
	}

	collection := utils.NewGeoFeatureCollection(features)
	utils.CacheSetJSON(cacheKey, collection, 10*time.Minute)
	ctx.JSON(http.StatusOK, collection)
}

// ListComments returns a project's comments newest first, each with its live
// like count and whether the caller already liked it.
func (p *ProjectController) ListComments(ctx *gin.Context) {
	projectID := ctx.Param("id")
	callerID, authed := currentUserID(ctx)

	var comments []models.Comment
	if err := p.db.Where("project_id = ?", projectID).Order("created_at DESC").Find(&comments).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50102, "failed to retrieve comments")
		return
	}

	result := make([]gin.H, 0, len(comments))
	for _, comment := range comments {
		var likeCount int64
		p.db.Model(&models.CommentLike{}).Where("comment_id = ?", comment.ID).Count(&likeCount)

		likedByUser := false
		if authed {
			var n int64
			p.db.Model(&models.CommentLike{}).
				Where("comment_id = ? AND user_id = ?", comment.ID, callerID).Count(&n)
			likedByUser = n > 0
		}

		result = append(result, gin.H{
			"id":            comment.ID,
			"project_id":    comment.ProjectID,
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

// CreateComment adds a comment to a project.
func (p *ProjectController) CreateComment(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "login required to comment")
		return
	}

	var req struct {
		ProjectID uint   `json:"project_id" binding:"required"`
		Content   string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "content must not be empty")
		return
	}

	var project models.Project
	if err := p.db.First(&project, req.ProjectID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40402, "project not found")
		return
	}

	comment := models.Comment{
		ProjectID: req.ProjectID,
		UserID:    userID,
		Content:   content,
	}
	if err := p.db.Create(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50103, "failed to create comment")
		return
	}

	utils.Created(ctx, gin.H{
		"id":         comment.ID,
		"project_id": comment.ProjectID,
		"user_id":    comment.UserID,
		"user_name":  userName(p.db, userID),
		"content":    comment.Content,
		"created_at": comment.CreatedAt,
	})
}

// Vote applies toggle semantics to a project vote: same type removes, a
// different type overwrites in place, no prior vote inserts.
func (p *ProjectController) Vote(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "login required to vote")
		return
	}

	var req struct {
		ProjectID uint   `json:"project_id" binding:"required"`
		VoteType  string `json:"vote_type" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid request payload")
		return
	}
	if !models.ValidVoteType(req.VoteType) {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid vote type")
		return
	}

	var project models.Project
	if err := p.db.First(&project, req.ProjectID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40402, "project not found")
		return
	}

	var existing models.Vote
	err := p.db.Where("project_id = ? AND user_id = ?", req.ProjectID, userID).First(&existing).Error
	switch {
	case err == nil && existing.VoteType == req.VoteType:
		if err := p.db.Delete(&existing).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50104, "failed to remove vote")
			return
		}
		utils.Success(ctx, gin.H{"action": "removed"})
	case err == nil:
		existing.VoteType = req.VoteType
		if err := p.db.Save(&existing).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50104, "failed to change vote")
			return
		}
		utils.Success(ctx, gin.H{"action": "changed"})
	default:
		vote := models.Vote{ProjectID: req.ProjectID, UserID: userID, VoteType: req.VoteType}
		if err := p.db.Create(&vote).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50104, "failed to create vote")
			return
		}
		utils.Success(ctx, gin.H{"action": "created"})
	}
}

// ToggleCommentLike flips the caller's like on a project comment. Authors
// cannot like their own comments. The returned count is recomputed from rows.
func (p *ProjectController) ToggleCommentLike(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "login required to like a comment")
		return
	}

	var comment models.Comment
	if err := p.db.First(&comment, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40403, "comment not found")
		return
	}
	if comment.UserID == userID {
		utils.Error(ctx, http.StatusBadRequest, 40024, "cannot like your own comment")
		return
	}

	var existing models.CommentLike
	err := p.db.Where("comment_id = ? AND user_id = ?", comment.ID, userID).First(&existing).Error

	liked := false
	if err == nil {
		if err := p.db.Delete(&existing).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50105, "failed to remove like")
			return
		}
	} else {
		like := models.CommentLike{CommentID: comment.ID, UserID: userID}
		if err := p.db.Create(&like).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50105, "failed to create like")
			return
		}
		liked = true
	}

	var likeCount int64
	p.db.Model(&models.CommentLike{}).Where("comment_id = ?", comment.ID).Count(&likeCount)
	utils.Success(ctx, gin.H{"liked": liked, "likes": likeCount})
}

// CreateConsultation records a formal comment tied to a project phase. The
// consent timestamp is stored separately from creation for the audit trail.
func (p *ProjectController) CreateConsultation(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "login required to submit a consultation")
		return
	}

	projectID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40025, "invalid project id")
		return
	}

	var req struct {
		ProjectID uint   `json:"project_id" binding:"required"`
		Phase     string `json:"phase" binding:"required"`
		Content   string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40026, "invalid request payload")
		return
	}
	if req.ProjectID != uint(projectID) {
		utils.Error(ctx, http.StatusBadRequest, 40027, "project_id in body must match the URL")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "content must not be empty")
		return
	}

	var project models.Project
	if err := p.db.First(&project, projectID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40402, "project not found")
		return
	}

	consultation := models.Consultation{
		ProjectID: uint(projectID),
		UserID:    userID,
		Phase:     req.Phase,
		Content:   content,
		ConsentAt: time.Now(),
	}
	if err := p.db.Create(&consultation).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50106, "failed to create consultation")
		return
	}

	utils.Created(ctx, gin.H{
		"id":         consultation.ID,
		"project_id": consultation.ProjectID,
		"user_id":    consultation.UserID,
		"phase":      consultation.Phase,
		"content":    consultation.Content,
		"consent_at": consultation.ConsentAt,
		"created_at": consultation.CreatedAt,
	})
}

// ListNews returns a project's news articles, newest date first.
func (p *ProjectController) ListNews(ctx *gin.Context) {
	var project models.Project
	if err := p.db.First(&project, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40402, "project not found")
		return
	}

	var items []models.NewsArticle
	if err := p.db.Where("project_id = ?", project.ID).
		Order("date DESC, id DESC").Find(&items).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50107, "failed to retrieve news")
		return
	}
	utils.Success(ctx, items)
}

// CreateNews attaches a news article to a project. Dev/seed convenience.
func (p *ProjectController) CreateNews(ctx *gin.Context) {
	var project models.Project
	if err := p.db.First(&project, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40402, "project not found")
		return
	}

	var req struct {
		Title   string `json:"title" binding:"required"`
		URL     string `json:"url" binding:"required"`
		Source  string `json:"source"`
		Date    string `json:"date"`
		Summary string `json:"summary"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40028, "invalid request payload")
		return
	}

	item := models.NewsArticle{
		ProjectID: project.ID,
		Title:     strings.TrimSpace(req.Title),
		URL:       req.URL,
		Source:    req.Source,
		Date:      req.Date,
		Summary:   req.Summary,
	}
	if err := p.db.Create(&item).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50108, "failed to create news article")
		return
	}
	utils.Created(ctx, item)
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
