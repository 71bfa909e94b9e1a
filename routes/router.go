package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wrose11/StadsSurr-prod/config"
	"github.com/wrose11/StadsSurr-prod/controllers"
	"github.com/wrose11/StadsSurr-prod/middleware"
	"github.com/wrose11/StadsSurr-prod/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(utils.GinLogger())
	r.Use(utils.GinRecovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	authController := controllers.NewAuthController(db)
	projectController := controllers.NewProjectController(db)
	postController := controllers.NewPostController(db)
	userController := controllers.NewUserController(db)
	feedController := controllers.NewFeedController(db)

	api := r.Group("/api")

	api.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"ok": true})
	})

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Read paths accept anonymous callers; identity only personalizes the view.
	public := api.Group("")
	public.Use(middleware.AuthOptional())
	public.GET("/projects", projectController.List)
	public.GET("/projects/geojson", projectController.GeoJSON)
	public.GET("/projects/:id", projectController.Get)
	public.GET("/projects/:id/comments", projectController.ListComments)
	public.GET("/projects/:id/news", projectController.ListNews)
	public.GET("/posts", postController.List)
	public.GET("/posts/geojson", postController.GeoJSON)
	public.GET("/posts/:id", postController.Get)
	public.GET("/posts/:id/comments", postController.ListComments)
	public.GET("/users", userController.List)
	public.GET("/users/:id/followers", userController.Followers)
	public.GET("/users/:id/following", userController.Following)
	public.GET("/users/:id/activity", userController.Activity)
	public.GET("/users/:id/posts", postController.UserPosts)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())
	protected.POST("/comments", projectController.CreateComment)
	protected.POST("/comments/:id/like", projectController.ToggleCommentLike)
	protected.POST("/votes", projectController.Vote)
	protected.POST("/projects/:id/consultations", projectController.CreateConsultation)
	protected.POST("/projects/:id/news", projectController.CreateNews)
	protected.POST("/posts", postController.Create)
	protected.POST("/posts/:id/comments", postController.CreateComment)
	protected.POST("/posts/:id/vote", postController.Vote)
	protected.POST("/post-comments/:id/like", postController.ToggleCommentLike)
	protected.POST("/users/:id/bio", authController.UpdateBio)
	protected.POST("/users/:id/follow", userController.Follow)
	protected.DELETE("/users/:id/follow", userController.Unfollow)
	protected.GET("/users/:id/is-following", userController.IsFollowing)
	protected.GET("/for_you", feedController.ForYou)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
