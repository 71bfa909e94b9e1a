package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/wrose11/StadsSurr-prod/models"
	"github.com/wrose11/StadsSurr-prod/utils"
)

// Load imports seed JSON into an empty store. If any project already exists
// the whole import is skipped. Every step dedupes by natural key, so a
// partially failed pass can be retried without duplicating rows. A storage
// failure triggers one migrate-and-retry; a second failure is reported to the
// caller, who logs and boots without seed data.
func Load(db *gorm.DB, dir string) error {
	var count int64
	if err := db.Model(&models.Project{}).Count(&count).Error; err != nil {
		return fmt.Errorf("check seed state: %w", err)
	}
	if count > 0 {
		utils.Sugar.Info("store already initialized, skipping seed import")
		return nil
	}

	if err := runImport(db, dir); err != nil {
		utils.Sugar.Warnf("seed import failed: %v, recreating schema and retrying", err)
		if mErr := db.AutoMigrate(models.All()...); mErr != nil {
			return fmt.Errorf("recreate schema: %w", mErr)
		}
		if err := runImport(db, dir); err != nil {
			return fmt.Errorf("seed import retry: %w", err)
		}
	}
	return nil
}

// runImport performs one full pass inside a single transaction.
func runImport(db *gorm.DB, dir string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := loadProjects(tx, filepath.Join(dir, "data_scraped", "projects.json")); err != nil {
			return err
		}
		if err := loadUsers(tx, filepath.Join(dir, "mock_data", "users.json")); err != nil {
			return err
		}
		if err := loadComments(tx, filepath.Join(dir, "mock_data", "comments.json")); err != nil {
			return err
		}
		if err := loadPosts(tx, filepath.Join(dir, "mock_data", "posts.json")); err != nil {
			return err
		}
		return loadNews(tx, filepath.Join(dir, "mock_data", "news.json"))
	})
}

// readJSON decodes a seed file into out. Missing files are not an error: each
// seed file is optional and simply skipped.
func readJSON(path string, out interface{}) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			utils.Sugar.Warnf("seed file not found at %s", path)
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}

// parseSeedTime accepts the timestamp shapes in the seed data; anything
// unparseable falls back to now.
func parseSeedTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now()
}

type seedProject struct {
	Name        string              `json:"name"`
	WidgetText  string              `json:"widget_text"`
	Preamble    string              `json:"preamble"`
	Location    string              `json:"location"`
	Stage       string              `json:"current_stage"`
	TidplanHTML string              `json:"tidplan_html"`
	Coordinates *models.Coordinates `json:"coordinates"`
	ImageURL    string              `json:"image_url"`
	URL         string              `json:"url"`
	Upvotes     int                 `json:"upvotes"`
	Downvotes   int                 `json:"downvotes"`
}

func loadProjects(tx *gorm.DB, path string) error {
	var items []seedProject
	found, err := readJSON(path, &items)
	if err != nil || !found {
		return err
	}

	inserted := 0
	for _, item := range items {
		var existing models.Project
		if err := tx.Where("title = ?", item.Name).First(&existing).Error; err == nil {
			continue
		}

		coords := models.Coordinates{}
		if item.Coordinates != nil {
			coords = *item.Coordinates
		}

		project := models.Project{
			Title:       item.Name,
			WidgetText:  item.WidgetText,
			Preamble:    item.Preamble,
			Location:    item.Location,
			Phase:       item.Stage,
			TidplanHTML: item.TidplanHTML,
			Coordinates: datatypes.NewJSONType(coords),
			ImageURL:    item.ImageURL,
			URL:         item.URL,
			Upvotes:     item.Upvotes,
			Downvotes:   item.Downvotes,
		}
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		inserted++
	}
	utils.Sugar.Infof("seeded %d projects", inserted)
	return nil
}

type seedUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func loadUsers(tx *gorm.DB, path string) error {
	var items []seedUser
	found, err := readJSON(path, &items)
	if err != nil || !found {
		return err
	}

	inserted := 0
	for _, item := range items {
		email := models.NormalizeEmail(item.Email)

		var existing models.User
		if err := tx.Where("email = ?", email).First(&existing).Error; err == nil {
			continue
		}

		// Mock accounts get their email as the password.
		hash, err := utils.HashPassword(email)
		if err != nil {
			return err
		}
		user := models.User{Name: item.Name, Email: email, PasswordHash: hash}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		inserted++
	}
	utils.Sugar.Infof("seeded %d users", inserted)
	return nil
}

type seedComment struct {
	ProjectTitle string `json:"project_title"`
	UserEmail    string `json:"user_email"`
	Content      string `json:"content"`
	CreatedAt    string `json:"created_at"`
	Likes        int    `json:"likes"`
}

func loadComments(tx *gorm.DB, path string) error {
	var items []seedComment
	found, err := readJSON(path, &items)
	if err != nil || !found {
		return err
	}

	inserted := 0
	for _, item := range items {
		var project models.Project
		if err := tx.Where("title = ?", item.ProjectTitle).First(&project).Error; err != nil {
			continue
		}
		var user models.User
		if err := tx.Where("email = ?", models.NormalizeEmail(item.UserEmail)).First(&user).Error; err != nil {
			continue
		}

		var existing models.Comment
		if err := tx.Where("project_id = ? AND user_id = ? AND content = ?",
			project.ID, user.ID, item.Content).First(&existing).Error; err == nil {
			continue
		}

		comment := models.Comment{
			ProjectID: project.ID,
			UserID:    user.ID,
			Content:   item.Content,
			CreatedAt: parseSeedTime(item.CreatedAt),
		}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		inserted++

		if item.Likes > 0 {
			if err := fanOutLikes(tx, comment, item.Likes); err != nil {
				return err
			}
		}
	}
	utils.Sugar.Infof("seeded %d comments", inserted)
	return nil
}

// fanOutLikes assigns seed likes to the first n users, skipping the comment's
// author so the no-self-like rule holds for seeded data too.
func fanOutLikes(tx *gorm.DB, comment models.Comment, n int) error {
	var users []models.User
	if err := tx.Order("id").Find(&users).Error; err != nil {
		return err
	}
	added := 0
	for _, user := range users {
		if added >= n {
			break
		}
		if user.ID == comment.UserID {
			continue
		}
		like := models.CommentLike{UserID: user.ID, CommentID: comment.ID}
		if err := tx.Create(&like).Error; err != nil {
			return err
		}
		added++
	}
	return nil
}

type seedPost struct {
	Title       string              `json:"title"`
	Content     string              `json:"content"`
	UserEmail   string              `json:"user_email"`
	CreatedAt   string              `json:"created_at"`
	Coordinates *models.Coordinates `json:"coordinates"`
	ImageURL    string              `json:"image_url"`
}

func loadPosts(tx *gorm.DB, path string) error {
	var items []seedPost
	found, err := readJSON(path, &items)
	if err != nil || !found {
		return err
	}

	inserted := 0
	for _, item := range items {
		var user models.User
		if err := tx.Where("email = ?", models.NormalizeEmail(item.UserEmail)).First(&user).Error; err != nil {
			utils.Sugar.Warnf("seed post skipped, user %s not found", item.UserEmail)
			continue
		}

		var existing models.Post
		if err := tx.Where("title = ? AND user_id = ?", item.Title, user.ID).First(&existing).Error; err == nil {
			continue
		}

		post := models.Post{
			UserID:      user.ID,
			Title:       item.Title,
			Content:     item.Content,
			ImageURL:    item.ImageURL,
			Coordinates: datatypes.NewJSONType(item.Coordinates),
			CreatedAt:   parseSeedTime(item.CreatedAt),
		}
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		inserted++
	}
	utils.Sugar.Infof("seeded %d posts", inserted)
	return nil
}

type seedNews struct {
	ProjectID uint   `json:"project_id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Source    string `json:"source"`
	Date      string `json:"date"`
	Summary   string `json:"summary"`
}

func loadNews(tx *gorm.DB, path string) error {
	var items []seedNews
	found, err := readJSON(path, &items)
	if err != nil || !found {
		return err
	}

	inserted := 0
	for _, item := range items {
		var project models.Project
		if err := tx.First(&project, item.ProjectID).Error; err != nil {
			continue
		}

		var existing models.NewsArticle
		if err := tx.Where("project_id = ? AND url = ?", item.ProjectID, item.URL).
			First(&existing).Error; err == nil {
			continue
		}

		article := models.NewsArticle{
			ProjectID: item.ProjectID,
			Title:     item.Title,
			URL:       item.URL,
			Source:    item.Source,
			Date:      item.Date,
			Summary:   item.Summary,
		}
		if err := tx.Create(&article).Error; err != nil {
			return err
		}
		inserted++
	}
	utils.Sugar.Infof("seeded %d news articles", inserted)
	return nil
}
