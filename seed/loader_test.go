package seed

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wrose11/StadsSurr-prod/config"
	"github.com/wrose11/StadsSurr-prod/models"
	"github.com/wrose11/StadsSurr-prod/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("REDIS_HOST", "disabled")
	if err := utils.InitLogger(config.Load()); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func writeSeedDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"data_scraped/projects.json": `[
			{"name": "Slakthusområdet", "preamble": "Nytt bostadsområde", "location": "Johanneshov",
			 "current_stage": "Planering", "coordinates": {"latitude": 59.29, "longitude": 18.07},
			 "upvotes": 42, "downvotes": 3},
			{"name": "Norra Djurgårdsstaden", "location": "Hjorthagen", "current_stage": "Genomförande",
			 "coordinates": {"latitude": 59.36, "longitude": 18.1}, "upvotes": 17, "downvotes": 0}
		]`,
		"mock_data/users.json": `[
			{"name": "Anna", "email": "anna@example.com"},
			{"name": "Bertil", "email": "bertil@example.com"},
			{"name": "Cecilia", "email": "cecilia@example.com"}
		]`,
		"mock_data/comments.json": `[
			{"project_title": "Slakthusområdet", "user_email": "anna@example.com",
			 "content": "Äntligen händer det något", "created_at": "2024-03-01T10:00:00", "likes": 2}
		]`,
		"mock_data/posts.json": `[
			{"title": "Loppis på torget", "content": "Välkomna på lördag",
			 "user_email": "bertil@example.com", "created_at": "2024-03-02T09:00:00"}
		]`,
		"mock_data/news.json": `[
			{"project_id": 1, "title": "Byggstart till hösten", "url": "https://example.com/nyhet", "date": "2024-02-20"}
		]`,
	}
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return dir
}

func tableCounts(t *testing.T, db *gorm.DB) map[string]int64 {
	t.Helper()
	counts := map[string]int64{}
	for name, model := range map[string]interface{}{
		"projects": &models.Project{},
		"users":    &models.User{},
		"comments": &models.Comment{},
		"likes":    &models.CommentLike{},
		"posts":    &models.Post{},
		"news":     &models.NewsArticle{},
	} {
		var n int64
		if err := db.Model(model).Count(&n).Error; err != nil {
			t.Fatalf("count %s: %v", name, err)
		}
		counts[name] = n
	}
	return counts
}

func TestLoadImportsSeedData(t *testing.T) {
	db := newTestDB(t)
	dir := writeSeedDir(t)

	if err := Load(db, dir); err != nil {
		t.Fatalf("load: %v", err)
	}

	counts := tableCounts(t, db)
	want := map[string]int64{"projects": 2, "users": 3, "comments": 1, "likes": 2, "posts": 1, "news": 1}
	for name, n := range want {
		if counts[name] != n {
			t.Fatalf("%s: got %d rows, want %d", name, counts[name], n)
		}
	}

	// Seed likes must never violate the no-self-like rule.
	var author models.User
	if err := db.Where("email = ?", "anna@example.com").First(&author).Error; err != nil {
		t.Fatalf("load author: %v", err)
	}
	var selfLikes int64
	db.Model(&models.CommentLike{}).
		Joins("JOIN comments ON comments.id = comment_likes.comment_id").
		Where("comment_likes.user_id = comments.user_id").Count(&selfLikes)
	if selfLikes != 0 {
		t.Fatalf("seed created %d self-likes", selfLikes)
	}

	// Mock users authenticate with their email as the password.
	var user models.User
	if err := db.Where("email = ?", "bertil@example.com").First(&user).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if !utils.CheckPassword(user.PasswordHash, "bertil@example.com") {
		t.Fatal("mock user password is not the email")
	}
}

func TestLoadSkipsPopulatedStore(t *testing.T) {
	db := newTestDB(t)
	dir := writeSeedDir(t)

	existing := models.Project{Title: "Befintligt projekt"}
	if err := db.Create(&existing).Error; err != nil {
		t.Fatalf("create existing project: %v", err)
	}

	if err := Load(db, dir); err != nil {
		t.Fatalf("load: %v", err)
	}

	var n int64
	db.Model(&models.Project{}).Count(&n)
	if n != 1 {
		t.Fatalf("populated store was re-seeded: %d projects", n)
	}
}

func TestRunImportIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	dir := writeSeedDir(t)

	if err := runImport(db, dir); err != nil {
		t.Fatalf("first import: %v", err)
	}
	before := tableCounts(t, db)

	// A second pass over the same data must insert nothing.
	if err := runImport(db, dir); err != nil {
		t.Fatalf("second import: %v", err)
	}
	after := tableCounts(t, db)

	for name := range before {
		if before[name] != after[name] {
			t.Fatalf("%s: %d rows before rerun, %d after", name, before[name], after[name])
		}
	}
}
