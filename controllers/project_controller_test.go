package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/wrose11/StadsSurr-prod/models"
)

func TestProjectGeoJSONShape(t *testing.T) {
	r, db := newTestServer(t)
	createProject(t, db, "Skärholmsterrassen", 0)
	other := createProject(t, db, "Bromstensstaden", 0)
	db.Model(&other).Update("phase", "Genomförande")

	req := httptest.NewRequest(http.MethodGet, "/api/projects/geojson?phase=Genomförande", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("geojson: got status %d", w.Code)
	}

	var collection struct {
		Type     string `json:"type"`
		Features []struct {
			Type     string `json:"type"`
			Geometry struct {
				Type        string     `json:"type"`
				Coordinates [2]float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &collection); err != nil {
		t.Fatalf("decode geojson: %v", err)
	}
	if collection.Type != "FeatureCollection" {
		t.Fatalf("collection type: got %q", collection.Type)
	}
	if len(collection.Features) != 1 {
		t.Fatalf("phase filter: got %d features, want 1", len(collection.Features))
	}
	feature := collection.Features[0]
	if feature.Geometry.Type != "Point" {
		t.Fatalf("geometry type: got %q", feature.Geometry.Type)
	}
	// GeoJSON point order is [longitude, latitude].
	if feature.Geometry.Coordinates[0] != 18.07 || feature.Geometry.Coordinates[1] != 59.33 {
		t.Fatalf("coordinate order: got %v", feature.Geometry.Coordinates)
	}
}

func TestCreateCommentValidation(t *testing.T) {
	r, db := newTestServer(t)
	token, _ := registerUser(t, r, "Wera", "wera@example.com")
	project := createProject(t, db, "Telefonplan", 0)

	if w := doJSON(t, r, http.MethodPost, "/api/comments", "", gin.H{
		"project_id": project.ID, "content": "hej",
	}); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous comment: got status %d, want 401", w.Code)
	}

	if w := doJSON(t, r, http.MethodPost, "/api/comments", token, gin.H{
		"project_id": project.ID + 99, "content": "hej",
	}); w.Code != http.StatusNotFound {
		t.Fatalf("comment on missing project: got status %d, want 404", w.Code)
	}

	if w := doJSON(t, r, http.MethodPost, "/api/comments", token, gin.H{
		"project_id": project.ID, "content": "   ",
	}); w.Code != http.StatusBadRequest {
		t.Fatalf("blank comment: got status %d, want 400", w.Code)
	}
}

func TestCreateCommentSanitizesContent(t *testing.T) {
	r, db := newTestServer(t)
	token, _ := registerUser(t, r, "Xenia", "xenia@example.com")
	project := createProject(t, db, "Fokus Skärholmen", 0)

	w := doJSON(t, r, http.MethodPost, "/api/comments", token, gin.H{
		"project_id": project.ID,
		"content":    `Bra förslag<script>alert("x")</script>`,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create comment: got status %d", w.Code)
	}
	var comment struct {
		Content string `json:"content"`
	}
	decodeData(t, w, &comment)
	if comment.Content != "Bra förslag" {
		t.Fatalf("sanitized content: got %q", comment.Content)
	}
}

func TestConsultationRequiresMatchingProjectID(t *testing.T) {
	r, db := newTestServer(t)
	token, _ := registerUser(t, r, "Ylva", "ylva@example.com")
	project := createProject(t, db, "Stora Sköndal", 0)

	path := "/api/projects/" + itoa(project.ID) + "/consultations"

	w := doJSON(t, r, http.MethodPost, path, token, gin.H{
		"project_id": project.ID + 1,
		"phase":      "Samråd",
		"content":    "Synpunkt på bullernivåer",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("mismatched project_id: got status %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, path, token, gin.H{
		"project_id": project.ID,
		"phase":      "Samråd",
		"content":    "Synpunkt på bullernivåer",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("consultation: got status %d, body %s", w.Code, w.Body.String())
	}
	var consultation struct {
		ConsentAt string `json:"consent_at"`
	}
	decodeData(t, w, &consultation)
	if consultation.ConsentAt == "" {
		t.Fatal("consultation missing consent timestamp")
	}
}

func TestProjectDeleteCascades(t *testing.T) {
	r, db := newTestServer(t)
	token, _ := registerUser(t, r, "Zara", "zara@example.com")
	project := createProject(t, db, "Kymlinge", 0)

	doJSON(t, r, http.MethodPost, "/api/comments", token, gin.H{"project_id": project.ID, "content": "första"})
	doJSON(t, r, http.MethodPost, "/api/votes", token, gin.H{"project_id": project.ID, "vote_type": "upvote"})
	db.Create(&models.NewsArticle{ProjectID: project.ID, Title: "Nyhet", URL: "https://example.com/n"})

	if err := db.Delete(&project).Error; err != nil {
		t.Fatalf("delete project: %v", err)
	}

	for name, model := range map[string]interface{}{
		"comments": &models.Comment{},
		"votes":    &models.Vote{},
		"news":     &models.NewsArticle{},
	} {
		var n int64
		db.Model(model).Where("project_id = ?", project.ID).Count(&n)
		if n != 0 {
			t.Fatalf("orphan %s rows after project delete: %d", name, n)
		}
	}
}
