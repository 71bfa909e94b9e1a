package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wrose11/StadsSurr-prod/config"
	"github.com/wrose11/StadsSurr-prod/models"
	"github.com/wrose11/StadsSurr-prod/routes"
	"github.com/wrose11/StadsSurr-prod/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("GIN_MODE", "test")
	os.Setenv("REDIS_HOST", "disabled")
	os.Setenv("RATE_LIMIT_PER_MINUTE", "100000")
	if err := utils.InitLogger(config.Load()); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// newTestServer builds a router over a fresh in-memory store. The shared
// cache keeps the database alive across the pool's connections for the
// duration of the test.
func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return routes.SetupRouter(db), db
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// doJSON performs a request with an optional bearer token and JSON body.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response envelope: %v (body: %s)", err, w.Body.String())
	}
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	env := decodeEnvelope(t, w)
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode response data: %v (data: %s)", err, string(env.Data))
	}
}

// registerUser creates an account through the API and returns its token and id.
func registerUser(t *testing.T, r *gin.Engine, name, email string) (string, uint) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "hunter22",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: got status %d, body %s", email, w.Code, w.Body.String())
	}
	var data struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	decodeData(t, w, &data)
	return data.Token, data.User.ID
}

func itoa(id uint) string {
	return strconv.Itoa(int(id))
}

func newCoords(lat, lon float64) datatypes.JSONType[models.Coordinates] {
	return datatypes.NewJSONType(models.Coordinates{Latitude: lat, Longitude: lon})
}

// createProject inserts a project directly; there is no HTTP create endpoint.
func createProject(t *testing.T, db *gorm.DB, title string, seedUpvotes int) models.Project {
	t.Helper()
	project := models.Project{
		Title:       title,
		Preamble:    "preamble for " + title,
		Location:    "Stockholm",
		Phase:       "Planering",
		Coordinates: newCoords(59.33, 18.07),
		Upvotes:     seedUpvotes,
	}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("create project: %v", err)
	}
	return project
}
