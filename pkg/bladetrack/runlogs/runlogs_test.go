package runlogs

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/bladetrack/pkg/bladetrack/auth"
	"github.com/mikepea/bladetrack/pkg/bladetrack/database"
	"github.com/mikepea/bladetrack/pkg/bladetrack/models"
	"gorm.io/gorm"
)

var testTokens = auth.NewTokens([]byte("test-secret-test-secret-test-secret"), time.Hour)

type testEnv struct {
	db      *gorm.DB
	router  *gin.Engine
	user    models.User
	org     models.Organization
	install models.BladeInstall
}

func setupTest(t *testing.T) *testEnv {
	db, err := database.Open(database.Config{Driver: database.DriverSQLite, DSN: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	user := models.User{Email: "test@example.com", Name: "Test User", Active: true, SystemRole: models.SystemRoleUser}
	db.Create(&user)
	org := models.Organization{Name: "Mill", Slug: "mill"}
	db.Create(&org)
	db.Create(&models.OrganizationMembership{OrganizationID: org.ID, UserID: user.ID, Role: models.OrgRoleMember})

	saw := models.Saw{OrganizationID: org.ID, Name: "S1", Active: true}
	db.Create(&saw)
	blade := models.SawBlade{OrganizationID: org.ID, IDNummer: "1042"}
	db.Create(&blade)
	install := models.BladeInstall{
		OrganizationID: org.ID,
		SawID:          saw.ID,
		BladeID:        blade.ID,
		InstalledAt:    time.Now(),
		InstalledByID:  user.ID,
	}
	if err := db.Create(&install).Error; err != nil {
		t.Fatalf("Failed to create installation: %v", err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api", auth.AuthMiddleware(testTokens), auth.TenancyGuard(db))
	NewHandler(db).RegisterRoutes(api)

	return &testEnv{db: db, router: r, user: user, org: org, install: install}
}

func (e *testEnv) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	token, _ := testTokens.Generate(e.user.ID, e.user.Email, string(e.user.SystemRole), e.org.ID)
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

func (e *testEnv) installPath(suffix string) string {
	return "/api/installs/" + strconv.FormatUint(uint64(e.install.ID), 10) + suffix
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestCreateRunLog(t *testing.T) {
	env := setupTest(t)

	resp := env.do("POST", env.installPath("/runlogs"), RunLogRequest{
		Hours:         floatPtr(7.5),
		TemperatureC:  floatPtr(62),
		Amperage:      floatPtr(180),
		StockCount:    intPtr(420),
		SideClearance: floatPtr(0.4),
		Note:          "spruce",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var got RunLogResponse
	json.Unmarshal(resp.Body.Bytes(), &got)
	if got.Hours == nil || *got.Hours != 7.5 || got.CreatedByID != env.user.ID {
		t.Errorf("Unexpected run log: %+v", got)
	}

	resp = env.do("GET", env.installPath("/runlogs"), nil)
	var logs []RunLogResponse
	json.Unmarshal(resp.Body.Bytes(), &logs)
	if len(logs) != 1 {
		t.Errorf("Expected 1 run log, got %d", len(logs))
	}
}

func TestRunLogBounds(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name string
		req  RunLogRequest
		want int
	}{
		{"negative hours", RunLogRequest{Hours: floatPtr(-1)}, http.StatusBadRequest},
		{"too many hours", RunLogRequest{Hours: floatPtr(10001)}, http.StatusBadRequest},
		{"too cold", RunLogRequest{TemperatureC: floatPtr(-51)}, http.StatusBadRequest},
		{"too hot", RunLogRequest{TemperatureC: floatPtr(401)}, http.StatusBadRequest},
		{"amperage", RunLogRequest{Amperage: floatPtr(2001)}, http.StatusBadRequest},
		{"negative stock", RunLogRequest{StockCount: intPtr(-1)}, http.StatusBadRequest},
		{"clearance", RunLogRequest{SideClearance: floatPtr(51)}, http.StatusBadRequest},
		{"limits inclusive", RunLogRequest{Hours: floatPtr(10000), TemperatureC: floatPtr(-50), SideClearance: floatPtr(50)}, http.StatusCreated},
		{"all empty", RunLogRequest{}, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do("POST", env.installPath("/runlogs"), tt.req)
			if resp.Code != tt.want {
				t.Errorf("Expected status %d, got %d: %s", tt.want, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestUpsertRunLog(t *testing.T) {
	env := setupTest(t)

	resp := env.do("PUT", env.installPath("/runlog"), RunLogRequest{Hours: floatPtr(3)})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201 on first upsert, got %d: %s", resp.Code, resp.Body.String())
	}
	var first RunLogResponse
	json.Unmarshal(resp.Body.Bytes(), &first)

	resp = env.do("PUT", env.installPath("/runlog"), RunLogRequest{Hours: floatPtr(8)})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200 on second upsert, got %d", resp.Code)
	}
	var second RunLogResponse
	json.Unmarshal(resp.Body.Bytes(), &second)
	if second.ID != first.ID || second.Hours == nil || *second.Hours != 8 {
		t.Errorf("Expected log %d updated to 8 hours, got %+v", first.ID, second)
	}

	var count int64
	env.db.Model(&models.BladeRunLog{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 run log, got %d", count)
	}
}

func TestUpdateAndDeleteRunLog(t *testing.T) {
	env := setupTest(t)
	resp := env.do("POST", env.installPath("/runlogs"), RunLogRequest{Hours: floatPtr(1)})
	var created RunLogResponse
	json.Unmarshal(resp.Body.Bytes(), &created)
	path := "/api/runlogs/" + strconv.FormatUint(uint64(created.ID), 10)

	resp = env.do("PUT", path, RunLogRequest{Hours: floatPtr(2), Note: "fixed"})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}
	var updated RunLogResponse
	json.Unmarshal(resp.Body.Bytes(), &updated)
	if *updated.Hours != 2 || updated.Note != "fixed" {
		t.Errorf("Unexpected update: %+v", updated)
	}

	resp = env.do("DELETE", path, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}
	resp = env.do("PUT", path, RunLogRequest{})
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", resp.Code)
	}
}

func TestRunLogForeignInstall(t *testing.T) {
	env := setupTest(t)
	other := models.Organization{Name: "Other", Slug: "other"}
	env.db.Create(&other)
	saw := models.Saw{OrganizationID: other.ID, Name: "X", Active: true}
	env.db.Create(&saw)
	blade := models.SawBlade{OrganizationID: other.ID, IDNummer: "X1"}
	env.db.Create(&blade)
	foreign := models.BladeInstall{OrganizationID: other.ID, SawID: saw.ID, BladeID: blade.ID, InstalledAt: time.Now(), InstalledByID: env.user.ID}
	env.db.Create(&foreign)

	resp := env.do("POST", "/api/installs/"+strconv.FormatUint(uint64(foreign.ID), 10)+"/runlogs", RunLogRequest{})
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
}
