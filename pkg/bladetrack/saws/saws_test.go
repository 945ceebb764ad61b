package saws

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/bladetrack/pkg/bladetrack/auth"
	"github.com/mikepea/bladetrack/pkg/bladetrack/database"
	"github.com/mikepea/bladetrack/pkg/bladetrack/installs"
	"github.com/mikepea/bladetrack/pkg/bladetrack/models"
	"gorm.io/gorm"
)

var testTokens = auth.NewTokens([]byte("test-secret-test-secret-test-secret"), time.Hour)

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	user   models.User
	org    models.Organization
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
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	org := models.Organization{Name: "Mill", Slug: "mill"}
	if err := db.Create(&org).Error; err != nil {
		t.Fatalf("Failed to create test organization: %v", err)
	}
	db.Create(&models.OrganizationMembership{OrganizationID: org.ID, UserID: user.ID, Role: models.OrgRoleMember})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api", auth.AuthMiddleware(testTokens), auth.TenancyGuard(db))
	NewHandler(db).RegisterRoutes(api.Group("/saws"))

	return &testEnv{db: db, router: r, user: user, org: org}
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

func sawPath(id uint) string {
	return "/api/saws/" + strconv.FormatUint(uint64(id), 10)
}

func TestCreateAndListSaws(t *testing.T) {
	env := setupTest(t)

	resp := env.do("POST", "/api/saws", CreateSawRequest{Name: "Kantverk", Type: "Twin"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	inactive := false
	resp = env.do("POST", "/api/saws", CreateSawRequest{Name: "Reserve", Active: &inactive})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.Code)
	}

	resp = env.do("GET", "/api/saws", nil)
	var saws []SawResponse
	json.Unmarshal(resp.Body.Bytes(), &saws)
	if len(saws) != 2 {
		t.Fatalf("Expected 2 saws, got %d", len(saws))
	}

	resp = env.do("GET", "/api/saws?active=true", nil)
	json.Unmarshal(resp.Body.Bytes(), &saws)
	if len(saws) != 1 || saws[0].Name != "Kantverk" {
		t.Errorf("Expected only the active saw, got %+v", saws)
	}
}

func TestCreateSawRequiresName(t *testing.T) {
	env := setupTest(t)

	resp := env.do("POST", "/api/saws", CreateSawRequest{})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
}

func TestSawShowsCurrentBlade(t *testing.T) {
	env := setupTest(t)
	saw := models.Saw{OrganizationID: env.org.ID, Name: "S1", Active: true}
	env.db.Create(&saw)
	blade := models.SawBlade{OrganizationID: env.org.ID, IDNummer: "1042", Side: models.BladeSideLeft}
	env.db.Create(&blade)

	caller := auth.Tenant{UserID: env.user.ID, OrganizationID: env.org.ID}
	oslo := time.FixedZone("CET", 3600)
	clock := installs.WithClock(func() time.Time { return time.Date(2024, 3, 1, 8, 0, 0, 0, oslo) })
	if _, err := installs.NewManager(env.db, clock).Install(context.Background(), caller, saw.ID, blade.ID, installs.InstallOptions{}); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	resp := env.do("GET", sawPath(saw.ID), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}
	var got SawResponse
	json.Unmarshal(resp.Body.Bytes(), &got)
	if got.CurrentBlade == nil || got.CurrentBlade.IDNummer != "1042" {
		t.Errorf("Expected blade 1042 on saw, got %+v", got.CurrentBlade)
	}
	if got.CurrentBlade != nil && got.CurrentBlade.InstalledAt != "2024-03-01T07:00:00Z" {
		t.Errorf("Expected installed_at in UTC, got %q", got.CurrentBlade.InstalledAt)
	}

	resp = env.do("GET", "/api/saws", nil)
	var list []SawResponse
	json.Unmarshal(resp.Body.Bytes(), &list)
	if len(list) != 1 || list[0].CurrentBlade == nil || list[0].CurrentBlade.BladeID != blade.ID {
		t.Errorf("Expected list to include the current blade, got %+v", list)
	}

	resp = env.do("DELETE", sawPath(saw.ID), nil)
	if resp.Code != http.StatusConflict {
		t.Errorf("Expected status 409 deleting a saw with a mounted blade, got %d", resp.Code)
	}
}

func TestUpdateAndDeleteSaw(t *testing.T) {
	env := setupTest(t)
	saw := models.Saw{OrganizationID: env.org.ID, Name: "S1", Active: true}
	env.db.Create(&saw)

	inactive := false
	resp := env.do("PUT", sawPath(saw.ID), UpdateSawRequest{Name: "S1-B", Active: &inactive})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var got SawResponse
	json.Unmarshal(resp.Body.Bytes(), &got)
	if got.Name != "S1-B" || got.Active {
		t.Errorf("Unexpected saw after update: %+v", got)
	}

	resp = env.do("DELETE", sawPath(saw.ID), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}
	resp = env.do("GET", sawPath(saw.ID), nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", resp.Code)
	}
}

func TestSawTenantIsolation(t *testing.T) {
	env := setupTest(t)
	other := models.Organization{Name: "Other", Slug: "other"}
	env.db.Create(&other)
	foreign := models.Saw{OrganizationID: other.ID, Name: "X", Active: true}
	env.db.Create(&foreign)

	resp := env.do("GET", sawPath(foreign.ID), nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
	resp = env.do("PUT", sawPath(foreign.ID), UpdateSawRequest{Name: "Mine"})
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
}
