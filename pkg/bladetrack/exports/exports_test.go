package exports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
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

	user := models.User{Email: "test@example.com", Name: "Ola Sager", Active: true, SystemRole: models.SystemRoleUser}
	db.Create(&user)
	org := models.Organization{Name: "Mill", Slug: "mill"}
	db.Create(&org)
	db.Create(&models.OrganizationMembership{OrganizationID: org.ID, UserID: user.ID, Role: models.OrgRoleMember})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api", auth.AuthMiddleware(testTokens), auth.TenancyGuard(db))
	NewHandler(db).RegisterRoutes(api)

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

func TestImportBlades(t *testing.T) {
	e := setupTest(t)
	e.db.Create(&models.SawBlade{OrganizationID: e.org.ID, IDNummer: "100"})
	e.db.Create(&models.BladeType{OrganizationID: e.org.ID, Name: "Kombi 450"})

	resp := e.do("POST", "/api/import/blades", ImportRequest{Blades: []ImportBlade{
		{IDNummer: "100"},                         // exists
		{IDNummer: "101", BladeType: "kombi 450"}, // existing type, other case
		{IDNummer: "102", BladeType: "Ripp 500", Side: "Venstre"},
		{IDNummer: "103", BladeType: "Ripp 500", Side: "Høyre"},
		{IDNummer: "103"},                 // repeated in list
		{IDNummer: " "},                   // missing serial
		{IDNummer: "104", Side: "Midten"}, // bad side
	}})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result ImportResult
	json.Unmarshal(resp.Body.Bytes(), &result)
	if result.Imported != 3 {
		t.Errorf("Expected 3 imported, got %d", result.Imported)
	}
	if result.Skipped != 4 {
		t.Errorf("Expected 4 skipped, got %d", result.Skipped)
	}
	if len(result.Errors) != 2 {
		t.Errorf("Expected 2 errors, got %v", result.Errors)
	}

	var typeCount int64
	e.db.Model(&models.BladeType{}).Where("organization_id = ?", e.org.ID).Count(&typeCount)
	if typeCount != 2 {
		t.Errorf("Expected 2 blade types, got %d", typeCount)
	}

	var blade models.SawBlade
	e.db.Preload("BladeType").Where("id_nummer = ?", "102").First(&blade)
	if blade.BladeType == nil || blade.BladeType.Name != "Ripp 500" || blade.Side != models.BladeSideLeft {
		t.Errorf("Unexpected imported blade: %+v", blade)
	}

	// Importing the same list again changes nothing
	resp = e.do("POST", "/api/import/blades", ImportRequest{Blades: []ImportBlade{{IDNummer: "101"}, {IDNummer: "102"}}})
	json.Unmarshal(resp.Body.Bytes(), &result)
	if result.Imported != 0 || result.Skipped != 2 {
		t.Errorf("Expected re-import to skip everything, got %+v", result)
	}
}

func TestImportBladesHidesDatastoreErrors(t *testing.T) {
	e := setupTest(t)
	e.db.Callback().Create().Before("gorm:create").Register("test:fail_blades", func(tx *gorm.DB) {
		if tx.Statement.Table == "saw_blades" {
			tx.AddError(errors.New("disk I/O error at /var/lib/bladetrack.db"))
		}
	})

	resp := e.do("POST", "/api/import/blades", ImportRequest{Blades: []ImportBlade{{IDNummer: "300"}}})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var result ImportResult
	json.Unmarshal(resp.Body.Bytes(), &result)
	if result.Imported != 0 || len(result.Errors) != 1 || result.Errors[0] != "blade 0: failed to create blade" {
		t.Errorf("Expected one generic create error, got %+v", result)
	}

	if err := e.db.Migrator().DropTable(&models.SawBlade{}); err != nil {
		t.Fatalf("Failed to drop table: %v", err)
	}
	resp = e.do("POST", "/api/import/blades", ImportRequest{Blades: []ImportBlade{{IDNummer: "301"}}})
	result = ImportResult{}
	json.Unmarshal(resp.Body.Bytes(), &result)
	if len(result.Errors) != 1 || result.Errors[0] != "blade 0: failed to check existing blades" {
		t.Errorf("Expected one generic lookup error, got %+v", result)
	}
	if strings.Contains(resp.Body.String(), "no such table") || strings.Contains(resp.Body.String(), "/var/lib") {
		t.Errorf("Datastore detail leaked to client: %s", resp.Body.String())
	}
}

func TestImportBladesRequiresList(t *testing.T) {
	e := setupTest(t)

	resp := e.do("POST", "/api/import/blades", map[string]string{})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
}

func TestExportInstalls(t *testing.T) {
	e := setupTest(t)

	saw := models.Saw{OrganizationID: e.org.ID, Name: "S1", Active: true}
	e.db.Create(&saw)
	b1 := models.SawBlade{OrganizationID: e.org.ID, IDNummer: "1"}
	b2 := models.SawBlade{OrganizationID: e.org.ID, IDNummer: "2"}
	e.db.Create(&b1)
	e.db.Create(&b2)

	on := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	off := on.Add(48 * time.Hour)
	first := models.BladeInstall{
		OrganizationID: e.org.ID, SawID: saw.ID, BladeID: b1.ID,
		InstalledAt: on, InstalledByID: e.user.ID,
		RemovedAt: &off, RemovedByID: &e.user.ID, RemovedReason: "Sløvt",
	}
	e.db.Create(&first)
	second := models.BladeInstall{OrganizationID: e.org.ID, SawID: saw.ID, BladeID: b2.ID, InstalledAt: off, InstalledByID: e.user.ID}
	e.db.Create(&second)

	hours := []float64{7.5, 8}
	for i := range hours {
		e.db.Create(&models.BladeRunLog{OrganizationID: e.org.ID, InstallID: first.ID, CreatedByID: e.user.ID, Hours: &hours[i]})
	}

	// Deleted saws still appear by name in history
	e.db.Delete(&saw)

	resp := e.do("GET", "/api/export/installs?download=true", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if cd := resp.Header().Get("Content-Disposition"); cd == "" {
		t.Error("Expected attachment header")
	}

	var rows []ExportInstall
	json.Unmarshal(resp.Body.Bytes(), &rows)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].Saw != "S1" || rows[0].IDNummer != "1" {
		t.Errorf("Unexpected first row: %+v", rows[0])
	}
	if rows[0].HoursSawed != 15.5 || rows[0].RunLogs != 2 {
		t.Errorf("Expected 15.5 hours over 2 logs, got %v over %d", rows[0].HoursSawed, rows[0].RunLogs)
	}
	if rows[0].InstalledBy != "Ola Sager" || rows[0].RemovedBy != "Ola Sager" {
		t.Errorf("Expected user names, got %q/%q", rows[0].InstalledBy, rows[0].RemovedBy)
	}
	if rows[1].RemovedAt != nil {
		t.Error("Expected second install to be current")
	}

	resp = e.do("GET", "/api/export/installs?from=2024-05-02", nil)
	json.Unmarshal(resp.Body.Bytes(), &rows)
	if len(rows) != 1 || rows[0].IDNummer != "2" {
		t.Errorf("Expected only the second install, got %+v", rows)
	}

	// A bare "to" date includes installs made during that day
	resp = e.do("GET", "/api/export/installs?to=2024-05-01", nil)
	rows = nil
	json.Unmarshal(resp.Body.Bytes(), &rows)
	if len(rows) != 1 || rows[0].IDNummer != "1" {
		t.Errorf("Expected only the first install, got %+v", rows)
	}

	resp = e.do("GET", "/api/export/installs?to=nope", nil)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
}

func TestImportSaws(t *testing.T) {
	e := setupTest(t)
	e.db.Create(&models.Saw{OrganizationID: e.org.ID, Name: "S1", Active: true})

	result := ImportSaws(context.Background(), e.db, e.org.ID, []ImportSaw{
		{Name: "S1"},
		{Name: " Kantsag ", Type: "Dobbel"},
		{Name: ""},
	})
	if result.Imported != 1 || result.Skipped != 2 {
		t.Errorf("Expected 1 imported and 2 skipped, got %+v", result)
	}
	if len(result.Errors) != 1 || result.Errors[0] != "saw 2: name is required" {
		t.Errorf("Expected one name error, got %v", result.Errors)
	}

	var saw models.Saw
	if err := e.db.Where("organization_id = ? AND name = ?", e.org.ID, "Kantsag").First(&saw).Error; err != nil {
		t.Fatalf("Expected imported saw: %v", err)
	}
	if saw.Type != "Dobbel" || !saw.Active {
		t.Errorf("Unexpected saw %+v", saw)
	}
}
