package apikeys

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"github.com/mikepea/bladetrack/pkg/bladetrack/auth"
	"github.com/mikepea/bladetrack/pkg/bladetrack/database"
	"github.com/mikepea/bladetrack/pkg/bladetrack/models"
	"gorm.io/gorm"
)

var testTokens = auth.NewTokens([]byte("test-secret-test-secret-test-secret"), time.Hour)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := database.Open(database.Config{Driver: database.DriverSQLite, DSN: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) models.User {
	hash, _ := auth.HashPassword("password123")
	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Test User",
		SystemRole:   models.SystemRoleUser,
		Active:       true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func createTestOrg(t *testing.T, db *gorm.DB, slug string, userID uint) models.Organization {
	org := models.Organization{Name: slug, Slug: slug}
	if err := db.Create(&org).Error; err != nil {
		t.Fatalf("Failed to create test organization: %v", err)
	}
	membership := models.OrganizationMembership{OrganizationID: org.ID, UserID: userID, Role: models.OrgRoleMember}
	if err := db.Create(&membership).Error; err != nil {
		t.Fatalf("Failed to create membership: %v", err)
	}
	return org
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(db)

	api := r.Group("/api")
	api.Use(CombinedAuthMiddleware(db, testTokens), auth.TenancyGuard(db))
	handler.RegisterRoutes(api)
	api.GET("/whoami", func(c *gin.Context) {
		tenant, err := auth.GetTenant(c)
		if err != nil {
			apierr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": tenant.UserID, "organization_id": tenant.OrganizationID})
	})

	return r
}

func getAuthHeader(user models.User, orgID uint) string {
	token, _ := testTokens.Generate(user.ID, user.Email, string(user.SystemRole), orgID)
	return "Bearer " + token
}

func createKey(t *testing.T, router *gin.Engine, header string) CreateAPIKeyResponse {
	jsonBody, _ := json.Marshal(CreateAPIKeyRequest{Description: "Saw controller"})
	req, _ := http.NewRequest("POST", "/api/api-keys", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", header)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var response CreateAPIKeyResponse
	json.Unmarshal(resp.Body.Bytes(), &response)
	return response
}

func TestCreateAPIKey(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")
	org := createTestOrg(t, db, "mill", user.ID)

	response := createKey(t, router, getAuthHeader(user, org.ID))

	if len(response.Key) != KeyLength*2 { // hex encoding doubles the length
		t.Errorf("Expected key length %d, got %d", KeyLength*2, len(response.Key))
	}
	if response.KeyPrefix != response.Key[:KeyPrefixLength] {
		t.Error("Key prefix should match the start of the key")
	}
	if response.OrganizationID != org.ID {
		t.Errorf("Expected key bound to org %d, got %d", org.ID, response.OrganizationID)
	}

	var stored models.APIKey
	db.First(&stored, response.ID)
	if stored.KeyHash == response.Key || stored.KeyHash != hashAPIKey(response.Key) {
		t.Error("Expected only the key hash to be stored")
	}
}

func TestCreateAPIKeyWithoutDescription(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")
	org := createTestOrg(t, db, "mill", user.ID)

	req, _ := http.NewRequest("POST", "/api/api-keys", nil)
	req.Header.Set("Authorization", getAuthHeader(user, org.ID))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAPIKeyActsInItsOrganization(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")
	org1 := createTestOrg(t, db, "mill-a", user.ID)
	org2 := createTestOrg(t, db, "mill-b", user.ID)

	key := createKey(t, router, getAuthHeader(user, org1.ID))

	// The header cannot move a key into another organization
	req, _ := http.NewRequest("GET", "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+key.Key)
	req.Header.Set(auth.HeaderOrganizationID, strconv.FormatUint(uint64(org2.ID), 10))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var body map[string]uint
	json.Unmarshal(resp.Body.Bytes(), &body)
	if body["organization_id"] != org1.ID {
		t.Errorf("Expected organization %d, got %d", org1.ID, body["organization_id"])
	}

	var stored models.APIKey
	db.First(&stored, key.ID)
	if stored.LastUsedAt == nil {
		t.Error("Expected last_used_at to be recorded")
	}
}

func TestAPIKeyOfRemovedMember(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")
	org := createTestOrg(t, db, "mill", user.ID)
	key := createKey(t, router, getAuthHeader(user, org.ID))

	db.Where("organization_id = ? AND user_id = ?", org.ID, user.ID).Delete(&models.OrganizationMembership{})

	req, _ := http.NewRequest("GET", "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+key.Key)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", resp.Code)
	}
}

func TestInvalidAPIKey(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	req, _ := http.NewRequest("GET", "/api/api-keys", nil)
	req.Header.Set("Authorization", "Bearer deadbeef")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.Code)
	}
}

func TestListAndDeleteAPIKeys(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")
	other := createTestUser(t, db, "other@example.com")
	org := createTestOrg(t, db, "mill", user.ID)
	header := getAuthHeader(user, org.ID)

	key := createKey(t, router, header)
	createKey(t, router, header)
	db.Create(&models.APIKey{UserID: other.ID, OrganizationID: org.ID, KeyHash: "other-hash", KeyPrefix: "other"})

	req, _ := http.NewRequest("GET", "/api/api-keys", nil)
	req.Header.Set("Authorization", header)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var keys []APIKeyResponse
	json.Unmarshal(resp.Body.Bytes(), &keys)
	if len(keys) != 2 {
		t.Errorf("Expected 2 keys, got %d", len(keys))
	}

	req, _ = http.NewRequest("DELETE", "/api/api-keys/"+strconv.FormatUint(uint64(key.ID), 10), nil)
	req.Header.Set("Authorization", header)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.Code)
	}

	req, _ = http.NewRequest("GET", "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+key.Key)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected deleted key to be rejected, got %d", resp.Code)
	}
}
