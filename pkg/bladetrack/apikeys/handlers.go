package apikeys

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"github.com/mikepea/bladetrack/pkg/bladetrack/auth"
	"github.com/mikepea/bladetrack/pkg/bladetrack/models"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const (
	// KeyLength is the length of the generated API key in bytes (32 bytes = 64 hex chars)
	KeyLength = 32
	// KeyPrefixLength is the number of characters to store as prefix for identification
	KeyPrefixLength = 8
)

// Handler handles API key requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new API keys handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// APIKeyResponse represents an API key in responses
type APIKeyResponse struct {
	ID             uint       `json:"id"`
	OrganizationID uint       `json:"organization_id"`
	KeyPrefix      string     `json:"key_prefix"`
	Description    string     `json:"description"`
	LastUsedAt     *time.Time `json:"last_used_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

// CreateAPIKeyRequest represents a request to create an API key
type CreateAPIKeyRequest struct {
	Description string `json:"description"`
}

// CreateAPIKeyResponse includes the full key (only shown once)
type CreateAPIKeyResponse struct {
	ID             uint      `json:"id"`
	OrganizationID uint      `json:"organization_id"`
	Key            string    `json:"key"`
	KeyPrefix      string    `json:"key_prefix"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"created_at"`
}

// generateAPIKey generates a new random API key
func generateAPIKey() (string, error) {
	bytes := make([]byte, KeyLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// hashAPIKey creates a SHA-256 hash of the API key
func hashAPIKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}

// Create creates a new API key bound to the caller and the active organization
// @Summary Create API key
// @Description The key is returned once and acts as the caller inside the active organization
// @Tags api-keys
// @Accept json
// @Produce json
// @Param request body CreateAPIKeyRequest false "Description"
// @Success 201 {object} CreateAPIKeyResponse
// @Security BearerAuth
// @Router /api-keys [post]
func (h *Handler) Create(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var req CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Description is optional, so binding might fail with empty body
		req.Description = ""
	}

	key, err := generateAPIKey()
	if err != nil {
		apierr.Respond(c, apierr.Internal("Failed to generate API key", err))
		return
	}

	apiKey := models.APIKey{
		UserID:         caller.UserID,
		OrganizationID: caller.OrganizationID,
		KeyHash:        hashAPIKey(key),
		KeyPrefix:      key[:KeyPrefixLength],
		Description:    req.Description,
	}
	if err := h.db.Create(&apiKey).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to create API key", err))
		return
	}

	// Return the full key - this is the only time it's visible
	c.JSON(http.StatusCreated, CreateAPIKeyResponse{
		ID:             apiKey.ID,
		OrganizationID: apiKey.OrganizationID,
		Key:            key,
		KeyPrefix:      apiKey.KeyPrefix,
		Description:    apiKey.Description,
		CreatedAt:      apiKey.CreatedAt,
	})
}

// List returns the caller's API keys for the active organization
// @Summary List API keys
// @Tags api-keys
// @Produce json
// @Success 200 {array} APIKeyResponse
// @Security BearerAuth
// @Router /api-keys [get]
func (h *Handler) List(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var apiKeys []models.APIKey
	if err := h.db.Where("user_id = ? AND organization_id = ?", caller.UserID, caller.OrganizationID).
		Order("created_at DESC").Find(&apiKeys).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to fetch API keys", err))
		return
	}

	responses := make([]APIKeyResponse, len(apiKeys))
	for i, key := range apiKeys {
		responses[i] = APIKeyResponse{
			ID:             key.ID,
			OrganizationID: key.OrganizationID,
			KeyPrefix:      key.KeyPrefix,
			Description:    key.Description,
			LastUsedAt:     key.LastUsedAt,
			CreatedAt:      key.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, responses)
}

// Delete revokes an API key
// @Summary Delete API key
// @Tags api-keys
// @Param id path int true "API key ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} apierr.Response "API key not found"
// @Security BearerAuth
// @Router /api-keys/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	keyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apierr.Respond(c, apierr.BadRequest("Invalid API key ID"))
		return
	}

	var apiKey models.APIKey
	if err := h.db.Where("id = ? AND user_id = ? AND organization_id = ?", keyID, caller.UserID, caller.OrganizationID).
		First(&apiKey).Error; err != nil {
		apierr.Respond(c, apierr.NotFound("API key not found"))
		return
	}

	// Soft delete
	if err := h.db.Delete(&apiKey).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to delete API key", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "API key deleted"})
}

// ValidateAPIKey looks up the key by its hash
func ValidateAPIKey(db *gorm.DB, key string) (*models.APIKey, error) {
	var apiKey models.APIKey
	if err := db.Where("key_hash = ?", hashAPIKey(key)).First(&apiKey).Error; err != nil {
		return nil, err
	}
	return &apiKey, nil
}

// UpdateLastUsed updates the last_used_at timestamp for an API key
func UpdateLastUsed(db *gorm.DB, apiKeyID uint) error {
	return db.Model(&models.APIKey{}).Where("id = ?", apiKeyID).Update("last_used_at", time.Now()).Error
}

// CombinedAuthMiddleware authenticates via JWT or API key, both passed as
// "Authorization: Bearer <token>". JWTs contain dots, API keys are hex strings
// without dots. An API key also fixes the organization the request acts in.
func CombinedAuthMiddleware(db *gorm.DB, tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.BearerToken(c)
		if err != nil {
			apierr.Abort(c, err)
			return
		}

		if strings.Contains(token, ".") {
			claims, err := tokens.Validate(token)
			if err != nil {
				if errors.Is(err, auth.ErrExpiredToken) {
					apierr.Abort(c, apierr.Unauthenticated("Token has expired"))
				} else {
					apierr.Abort(c, apierr.Unauthenticated("Invalid token"))
				}
				return
			}
			auth.SetClaims(c, claims)
			c.Next()
			return
		}

		apiKey, err := ValidateAPIKey(db, token)
		if err != nil {
			apierr.Abort(c, apierr.Unauthenticated("Invalid API key"))
			return
		}

		var user models.User
		if err := db.First(&user, apiKey.UserID).Error; err != nil || !user.Active {
			apierr.Abort(c, apierr.Unauthenticated("User not found"))
			return
		}

		if err := UpdateLastUsed(db, apiKey.ID); err != nil {
			zerolog.Ctx(c.Request.Context()).Warn().Err(err).Uint("api_key_id", apiKey.ID).Msg("failed to record API key use")
		}

		c.Set(auth.ContextKeyUserID, user.ID)
		c.Set(auth.ContextKeyEmail, user.Email)
		c.Set(auth.ContextKeySystemRole, string(user.SystemRole))
		c.Set(auth.ContextKeyKeyOrgID, apiKey.OrganizationID)
		c.Next()
	}
}

// RegisterRoutes registers API key routes on a group already behind TenancyGuard
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/api-keys", h.Create)
	rg.GET("/api-keys", h.List)
	rg.DELETE("/api-keys/:id", h.Delete)
}
