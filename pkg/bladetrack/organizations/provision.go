package organizations

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"github.com/mikepea/bladetrack/pkg/bladetrack/auth"
	"github.com/mikepea/bladetrack/pkg/bladetrack/database"
	"github.com/mikepea/bladetrack/pkg/bladetrack/models"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*[a-z0-9]$|^[a-z0-9]$`)

// ProvisionRequest describes an organization coming from the identity
// provider, together with its first administrator.
type ProvisionRequest struct {
	Name       string
	Slug       string
	ExternalID string
	AdminEmail string
	AdminName  string
	// AdminPassword is only used when the admin user does not exist yet.
	// Leave it empty for users that sign in through the identity provider.
	AdminPassword string
}

// ProvisionResult reports what Provision created
type ProvisionResult struct {
	Organization models.Organization
	Admin        models.User
	CreatedOrg   bool
	CreatedUser  bool
}

// Provision creates the organization if its slug is new, creates the admin
// user if the email is new, and makes that user an organization admin. Running
// it twice with the same input changes nothing.
func Provision(ctx context.Context, db *gorm.DB, req ProvisionRequest) (*ProvisionResult, error) {
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugRegex.MatchString(slug) {
		return nil, apierr.BadRequest("Slug must contain only lowercase letters, numbers, and hyphens (no leading/trailing hyphens)")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = slug
	}
	email := strings.ToLower(strings.TrimSpace(req.AdminEmail))
	if email == "" {
		return nil, apierr.BadRequest("Admin email is required")
	}

	result := &ProvisionResult{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("slug = ?", slug).First(&result.Organization).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			result.Organization = models.Organization{Name: name, Slug: slug, ExternalID: req.ExternalID}
			if err := tx.Create(&result.Organization).Error; err != nil {
				return fmt.Errorf("create organization: %w", err)
			}
			result.CreatedOrg = true
		case err != nil:
			return fmt.Errorf("find organization: %w", err)
		}

		err = tx.Where("email = ?", email).First(&result.Admin).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			hash := ""
			if req.AdminPassword != "" {
				if hash, err = auth.HashPassword(req.AdminPassword); err != nil {
					return fmt.Errorf("hash password: %w", err)
				}
			}
			adminName := strings.TrimSpace(req.AdminName)
			if adminName == "" {
				adminName = email
			}
			result.Admin = models.User{
				Email:        email,
				Name:         adminName,
				PasswordHash: hash,
				Active:       true,
				SystemRole:   models.SystemRoleUser,
			}
			if err := tx.Create(&result.Admin).Error; err != nil {
				return fmt.Errorf("create admin user: %w", err)
			}
			result.CreatedUser = true
		case err != nil:
			return fmt.Errorf("find admin user: %w", err)
		}

		var membership models.OrganizationMembership
		err = tx.Unscoped().
			Where("organization_id = ? AND user_id = ?", result.Organization.ID, result.Admin.ID).
			First(&membership).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			membership = models.OrganizationMembership{
				OrganizationID: result.Organization.ID,
				UserID:         result.Admin.ID,
				Role:           models.OrgRoleAdmin,
			}
			return tx.Create(&membership).Error
		case err != nil:
			return fmt.Errorf("find membership: %w", err)
		}
		return tx.Unscoped().Model(&membership).
			Updates(map[string]interface{}{"deleted_at": nil, "role": models.OrgRoleAdmin}).Error
	})
	if err != nil {
		return nil, database.Classify(err, "Organization not found", "Organization or user already exists")
	}

	zerolog.Ctx(ctx).Info().
		Uint("organization_id", result.Organization.ID).
		Str("slug", slug).
		Str("admin", email).
		Bool("created_org", result.CreatedOrg).
		Bool("created_user", result.CreatedUser).
		Msg("organization provisioned")
	return result, nil
}
