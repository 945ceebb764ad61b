package oidc

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"github.com/gregjones/httpcache"
	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"github.com/mikepea/bladetrack/pkg/bladetrack/auth"
	"github.com/mikepea/bladetrack/pkg/bladetrack/database"
	"github.com/mikepea/bladetrack/pkg/bladetrack/models"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// stateTTL bounds how long a user may spend at the identity provider
const stateTTL = 10 * time.Minute

// Config describes the single identity provider operators sign in through
type Config struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	// BaseURL is the externally visible address of this server
	BaseURL string
	Scopes  []string
	// OrgClaim names the ID token claim carrying the organization's
	// external id. RoleClaim carries the role within that organization.
	OrgClaim  string
	RoleClaim string
	// AutoProvision creates unknown users on first sign-in
	AutoProvision bool
}

// Handler handles sign-in through an OpenID Connect provider
type Handler struct {
	db       *gorm.DB
	tokens   *auth.Tokens
	cfg      Config
	oauth    oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewHandler discovers the provider and prepares the OAuth2 client
func NewHandler(ctx context.Context, db *gorm.DB, tokens *auth.Tokens, cfg Config) (*Handler, error) {
	// Discovery and key set fetches honour the provider's Cache-Control
	ctx = oidc.ClientContext(ctx, newCachingClient())
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", cfg.Issuer, err)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}
	if cfg.OrgClaim == "" {
		cfg.OrgClaim = "org_id"
	}
	if cfg.RoleClaim == "" {
		cfg.RoleClaim = "org_role"
	}

	return &Handler{
		db:     db,
		tokens: tokens,
		cfg:    cfg,
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  strings.TrimSuffix(cfg.BaseURL, "/") + "/api/auth/oidc/callback",
			Scopes:       scopes,
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

// identity is what the ID token tells us about the operator
type identity struct {
	Subject   string
	Email     string
	Name      string
	OrgID     string
	OrgAdmin  bool
	HasOrgTag bool
}

// GetAuthURL returns the provider URL the browser should be sent to
// @Summary Start identity provider sign-in
// @Tags auth
// @Produce json
// @Param return_url query string false "Relative path to return to with the token"
// @Success 200 {object} map[string]string
// @Failure 400 {object} apierr.Response
// @Router /auth/oidc/url [get]
func (h *Handler) GetAuthURL(c *gin.Context) {
	returnURL := c.Query("return_url")
	if returnURL != "" && !isLocalPath(returnURL) {
		apierr.Respond(c, apierr.BadRequest("return_url must be a relative path"))
		return
	}

	nonce, err := randomString(32)
	if err != nil {
		apierr.Respond(c, apierr.Internal("Failed to generate nonce", err))
		return
	}
	state, err := h.tokens.GenerateFlow(nonce, returnURL, stateTTL)
	if err != nil {
		apierr.Respond(c, apierr.Internal("Failed to generate state", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"auth_url": h.oauth.AuthCodeURL(state, oidc.Nonce(nonce))})
}

// Callback completes the sign-in and issues a session token
// @Summary Identity provider callback
// @Tags auth
// @Produce json
// @Param state query string true "State returned by the provider"
// @Param code query string true "Authorization code"
// @Success 200 {object} auth.AuthResponse
// @Success 302
// @Failure 400 {object} apierr.Response
// @Failure 403 {object} apierr.Response
// @Router /auth/oidc/callback [get]
func (h *Handler) Callback(c *gin.Context) {
	ctx := c.Request.Context()
	log := zerolog.Ctx(ctx)

	flow, err := h.tokens.ValidateFlow(c.Query("state"))
	if err != nil {
		apierr.Respond(c, apierr.BadRequest("Invalid or expired state"))
		return
	}

	code := c.Query("code")
	if code == "" {
		desc := c.Query("error_description")
		if desc == "" {
			desc = c.Query("error")
		}
		apierr.Respond(c, apierr.BadRequest("Authentication failed: "+desc))
		return
	}

	token, err := h.oauth.Exchange(ctx, code)
	if err != nil {
		log.Warn().Err(err).Msg("oidc code exchange failed")
		apierr.Respond(c, apierr.Unauthenticated("Failed to exchange authorization code"))
		return
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		apierr.Respond(c, apierr.Unauthenticated("No ID token in provider response"))
		return
	}
	idToken, err := h.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		log.Warn().Err(err).Msg("oidc id token rejected")
		apierr.Respond(c, apierr.Unauthenticated("Invalid ID token"))
		return
	}
	if idToken.Nonce != flow.Nonce {
		apierr.Respond(c, apierr.BadRequest("Invalid nonce"))
		return
	}

	id, err := h.readIdentity(idToken)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	user, err := h.findOrCreateUser(ctx, id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	if !user.Active {
		apierr.Respond(c, apierr.Forbidden("User account is deactivated"))
		return
	}

	orgID, err := h.syncMembership(ctx, user, id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	session, err := h.tokens.Generate(user.ID, user.Email, string(user.SystemRole), orgID)
	if err != nil {
		apierr.Respond(c, apierr.Internal("Failed to generate token", err))
		return
	}

	log.Info().
		Uint("user_id", user.ID).
		Uint("organization_id", orgID).
		Str("subject", id.Subject).
		Msg("oidc sign-in")

	if flow.ReturnURL != "" {
		c.Redirect(http.StatusFound, flow.ReturnURL+"#token="+session)
		return
	}
	c.JSON(http.StatusOK, auth.AuthResponse{
		Token: session,
		User: auth.UserResponse{
			ID:         user.ID,
			Email:      user.Email,
			Name:       user.Name,
			SystemRole: string(user.SystemRole),
		},
		OrganizationID: orgID,
	})
}

func (h *Handler) readIdentity(idToken *oidc.IDToken) (identity, error) {
	var claims map[string]interface{}
	if err := idToken.Claims(&claims); err != nil {
		return identity{}, apierr.Internal("Failed to parse claims", err)
	}

	id := identity{Subject: idToken.Subject}
	id.Email = strings.ToLower(strings.TrimSpace(stringClaim(claims, "email")))
	if id.Email == "" {
		return identity{}, apierr.BadRequest("Email not provided by identity provider")
	}
	id.Name = stringClaim(claims, "name")
	if id.Name == "" {
		id.Name = strings.TrimSpace(stringClaim(claims, "given_name") + " " + stringClaim(claims, "family_name"))
	}
	if id.Name == "" {
		id.Name = strings.Split(id.Email, "@")[0]
	}
	id.OrgID = stringClaim(claims, h.cfg.OrgClaim)
	id.HasOrgTag = id.OrgID != ""
	id.OrgAdmin = strings.EqualFold(stringClaim(claims, h.cfg.RoleClaim), string(models.OrgRoleAdmin))
	return id, nil
}

// findOrCreateUser resolves the subject to a user, linking an existing account
// by email on first sign-in
func (h *Handler) findOrCreateUser(ctx context.Context, id identity) (*models.User, error) {
	db := h.db.WithContext(ctx)

	var user models.User
	err := db.Where("external_id = ?", id.Subject).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !database.IsNotFound(err) {
		return nil, apierr.Internal("Failed to look up user", err)
	}

	err = db.Where("email = ?", id.Email).First(&user).Error
	switch {
	case err == nil:
		if user.ExternalID != "" {
			return nil, apierr.Conflict("Email is linked to another identity")
		}
		if err := db.Model(&user).Update("external_id", id.Subject).Error; err != nil {
			return nil, apierr.Internal("Failed to link identity", err)
		}
		return &user, nil
	case !database.IsNotFound(err):
		return nil, apierr.Internal("Failed to look up user", err)
	}

	if !h.cfg.AutoProvision {
		return nil, apierr.Forbidden("No account for this identity")
	}
	user = models.User{
		ExternalID: id.Subject,
		Email:      id.Email,
		Name:       id.Name,
		Active:     true,
		SystemRole: models.SystemRoleUser,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, database.Classify(err, "User not found", "User already exists")
	}
	return &user, nil
}

// syncMembership applies the organization claim and returns the organization
// the session starts in
func (h *Handler) syncMembership(ctx context.Context, user *models.User, id identity) (uint, error) {
	db := h.db.WithContext(ctx)

	if !id.HasOrgTag {
		var memberships []models.OrganizationMembership
		if err := db.Where("user_id = ?", user.ID).Find(&memberships).Error; err != nil {
			return 0, apierr.Internal("Failed to fetch organizations", err)
		}
		if len(memberships) == 1 {
			return memberships[0].OrganizationID, nil
		}
		return 0, nil
	}

	var org models.Organization
	if err := db.Where("external_id = ?", id.OrgID).First(&org).Error; err != nil {
		if database.IsNotFound(err) {
			return 0, apierr.NoOrganization("Organization is not provisioned")
		}
		return 0, apierr.Internal("Failed to look up organization", err)
	}

	role := models.OrgRoleMember
	if id.OrgAdmin {
		role = models.OrgRoleAdmin
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var existing models.OrganizationMembership
		err := tx.Unscoped().
			Where("organization_id = ? AND user_id = ?", org.ID, user.ID).
			First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Omit("User", "Organization").Create(&models.OrganizationMembership{
				OrganizationID: org.ID,
				UserID:         user.ID,
				Role:           role,
			}).Error
		case err != nil:
			return err
		}
		return tx.Unscoped().Model(&existing).
			Updates(map[string]interface{}{"deleted_at": nil, "role": role}).Error
	})
	if err != nil {
		return 0, database.Classify(err, "Membership not found", "Membership already exists")
	}
	return org.ID, nil
}

// RegisterRoutes registers the public sign-in routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/url", h.GetAuthURL)
	rg.GET("/callback", h.Callback)
}

func newCachingClient() *http.Client {
	return &http.Client{
		Transport: httpcache.NewTransport(httpcache.NewMemoryCache()),
		Timeout:   30 * time.Second,
	}
}

func stringClaim(claims map[string]interface{}, name string) string {
	switch v := claims[name].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	return ""
}

func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.Contains(p, "\\")
}

func randomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}
