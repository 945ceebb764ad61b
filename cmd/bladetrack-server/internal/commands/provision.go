package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mikepea/bladetrack/pkg/bladetrack/database"
	"github.com/mikepea/bladetrack/pkg/bladetrack/exports"
	"github.com/mikepea/bladetrack/pkg/bladetrack/logging"
	"github.com/mikepea/bladetrack/pkg/bladetrack/organizations"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// ProvisionCmd creates an organization with its first admin. Running it again
// with the same slug is safe and only fills in what is missing.
type ProvisionCmd struct {
	Slug          string `arg:"" help:"organization slug"`
	Name          string `help:"organization display name (defaults to the slug)"`
	ExternalID    string `help:"identity provider organization id" name:"external-id"`
	AdminEmail    string `help:"email of the organization admin" required:""`
	AdminName     string `help:"display name of the admin when the user is created"`
	AdminPassword string `help:"initial password when the user is created; leave empty for identity provider sign-in" env:"BLADETRACK_ADMIN_PASSWORD"`
	Seed          string `help:"YAML file listing saws and blades to create in the organization" type:"existingfile"`

	Database DatabaseFlags `embed:"" prefix:"db-"`
}

func (p *ProvisionCmd) Validate() error {
	if p.AdminPassword != "" && len(p.AdminPassword) < 8 {
		return errors.New("admin password must be at least 8 characters")
	}
	return nil
}

func (p *ProvisionCmd) Run(ctx context.Context, globals *Globals) error {
	log := logging.Setup(globals.Dev)
	ctx = log.WithContext(ctx)

	var err error
	var seed *seedFile
	if p.Seed != "" {
		if seed, err = loadSeed(p.Seed); err != nil {
			return err
		}
	}

	db, err := p.Database.open(ctx, log)
	if err != nil {
		return err
	}
	defer database.Close(db)

	result, err := organizations.Provision(ctx, db, organizations.ProvisionRequest{
		Name:          p.Name,
		Slug:          p.Slug,
		ExternalID:    p.ExternalID,
		AdminEmail:    p.AdminEmail,
		AdminName:     p.AdminName,
		AdminPassword: p.AdminPassword,
	})
	if err != nil {
		return err
	}

	log.Info().
		Uint("organization_id", result.Organization.ID).
		Str("slug", result.Organization.Slug).
		Bool("created_organization", result.CreatedOrg).
		Str("admin", result.Admin.Email).
		Bool("created_admin", result.CreatedUser).
		Msg("organization provisioned")

	if seed == nil {
		return nil
	}
	return seed.apply(ctx, db, result.Organization.ID)
}

// seedFile lists the saws and blades an organization starts with. Entries
// that already exist are skipped, so a file can be applied more than once.
type seedFile struct {
	Saws   []exports.ImportSaw   `yaml:"saws"`
	Blades []exports.ImportBlade `yaml:"blades"`
}

func loadSeed(path string) (*seedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var seed seedFile
	if err := dec.Decode(&seed); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return &seed, nil
}

func (s *seedFile) apply(ctx context.Context, db *gorm.DB, orgID uint) error {
	log := zerolog.Ctx(ctx)
	saws := exports.ImportSaws(ctx, db, orgID, s.Saws)
	blades := exports.ImportBlades(ctx, db, orgID, s.Blades)

	rejected := append(saws.Errors, blades.Errors...)
	for _, msg := range rejected {
		log.Warn().Str("entry", msg).Msg("seed entry rejected")
	}
	log.Info().
		Int("saws_created", saws.Imported).
		Int("saws_skipped", saws.Skipped).
		Int("blades_created", blades.Imported).
		Int("blades_skipped", blades.Skipped).
		Msg("organization seeded")

	if len(rejected) > 0 {
		return fmt.Errorf("seed: %d entries rejected", len(rejected))
	}
	return nil
}
