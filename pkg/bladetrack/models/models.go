package models

import "gorm.io/gorm"

// AllModels returns all models for migration
// Note: Organization must be migrated first as other models depend on it
func AllModels() []interface{} {
	return []interface{}{
		&Organization{},
		&User{},
		&OrganizationMembership{},
		&APIKey{},
		&Saw{},
		&BladeType{},
		&SawBlade{},
		&BladeInstall{},
		&BladeRunLog{},
		&BladeService{},
	}
}

// AutoMigrate runs GORM auto-migration for all models.
// The partial unique indexes on blade_installs are part of the model tags, so
// the single-occupancy rule is enforced by the datastore as well.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
