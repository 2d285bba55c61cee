package catalog

import "github.com/slok/opsim/internal/model"

// DefaultEntries returns the built-in database maintenance stage lists.
func DefaultEntries() []model.CatalogEntry {
	return []model.CatalogEntry{
		{
			ResourceKind:  model.WildcardResourceKind,
			OperationKind: "migration",
			Stages: model.StageList{
				{ID: "validation", Name: "Pre-Migration Validation", Description: "Validating source and target connectivity", EstimatedDuration: "2-3 min"},
				{ID: "backup", Name: "Backup Creation", Description: "Creating backup of source database", EstimatedDuration: "5-10 min"},
				{ID: "schema", Name: "Schema Migration", Description: "Migrating database schema", EstimatedDuration: "3-5 min"},
				{ID: "data", Name: "Data Transfer", Description: "Transferring data to target", EstimatedDuration: "15-30 min"},
				{ID: "verification", Name: "Data Verification", Description: "Verifying data integrity", EstimatedDuration: "5-8 min"},
			},
		},
		{
			ResourceKind:  model.WildcardResourceKind,
			OperationKind: "upstep",
			Stages: model.StageList{
				{ID: "preparation", Name: "Upgrade Preparation", Description: "Preparing for version upgrade", EstimatedDuration: "3-5 min"},
				{ID: "backup", Name: "System Backup", Description: "Creating full system backup", EstimatedDuration: "10-15 min"},
				{ID: "upgrade", Name: "Version Upgrade", Description: "Upgrading to target version", EstimatedDuration: "20-30 min"},
				{ID: "optimization", Name: "Post-Upgrade Optimization", Description: "Optimizing for new version", EstimatedDuration: "5-10 min"},
				{ID: "testing", Name: "System Testing", Description: "Running compatibility tests", EstimatedDuration: "5-8 min"},
			},
		},
		{
			ResourceKind:  model.WildcardResourceKind,
			OperationKind: "creation",
			Stages: model.StageList{
				{ID: "provisioning", Name: "Resource Provisioning", Description: "Allocating compute and storage", EstimatedDuration: "5-8 min"},
				{ID: "installation", Name: "Database Installation", Description: "Installing database software", EstimatedDuration: "10-15 min"},
				{ID: "configuration", Name: "Initial Configuration", Description: "Setting up initial configuration", EstimatedDuration: "3-5 min"},
				{ID: "security", Name: "Security Setup", Description: "Configuring security settings", EstimatedDuration: "5-8 min"},
				{ID: "validation", Name: "Instance Validation", Description: "Validating instance health", EstimatedDuration: "2-3 min"},
			},
		},
		{
			ResourceKind:  model.WildcardResourceKind,
			OperationKind: "modification",
			Stages: model.StageList{
				{ID: "analysis", Name: "Change Analysis", Description: "Analyzing proposed modifications", EstimatedDuration: "2-3 min"},
				{ID: "backup", Name: "Safety Backup", Description: "Creating backup before changes", EstimatedDuration: "5-10 min"},
				{ID: "implementation", Name: "Change Implementation", Description: "Applying modifications", EstimatedDuration: "10-20 min"},
				{ID: "testing", Name: "Impact Testing", Description: "Testing modification impact", EstimatedDuration: "5-8 min"},
				{ID: "monitoring", Name: "Post-Change Monitoring", Description: "Monitoring system stability", EstimatedDuration: "3-5 min"},
			},
		},
		{
			ResourceKind:  "rds",
			OperationKind: "migration",
			Stages: model.StageList{
				{ID: "phase1", Name: "Pre-Migration Validation", Description: "Validating source database and connectivity", EstimatedDuration: "2-3 minutes"},
				{ID: "phase2", Name: "Snapshot Creation", Description: "Creating database snapshot for backup", EstimatedDuration: "5-10 minutes"},
				{ID: "phase3", Name: "Target Database Setup", Description: "Provisioning target database instance", EstimatedDuration: "8-12 minutes"},
				{ID: "phase4", Name: "Schema Migration", Description: "Migrating database schema and structure", EstimatedDuration: "3-5 minutes"},
				{ID: "phase5", Name: "Data Transfer", Description: "Transferring data to target database", EstimatedDuration: "15-30 minutes"},
				{ID: "phase6", Name: "Index Reconstruction", Description: "Rebuilding indexes and constraints", EstimatedDuration: "5-8 minutes"},
				{ID: "phase7", Name: "Performance Optimization", Description: "Optimizing performance settings", EstimatedDuration: "2-3 minutes"},
				{ID: "phase8", Name: "Post-Migration Validation", Description: "Validating migration and running tests", EstimatedDuration: "3-5 minutes"},
			},
		},
	}
}

// Default returns the built-in catalog.
func Default() *Static {
	c, err := NewStatic(DefaultEntries())
	if err != nil {
		panic(err) // Built-in entries are always valid.
	}
	return c
}
