package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate applies the idempotent hand-written migrations AutoMigrate cannot
// express:
// - composite unique key on rate_limit_records (user_id, endpoint, project_id)
// - retention index on rate_limit_records.window_start for the cleanup sweep
// - query indexes on audit_log_entries
// - CHECK constraints guarding the limiter invariants
func Migrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		indexes := []string{
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_rate_limits_key ON rate_limit_records (user_id, endpoint, project_id)`,
			`CREATE INDEX IF NOT EXISTS idx_rate_limits_window_start ON rate_limit_records (window_start)`,
			`CREATE INDEX IF NOT EXISTS idx_audit_project_created ON audit_log_entries (project_id, created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_audit_target_email ON audit_log_entries (target_user_email)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_members_project_user ON project_members (project_id, user_id)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		checks := []string{
			// A live counter always reflects at least the request that created it.
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'rate_limit_records'::regclass
					  AND conname  = 'chk_rate_limits_count_positive'
				) THEN
					ALTER TABLE rate_limit_records
					ADD CONSTRAINT chk_rate_limits_count_positive
					CHECK (request_count >= 1);
				END IF;
			END $$;`,
			// Audit actions are a closed vocabulary.
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'audit_log_entries'::regclass
					  AND conname  = 'chk_audit_action'
				) THEN
					ALTER TABLE audit_log_entries
					ADD CONSTRAINT chk_audit_action
					CHECK (action IN ('invite', 'role_change', 'remove', 'accept', 'decline'));
				END IF;
			END $$;`,
			// Material costs cannot go negative.
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'materials'::regclass
					  AND conname  = 'chk_materials_unit_cost_nonneg'
				) THEN
					ALTER TABLE materials
					ADD CONSTRAINT chk_materials_unit_cost_nonneg
					CHECK (unit_cost >= 0);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		// Money column type for materials (idempotent ALTER).
		if err := tx.Exec(`ALTER TABLE materials ALTER COLUMN unit_cost TYPE numeric(12,2)`).Error; err != nil {
			return fmt.Errorf("money type migration failed: %w", err)
		}

		return nil
	})
}
