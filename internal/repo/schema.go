package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tbourn/hospital-store/internal/domain"
)

// SchemaAction describes what EnsureSchema did to the file.
type SchemaAction int

const (
	// SchemaCreated means the file was fresh and the tables were created.
	SchemaCreated SchemaAction = iota + 1
	// SchemaCurrent means the stored version already matched.
	SchemaCurrent
	// SchemaUpgraded means every table was dropped and recreated; all
	// previously stored rows are gone.
	SchemaUpgraded
)

func (a SchemaAction) String() string {
	switch a {
	case SchemaCreated:
		return "created"
	case SchemaCurrent:
		return "current"
	case SchemaUpgraded:
		return "upgraded"
	default:
		return "unknown"
	}
}

// SchemaResult reports the outcome of EnsureSchema.
type SchemaResult struct {
	From   int
	To     int
	Action SchemaAction
}

// UserVersion reads PRAGMA user_version.
func UserVersion(ctx context.Context, db *gorm.DB) (int, error) {
	var v int
	if err := db.WithContext(ctx).Raw("PRAGMA user_version;").Row().Scan(&v); err != nil {
		return 0, err
	}
	return v, nil
}

func setUserVersion(ctx context.Context, db *gorm.DB, v int) error {
	// PRAGMA does not accept bound parameters.
	return db.WithContext(ctx).Exec(fmt.Sprintf("PRAGMA user_version = %d;", v)).Error
}

// AutoMigrate creates missing tables, columns and indexes for every model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(domain.AllModels()...)
}

// EnsureSchema brings the file to the target schema version.
//
//   - version 0 (fresh file): tables are created and the version is stamped.
//   - same version: tables are ensured idempotently.
//   - lower version: all six tables are dropped and recreated. Data is lost.
//   - higher version: ErrSchemaDowngrade, the file is left untouched.
//
// The drop and recreate run in one transaction.
func EnsureSchema(ctx context.Context, db *gorm.DB, target int) (SchemaResult, error) {
	from, err := UserVersion(ctx, db)
	if err != nil {
		return SchemaResult{}, err
	}
	res := SchemaResult{From: from, To: target}

	switch {
	case from > target:
		return res, fmt.Errorf("%w: stored %d, requested %d", ErrSchemaDowngrade, from, target)

	case from == target:
		res.Action = SchemaCurrent
		return res, AutoMigrate(db.WithContext(ctx))

	case from == 0:
		res.Action = SchemaCreated
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := AutoMigrate(tx); err != nil {
				return err
			}
			return setUserVersion(ctx, tx, target)
		})
		return res, err

	default:
		res.Action = SchemaUpgraded
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Migrator().DropTable(domain.AllModels()...); err != nil {
				return err
			}
			if err := AutoMigrate(tx); err != nil {
				return err
			}
			return setUserVersion(ctx, tx, target)
		})
		return res, err
	}
}
