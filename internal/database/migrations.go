package database

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/oxidgene/oxidgene/internal/domain"
)

const migrationInitialSchema = "2025-06-01_initial_schema"

type migrationRecord struct {
	Name             string `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null"`
}

func (migrationRecord) TableName() string {
	return "schema_migrations"
}

type migrationDefinition struct {
	name string
	up   func(*gorm.DB) error
	down func(*gorm.DB) error
}

// migrations is the totally ordered migration list. Append only; never
// reorder or edit an entry that has shipped.
var migrations = []migrationDefinition{
	{name: migrationInitialSchema, up: createInitialSchema, down: dropInitialSchema},
}

// schemaModels lists every table of the genealogy schema in FK-safe
// creation order.
var schemaModels = []any{
	&domain.Tree{},
	&domain.Person{},
	&domain.PersonName{},
	&domain.Family{},
	&domain.FamilySpouse{},
	&domain.FamilyChild{},
	&domain.Place{},
	&domain.Event{},
	&domain.Source{},
	&domain.Citation{},
	&domain.Media{},
	&domain.MediaLink{},
	&domain.Note{},
	&domain.PersonAncestry{},
}

// RunMigrations applies every pending migration, each inside its own
// transaction. Rerunning a completed migration is a no-op.
func RunMigrations(db *gorm.DB, logger *zap.Logger) error {
	if err := db.AutoMigrate(&migrationRecord{}); err != nil {
		return err
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		txErr := db.Transaction(func(tx *gorm.DB) error {
			if err := migration.up(tx); err != nil {
				return err
			}
			appliedAt := time.Now().UTC().Unix()
			return tx.Create(&migrationRecord{Name: migration.name, AppliedAtSeconds: appliedAt}).Error
		})
		if txErr != nil {
			return txErr
		}
		if logger != nil {
			logger.Info("database migration applied", zap.String("migration", migration.name))
		}
	}
	return nil
}

// RollbackMigrations reverts every applied migration in reverse order,
// leaving an empty database.
func RollbackMigrations(db *gorm.DB, logger *zap.Logger) error {
	if !db.Migrator().HasTable(&migrationRecord{}) {
		return nil
	}

	for i := len(migrations) - 1; i >= 0; i-- {
		migration := migrations[i]
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		txErr := db.Transaction(func(tx *gorm.DB) error {
			if err := migration.down(tx); err != nil {
				return err
			}
			return tx.Where("name = ?", migration.name).Delete(&migrationRecord{}).Error
		})
		if txErr != nil {
			return txErr
		}
		if logger != nil {
			logger.Info("database migration rolled back", zap.String("migration", migration.name))
		}
	}
	return nil
}

func createInitialSchema(tx *gorm.DB) error {
	return tx.AutoMigrate(schemaModels...)
}

func dropInitialSchema(tx *gorm.DB) error {
	for i := len(schemaModels) - 1; i >= 0; i-- {
		if err := tx.Migrator().DropTable(schemaModels[i]); err != nil {
			return err
		}
	}
	return nil
}
