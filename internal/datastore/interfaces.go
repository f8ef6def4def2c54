// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/tphakala/plantarium-go/internal/conf"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Interface abstracts the underlying database implementation and defines the interface for database operations.
type Interface interface {
	Open() error
	Close() error

	// Locations
	GetAllLocations() ([]Location, error)
	GetLocation(id uint) (Location, error)
	GetLocationsByParent(parentID *uint) ([]Location, error)
	GetLocationsByLevel(level int) ([]Location, error)
	CreateLocation(location *Location) error
	GetLocationHierarchy() ([]*LocationWithPath, error)
	CountLocations() (int64, error)

	// Plants
	GetAllPlants() ([]PlantWithLocation, error)
	GetPlant(id string) (PlantWithLocation, error)
	SearchPlants(query string) ([]PlantWithLocation, error)
	FilterPlants(filter *PlantFilter) ([]PlantWithLocation, error)
	CreatePlant(plant *Plant) error
	SavePlant(plant *Plant) error
	UpdatePlant(id string, patch *PlantPatch) (Plant, error)
	DeletePlant(id string) (bool, error)
	CountPlants() (int64, error)
	CountPlantsByStatus() (map[string]int64, error)

	// Users
	GetUserByEmail(email string) (User, error)
	CreateUser(user *User) error

	// Transactions
	Transaction(fn func(tx Interface) error) error
	SavePoint(name string) error
	RollbackTo(name string) error
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB // GORM database instance
}

// New creates a new datastore instance based on the provided configuration.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			Settings: settings,
		}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{
			Settings: settings,
		}
	default:
		// Settings validation rejects this case before we get here
		return nil
	}
}

// Transaction runs fn inside a single database transaction. The Interface
// passed to fn is bound to the transaction, a non-nil error from fn rolls
// everything back.
func (ds *DataStore) Transaction(fn func(tx Interface) error) error {
	return ds.DB.Transaction(func(gtx *gorm.DB) error {
		return fn(&txStore{DataStore{DB: gtx}})
	})
}

// SavePoint marks a savepoint inside the current transaction.
func (ds *DataStore) SavePoint(name string) error {
	if err := ds.DB.SavePoint(name).Error; err != nil {
		return fmt.Errorf("creating savepoint %s: %w", name, err)
	}
	return nil
}

// RollbackTo rolls the current transaction back to a named savepoint.
func (ds *DataStore) RollbackTo(name string) error {
	if err := ds.DB.RollbackTo(name).Error; err != nil {
		return fmt.Errorf("rolling back to savepoint %s: %w", name, err)
	}
	return nil
}

// txStore is a transaction-bound store. Open and Close are no-ops since
// the connection lifecycle belongs to the enclosing dialect store.
type txStore struct {
	DataStore
}

func (s *txStore) Open() error  { return nil }
func (s *txStore) Close() error { return nil }

// performAutoMigration automates database migrations with error handling.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&Location{}, &Plant{}, &User{}); err != nil {
		return fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err)
	}

	if debug {
		log.Printf("%s database connection initialized: %s", dbType, connectionInfo)
	}

	return nil
}

// createGormLogger configures and returns a new GORM logger instance.
func createGormLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)
}
