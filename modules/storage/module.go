package storage

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/cart"
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/catalog"
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/order"
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/user"
	"github.com/go-monolith/mono"
)

// Module owns the database handle for the whole application. It opens the
// connection and migrates the schema on Start, and closes the connection on
// Stop; feature modules receive the handle through GetDB instead of opening
// their own.
type Module struct {
	path string
	db   *gorm.DB
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a storage module for the given sqlite path.
func NewModule(path string) *Module {
	return &Module{path: path}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "storage"
}

// Start opens the database and migrates the schema.
func (m *Module) Start(_ context.Context) error {
	db, err := Open(m.path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	m.db = db
	log.Printf("[storage] Database ready at %s", m.path)
	return nil
}

// Stop closes the underlying connection.
func (m *Module) Stop(_ context.Context) error {
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	log.Println("[storage] Closing database...")
	return sqlDB.Close()
}

// Health reports database reachability.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{Healthy: false, Message: "database not opened"}
	}
	sqlDB, err := m.db.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		return mono.HealthStatus{Healthy: false, Message: err.Error()}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"path": m.path},
	}
}

// GetDB returns the shared database handle. Nil before Start.
func (m *Module) GetDB() *gorm.DB {
	return m.db
}

// Open opens a sqlite database at path and migrates the schema. Unique-index
// violations are translated to gorm.ErrDuplicatedKey so repositories can map
// them to domain errors. Transactions take the write lock at BEGIN
// (_txlock=immediate) so concurrent writers queue on the busy timeout instead
// of deadlocking after their reads.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn(path)), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&catalog.Category{},
		&catalog.Product{},
		&cart.Cart{},
		&order.Order{},
		&user.User{},
		&user.Address{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return db, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_busy_timeout=5000&_txlock=immediate"
}
