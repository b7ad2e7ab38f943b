package catalog

import (
	"context"
	"fmt"
	"log"

	"github.com/go-monolith/mono"

	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/domain/catalog"
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/cache"
	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/storage"
)

// Module provides catalog browsing and admin product management.
type Module struct {
	storage *storage.Module
	cache   *cache.Module
	service *Service
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a catalog module.
func NewModule() *Module {
	return &Module{}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "catalog"
}

// SetStorage wires the storage module owning the database handle.
func (m *Module) SetStorage(s *storage.Module) {
	m.storage = s
}

// SetCacheModule wires the optional cache module.
func (m *Module) SetCacheModule(c *cache.Module) {
	m.cache = c
}

// Start builds the catalog service on the shared database handle.
func (m *Module) Start(_ context.Context) error {
	if m.storage == nil || m.storage.GetDB() == nil {
		return fmt.Errorf("storage module not available")
	}

	var c *cache.Cache
	if m.cache != nil {
		c = m.cache.GetCache()
	}
	m.service = NewService(catalog.NewRepository(m.storage.GetDB()), c)

	if c != nil {
		log.Println("[catalog] Module started (cache enabled)")
	} else {
		log.Println("[catalog] Module started (cache disabled)")
	}
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[catalog] Module stopped")
	return nil
}

// Health reports whether the service is ready.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{Healthy: false, Message: "service not initialized"}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"cache": m.cache != nil && m.cache.GetCache() != nil},
	}
}

// GetService returns the catalog service. Nil before Start.
func (m *Module) GetService() *Service {
	return m.service
}
