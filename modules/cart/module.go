package cart

import (
	"context"
	"fmt"
	"log"

	"github.com/go-monolith/mono"

	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/storage"
)

// Module provides the cart engine.
type Module struct {
	storage *storage.Module
	service *Service
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a cart module.
func NewModule() *Module {
	return &Module{}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "cart"
}

// SetStorage wires the storage module owning the database handle.
func (m *Module) SetStorage(s *storage.Module) {
	m.storage = s
}

// Start builds the cart service on the shared database handle.
func (m *Module) Start(_ context.Context) error {
	if m.storage == nil || m.storage.GetDB() == nil {
		return fmt.Errorf("storage module not available")
	}
	m.service = NewService(m.storage.GetDB())
	log.Println("[cart] Module started")
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[cart] Module stopped")
	return nil
}

// Health reports whether the service is ready.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{Healthy: false, Message: "service not initialized"}
	}
	return mono.HealthStatus{Healthy: true, Message: "operational"}
}

// GetService returns the cart service. Nil before Start.
func (m *Module) GetService() *Service {
	return m.service
}
