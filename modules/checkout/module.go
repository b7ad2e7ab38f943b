package checkout

import (
	"context"
	"fmt"
	"log"

	"github.com/go-monolith/mono"

	"github.com/Lingikaushikreddy/ALEESABETHNIC-WEAR/modules/storage"
)

// Module provides the checkout workflow and order management.
type Module struct {
	storage *storage.Module
	service *Service
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a checkout module.
func NewModule() *Module {
	return &Module{}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "checkout"
}

// SetStorage wires the storage module owning the database handle.
func (m *Module) SetStorage(s *storage.Module) {
	m.storage = s
}

// Start builds the checkout service on the shared database handle.
func (m *Module) Start(_ context.Context) error {
	if m.storage == nil || m.storage.GetDB() == nil {
		return fmt.Errorf("storage module not available")
	}
	service, err := NewService(m.storage.GetDB())
	if err != nil {
		return fmt.Errorf("create checkout service: %w", err)
	}
	m.service = service
	log.Println("[checkout] Module started")
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[checkout] Module stopped")
	return nil
}

// Health reports whether the service is ready.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{Healthy: false, Message: "service not initialized"}
	}
	return mono.HealthStatus{Healthy: true, Message: "operational"}
}

// GetService returns the checkout service. Nil before Start.
func (m *Module) GetService() *Service {
	return m.service
}
