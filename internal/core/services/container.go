package services

import (
	"github.com/billingapp/billing_backend/internal/core/domain"
	portsrepo "github.com/billingapp/billing_backend/internal/core/ports/repositories"
	portssvc "github.com/billingapp/billing_backend/internal/core/ports/services"
)

// NewServiceContainer creates a service container with properly initialized
// dependencies.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, clock domain.Clock) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Invoice: NewInvoiceService(repos.InvoiceRepo, clock),
	}
}
