package services

import (
	"time"

	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoice_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoice_management_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_management_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// renderer may be nil, in which case PDF rendering answers with an internal error.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, renderer portssvc.DocumentRenderer) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg)
	container.GoogleOAuth = NewGoogleOAuthService(cfg)
	container.Client = NewClientService(repos.ClientRepo)
	container.Product = NewProductService(repos.ProductRepo)
	container.Settings = NewSettingsService(repos.SettingsRepo)
	container.Analytics = NewAnalyticsService(repos.AnalyticsRepo)

	container.Numbering = NewNumberingService(repos.CounterRepo, domain.NumberFormat{
		Template: cfg.InvoiceNumberTemplate,
		Pad:      cfg.InvoiceNumberPad,
		PerOwner: cfg.InvoiceNumberPerOwner,
	})

	opts := []InvoiceServiceOption{
		WithNumberConflictRetries(defaultNumberConflictRetries, 25*time.Millisecond),
	}
	if cfg.CurrencyLabel != "" {
		opts = append(opts, WithCurrencyLabel(cfg.CurrencyLabel))
	}
	if renderer != nil {
		opts = append(opts, WithDocumentRenderer(renderer))
	}
	container.Invoice = NewInvoiceService(
		repos.InvoiceRepo,
		repos.ClientRepo,
		repos.ProductRepo,
		repos.UserRepo,
		repos.SettingsRepo,
		container.Numbering,
		opts...,
	)

	return container
}
