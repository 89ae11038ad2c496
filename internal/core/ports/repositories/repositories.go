package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	UserRepo      UserRepositoryFacade
	ClientRepo    ClientRepositoryFacade
	ProductRepo   ProductRepositoryFacade
	InvoiceRepo   InvoiceRepositoryWithTx
	CounterRepo   CounterRepository
	SettingsRepo  SettingsRepository
	AnalyticsRepo AnalyticsRepository
}
