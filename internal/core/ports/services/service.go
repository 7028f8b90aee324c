package services

// ServiceContainer holds all the services handlers depend on.
type ServiceContainer struct {
	Journal JournalSvcFacade
	Auth    AuthSvcFacade
	Mantra  MantraSvcFacade
}
