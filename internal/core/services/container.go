package services

import (
	portsrepo "github.com/mantrahq/mantra_journal_app/internal/core/ports/repositories"
	portssvc "github.com/mantrahq/mantra_journal_app/internal/core/ports/services"
	"github.com/mantrahq/mantra_journal_app/internal/platform/config"
)

// NewServiceContainer creates all services with properly initialized
// dependencies. The auth service still needs Initialize once the identity
// provider has been constructed.
func NewServiceContainer(
	entryRepo portsrepo.EntryRepositoryFacade,
	prefRepo portsrepo.PreferenceRepositoryFacade,
	cfg *config.Config,
) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Journal: NewJournalService(entryRepo),
		Auth:    NewAuthService(prefRepo),
		Mantra:  NewMantraService(cfg.MantraDailyLimit),
	}
}
