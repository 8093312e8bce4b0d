// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data
package service

import (
	"github.com/Jarolccis/agreements-core-api/internal/lib/email"
	"github.com/Jarolccis/agreements-core-api/internal/lib/job"
	"github.com/Jarolccis/agreements-core-api/internal/repository"
	"github.com/Jarolccis/agreements-core-api/internal/server"
	"github.com/jonboulle/clockwork"
)

type Services struct {
	Stores      *StoresService
	Modules     *ModulesService
	Lookups     *LookupsService
	Agreements  *AgreementsService
	BulkUpload  *BulkUploadService
	MasterData  *MasterDataService
	SKUs        *SKUsService
	Permissions *PermissionsService
	Job         *job.JobService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	emailClient := email.NewClient(s.Config, s.Logger)

	return &Services{
		Stores:     NewStoresService(s, repos.Stores),
		Modules:    NewModulesService(s, repos.Modules),
		Lookups:    NewLookupsService(s, repos.Lookups),
		Agreements: NewAgreementsService(s, repos.Agreements),
		BulkUpload: NewBulkUploadService(
			s, repos.BulkUpload, repos.Agreements, repos.Lookups,
			repos.Stores, repos.SKUs, emailClient, clockwork.NewRealClock(),
		),
		MasterData:  NewMasterDataService(s, repos.MasterData),
		SKUs:        NewSKUsService(s, repos.SKUs),
		Permissions: NewPermissionsService(s, repos.Permissions),
		Job:         s.Job,
	}, nil
}
