package repository

import (
	"github.com/Jarolccis/agreements-core-api/internal/server"
)

// Repositories is the container for all repository instances.
type Repositories struct {
	Stores      StoresRepository
	Modules     ModulesRepository
	Lookups     LookupsRepository
	Agreements  AgreementsRepository
	BulkUpload  BulkUploadRepository
	SKUs        SKUsRepository
	MasterData  MasterDataRepository
	Permissions PermissionsRepository
}

// NewRepositories constructs the repository container on top of the shared
// connection pool. Lookup reads go through a redis cache.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Stores:      NewPostgresStoresRepository(s.DB.Pool),
		Modules:     NewPostgresModulesRepository(s.DB.Pool),
		Lookups:     NewCachedLookupsRepository(NewPostgresLookupsRepository(s.DB.Pool), s.Redis, s.Logger),
		Agreements:  NewPostgresAgreementsRepository(s.DB.Pool),
		BulkUpload:  NewPostgresBulkUploadRepository(s.DB.Pool),
		SKUs:        NewPostgresSKUsRepository(s.DB.Pool),
		MasterData:  NewPostgresMasterDataRepository(s.DB.Pool),
		Permissions: NewPostgresPermissionsRepository(s.DB.Pool),
	}
}
