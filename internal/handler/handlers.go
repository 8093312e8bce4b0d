package handler

import (
	"github.com/Jarolccis/agreements-core-api/internal/server"
	"github.com/Jarolccis/agreements-core-api/internal/service"
)

// Handlers groups all HTTP handlers so router setup passes one object
// around instead of many.
type Handlers struct {
	Health     *HealthHandler
	OpenAPI    *OpenAPIHandler
	Stores     *StoresHandler
	Modules    *ModulesHandler
	Lookups    *LookupsHandler
	Agreements *AgreementsHandler
	BulkUpload *BulkUploadHandler
	MasterData *MasterDataHandler
	SKUs       *SKUsHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(s),
		OpenAPI:    NewOpenAPIHandler(s),
		Stores:     NewStoresHandler(s, services.Stores),
		Modules:    NewModulesHandler(s, services.Modules),
		Lookups:    NewLookupsHandler(s, services.Lookups),
		Agreements: NewAgreementsHandler(s, services.Agreements),
		BulkUpload: NewBulkUploadHandler(s, services.BulkUpload, services.Permissions),
		MasterData: NewMasterDataHandler(s, services.MasterData),
		SKUs:       NewSKUsHandler(s, services.SKUs),
	}
}
